package controller

import (
	"errors"

	"direct-messenger/store"

	"github.com/gofiber/fiber/v2"
)

// AdminConversationDelete removes a conversation together with its messages.
func (ctl *Controller) AdminConversationDelete(c *fiber.Ctx) error {
	err := ctl.store.DeleteConversation(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "Conversation not found")
	}
	if err != nil {
		return internal(c)
	}

	return success(c, nil)
}

// AdminPresence reports the live connection count of every online user.
func (ctl *Controller) AdminPresence(c *fiber.Ctx) error {
	return success(c, fiber.Map{
		"connections": ctl.presence.Connections(),
	})
}
