package controller

import (
	"errors"
	"strings"

	"direct-messenger/messenger"
	"direct-messenger/store"

	"github.com/gofiber/fiber/v2"
)

type ConversationCreateInput struct {
	PartnerNickname string `json:"partnerNickname"`
}

// ConversationList returns the caller's conversations, most recent activity
// first.
func (ctl *Controller) ConversationList(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return internal(c)
	}

	conversations, err := ctl.store.ConversationsOf(c.UserContext(), id)
	if err != nil {
		return internal(c)
	}

	return success(c, conversations)
}

// ConversationCreate opens the conversation with a partner, or returns the
// existing one.
func (ctl *Controller) ConversationCreate(c *fiber.Ctx) error {
	input := new(ConversationCreateInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	id, err := userID(c)
	if err != nil {
		return internal(c)
	}

	ctx := c.UserContext()
	partner, err := ctl.store.UserByNickname(ctx, strings.TrimSpace(input.PartnerNickname))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return internal(c)
	}

	conversation, created, err := ctl.store.OpenConversation(ctx, id, partner.ID)
	if errors.Is(err, store.ErrSelfConversation) {
		return fail(c, fiber.StatusBadRequest, "Cannot start a conversation with yourself")
	}
	if err != nil {
		return internal(c)
	}

	if created {
		c.Status(fiber.StatusCreated)
	}
	return success(c, conversation)
}

// ConversationMessages pages through a conversation's history the same way
// the get_messages event does.
func (ctl *Controller) ConversationMessages(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return internal(c)
	}

	history, err := ctl.messenger.History(c.UserContext(), id, messenger.GetMessagesInput{
		ConversationID: c.Params("conversationId"),
		Page:           c.QueryInt("page", messenger.DefaultPage),
		Limit:          c.QueryInt("limit", messenger.DefaultHistoryLimit),
	})
	var e *messenger.Error
	if errors.As(err, &e) && e.Details == "" {
		return fail(c, fiber.StatusNotFound, e.Message)
	}
	if err != nil {
		return internal(c)
	}

	return success(c, history)
}
