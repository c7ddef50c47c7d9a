package controller

import (
	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) UserProfile(c *fiber.Ctx) error {
	user, err := ctl.caller(c)
	if err != nil {
		return internal(c)
	}

	return success(c, fiber.Map{
		"id":       user.ID,
		"created":  user.CreatedAt.Unix(),
		"nickname": user.Nickname,
		"email":    user.Email,
		"avatar":   user.Avatar,
		"role":     user.Role,
		"otp":      user.OtpEnabled,
	})
}

// UsersOnline lists users holding at least one live connection on this node.
func (ctl *Controller) UsersOnline(c *fiber.Ctx) error {
	return success(c, fiber.Map{
		"users": ctl.presence.Online(),
	})
}
