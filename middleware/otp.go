package middleware

import (
	"direct-messenger/utils"

	"github.com/gofiber/fiber/v2"
)

// OTP refuses tokens issued before the second factor was validated.
func OTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, pending, err := utils.LocalsClaims(c)
		if err != nil {
			return reject(c, fiber.StatusUnauthorized, "Invalid or expired JWT")
		}
		if pending {
			return reject(c, fiber.StatusBadRequest, "2FA required")
		}

		return c.Next()
	}
}
