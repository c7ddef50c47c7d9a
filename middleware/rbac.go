package middleware

import (
	"fmt"

	"direct-messenger/utils"

	"github.com/gofiber/fiber/v2"
)

// Enforcer decides whether a subject may call a method on a path.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// RBAC enforces the casbin policy for the authenticated user.
func RBAC(enforcer Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _, err := utils.LocalsClaims(c)
		if err != nil {
			return reject(c, fiber.StatusUnauthorized, "Invalid or expired JWT")
		}

		accepted, err := enforcer.Enforce(fmt.Sprint(id), c.Path(), c.Method())
		if err != nil {
			return reject(c, fiber.StatusInternalServerError, "Internal server error")
		}
		if !accepted {
			return reject(c, fiber.StatusForbidden, "Unauthorized")
		}

		return c.Next()
	}
}
