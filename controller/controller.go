// Package controller holds the fiber REST handlers. Every response uses the
// {status, message, data} envelope.
package controller

import (
	"context"

	"direct-messenger/messenger"
	"direct-messenger/presence"
	"direct-messenger/store"
	"direct-messenger/utils"

	"github.com/gofiber/fiber/v2"
)

// RoleAssigner records a user's role for RBAC checks.
type RoleAssigner interface {
	AddGroupingPolicy(params ...interface{}) (bool, error)
}

// TokenStore keeps the single valid refresh token of each user.
type TokenStore interface {
	Save(ctx context.Context, userID uint, refresh string) error
	Lookup(ctx context.Context, userID uint) (string, error)
}

type Controller struct {
	store     *store.Store
	messenger *messenger.Handler
	presence  *presence.Registry
	tokens    TokenStore
	roles     RoleAssigner
}

func New(s *store.Store, handler *messenger.Handler, registry *presence.Registry, tokens TokenStore, roles RoleAssigner) *Controller {
	return &Controller{
		store:     s,
		messenger: handler,
		presence:  registry,
		tokens:    tokens,
		roles:     roles,
	}
}

func success(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
	})
}

func internal(c *fiber.Ctx) error {
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

// userID reads the caller's id from the verified access token.
func userID(c *fiber.Ctx) (uint, error) {
	id, _, err := utils.LocalsClaims(c)
	return id, err
}
