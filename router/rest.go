package router

import (
	"time"

	"direct-messenger/config"
	"direct-messenger/controller"
	"direct-messenger/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Rest(app *fiber.App, ctl *controller.Controller, enforcer middleware.Enforcer, limiter *middleware.LimiterStore) {
	api := app.Group("/v1", logger.New())

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(limiter), ctl.AuthSignup)
	auth.Post("/signin", middleware.RateLimit(limiter), ctl.AuthSignin)
	auth.Post("/token/renew", ctl.AuthTokenRenew)
	auth.Post("/2fa/secret", middleware.JWT(), middleware.OTP(), ctl.AuthOtpSecret)
	auth.Post("/2fa/verify", middleware.JWT(), middleware.OTP(), ctl.AuthOtpVerify)
	auth.Post("/2fa/validate", middleware.JWT(), middleware.RateLimit(limiter), ctl.AuthOtpValidate)
	auth.Post("/2fa/disable", middleware.JWT(), middleware.OTP(), ctl.AuthOtpDisable)

	// User
	user := api.Group("/user", middleware.JWT(), middleware.OTP())
	user.Get("/profile", ctl.UserProfile)

	users := api.Group("/users", middleware.JWT(), middleware.OTP())
	users.Get("/online", ctl.UsersOnline)

	// Conversations
	conversations := api.Group("/conversations", middleware.JWT(), middleware.OTP())
	conversations.Get("", ctl.ConversationList)
	conversations.Post("", ctl.ConversationCreate)

	messages := api.Group("/messages", middleware.JWT(), middleware.OTP())
	messages.Get("/:conversationId", ctl.ConversationMessages)

	// Admin
	admin := api.Group("/admin", middleware.JWT(), middleware.OTP(), middleware.RBAC(enforcer))
	admin.Delete("/conversations/:id", ctl.AdminConversationDelete)
	admin.Get("/presence", ctl.AdminPresence)
}

// NewLimiter builds the limiter guarding credential endpoints.
func NewLimiter() *middleware.LimiterStore {
	rpm := config.ConfigInt("RATE_LIMIT_RPM", 10)
	return middleware.NewLimiterStore(rpm, rpm, time.Minute)
}
