package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"direct-messenger/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "middleware-secret"

type enforcerFunc func(sub, obj, act string) bool

func (f enforcerFunc) Enforce(rvals ...interface{}) (bool, error) {
	return f(rvals[0].(string), rvals[1].(string), rvals[2].(string)), nil
}

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }

func bearer(t *testing.T, id uint, otp bool) string {
	t.Helper()
	token, err := utils.SignToken(id, otp, time.Minute, testKey)
	require.NoError(t, err)
	return "Bearer " + token
}

func call(t *testing.T, app *fiber.App, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJWTAndOTP(t *testing.T) {
	t.Setenv("JWT_ACCESS_KEY", testKey)

	app := fiber.New()
	app.Get("/profile", JWT(), OTP(), ok)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodGet, "/profile", bearer(t, 1, false)))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/profile", bearer(t, 1, true)))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/profile", ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/profile", "Bearer x.y.z"))
}

func TestRBAC(t *testing.T) {
	t.Setenv("JWT_ACCESS_KEY", testKey)

	admins := enforcerFunc(func(sub, obj, act string) bool {
		return sub == "7" && obj == "/v1/admin/presence" && act == http.MethodGet
	})

	app := fiber.New()
	app.Get("/v1/admin/presence", JWT(), RBAC(admins), ok)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodGet, "/v1/admin/presence", bearer(t, 7, false)))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/v1/admin/presence", bearer(t, 8, false)))
}

func TestLimiterStoreAllow(t *testing.T) {
	s := NewLimiterStore(5, 5, time.Hour)
	defer s.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, s.Allow("a"), "event %d", i)
	}
	assert.False(t, s.Allow("a"))
	assert.True(t, s.Allow("b"))

	s.sweep(time.Now().Add(time.Minute))
	s.mu.Lock()
	assert.Empty(t, s.clients)
	s.mu.Unlock()

	s.Stop()
}

func TestRateLimit(t *testing.T) {
	s := NewLimiterStore(2, 2, time.Hour)
	defer s.Stop()

	app := fiber.New()
	app.Post("/signin", RateLimit(s), ok)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodPost, "/signin", ""))
	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodPost, "/signin", ""))
	assert.Equal(t, http.StatusTooManyRequests, call(t, app, http.MethodPost, "/signin", ""))
}
