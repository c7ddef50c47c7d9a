package utils

import (
	"errors"
	"time"

	"direct-messenger/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Tokens struct to describe tokens object.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenClaims carries the numeric user id. Otp is true while a second factor
// is still pending.
type TokenClaims struct {
	ID  uint `json:"id"`
	Otp bool `json:"otp"`
	jwt.RegisteredClaims
}

var ErrTokenClaims = errors.New("token claims are malformed")

// GenerateTokens issues an access and a refresh token for a user.
func GenerateTokens(id uint, otp bool) (*Tokens, error) {
	access, err := SignToken(id, otp,
		minutes("JWT_ACCESS_EXPIRE", 15),
		config.Config("JWT_ACCESS_KEY"))
	if err != nil {
		return nil, err
	}

	refresh, err := SignToken(id, otp,
		minutes("JWT_REFRESH_EXPIRE", 7*24*60),
		config.Config("JWT_REFRESH_KEY"))
	if err != nil {
		return nil, err
	}

	return &Tokens{
		Access:  access,
		Refresh: refresh,
	}, nil
}

// minutes reads an expiry configured as a number of minutes.
func minutes(key string, def int) time.Duration {
	return time.Duration(config.ConfigInt(key, def)) * time.Minute
}

func SignToken(id uint, otp bool, ttl time.Duration, key string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		ID:  id,
		Otp: otp,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(key))
}

// ParseToken verifies signature and expiry. Expired tokens yield an error
// matching jwt.ErrTokenExpired.
func ParseToken(token string, key string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.ID == 0 {
		return nil, ErrTokenClaims
	}

	return claims, nil
}

// LocalsClaims reads the claims stored by the fiber jwt middleware.
func LocalsClaims(c *fiber.Ctx) (uint, bool, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, false, ErrTokenClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, ErrTokenClaims
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, false, ErrTokenClaims
	}
	otp, _ := claims["otp"].(bool)

	return uint(id), otp, nil
}
