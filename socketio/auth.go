package socketio

import (
	"context"
	"errors"

	"direct-messenger/model"
	"direct-messenger/store"
	"direct-messenger/utils"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoCredential      = errors.New("Authentication error: No token")
	ErrCredentialExpired = errors.New("Authentication error: Token expired")
	ErrCredentialInvalid = errors.New("Authentication error: Invalid token")
	ErrUnknownUser       = errors.New("Authentication error: User not found")
)

// UserFinder resolves the user a credential was issued to.
type UserFinder interface {
	UserByID(ctx context.Context, id uint) (*model.User, error)
}

// Authenticator validates the access token presented on the handshake.
type Authenticator struct {
	key   string
	users UserFinder
}

func NewAuthenticator(key string, users UserFinder) *Authenticator {
	return &Authenticator{key: key, users: users}
}

// Authenticate returns the identity the connection carries for its whole
// lifetime. Tokens still waiting for a second factor are refused.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrNoCredential
	}

	claims, err := utils.ParseToken(token, a.key)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrCredentialExpired
	}
	if err != nil || claims.Otp {
		return nil, ErrCredentialInvalid
	}

	user, err := a.users.UserByID(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		socketLog.Error("authenticate user %d: %v", claims.ID, err)
		return nil, ErrCredentialInvalid
	}

	return model.IdentityOf(user), nil
}
