package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles checked by the RBAC policy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PasswordCost is the bcrypt cost applied to stored passwords.
const PasswordCost = 10

// User struct
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Nickname  string    `gorm:"uniqueIndex;size:50;not null" json:"nickname"`
	Password  string    `gorm:"not null" json:"-"`
	Avatar    *string   `json:"avatar"`
	Role      string    `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	OtpEnabled bool   `gorm:"default:false" json:"-"`
	OtpSecret  string `json:"-"`
}

// SetPassword replaces the stored hash with a bcrypt hash of password.
// Password never holds plaintext, so nothing is hashed implicitly on save.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Identity is the immutable identity attached to an authenticated connection.
type Identity struct {
	UserID   uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// IdentityOf builds the connection identity of u.
func IdentityOf(u *User) *Identity {
	return &Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
	}
}
