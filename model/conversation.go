package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the durable two-party thread between User1 and User2.
// PairKey holds the unordered pair so that a single conversation exists per
// pair regardless of who opened it.
type Conversation struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	User1ID       uint      `gorm:"not null;index;uniqueIndex:idx_conversations_users" json:"user1Id"`
	User2ID       uint      `gorm:"not null;index;uniqueIndex:idx_conversations_users" json:"user2Id"`
	PairKey       string    `gorm:"not null;uniqueIndex" json:"-"`
	User1         *User     `gorm:"foreignKey:User1ID" json:"user1,omitempty"`
	User2         *User     `gorm:"foreignKey:User2ID" json:"user2,omitempty"`
	LastMessage   *string   `gorm:"type:text" json:"lastMessage"`
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.PairKey == "" {
		c.PairKey = PairKey(c.User1ID, c.User2ID)
	}
	if c.LastMessageAt.IsZero() {
		c.LastMessageAt = time.Now()
	}
	return nil
}

// Has reports whether userID is one of the two participants.
func (c *Conversation) Has(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Partner returns the participant other than userID.
func (c *Conversation) Partner(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// PairKey is the order-independent key of a user pair.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
