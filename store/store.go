// Package store is the durable Conversation/Message store. It owns users,
// conversations and messages and relies on the database for uniqueness and
// referential integrity.
package store

import (
	"errors"

	"direct-messenger/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrSelfConversation = errors.New("cannot open a conversation with yourself")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the users, conversations and messages tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.Message{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// publicProfile limits a preloaded user to the fields shown to other users.
func publicProfile(db *gorm.DB) *gorm.DB {
	return db.Select("id", "nickname", "avatar")
}

// validID guards uuid columns against malformed ids, which postgres reports
// as a syntax error rather than a missing row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
