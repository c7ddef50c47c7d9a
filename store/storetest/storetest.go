// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"direct-messenger/model"
	"direct-messenger/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated store backed by a private in-memory SQLite database.
func Open(t testing.TB) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.New(db)
	require.NoError(t, s.Migrate())
	return s
}

// User registers a user named nickname with the password "password123".
func User(t testing.TB, s *store.Store, nickname string) *model.User {
	t.Helper()

	user := &model.User{
		Email:    nickname + "@example.com",
		Nickname: nickname,
		Role:     model.RoleUser,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// Conversation opens the conversation between a and b.
func Conversation(t testing.TB, s *store.Store, a, b *model.User) *model.Conversation {
	t.Helper()

	conversation, _, err := s.OpenConversation(context.Background(), a.ID, b.ID)
	require.NoError(t, err)
	return conversation
}
