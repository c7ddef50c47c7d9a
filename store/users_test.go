package store_test

import (
	"context"
	"testing"

	"direct-messenger/store"
	"direct-messenger/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserLookups(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")

	byID, err := s.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byNickname, err := s.UserByNickname(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byNickname.ID)

	_, err = s.UserByID(ctx, alice.ID+100)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByNickname(ctx, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveUserKeepsChangedPassword(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")

	stored, err := s.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("password123"))

	require.NoError(t, stored.SetPassword("new-password"))
	require.NoError(t, s.SaveUser(ctx, stored))

	reloaded, err := s.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	_, err = bcrypt.Cost([]byte(reloaded.Password))
	require.NoError(t, err)
	assert.True(t, reloaded.CheckPassword("new-password"))
	assert.False(t, reloaded.CheckPassword("password123"))

	// Saving unrelated fields keeps the hash as is.
	reloaded.OtpEnabled = true
	require.NoError(t, s.SaveUser(ctx, reloaded))
	again, err := s.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, again.CheckPassword("new-password"))
}
