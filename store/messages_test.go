package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"direct-messenger/model"
	"direct-messenger/store"
	"direct-messenger/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *string { return &s }

func TestCreateMessageUpdatesConversationCache(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)

	msg, err := s.CreateMessage(ctx, &model.Message{
		ConversationID: conversation.ID,
		SenderID:       alice.ID,
		MessageType:    model.MessageText,
		Content:        text("hi"),
	}, "hi")
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.IsEdited)
	assert.False(t, msg.IsDeleted)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "alice", msg.Sender.Nickname)
	assert.Empty(t, msg.Sender.Email)

	got, err := s.ConversationByID(ctx, conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, "hi", *got.LastMessage)
	assert.WithinDuration(t, msg.CreatedAt, got.LastMessageAt, time.Millisecond)
}

func TestLastMessageAtIsNonDecreasing(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)

	var previous time.Time
	for i := 0; i < 5; i++ {
		_, err := s.CreateMessage(ctx, &model.Message{
			ConversationID: conversation.ID,
			SenderID:       bob.ID,
			MessageType:    model.MessageText,
			Content:        text(fmt.Sprint(i)),
		}, fmt.Sprint(i))
		require.NoError(t, err)

		got, err := s.ConversationByID(ctx, conversation.ID)
		require.NoError(t, err)
		assert.False(t, got.LastMessageAt.Before(previous))
		previous = got.LastMessageAt
	}
}

func TestEditMessageRules(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)
	base := time.Now().Add(-time.Hour)

	first, err := s.CreateMessage(ctx, &model.Message{
		ConversationID: conversation.ID, SenderID: alice.ID, MessageType: model.MessageText,
		Content: text("first"), CreatedAt: base,
	}, "first")
	require.NoError(t, err)

	photo, err := s.CreateMessage(ctx, &model.Message{
		ConversationID: conversation.ID, SenderID: alice.ID, MessageType: model.MessageImage,
		FileURL: text("/uploads/images/a.png"), CreatedAt: base.Add(time.Second),
	}, "📷 Photo")
	require.NoError(t, err)

	_, err = s.EditMessage(ctx, first.ID, bob.ID, "stolen")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.EditMessage(ctx, photo.ID, alice.ID, "caption")
	assert.ErrorIs(t, err, store.ErrNotFound)

	edited, err := s.EditMessage(ctx, first.ID, alice.ID, "first, edited")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	assert.Equal(t, "first, edited", edited.Text())
	require.NotNil(t, edited.Conversation)
	assert.Equal(t, conversation.ID, edited.Conversation.ID)
	assert.Equal(t, bob.ID, edited.Conversation.Partner(alice.ID))

	// first is not the newest message, so the cache keeps the photo preview
	got, err := s.ConversationByID(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, "📷 Photo", *got.LastMessage)

	unchanged, err := s.MessageByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.IsEdited)
}

func TestEditNewestMessageRefreshesCacheOnly(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)

	msg, err := s.CreateMessage(ctx, &model.Message{
		ConversationID: conversation.ID, SenderID: alice.ID, MessageType: model.MessageText,
		Content: text("hi"),
	}, "hi")
	require.NoError(t, err)

	before, err := s.ConversationByID(ctx, conversation.ID)
	require.NoError(t, err)

	_, err = s.EditMessage(ctx, msg.ID, alice.ID, "hello")
	require.NoError(t, err)

	after, err := s.ConversationByID(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", *after.LastMessage)
	assert.True(t, before.LastMessageAt.Equal(after.LastMessageAt))
}

func TestDeleteMessageSoftDeletes(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)

	voice, err := s.CreateMessage(ctx, &model.Message{
		ConversationID: conversation.ID, SenderID: alice.ID, MessageType: model.MessageVoice,
		FileURL: text("/uploads/audio/v.webm"),
	}, "🎤 Voice message")
	require.NoError(t, err)

	_, err = s.DeleteMessage(ctx, voice.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := s.DeleteMessage(ctx, voice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.Conversation)
	assert.Equal(t, bob.ID, deleted.Conversation.Partner(alice.ID))

	got, err := s.MessageByID(ctx, voice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, model.DeletedPlaceholder, got.Text())
	assert.Nil(t, got.FileURL)

	// a deleted message can no longer be edited
	_, err = s.EditMessage(ctx, voice.ID, alice.ID, "back")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistoryPagination(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)
	base := time.Now().Add(-24 * time.Hour)

	for i := 0; i < 120; i++ {
		_, err := s.CreateMessage(ctx, &model.Message{
			ConversationID: conversation.ID,
			SenderID:       alice.ID,
			MessageType:    model.MessageText,
			Content:        text(fmt.Sprintf("m%03d", i)),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}, fmt.Sprintf("m%03d", i))
		require.NoError(t, err)
	}

	page, total, err := s.History(ctx, conversation.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)
	require.Len(t, page, 50)
	assert.Equal(t, "m070", page[0].Text())
	assert.Equal(t, "m119", page[49].Text())
	for i := 1; i < len(page); i++ {
		assert.True(t, page[i-1].CreatedAt.Before(page[i].CreatedAt))
	}

	last, _, err := s.History(ctx, conversation.ID, 3, 50)
	require.NoError(t, err)
	require.Len(t, last, 20)
	assert.Equal(t, "m000", last[0].Text())

	past, total, err := s.History(ctx, conversation.ID, 4, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)
	assert.NotNil(t, past)
	assert.Empty(t, past)
}

func TestHistoryExcludesDeleted(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	alice := storetest.User(t, s, "alice")
	bob := storetest.User(t, s, "bob")
	conversation := storetest.Conversation(t, s, alice, bob)

	var ids []string
	for i := 0; i < 3; i++ {
		msg, err := s.CreateMessage(ctx, &model.Message{
			ConversationID: conversation.ID, SenderID: bob.ID, MessageType: model.MessageText,
			Content: text(fmt.Sprint(i)),
		}, fmt.Sprint(i))
		require.NoError(t, err)
		ids = append(ids, msg.ID)
	}

	_, err := s.DeleteMessage(ctx, ids[1], bob.ID)
	require.NoError(t, err)

	page, total, err := s.History(ctx, conversation.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 2)
	for _, m := range page {
		assert.NotEqual(t, ids[1], m.ID)
	}
}
