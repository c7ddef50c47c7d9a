package messenger

import (
	"context"
	"testing"

	"direct-messenger/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTyping_RelaysToPartnerOnly(t *testing.T) {
	f := newFixture(t)
	alice := newClient(f.alice, 0)

	f.handler.TypingStart(context.Background(), alice, TypingInput{ConversationID: f.conversation.ID})
	f.handler.TypingStop(context.Background(), alice, TypingInput{ConversationID: f.conversation.ID})

	start := f.hub.to(f.bob.ID, EventUserTyping)
	require.Len(t, start, 1)
	assert.Equal(t, Typing{UserID: f.alice.ID, ConversationID: f.conversation.ID}, start[0])

	stop := f.hub.to(f.bob.ID, EventUserStopTyping)
	require.Len(t, stop, 1)

	assert.Empty(t, f.hub.to(f.alice.ID, EventUserTyping))
	assert.Empty(t, alice.emits)
}

func TestTyping_DropsUnknownConversationSilently(t *testing.T) {
	f := newFixture(t)
	alice := newClient(f.alice, 0)

	f.handler.TypingStart(context.Background(), alice, TypingInput{ConversationID: uuid.NewString()})
	f.handler.TypingStart(context.Background(), alice, TypingInput{ConversationID: "garbage"})

	assert.Zero(t, f.hub.count())
	assert.Empty(t, alice.emits)
}

func TestTyping_DropsNonMember(t *testing.T) {
	f := newFixture(t)
	carol := newClient(f.carol, 0)
	storetest.Conversation(t, f.store, f.carol, f.bob)

	// the conversation exists, carol just is not part of it
	f.handler.TypingStart(context.Background(), carol, TypingInput{ConversationID: f.conversation.ID})
	f.handler.TypingStop(context.Background(), carol, TypingInput{ConversationID: f.conversation.ID})

	assert.Zero(t, f.hub.count())
	assert.Empty(t, f.hub.to(f.alice.ID, EventUserTyping))
	assert.Empty(t, f.hub.to(f.bob.ID, EventUserTyping))
	assert.Empty(t, carol.emits)
	assert.Empty(t, carol.broadcast)
}
