package router

import (
	"sync"
	"testing"
	"time"

	"direct-messenger/messenger"
	"direct-messenger/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSendMessage(t *testing.T) {
	in, err := decode[messenger.SendMessageInput]([]any{map[string]any{
		"conversationId": "0b6f4c1e-6a55-4d0c-9c7f-1d2f0c3b4a5e",
		"content":        "hi",
		"messageType":    "voice",
		"fileUrl":        "/uploads/a.webm",
		"fileSize":       float64(2048),
		"duration":       "12",
	}})
	require.NoError(t, err)

	assert.Equal(t, "0b6f4c1e-6a55-4d0c-9c7f-1d2f0c3b4a5e", in.ConversationID)
	assert.Equal(t, "hi", in.Content)
	assert.Equal(t, model.MessageVoice, in.MessageType)
	assert.Equal(t, "/uploads/a.webm", in.FileURL)
	require.NotNil(t, in.FileSize)
	assert.Equal(t, int64(2048), *in.FileSize)
	require.NotNil(t, in.Duration)
	assert.Equal(t, 12, *in.Duration)
}

func TestDecodeGetMessages(t *testing.T) {
	in, err := decode[messenger.GetMessagesInput]([]any{map[string]any{
		"conversationId": "c",
		"page":           "2",
		"limit":          float64(20),
	}})
	require.NoError(t, err)
	assert.Equal(t, messenger.GetMessagesInput{ConversationID: "c", Page: 2, Limit: 20}, in)

	empty, err := decode[messenger.GetMessagesInput](nil)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestDecodeRejectsNonObject(t *testing.T) {
	_, err := decode[messenger.EditMessageInput]([]any{[]any{1, 2}})
	assert.Error(t, err)
}

func TestQueueRunsTasksInOrder(t *testing.T) {
	q := newQueue()
	done := make(chan struct{})
	go func() {
		q.run()
		close(done)
	}()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, q.push(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	q.close()
	assert.False(t, q.push(func() {}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queue did not drain")
	}

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}
