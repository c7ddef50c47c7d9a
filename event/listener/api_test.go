package listener

import (
	"testing"

	"direct-messenger/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type push struct {
	userID  uint
	event   string
	payload any
}

type recorder struct {
	pushes []push
}

func (r *recorder) SendToUser(userID uint, event string, payload any) {
	r.pushes = append(r.pushes, push{userID, event, payload})
}

func TestHandleNotify(t *testing.T) {
	hub := &recorder{}

	Handle(hub, event.EventChannelData{
		Action: ActionNotify,
		Data:   []byte(`{"userId":7,"event":"friend_request","payload":{"from":"bob"}}`),
		Out:    event.EventChannelOutData{Send: true},
	})

	require.Len(t, hub.pushes, 1)
	assert.Equal(t, uint(7), hub.pushes[0].userID)
	assert.Equal(t, "friend_request", hub.pushes[0].event)
	assert.Equal(t, map[string]any{"from": "bob"}, hub.pushes[0].payload)
}

func TestHandleDrops(t *testing.T) {
	hub := &recorder{}
	send := event.EventChannelOutData{Send: true}

	Handle(hub, event.EventChannelData{Action: ActionNotify, Data: []byte(`{`), Out: send})
	Handle(hub, event.EventChannelData{Action: ActionNotify, Data: []byte(`{"event":"x"}`), Out: send})
	Handle(hub, event.EventChannelData{Action: ActionNotify, Data: []byte(`{"userId":1}`), Out: send})
	Handle(hub, event.EventChannelData{Action: "other", Data: []byte(`{}`), Out: send})
	Handle(hub, event.EventChannelData{
		Action: ActionNotify,
		Data:   []byte(`{"userId":1,"event":"x"}`),
		Out:    event.EventChannelOutData{Send: false},
	})

	assert.Empty(t, hub.pushes)
}
