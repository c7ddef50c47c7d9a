package socketio

import (
	"fmt"

	"github.com/zishang520/socket.io/v2/socket"
)

// Room is the broadcast group holding every connection of a user.
func Room(userID uint) socket.Room {
	return socket.Room(fmt.Sprintf("user_%d", userID))
}

// Hub pushes server-initiated events to user rooms. With the redis adapter
// the room spans every node.
type Hub struct {
	server *socket.Server
}

func NewHub(server *socket.Server) *Hub {
	return &Hub{server: server}
}

func (h *Hub) SendToUser(userID uint, event string, payload any) {
	if err := h.server.To(Room(userID)).Emit(event, payload); err != nil {
		socketLog.Error("emit %s to user %d: %v", event, userID, err)
	}
}
