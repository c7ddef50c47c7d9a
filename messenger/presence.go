package messenger

// Connected registers c in the presence registry. On the user's first
// connection every other connection hears user_online and c receives the
// online list.
func (h *Handler) Connected(c Client) {
	userID := c.Identity().UserID

	h.presence.Connect(userID, c.ID(), func(online []uint) {
		c.Broadcast(EventUserOnline, UserStatus{UserID: userID})
		c.Emit(EventOnlineUsers, OnlineUsers{Users: online})
	})
}

// Disconnected removes c. Only the user's last connection announces
// user_offline.
func (h *Handler) Disconnected(c Client) {
	userID := c.Identity().UserID

	offline := h.presence.Disconnect(userID, c.ID(), func() {
		c.Broadcast(EventUserOffline, UserStatus{UserID: userID})
	})
	if !offline {
		messengerLog.Debug("user %d still has %d connections", userID, h.presence.Connections()[userID])
	}
}

// OnlineUsers answers c with the current online list.
func (h *Handler) OnlineUsers(c Client) {
	c.Emit(EventOnlineUsers, OnlineUsers{Users: h.presence.Online()})
}
