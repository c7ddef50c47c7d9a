package messenger

import "context"

// TypingStart relays a typing indicator to the conversation partner.
func (h *Handler) TypingStart(ctx context.Context, c Client, in TypingInput) {
	h.relayTyping(ctx, c, in, EventUserTyping)
}

// TypingStop clears the typing indicator on the partner's side.
func (h *Handler) TypingStop(ctx context.Context, c Client, in TypingInput) {
	h.relayTyping(ctx, c, in, EventUserStopTyping)
}

// relayTyping is best effort: unknown conversations, conversations the
// sender is not part of and store errors are dropped silently.
func (h *Handler) relayTyping(ctx context.Context, c Client, in TypingInput, event string) {
	sender := c.Identity()

	conversation, err := h.store.MemberConversation(ctx, in.ConversationID, sender.UserID)
	if err != nil {
		messengerLog.Debug("%s from user %d dropped: %v", event, sender.UserID, err)
		return
	}

	h.hub.SendToUser(conversation.Partner(sender.UserID), event, Typing{
		UserID:         sender.UserID,
		ConversationID: conversation.ID,
	})
}
