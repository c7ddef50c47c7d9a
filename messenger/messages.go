package messenger

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"direct-messenger/model"
	"direct-messenger/store"
)

// SendMessage persists a message from c into a conversation it belongs to
// and pushes it to the partner. The sender gets no echo.
func (h *Handler) SendMessage(ctx context.Context, c Client, in SendMessageInput) {
	sender := c.Identity()

	if in.MessageType == "" {
		in.MessageType = model.MessageText
	}
	if !in.MessageType.Valid() {
		h.fail(c, newError(errUnsupportedType))
		return
	}

	content := strings.TrimSpace(in.Content)
	isText := in.MessageType == model.MessageText
	if isText && content == "" {
		h.fail(c, newError(errEmptyText))
		return
	}
	if !isText && in.FileURL == "" {
		h.fail(c, newError(errFileRequired))
		return
	}

	conversation, err := h.store.MemberConversation(ctx, in.ConversationID, sender.UserID)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, newError(errConversationAccess))
		return
	}
	if err != nil {
		h.fail(c, Failure(errSendFailed, err))
		return
	}

	msg := &model.Message{
		ConversationID: conversation.ID,
		SenderID:       sender.UserID,
		MessageType:    in.MessageType,
	}
	if isText {
		msg.Content = &content
	} else {
		msg.FileURL = optional(in.FileURL)
		msg.FileSize = in.FileSize
		msg.MimeType = optional(in.MimeType)
		if in.MessageType == model.MessageVoice && in.Duration != nil && *in.Duration > 0 {
			msg.Duration = in.Duration
		}
		if content != "" {
			msg.Content = &content
		}
	}

	saved, err := h.store.CreateMessage(ctx, msg, model.Preview(in.MessageType, in.Content))
	if err != nil {
		h.fail(c, Failure(errSendFailed, err))
		return
	}

	partnerID := conversation.Partner(sender.UserID)
	h.hub.SendToUser(partnerID, EventNewMessage, saved)
	h.publish(ActionMessageCreated, conversation.ID, sender.UserID, partnerID, saved)
}

// EditMessage rewrites a text message authored by c and echoes the change to
// both participants.
func (h *Handler) EditMessage(ctx context.Context, c Client, in EditMessageInput) {
	sender := c.Identity()

	content := strings.TrimSpace(in.NewContent)
	if content == "" {
		h.fail(c, newError(errEmptyText))
		return
	}

	msg, err := h.store.EditMessage(ctx, in.MessageID, sender.UserID, content)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, newError(errNotEditable))
		return
	}
	if err != nil {
		h.fail(c, Failure(errEditFailed, err))
		return
	}

	conversation := msg.Conversation

	edited := MessageEdited{
		MessageID:  msg.ID,
		NewContent: content,
		EditedAt:   time.Now(),
	}

	partnerID := conversation.Partner(sender.UserID)
	h.hub.SendToUser(sender.UserID, EventMessageEdited, edited)
	h.hub.SendToUser(partnerID, EventMessageEdited, edited)
	h.publish(ActionMessageEdited, conversation.ID, sender.UserID, partnerID, edited)
}

// DeleteMessage soft-deletes any message authored by c and tells the partner.
func (h *Handler) DeleteMessage(ctx context.Context, c Client, in DeleteMessageInput) {
	sender := c.Identity()

	msg, err := h.store.DeleteMessage(ctx, in.MessageID, sender.UserID)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, newError(errNotDeletable))
		return
	}
	if err != nil {
		h.fail(c, Failure(errDeleteFailed, err))
		return
	}

	conversation := msg.Conversation

	deleted := MessageDeleted{
		MessageID: msg.ID,
		DeletedAt: time.Now(),
	}

	partnerID := conversation.Partner(sender.UserID)
	h.hub.SendToUser(partnerID, EventMessageDeleted, deleted)
	h.publish(ActionMessageDeleted, conversation.ID, sender.UserID, partnerID, deleted)

	messengerLog.Debug("message %s deleted by user %d", msg.ID, sender.UserID)
}

// GetMessages replies with one page of conversation history.
func (h *Handler) GetMessages(ctx context.Context, c Client, in GetMessagesInput) {
	history, err := h.History(ctx, c.Identity().UserID, in)
	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			e = Failure(errHistoryFailed, err)
		}
		h.fail(c, e)
		return
	}

	c.Emit(EventMessagesHistory, history)
}

// History loads one page of a conversation userID participates in.
func (h *Handler) History(ctx context.Context, userID uint, in GetMessagesInput) (*MessagesHistory, error) {
	page, limit := h.window(in.Page, in.Limit)

	conversation, err := h.store.MemberConversation(ctx, in.ConversationID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(errConversationAccess)
	}
	if err != nil {
		return nil, Failure(errHistoryFailed, err)
	}

	messages, total, err := h.store.History(ctx, conversation.ID, page, limit)
	if err != nil {
		return nil, Failure(errHistoryFailed, err)
	}

	return &MessagesHistory{
		ConversationID: conversation.ID,
		Messages:       messages,
		Total:          total,
		Page:           page,
		TotalPages:     int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (h *Handler) window(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	// (page-1)*limit must stay a valid offset.
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return page, limit
}

func (h *Handler) publish(action, conversationID string, senderID, recipientID uint, data any) {
	h.events.Publish(action, MessageEvent{
		ConversationID:  conversationID,
		SenderID:        senderID,
		RecipientID:     recipientID,
		RecipientOnline: h.presence.IsOnline(recipientID),
		Data:            data,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
