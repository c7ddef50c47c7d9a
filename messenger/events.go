package messenger

import (
	"time"

	"direct-messenger/model"
)

// Inbound events.
const (
	EventSendMessage    = "send_message"
	EventEditMessage    = "edit_message"
	EventDeleteMessage  = "delete_message"
	EventGetMessages    = "get_messages"
	EventTypingStart    = "typing_start"
	EventTypingStop     = "typing_stop"
	EventGetOnlineUsers = "get_online_users"
)

// Outbound events.
const (
	EventNewMessage      = "new_message"
	EventMessageEdited   = "message_edited"
	EventMessageDeleted  = "message_deleted"
	EventMessagesHistory = "messages_history"
	EventUserTyping      = "user_typing"
	EventUserStopTyping  = "user_stop_typing"
	EventUserOnline      = "user_online"
	EventUserOffline     = "user_offline"
	EventOnlineUsers     = "online_users"
	EventError           = "error"
)

// Domain event actions published after a successful change.
const (
	ActionMessageCreated = "message.created"
	ActionMessageEdited  = "message.edited"
	ActionMessageDeleted = "message.deleted"
)

type SendMessageInput struct {
	ConversationID string            `json:"conversationId"`
	Content        string            `json:"content"`
	MessageType    model.MessageType `json:"messageType"`
	FileURL        string            `json:"fileUrl"`
	FileSize       *int64            `json:"fileSize"`
	MimeType       string            `json:"mimeType"`
	Duration       *int              `json:"duration"`
}

type EditMessageInput struct {
	MessageID  string `json:"messageId"`
	NewContent string `json:"newContent"`
}

type DeleteMessageInput struct {
	MessageID string `json:"messageId"`
}

type GetMessagesInput struct {
	ConversationID string `json:"conversationId"`
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
}

type TypingInput struct {
	ConversationID string `json:"conversationId"`
}

type MessageEdited struct {
	MessageID  string    `json:"messageId"`
	NewContent string    `json:"newContent"`
	EditedAt   time.Time `json:"editedAt"`
}

type MessageDeleted struct {
	MessageID string    `json:"messageId"`
	DeletedAt time.Time `json:"deletedAt"`
}

type MessagesHistory struct {
	ConversationID string          `json:"conversationId"`
	Messages       []model.Message `json:"messages"`
	Total          int64           `json:"total"`
	Page           int             `json:"page"`
	TotalPages     int             `json:"totalPages"`
}

type Typing struct {
	UserID         uint   `json:"userId"`
	ConversationID string `json:"conversationId"`
}

type UserStatus struct {
	UserID uint `json:"userId"`
}

type OnlineUsers struct {
	Users []uint `json:"users"`
}

// MessageEvent is the body of a published domain event.
type MessageEvent struct {
	ConversationID  string `json:"conversationId"`
	SenderID        uint   `json:"senderId"`
	RecipientID     uint   `json:"recipientId"`
	RecipientOnline bool   `json:"recipientOnline"`
	Data            any    `json:"data"`
}
