package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
	MessageVoice MessageType = "voice"
)

// DeletedPlaceholder replaces the content of a deleted message.
const DeletedPlaceholder = "Message deleted"

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageVoice:
		return true
	}
	return false
}

type Message struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	Content        *string       `gorm:"type:text" json:"content,omitempty"`
	MessageType    MessageType   `gorm:"type:varchar(10);not null;default:text" json:"messageType"`
	FileURL        *string       `json:"fileUrl,omitempty"`
	FileSize       *int64        `json:"fileSize,omitempty"`
	MimeType       *string       `json:"mimeType,omitempty"`
	Duration       *int          `json:"duration,omitempty"`
	IsEdited       bool          `gorm:"not null;default:false" json:"isEdited"`
	IsDeleted      bool          `gorm:"not null;default:false" json:"isDeleted"`
	SenderID       uint          `gorm:"not null;index" json:"senderId"`
	ConversationID string        `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1" json:"conversationId"`
	CreatedAt      time.Time     `gorm:"index:idx_messages_conversation_created,priority:2" json:"createdAt"`
	Sender         *User         `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Conversation   *Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Text returns the content or an empty string.
func (m *Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// Preview renders the conversation list line for a message of type t with
// the given content. Non-text messages get a glyph label, suffixed with the
// caption when one was supplied.
func Preview(t MessageType, content string) string {
	var label string
	switch t {
	case MessageText:
		return content
	case MessageImage:
		label = "📷 Photo"
	case MessageVoice:
		label = "🎤 Voice message"
	case MessageFile:
		label = "📎 File"
	default:
		label = "New message"
	}

	if strings.TrimSpace(content) != "" {
		label += ": " + content
	}
	return label
}
