package store

import (
	"context"
	"fmt"

	"direct-messenger/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateMessage inserts msg and moves the conversation's last message cache
// to preview in the same transaction. The returned message carries the
// sender's public profile.
func (s *Store) CreateMessage(ctx context.Context, msg *model.Message, preview string) (*model.Message, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]any{
				"last_message":    preview,
				"last_message_at": msg.CreatedAt,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return s.MessageByID(ctx, msg.ID)
}

func (s *Store) MessageByID(ctx context.Context, id string) (*model.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var msg model.Message
	err := s.db.WithContext(ctx).
		Preload("Sender", publicProfile).
		Where("id = ?", id).
		First(&msg).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &msg, nil
}

// EditMessage replaces the content of a live text message written by
// senderID. When it is the newest message of its conversation the
// conversation's last message text follows; last_message_at is left alone.
// The returned message carries its conversation, read in the same
// transaction.
func (s *Store) EditMessage(ctx context.Context, id string, senderID uint, content string) (*model.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var msg model.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND sender_id = ? AND message_type = ? AND is_deleted = ?",
			id, senderID, model.MessageText, false).
			First(&msg).Error
		if err != nil {
			return notFound(err)
		}
		if err := loadConversation(tx, &msg); err != nil {
			return err
		}

		err = tx.Model(&model.Message{}).
			Where("id = ?", msg.ID).
			Updates(map[string]any{"content": content, "is_edited": true}).Error
		if err != nil {
			return err
		}

		var newest model.Message
		err = tx.Select("id").
			Where("conversation_id = ?", msg.ConversationID).
			Order("created_at DESC").
			First(&newest).Error
		if err != nil {
			return err
		}
		if newest.ID != msg.ID {
			return nil
		}

		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message", content).Error
	})
	if err != nil {
		return nil, err
	}

	msg.Content = &content
	msg.IsEdited = true
	return &msg, nil
}

// DeleteMessage soft-deletes a message written by senderID: the row stays,
// its content becomes the placeholder and the attachment url is cleared.
// Like EditMessage it returns the message with its conversation.
func (s *Store) DeleteMessage(ctx context.Context, id string, senderID uint) (*model.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var msg model.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND sender_id = ?", id, senderID).First(&msg).Error; err != nil {
			return notFound(err)
		}
		if err := loadConversation(tx, &msg); err != nil {
			return err
		}

		return tx.Model(&model.Message{}).
			Where("id = ?", msg.ID).
			Updates(map[string]any{
				"is_deleted": true,
				"content":    model.DeletedPlaceholder,
				"file_url":   nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	placeholder := model.DeletedPlaceholder
	msg.IsDeleted = true
	msg.Content = &placeholder
	msg.FileURL = nil
	return &msg, nil
}

func loadConversation(tx *gorm.DB, msg *model.Message) error {
	var conversation model.Conversation
	if err := tx.Where("id = ?", msg.ConversationID).First(&conversation).Error; err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	msg.Conversation = &conversation
	return nil
}

// History returns one page of live messages, oldest first within the page,
// and the total number of live messages in the conversation. Pages are
// counted from the newest message backwards.
func (s *Store) History(ctx context.Context, conversationID string, page, limit int) ([]model.Message, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	messages := []model.Message{}
	offset := (page - 1) * limit
	if offset < 0 || int64(offset) >= total {
		return messages, total, nil
	}
	err = s.db.WithContext(ctx).
		Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Preload("Sender", publicProfile).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("load messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}
