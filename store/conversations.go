package store

import (
	"context"
	"errors"
	"fmt"

	"direct-messenger/model"

	"gorm.io/gorm"
)

// OpenConversation returns the conversation between creatorID and partnerID,
// creating it with the creator as user1 on first contact. The second result
// reports whether a new conversation was created.
func (s *Store) OpenConversation(ctx context.Context, creatorID, partnerID uint) (*model.Conversation, bool, error) {
	if creatorID == partnerID {
		return nil, false, ErrSelfConversation
	}

	existing, err := s.conversationByPair(ctx, creatorID, partnerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	conversation := &model.Conversation{User1ID: creatorID, User2ID: partnerID}
	if err := s.db.WithContext(ctx).Create(conversation).Error; err != nil {
		// The partner may have opened the same pair concurrently.
		if existing, findErr := s.conversationByPair(ctx, creatorID, partnerID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}

	return conversation, true, nil
}

func (s *Store) conversationByPair(ctx context.Context, a, b uint) (*model.Conversation, error) {
	var conversation model.Conversation
	err := s.db.WithContext(ctx).
		Where("pair_key = ?", model.PairKey(a, b)).
		First(&conversation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

func (s *Store) ConversationByID(ctx context.Context, id string) (*model.Conversation, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var conversation model.Conversation
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

// MemberConversation returns the conversation only when userID participates
// in it; otherwise ErrNotFound, so callers cannot tell the two cases apart.
func (s *Store) MemberConversation(ctx context.Context, id string, userID uint) (*model.Conversation, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var conversation model.Conversation
	err := s.db.WithContext(ctx).
		Where("id = ? AND (user1_id = ? OR user2_id = ?)", id, userID, userID).
		First(&conversation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

// ConversationsOf lists the conversations of userID, most recent activity first.
func (s *Store) ConversationsOf(ctx context.Context, userID uint) ([]model.Conversation, error) {
	conversations := []model.Conversation{}
	err := s.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Preload("User1", publicProfile).
		Preload("User2", publicProfile).
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

// DeleteConversation removes a conversation together with all its messages.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
