package store

import (
	"context"

	"direct-messenger/model"
)

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// SaveUser persists every field of user. A changed plaintext password is
// re-hashed by the model hook.
func (s *Store) SaveUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *Store) UserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, ErrNotFound
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where(&model.User{Email: email}).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UserByNickname(ctx context.Context, nickname string) (*model.User, error) {
	if nickname == "" {
		return nil, ErrNotFound
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where(&model.User{Nickname: nickname}).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
