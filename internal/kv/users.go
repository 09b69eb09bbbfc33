package kv

import (
	"context"
	"fmt"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// CreateUser регистрирует нового пользователя и строит индекс по telegram id.
func (s *Store) CreateUser(ctx context.Context, telegramID int64, username, role string) (*models.User, error) {
	id, err := s.generateID(ctx, "user")
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:         id,
		TelegramID: telegramID,
		Username:   username,
		Role:       role,
		CreatedAt:  utils.MoscowNow(),
	}

	if err := s.setJSON(ctx, fmt.Sprintf(keyUser, id), user); err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, fmt.Sprintf(keyUserByTg, telegramID), id); err != nil {
		return nil, err
	}
	if err := s.kv.SAdd(ctx, keyUsersSet, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := s.getJSON(ctx, fmt.Sprintf(keyUser, id), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// GetUserByTelegramID ищет пользователя по индексу user:tg:{id}.
// Отсутствие пользователя — не ошибка (nil, nil).
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	userID, found, err := s.kv.Get(ctx, fmt.Sprintf(keyUserByTg, telegramID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return s.GetUserByID(ctx, userID)
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return s.setJSON(ctx, fmt.Sprintf(keyUser, user.ID), user)
}

// GetAllUsers возвращает всех пользователей в порядке создания.
func (s *Store) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	ids, err := s.kv.SMembers(ctx, keyUsersSet)
	if err != nil {
		return nil, err
	}
	sortByIDSeq(ids)

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}

// GetAdmins возвращает пользователей с ролью администратора и выше.
func (s *Store) GetAdmins(ctx context.Context) ([]*models.User, error) {
	users, err := s.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	admins := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.Role == constants.ROLE_ADMIN || u.Role == constants.ROLE_SUPERADMIN {
			admins = append(admins, u)
		}
	}
	return admins, nil
}
