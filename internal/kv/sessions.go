package kv

import (
	"context"
	"fmt"

	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// GetSession возвращает сессию диалога по telegram id (nil, nil — нет сессии).
func (s *Store) GetSession(ctx context.Context, telegramID int64) (*models.Session, error) {
	var session models.Session
	found, err := s.getJSON(ctx, fmt.Sprintf(keySession, telegramID), &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

// UpdateSession применяет частичное обновление к сессии: state заменяет
// состояние (если непустой), контекст сливается по веткам потоков —
// переданная ветка заменяет свою целиком. Смена потока обнуляет ветки
// остальных потоков. Отсутствующая сессия создается.
func (s *Store) UpdateSession(ctx context.Context, telegramID int64, userID, state string, patch *models.SessionContext) (*models.Session, error) {
	session, err := s.GetSession(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &models.Session{
			ID:     fmt.Sprintf("session_%d", telegramID),
			UserID: userID,
		}
	}
	if userID != "" {
		session.UserID = userID
	}
	if state != "" {
		session.State = state
	}
	if patch != nil {
		mergeContext(&session.Context, patch)
	}
	session.UpdatedAt = utils.MoscowNow()

	if err := s.setJSON(ctx, fmt.Sprintf(keySession, telegramID), session); err != nil {
		return nil, err
	}
	return session, nil
}

func mergeContext(dst, patch *models.SessionContext) {
	if patch.Flow != "" {
		// Смена потока обнуляет контексты остальных потоков: брошенная
		// рабочая копия не должна переживать запуск нового потока.
		if patch.Flow != dst.Flow {
			*dst = models.SessionContext{}
		}
		dst.Flow = patch.Flow
	}
	if patch.Morning != nil {
		dst.Morning = patch.Morning
	}
	if patch.Evening != nil {
		dst.Evening = patch.Evening
	}
	if patch.Edit != nil {
		dst.Edit = patch.Edit
	}
	if patch.Bonus != nil {
		dst.Bonus = patch.Bonus
	}
	if patch.Admin != nil {
		dst.Admin = patch.Admin
	}
}

// ClearSession удаляет сессию; активный поток при этом обрывается.
func (s *Store) ClearSession(ctx context.Context, telegramID int64) error {
	return s.kv.Del(ctx, fmt.Sprintf(keySession, telegramID))
}
