package kv

import (
	"context"
	"fmt"

	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// CreateLog пишет запись аудита и привязывает ее к спискам отчета и
// пользователя (новые записи в голове списка). reportID может быть пустым
// для действий, не привязанных к отчету.
func (s *Store) CreateLog(ctx context.Context, userID, actionType string, before, after map[string]any, reportID string) (*models.Log, error) {
	id, err := s.generateID(ctx, "log")
	if err != nil {
		return nil, err
	}

	entry := &models.Log{
		ID:            id,
		UserID:        userID,
		ActionType:    actionType,
		PayloadBefore: before,
		PayloadAfter:  after,
		Timestamp:     utils.MoscowNow(),
	}

	if err := s.setJSON(ctx, fmt.Sprintf(keyLog, id), entry); err != nil {
		return nil, err
	}
	if reportID != "" {
		if err := s.kv.LPush(ctx, fmt.Sprintf(keyLogsReport, reportID), id); err != nil {
			return nil, err
		}
	}
	if userID != "" {
		if err := s.kv.LPush(ctx, fmt.Sprintf(keyLogsUser, userID), id); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (s *Store) GetLogByID(ctx context.Context, id string) (*models.Log, error) {
	var entry models.Log
	found, err := s.getJSON(ctx, fmt.Sprintf(keyLog, id), &entry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &entry, nil
}

// GetLogsByReport возвращает историю изменений отчета, новые записи первыми.
func (s *Store) GetLogsByReport(ctx context.Context, reportID string) ([]*models.Log, error) {
	ids, err := s.kv.LRange(ctx, fmt.Sprintf(keyLogsReport, reportID), 0, -1)
	if err != nil {
		return nil, err
	}
	return s.loadLogs(ctx, ids)
}

// GetLogsByUser возвращает действия пользователя, новые записи первыми.
func (s *Store) GetLogsByUser(ctx context.Context, userID string) ([]*models.Log, error) {
	ids, err := s.kv.LRange(ctx, fmt.Sprintf(keyLogsUser, userID), 0, -1)
	if err != nil {
		return nil, err
	}
	return s.loadLogs(ctx, ids)
}

func (s *Store) loadLogs(ctx context.Context, ids []string) ([]*models.Log, error) {
	logs := make([]*models.Log, 0, len(ids))
	for _, id := range ids {
		entry, err := s.GetLogByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}
