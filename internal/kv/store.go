package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Ключи хранилища. Сущности лежат в JSON по ключу "{тип}:{id}",
// вторичные индексы — отдельными ключами и множествами.
const (
	keyUser          = "user:%s"            // user:{id} -> User
	keyUserByTg      = "user:tg:%d"         // user:tg:{telegram_id} -> user id
	keyUsersSet      = "users"              // множество id всех пользователей
	keySession       = "session:%d"         // session:{telegram_id} -> Session
	keySite          = "site:%s"            // site:{id} -> Site
	keySitesByDate   = "site:date:%s"       // site:date:{YYYY-MM-DD} -> множество site id
	keyReport        = "report:%s"          // report:{id} -> DailyReport
	keyReportsSite   = "report:site:%s:%s"  // report:site:{site_id}:{date} -> множество report id
	keyReportsByName = "report:lastname:%s" // report:lastname:{фамилия в нижнем регистре} -> множество report id
	keyLog           = "log:%s"             // log:{id} -> Log
	keyLogsReport    = "logs:report:%s"     // список log id отчета (новые в голове)
	keyLogsUser      = "logs:user:%s"       // список log id пользователя
	keyCounter       = "counter:%s"         // counter:{тип} -> последовательность id
)

// Store — операции над сущностями поверх KV.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// generateID выдает следующий id сущности вида "{тип}_{номер}".
// Номера монотонны в рамках типа, порядок создания восстанавливается
// сравнением числовых суффиксов.
func (s *Store) generateID(ctx context.Context, entityType string) (string, error) {
	seq, err := s.kv.Incr(ctx, fmt.Sprintf(keyCounter, entityType))
	if err != nil {
		return "", fmt.Errorf("generateID %s: %w", entityType, err)
	}
	return fmt.Sprintf("%s_%d", entityType, seq), nil
}

// IDSeq извлекает числовой суффикс id ("report_12" -> 12).
// Нечисловой суффикс дает 0 — такие id сортируются первыми.
func IDSeq(id string) int64 {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return 0
	}
	n, err := strconv.ParseInt(id[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func sortByIDSeq(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return IDSeq(ids[i]) < IDSeq(ids[j]) })
}

func (s *Store) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("getJSON %s: поврежденная запись: %w", key, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("setJSON %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(raw))
}
