package models

import "time"

// Site — рабочая площадка, активная ровно один календарный день.
// BonusTargets хранится строкой с планками через запятую (в рублях,
// например "1000,2000,3000") — формат хранения, за границу пакета kv
// наружу уходит уже разобранный список (internal/finance).
type Site struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	ResponsibleUserID    string    `json:"responsible_user_id"`
	ResponsibleLastname  string    `json:"responsible_lastname"`
	ResponsibleFirstname string    `json:"responsible_firstname"`
	BonusTargets         string    `json:"bonus_target"`
	Phone                string    `json:"phone"`
	Date                 string    `json:"date"` // YYYY-MM-DD
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
