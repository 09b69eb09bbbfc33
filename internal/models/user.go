package models

import (
	"time"

	"Aquagrim/internal/constants"
)

// User — пользователь бота. Создается автоматически при первом обращении.
type User struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsAdmin — администратор или суперадминистратор.
func (u *User) IsAdmin() bool {
	return u.Role == constants.ROLE_ADMIN || u.Role == constants.ROLE_SUPERADMIN
}
