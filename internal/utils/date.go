package utils

import (
	"fmt"
	"strings"
	"time"
)

// Рабочий день площадок считается по московскому времени (UTC+3).
var moscowLocation = time.FixedZone("MSK", 3*60*60)

// MoscowNow возвращает текущее московское время.
func MoscowNow() time.Time {
	return time.Now().In(moscowLocation)
}

// MoscowDate возвращает текущую дату по Москве в формате YYYY-MM-DD.
func MoscowDate() string {
	return MoscowNow().Format("2006-01-02")
}

// FormatDateShort переводит дату из YYYY-MM-DD в DD.MM.YYYY для отображения.
// Некорректная строка возвращается как есть.
func FormatDateShort(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return fmt.Sprintf("%s.%s.%s", parts[2], parts[1], parts[0])
}

// FormatTimestamp форматирует момент времени для истории изменений:
// DD.MM.YYYY, HH:MM по Москве.
func FormatTimestamp(t time.Time) string {
	return t.In(moscowLocation).Format("02.01.2006, 15:04")
}
