package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var phoneDigitsRegex = regexp.MustCompile(`[^\d+]`)
var normalizedPhoneRegex = regexp.MustCompile(`^\+7\d{10}$`)

// ValidatePhoneNumber проверяет и нормализует номер телефона.
// Возвращает номер в формате +7XXXXXXXXXX или ошибку.
func ValidatePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	digits := phoneDigitsRegex.ReplaceAllString(phone, "")

	if strings.HasPrefix(digits, "+") {
		if normalizedPhoneRegex.MatchString(digits) {
			return digits, nil
		}
		return "", fmt.Errorf("поддерживаются только российские номера в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
	}

	switch {
	case len(digits) == 11 && (digits[0] == '8' || digits[0] == '7'):
		normalized := "+7" + digits[1:]
		if normalizedPhoneRegex.MatchString(normalized) {
			return normalized, nil
		}
	case len(digits) == 10:
		normalized := "+7" + digits
		if normalizedPhoneRegex.MatchString(normalized) {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("неверный формат номера телефона, укажите в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
}

// TruncateForButton обрезает значение для кнопки клавиатуры до maxLen символов
// (по рунам, чтобы не резать кириллицу посередине байта).
func TruncateForButton(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen-3]) + "..."
}
