package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+79991234567", "+79991234567"},
		{"89991234567", "+79991234567"},
		{"79991234567", "+79991234567"},
		{"8 (999) 123-45-67", "+79991234567"},
	}
	for _, tt := range tests {
		got, err := ValidatePhoneNumber(tt.input)
		require.NoError(t, err, "ввод %q", tt.input)
		assert.Equal(t, tt.want, got, "ввод %q", tt.input)
	}
}

func TestValidatePhoneNumberInvalid(t *testing.T) {
	for _, input := range []string{"", "12345", "абвгд", "+7999123456789"} {
		_, err := ValidatePhoneNumber(input)
		assert.Error(t, err, "ввод %q", input)
	}
}

func TestTruncateForButton(t *testing.T) {
	assert.Equal(t, "короткое", TruncateForButton("короткое", 30))
	assert.Equal(t, "оче...", TruncateForButton("очень длинное значение", 6), "обрезка по рунам, не по байтам")
}

func TestMoscowDate(t *testing.T) {
	date := MoscowDate()
	_, err := time.Parse("2006-01-02", date)
	assert.NoError(t, err)
}

func TestFormatDateShort(t *testing.T) {
	assert.Equal(t, "30.08.2026", FormatDateShort("2026-08-30"))
	assert.Equal(t, "мусор", FormatDateShort("мусор"), "неразбираемая дата возвращается как есть")
}
