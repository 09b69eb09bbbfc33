// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string
	BotUsername   string
	AppEnv        string

	RedisAddr     string
	RedisPassword string

	SuperadminIDs []int64

	Port     string
	FontsDir string
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		BotUsername:   os.Getenv("BOT_USERNAME"),
		AppEnv:        os.Getenv("ENV"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Port:          os.Getenv("PORT"),
		FontsDir:      os.Getenv("FONTS_DIR"),
	}

	if cfg.TelegramToken == "" {
		log.Println("Критическая ошибка: TELEGRAM_APITOKEN не установлен.")
	}
	if cfg.BotUsername == "" {
		log.Println("Предупреждение: BOT_USERNAME не установлен.")
	}
	if cfg.RedisAddr == "" {
		log.Println("Предупреждение: REDIS_ADDR не установлен, используется localhost:6379.")
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FontsDir == "" {
		cfg.FontsDir = "fonts"
	}

	for _, part := range strings.Split(os.Getenv("SUPERADMIN_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Предупреждение: некорректный Telegram ID в SUPERADMIN_IDS: %q. Пропущен.", part)
			continue
		}
		cfg.SuperadminIDs = append(cfg.SuperadminIDs, id)
	}
	if len(cfg.SuperadminIDs) == 0 {
		log.Println("Предупреждение: SUPERADMIN_IDS не установлен. Админ-панель будет недоступна до назначения админов.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}

// IsSuperadmin проверяет, входит ли Telegram ID в список супер-админов.
func (c *Config) IsSuperadmin(telegramID int64) bool {
	for _, id := range c.SuperadminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
