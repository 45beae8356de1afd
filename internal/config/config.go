package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBPath        string
	LogFile       string
}

// LoadConfig читает настройки из окружения. Файл .env необязателен,
// но без TELEGRAM_TOKEN запуск невозможен.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, errors.New("TELEGRAM_TOKEN не установлен")
	}

	return &Config{
		TelegramToken: token,
		DBPath:        getEnv("DB_PATH", "data/expenses.db"),
		LogFile:       getEnv("LOG_FILE", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
