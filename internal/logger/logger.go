package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New создает структурированный логгер с выводом в консоль. Если указан
// путь к файлу, лог дублируется в него.
func New(logFile string) (zerolog.Logger, error) {
	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if logFile == "" {
		return zerolog.New(console).With().Timestamp().Logger(), nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return zerolog.Logger{}, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("open log file: %w", err)
	}

	return zerolog.New(zerolog.MultiLevelWriter(console, f)).With().Timestamp().Logger(), nil
}
