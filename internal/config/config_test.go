package config

import "testing"

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("без TELEGRAM_TOKEN ожидалась ошибка")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DB_PATH", "")
	t.Setenv("LOG_FILE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TelegramToken != "123:abc" {
		t.Errorf("TelegramToken = %q", cfg.TelegramToken)
	}
	if cfg.DBPath != "data/expenses.db" {
		t.Errorf("DBPath = %q, want data/expenses.db", cfg.DBPath)
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile = %q, want пусто", cfg.LogFile)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DB_PATH", "/tmp/custom.db")
	t.Setenv("LOG_FILE", "/tmp/bot.log")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.LogFile != "/tmp/bot.log" {
		t.Errorf("cfg = %+v", cfg)
	}
}
