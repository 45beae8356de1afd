package main

import (
	"log"

	"github.com/kackeymlg-lab/expense-bot/internal/bot"
	"github.com/kackeymlg-lab/expense-bot/internal/config"
	"github.com/kackeymlg-lab/expense-bot/internal/logger"
	"github.com/kackeymlg-lab/expense-bot/internal/repository"
	"github.com/kackeymlg-lab/expense-bot/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}

	repo, err := repository.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		logg.Fatal().Err(err).Msg("не удалось открыть базу данных")
	}
	defer repo.Close()

	svc := service.NewExpenseTracker(repo)

	b, err := bot.NewBot(cfg.TelegramToken, svc, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("не удалось инициализировать бота")
	}

	logg.Info().Msg("💰 бот отслеживания расходов запущен")
	if err := b.Start(); err != nil {
		logg.Fatal().Err(err).Msg("ошибка при работе бота")
	}
}
