package main

import (
	"context"

	"github.com/kackeymlg-lab/expense-bot/internal/bot"
	"github.com/kackeymlg-lab/expense-bot/internal/config"
	"github.com/kackeymlg-lab/expense-bot/internal/logger"
	"github.com/kackeymlg-lab/expense-bot/internal/repository"
	"github.com/kackeymlg-lab/expense-bot/internal/service"
)

// Request — структура входящего запроса от API Gateway.
type Request struct {
	Body string `json:"body"`
}

// Response — структура ответа для API Gateway.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler обрабатывает один webhook-апдейт в serverless-окружении.
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	logg, err := logger.New(cfg.LogFile)
	if err != nil {
		return errorResponse(err)
	}

	repo, err := repository.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		return errorResponse(err)
	}
	defer repo.Close()

	svc := service.NewExpenseTracker(repo)

	b, err := bot.NewBot(cfg.TelegramToken, svc, logg)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования.
}
