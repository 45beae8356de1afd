package bot

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kackeymlg-lab/expense-bot/internal/charts"
	"github.com/kackeymlg-lab/expense-bot/internal/service"
)

// Sender отправляет сообщения в чат. *tgbotapi.BotAPI реализует его;
// в тестах подставляется заглушка.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	send     Sender
	service  *service.ExpenseTracker
	sessions *Sessions
	charts   *charts.ChartGenerator
	log      zerolog.Logger
}

func NewBot(token string, svc *service.ExpenseTracker, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	b := newBot(api, svc, log)
	b.api = api
	return b, nil
}

func newBot(send Sender, svc *service.ExpenseTracker, log zerolog.Logger) *Bot {
	return &Bot{
		send:     send,
		service:  svc,
		sessions: NewSessions(),
		charts:   charts.NewChartGenerator(),
		log:      log,
	}
}

// Start запускает бота в режиме long polling.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info().Str("account", b.api.Self.UserName).Msg("бот запущен")

	for update := range updates {
		b.handleUpdate(update)
	}

	return nil
}

// HandleWebhook — точка входа для обработки входящих webhook-обновлений.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	b.handleUpdate(update)
	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	m := update.Message
	if m == nil || m.From == nil {
		return
	}

	ctx := context.Background()
	log := b.log.With().
		Str("trace_id", uuid.New().String()).
		Int64("user_id", m.From.ID).
		Logger()

	// Пользователь сохраняется до любой другой обработки, чтобы каждая
	// запись о расходе ссылалась на известного пользователя.
	if err := b.service.RegisterUser(ctx, m.From.ID, m.From.UserName, m.From.FirstName); err != nil {
		log.Error().Err(err).Msg("не удалось сохранить пользователя")
	}

	if m.IsCommand() {
		b.handleCommand(ctx, log, m)
		return
	}
	b.handleText(ctx, log, m)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.send.Send(msg); err != nil {
		b.log.Error().Err(err).Msg("не удалось отправить сообщение")
	}
}

func (b *Bot) replyKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.send.Send(msg); err != nil {
		b.log.Error().Err(err).Msg("не удалось отправить сообщение")
	}
}
