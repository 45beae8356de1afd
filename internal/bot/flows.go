package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
	"github.com/kackeymlg-lab/expense-bot/internal/repository"
	"github.com/kackeymlg-lab/expense-bot/internal/service"
	"github.com/kackeymlg-lab/expense-bot/internal/timezone"
)

var errBadAmount = errors.New("сумма не распознана")

// handleText обрабатывает сообщения без команды: кнопки меню и шаги
// открытого диалога.
func (b *Bot) handleText(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	text := strings.TrimSpace(m.Text)
	userID := m.From.ID

	// Отмена работает из любого состояния.
	if text == btnBack || text == btnCancel {
		b.sessions.Clear(userID)
		b.replyKeyboard(m.Chat.ID, msgChooseAction, mainKeyboard())
		return
	}

	if state, ok := b.sessions.Get(userID); ok {
		b.continueFlow(ctx, log, m, state)
		return
	}

	switch text {
	case btnAddExpense:
		b.startExpenseFlow(ctx, log, m, msgChooseCategory)
	case btnToday:
		b.handleToday(ctx, log, m, "")
	case btnList:
		b.handleList(ctx, log, m)
	case btnStats:
		b.handleStats(ctx, log, m, "")
	case btnCategories:
		b.handleCategories(ctx, log, m)
	case btnHelp:
		b.handleHelp(ctx, m)
	default:
		b.reply(m.Chat.ID, msgNotUnderstood)
	}
}

func (b *Bot) continueFlow(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, state model.State) {
	switch state.Kind {
	case model.StateChoosingTimezone:
		b.stepChoosingTimezone(ctx, log, m)
	case model.StateChoosingCategory:
		b.stepChoosingCategory(ctx, log, m)
	case model.StateAddingCategory:
		b.stepAddingCategory(ctx, log, m)
	case model.StateWaitingAmount:
		b.stepWaitingAmount(m, state)
	case model.StateWaitingDescription:
		b.stepWaitingDescription(ctx, log, m, state)
	case model.StateChoosingStatsMode:
		b.stepChoosingStatsMode(ctx, log, m)
	case model.StateChoosingCategoryForStats:
		b.stepChoosingCategoryForStats(ctx, log, m)
	case model.StateEditing:
		b.stepEditing(m, state)
	case model.StateEditingField:
		b.stepEditingField(ctx, log, m, state)
	default:
		b.sessions.Clear(m.From.ID)
		b.reply(m.Chat.ID, msgNotUnderstood)
	}
}

// startExpenseFlow показывает клавиатуру категорий и переводит пользователя
// в выбор категории.
func (b *Bot) startExpenseFlow(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, prompt string) {
	b.sendCategoryChoice(ctx, log, m, prompt, true, model.StateChoosingCategory)
}

func (b *Bot) sendCategoryChoice(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, prompt string, withNew bool, kind model.StateKind) {
	top, rest, err := b.service.TopCategories(ctx, m.From.ID)
	if err != nil {
		log.Error().Err(err).Msg("ошибка получения категорий")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	b.sessions.Set(m.From.ID, model.State{Kind: kind})
	b.replyKeyboard(m.Chat.ID, prompt, categoriesKeyboard(top, rest, withNew))
}

func (b *Bot) stepChoosingTimezone(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	label := strings.TrimSpace(m.Text)
	if !timezone.IsValid(label) {
		b.replyKeyboard(m.Chat.ID, "❌ Выбери часовой пояс кнопкой ниже", timezoneKeyboard())
		return
	}

	if err := b.service.SetTimezone(ctx, m.From.ID, label); err != nil {
		log.Error().Err(err).Msg("ошибка сохранения часового пояса")
		b.sessions.Clear(m.From.ID)
		b.reply(m.Chat.ID, msgStorageError)
		return
	}
	if err := b.service.CreateDefaultCategories(ctx, m.From.ID); err != nil {
		log.Error().Err(err).Msg("ошибка создания категорий по умолчанию")
	}

	b.sessions.Clear(m.From.ID)
	log.Info().Str("timezone", label).Msg("часовой пояс сохранён")
	b.replyKeyboard(m.Chat.ID,
		fmt.Sprintf("✅ Часовой пояс %s сохранён\n\n%s", label, msgChooseAction),
		mainKeyboard())
}

func (b *Bot) stepChoosingCategory(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	text := strings.TrimSpace(m.Text)

	if text == btnNewCategory {
		b.sessions.Set(m.From.ID, model.State{Kind: model.StateAddingCategory})
		b.replyKeyboard(m.Chat.ID, "Введи название новой категории:", cancelKeyboard())
		return
	}

	name, found := strings.CutPrefix(text, categoryPrefix)
	if !found {
		b.sendCategoryChoice(ctx, log, m, "❌ Выбери категорию кнопкой ниже", true, model.StateChoosingCategory)
		return
	}

	category := service.NormalizeCategory(name)
	b.sessions.Set(m.From.ID, model.State{Kind: model.StateWaitingAmount, Category: category})
	b.replyKeyboard(m.Chat.ID, fmt.Sprintf("💰 Введи сумму расхода (%s):", category), cancelKeyboard())
}

func (b *Bot) stepAddingCategory(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	name := service.NormalizeCategory(m.Text)
	if name == "" {
		b.reply(m.Chat.ID, "❌ Название категории не может быть пустым")
		return
	}

	if err := b.service.AddCategory(ctx, m.From.ID, name); err != nil {
		log.Error().Err(err).Msg("ошибка создания категории")
		b.sessions.Clear(m.From.ID)
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	b.sessions.Set(m.From.ID, model.State{Kind: model.StateWaitingAmount, Category: name})
	b.replyKeyboard(m.Chat.ID, fmt.Sprintf("💰 Введи сумму расхода (%s):", name), cancelKeyboard())
}

func (b *Bot) stepWaitingAmount(m *tgbotapi.Message, state model.State) {
	amount, err := parseAmount(m.Text)
	if err != nil {
		// Состояние не трогаем: выбранная категория остается.
		b.reply(m.Chat.ID, msgBadAmount)
		return
	}

	b.sessions.Set(m.From.ID, model.State{
		Kind:     model.StateWaitingDescription,
		Category: state.Category,
		Amount:   amount,
	})
	b.replyKeyboard(m.Chat.ID, "📝 Введи описание или нажми «Пропустить»", skipKeyboard())
}

func (b *Bot) stepWaitingDescription(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, state model.State) {
	description := strings.TrimSpace(m.Text)
	if isSkip(description) {
		description = ""
	}

	b.sessions.Clear(m.From.ID)
	b.addExpense(ctx, log, m, state.Amount, state.Category, description)
}

func (b *Bot) stepChoosingStatsMode(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	switch strings.TrimSpace(m.Text) {
	case btnStatsOverall:
		b.sessions.Clear(m.From.ID)
		b.sendTotals(ctx, log, m)
	case btnStatsByCategory:
		b.sendCategoryChoice(ctx, log, m, "По какой категории показать статистику?", false, model.StateChoosingCategoryForStats)
	default:
		b.replyKeyboard(m.Chat.ID, "❌ Выбери вариант кнопкой ниже", statsModeKeyboard())
	}
}

func (b *Bot) stepChoosingCategoryForStats(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	name, found := strings.CutPrefix(strings.TrimSpace(m.Text), categoryPrefix)
	if !found {
		b.sendCategoryChoice(ctx, log, m, "❌ Выбери категорию кнопкой ниже", false, model.StateChoosingCategoryForStats)
		return
	}

	b.sessions.Clear(m.From.ID)
	b.sendCategoryReport(ctx, log, m, name)
}

func (b *Bot) stepEditing(m *tgbotapi.Message, state model.State) {
	var field model.ExpenseField
	var prompt string

	switch strings.TrimSpace(m.Text) {
	case btnFieldAmount:
		field, prompt = model.FieldAmount, "💰 Введи новую сумму:"
	case btnFieldCategory:
		field, prompt = model.FieldCategory, "🏷 Введи новую категорию:"
	case btnFieldDescription:
		field, prompt = model.FieldDescription, "📝 Введи новое описание:"
	default:
		b.replyKeyboard(m.Chat.ID, "❌ Выбери поле кнопкой ниже", editFieldsKeyboard())
		return
	}

	b.sessions.Set(m.From.ID, model.State{
		Kind:      model.StateEditingField,
		ExpenseID: state.ExpenseID,
		Field:     field,
	})
	b.replyKeyboard(m.Chat.ID, prompt, cancelKeyboard())
}

func (b *Bot) stepEditingField(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, state model.State) {
	var upd repository.ExpenseUpdate

	switch state.Field {
	case model.FieldAmount:
		amount, err := parseAmount(m.Text)
		if err != nil {
			// Состояние сохраняется: пользователь может повторить ввод.
			b.reply(m.Chat.ID, msgBadAmount)
			return
		}
		upd.Amount = &amount
	case model.FieldCategory:
		category := strings.TrimSpace(m.Text)
		upd.Category = &category
	case model.FieldDescription:
		description := m.Text
		upd.Description = &description
	}

	b.sessions.Clear(m.From.ID)
	if err := b.service.EditExpense(ctx, state.ExpenseID, upd); err != nil {
		log.Error().Err(err).Int64("expense_id", state.ExpenseID).Msg("ошибка обновления записи")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	log.Info().Int64("expense_id", state.ExpenseID).Str("field", string(state.Field)).Msg("запись обновлена")
	b.replyKeyboard(m.Chat.ID, fmt.Sprintf("✅ Запись №%d обновлена", state.ExpenseID), mainKeyboard())
}

func (b *Bot) sendTotals(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	totals, err := b.service.Totals(ctx, m.From.ID)
	if err != nil {
		log.Error().Err(err).Msg("ошибка получения статистики")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	text := fmt.Sprintf("📊 СТАТИСТИКА РАСХОДОВ\n\n💰 Всего расходов: %s₽\n📅 За этот месяц: %s₽\n\n🏆 По категориям:\n",
		formatAmount(totals.Grand), formatAmount(totals.Month))
	if len(totals.ByCategory) == 0 {
		text += "  (Нет данных)"
	} else {
		for _, t := range totals.ByCategory {
			text += fmt.Sprintf("  • %s: %s₽ (%d)\n", t.Category, formatAmount(t.Amount), t.Count)
		}
	}
	b.replyKeyboard(m.Chat.ID, text, mainKeyboard())

	png, err := b.charts.CategoryPie(totals.ByCategory)
	if err != nil {
		log.Error().Err(err).Msg("ошибка построения диаграммы")
		return
	}
	if png == nil {
		return
	}
	photo := tgbotapi.NewPhoto(m.Chat.ID, tgbotapi.FileBytes{Name: "stats.png", Bytes: png})
	photo.Caption = "Расходы по категориям"
	if _, err := b.send.Send(photo); err != nil {
		log.Error().Err(err).Msg("не удалось отправить диаграмму")
	}
}

func (b *Bot) sendCategoryReport(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, category string) {
	report, err := b.service.CategoryReport(ctx, m.From.ID, category)
	if err != nil {
		log.Error().Err(err).Msg("ошибка получения статистики по категории")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	if report.Count == 0 {
		b.reply(m.Chat.ID, fmt.Sprintf("📊 По категории %s расходов нет", report.Category))
		return
	}

	b.reply(m.Chat.ID, fmt.Sprintf(
		"📊 Категория: %s\n\n💰 Всего: %s₽\n🔢 Записей: %d\n📈 В среднем: %s₽",
		report.Category, formatAmount(report.Total), report.Count, formatAmount(report.Average)))
}

// parseAmount разбирает сумму из пользовательского ввода. Запятая
// принимается как десятичный разделитель; сумма должна быть больше нуля.
func parseAmount(text string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errBadAmount
	}
	return v, nil
}

func isSkip(text string) bool {
	l := strings.ToLower(strings.TrimSpace(text))
	return l == "пропустить" || l == "skip"
}
