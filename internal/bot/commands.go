package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
	"github.com/kackeymlg-lab/expense-bot/internal/service"
)

func (b *Bot) handleCommand(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	// Команда сбрасывает незавершенный диалог; команды-входы в диалог
	// установят состояние заново.
	b.sessions.Clear(m.From.ID)

	args := strings.TrimSpace(m.CommandArguments())

	switch m.Command() {
	case "start":
		b.handleStart(log, m)
	case "help":
		b.handleHelp(ctx, m)
	case "spend":
		b.handleSpend(ctx, log, m, args)
	case "today":
		b.handleToday(ctx, log, m, args)
	case "stats":
		b.handleStats(ctx, log, m, args)
	case "list":
		b.handleList(ctx, log, m)
	case "edit":
		b.handleEdit(ctx, log, m, args)
	case "delete":
		b.handleDelete(ctx, log, m, args)
	case "categories":
		b.handleCategories(ctx, log, m)
	case "timezone":
		b.handleTimezone(m)
	default:
		b.reply(m.Chat.ID, msgNotUnderstood)
	}
}

func (b *Bot) handleStart(log zerolog.Logger, m *tgbotapi.Message) {
	log.Info().Msg("пользователь начал чат")
	b.sessions.Set(m.From.ID, model.State{Kind: model.StateChoosingTimezone})
	b.replyKeyboard(m.Chat.ID,
		fmt.Sprintf("👋 Привет, %s!\n\nЯ помогу отслеживать твои расходы 💰\n\nСначала выбери свой часовой пояс:", m.From.FirstName),
		timezoneKeyboard())
}

func (b *Bot) handleHelp(ctx context.Context, m *tgbotapi.Message) {
	text := `📚 Доступные команды:

💰 /spend [сумма] [категория] [описание] — добавить расход
   Пример: /spend 500 Кофе Латте в кафе
   /spend без аргументов запускает пошаговое добавление

📋 /today [категория] — расходы за день
📊 /stats [категория] — статистика расходов
📝 /list — последние записи
✏️ /edit <номер> — изменить запись
🗑 /delete <номер> — удалить запись
🏷 /categories — твои категории
🌍 /timezone — сменить часовой пояс
❓ /help — эта справка`

	if categories, err := b.service.SortedCategories(ctx, m.From.ID); err == nil && len(categories) > 0 {
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		text += "\n\nКатегории: " + strings.Join(names, ", ")
	}

	b.reply(m.Chat.ID, text)
}

// handleSpend обрабатывает короткую форму /spend 500 Кофе Латте в кафе.
// Без аргументов запускается обычный пошаговый диалог.
func (b *Bot) handleSpend(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, args string) {
	if args == "" {
		b.startExpenseFlow(ctx, log, m, msgChooseCategory)
		return
	}

	// Повторные пробелы между аргументами не должны давать пустую
	// категорию, поэтому остаток после каждого токена зачищается.
	amountArg, rest, _ := strings.Cut(args, " ")
	category, description, _ := strings.Cut(strings.TrimSpace(rest), " ")
	description = strings.TrimSpace(description)
	if category == "" {
		b.reply(m.Chat.ID, "❌ Использование: /spend [сумма] [категория] [описание]\nПример: /spend 500 Кофе Латте в кафе")
		return
	}

	amount, err := parseAmount(amountArg)
	if err != nil {
		b.reply(m.Chat.ID, msgBadAmount)
		return
	}

	b.addExpense(ctx, log, m, amount, category, description)
}

func (b *Bot) handleToday(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, category string) {
	expenses, err := b.service.TodayExpenses(ctx, m.From.ID, category)
	if err != nil {
		log.Error().Err(err).Msg("ошибка получения расходов за день")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	if len(expenses) == 0 {
		b.reply(m.Chat.ID, "📋 Расходов сегодня нет")
		return
	}

	loc := b.service.UserLocation(ctx, m.From.ID)
	total := 0.0
	text := fmt.Sprintf("📋 Расходы за сегодня (%d)\n\n", len(expenses))
	for _, e := range expenses {
		total += e.Amount
		text += fmt.Sprintf("⏰ %s | 💰 %s₽ | %s — %s\n",
			e.Timestamp.In(loc).Format("15:04"), formatAmount(e.Amount), e.Category, e.Description)
	}
	text += fmt.Sprintf("\nИтого: %s₽", formatAmount(total))

	b.reply(m.Chat.ID, text)
}

func (b *Bot) handleStats(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, category string) {
	if category != "" {
		b.sendCategoryReport(ctx, log, m, category)
		return
	}
	b.sessions.Set(m.From.ID, model.State{Kind: model.StateChoosingStatsMode})
	b.replyKeyboard(m.Chat.ID, "Какую статистику показать?", statsModeKeyboard())
}

func (b *Bot) handleList(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	expenses, err := b.service.RecentExpenses(ctx, m.From.ID, 10)
	if err != nil {
		log.Error().Err(err).Msg("ошибка получения списка расходов")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	if len(expenses) == 0 {
		b.reply(m.Chat.ID, "📝 Записей пока нет")
		return
	}

	loc := b.service.UserLocation(ctx, m.From.ID)
	text := "📝 Последние записи:\n\n"
	for _, e := range expenses {
		text += fmt.Sprintf("№%d | %s | 💰 %s₽ | %s — %s\n",
			e.ID, e.Timestamp.In(loc).Format("02.01 15:04"), formatAmount(e.Amount), e.Category, e.Description)
	}
	text += "\n✏️ /edit <номер> — изменить, 🗑 /delete <номер> — удалить"

	b.reply(m.Chat.ID, text)
}

func (b *Bot) handleEdit(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, args string) {
	id, ok := parseExpenseID(args)
	if !ok {
		b.reply(m.Chat.ID, "❌ Укажи номер записи: /edit 12")
		return
	}

	expense, err := b.service.GetExpense(ctx, id, m.From.ID)
	if err != nil {
		log.Error().Err(err).Int64("expense_id", id).Msg("ошибка поиска записи")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}
	if expense == nil {
		b.reply(m.Chat.ID, msgNotFound)
		return
	}

	b.sessions.Set(m.From.ID, model.State{Kind: model.StateEditing, ExpenseID: id})
	b.replyKeyboard(m.Chat.ID,
		fmt.Sprintf("Что изменить в записи №%d?\n\n💰 %s₽ | %s — %s",
			expense.ID, formatAmount(expense.Amount), expense.Category, expense.Description),
		editFieldsKeyboard())
}

func (b *Bot) handleDelete(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, args string) {
	id, ok := parseExpenseID(args)
	if !ok {
		b.reply(m.Chat.ID, "❌ Укажи номер записи: /delete 12")
		return
	}

	expense, err := b.service.GetExpense(ctx, id, m.From.ID)
	if err != nil {
		log.Error().Err(err).Int64("expense_id", id).Msg("ошибка поиска записи")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}
	if expense == nil {
		b.reply(m.Chat.ID, msgNotFound)
		return
	}

	if err := b.service.DeleteExpense(ctx, id, m.From.ID); err != nil {
		log.Error().Err(err).Int64("expense_id", id).Msg("ошибка удаления записи")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	log.Info().Int64("expense_id", id).Msg("запись удалена")
	b.reply(m.Chat.ID, fmt.Sprintf("🗑 Запись №%d удалена", id))
}

func (b *Bot) handleCategories(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message) {
	categories, err := b.service.SortedCategories(ctx, m.From.ID)
	if err != nil {
		log.Error().Err(err).Msg("ошибка получения категорий")
		b.reply(m.Chat.ID, msgStorageError)
		return
	}

	if len(categories) == 0 {
		b.reply(m.Chat.ID, "🏷 Категорий пока нет — начни с /start")
		return
	}

	text := "🏷 Твои категории:\n\n"
	for _, c := range categories {
		text += fmt.Sprintf("• %s — %d\n", c.Name, c.UsageCount)
	}
	b.reply(m.Chat.ID, text)
}

func (b *Bot) handleTimezone(m *tgbotapi.Message) {
	b.sessions.Set(m.From.ID, model.State{Kind: model.StateChoosingTimezone})
	b.replyKeyboard(m.Chat.ID, "🌍 Выбери часовой пояс:", timezoneKeyboard())
}

// addExpense сохраняет расход и отвечает подтверждением. Общий путь для
// короткой формы /spend и пошагового диалога.
func (b *Bot) addExpense(ctx context.Context, log zerolog.Logger, m *tgbotapi.Message, amount float64, category, description string) {
	id, err := b.service.AddExpense(ctx, m.From.ID, amount, category, description)
	if err != nil {
		log.Error().Err(err).Msg("ошибка добавления расхода")
		b.reply(m.Chat.ID, "❌ Ошибка при добавлении расхода")
		return
	}

	if strings.TrimSpace(description) == "" {
		description = model.NoDescription
	}
	log.Info().Int64("expense_id", id).Float64("amount", amount).Msg("расход добавлен")
	b.replyKeyboard(m.Chat.ID,
		fmt.Sprintf("✅ Расход №%d добавлен!\n\n💰 Сумма: %s₽\n🏷 Категория: %s\n📝 Описание: %s",
			id, formatAmount(amount), service.NormalizeCategory(category), description),
		mainKeyboard())
}

func parseExpenseID(args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
