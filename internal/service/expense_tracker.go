package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
	"github.com/kackeymlg-lab/expense-bot/internal/repository"
	"github.com/kackeymlg-lab/expense-bot/internal/timezone"
)

// ExpenseTracker предоставляет методы для работы с расходами пользователя.
type ExpenseTracker struct {
	repo repository.Repository
	now  func() time.Time
}

// NewExpenseTracker создает новый экземпляр ExpenseTracker.
func NewExpenseTracker(repo repository.Repository) *ExpenseTracker {
	return &ExpenseTracker{
		repo: repo,
		now:  time.Now,
	}
}

// RegisterUser сохраняет пользователя. Вызывается на каждое входящее
// сообщение, поэтому повторный вызов лишь обновляет имя.
func (s *ExpenseTracker) RegisterUser(ctx context.Context, userID int64, username, firstName string) error {
	return s.repo.UpsertUser(ctx, &model.User{
		ID:        userID,
		Username:  username,
		FirstName: firstName,
	})
}

func (s *ExpenseTracker) SetTimezone(ctx context.Context, userID int64, label string) error {
	return s.repo.SetTimezone(ctx, userID, label)
}

// UserLocation возвращает часовой пояс пользователя. Любая проблема —
// неизвестный пользователь, нераспознанная метка, ошибка хранилища —
// молча сводится к UTC.
func (s *ExpenseTracker) UserLocation(ctx context.Context, userID int64) *time.Location {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return time.UTC
	}
	return timezone.Location(user.Timezone)
}

// AddExpense создает запись о расходе и увеличивает счетчик использования
// категории. Категория нормализуется, пустое описание заменяется заглушкой.
func (s *ExpenseTracker) AddExpense(ctx context.Context, userID int64, amount float64, category, description string) (int64, error) {
	category = NormalizeCategory(category)
	if strings.TrimSpace(description) == "" {
		description = model.NoDescription
	}

	id, err := s.repo.CreateExpense(ctx, &model.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: description,
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}

	// Счетчик не связан с записью транзакционно: расход без инкремента
	// допустим, расход важнее счетчика.
	_ = s.repo.IncrementCategoryUsage(ctx, userID, category)

	return id, nil
}

// EditExpense обновляет отдельные поля записи. Временная метка и счетчики
// категорий не меняются.
func (s *ExpenseTracker) EditExpense(ctx context.Context, id int64, upd repository.ExpenseUpdate) error {
	if upd.Category != nil {
		normalized := NormalizeCategory(*upd.Category)
		upd.Category = &normalized
	}
	return s.repo.UpdateExpense(ctx, id, upd)
}

func (s *ExpenseTracker) DeleteExpense(ctx context.Context, id, userID int64) error {
	return s.repo.DeleteExpense(ctx, id, userID)
}

// GetExpense возвращает запись с проверкой владельца; (nil, nil) если
// записи нет или она чужая.
func (s *ExpenseTracker) GetExpense(ctx context.Context, id, userID int64) (*model.Expense, error) {
	return s.repo.GetExpense(ctx, id, userID)
}

func (s *ExpenseTracker) RecentExpenses(ctx context.Context, userID int64, limit int) ([]model.Expense, error) {
	return s.repo.GetExpenses(ctx, userID, repository.ExpenseFilter{Limit: limit})
}

// TodayExpenses возвращает расходы за текущий локальный день пользователя,
// при непустой категории — только по ней.
func (s *ExpenseTracker) TodayExpenses(ctx context.Context, userID int64, category string) ([]model.Expense, error) {
	loc := s.UserLocation(ctx, userID)
	from, to := timezone.DayWindowAt(loc, s.now())

	filter := repository.ExpenseFilter{From: &from, To: &to}
	if category != "" {
		filter.Category = NormalizeCategory(category)
	}
	return s.repo.GetExpenses(ctx, userID, filter)
}

// MonthTotal возвращает сумму расходов с начала месяца по конец текущего
// локального дня.
func (s *ExpenseTracker) MonthTotal(ctx context.Context, userID int64) (float64, error) {
	loc := s.UserLocation(ctx, userID)
	from, to := timezone.MonthWindowAt(loc, s.now())
	return s.repo.SumExpenses(ctx, userID, from, to)
}

// Totals содержит сводную статистику расходов пользователя.
type Totals struct {
	Grand      float64
	Month      float64
	ByCategory []repository.CategoryTotal
}

func (s *ExpenseTracker) Totals(ctx context.Context, userID int64) (*Totals, error) {
	grand, err := s.repo.GrandTotal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}
	month, err := s.MonthTotal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}
	byCategory, err := s.repo.CategoryTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}
	return &Totals{Grand: grand, Month: month, ByCategory: byCategory}, nil
}

// CategoryReport — статистика по одной категории.
type CategoryReport struct {
	Category string
	Total    float64
	Count    int64
	Average  float64
}

func (s *ExpenseTracker) CategoryReport(ctx context.Context, userID int64, category string) (*CategoryReport, error) {
	category = NormalizeCategory(category)
	total, count, err := s.repo.CategoryStats(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("category report: %w", err)
	}
	report := &CategoryReport{Category: category, Total: total, Count: count}
	if count > 0 {
		report.Average = total / float64(count)
	}
	return report, nil
}
