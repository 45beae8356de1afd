package repository

import (
	"context"
	"time"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
)

// Repository определяет интерфейс для работы с хранилищем данных.
type Repository interface {
	// Пользователи
	UpsertUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	SetTimezone(ctx context.Context, userID int64, timezone string) error

	// Расходы
	CreateExpense(ctx context.Context, expense *model.Expense) (int64, error)
	UpdateExpense(ctx context.Context, id int64, upd ExpenseUpdate) error
	DeleteExpense(ctx context.Context, id, userID int64) error
	GetExpense(ctx context.Context, id, userID int64) (*model.Expense, error)
	GetExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]model.Expense, error)
	SumExpenses(ctx context.Context, userID int64, from, to time.Time) (float64, error)
	GrandTotal(ctx context.Context, userID int64) (float64, error)
	CategoryTotals(ctx context.Context, userID int64) ([]CategoryTotal, error)
	CategoryStats(ctx context.Context, userID int64, category string) (float64, int64, error)

	// Категории
	EnsureCategory(ctx context.Context, userID int64, name string) error
	IncrementCategoryUsage(ctx context.Context, userID int64, name string) error
	GetCategories(ctx context.Context, userID int64) ([]model.Category, error)
}

// ExpenseUpdate описывает частичное обновление записи: меняются только
// поля с ненулевыми указателями. Временная метка записи не затрагивается.
type ExpenseUpdate struct {
	Amount      *float64
	Category    *string
	Description *string
}

// ExpenseFilter задает выборку расходов пользователя.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
	Limit    int
}

// CategoryTotal — строка разбивки расходов по категории.
type CategoryTotal struct {
	Category string
	Amount   float64
	Count    int64
}
