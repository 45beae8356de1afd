package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
	"github.com/kackeymlg-lab/expense-bot/internal/repository"
)

// fixedNow — 15:00 по UTC+3 15 марта 2025.
var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func testTracker(t *testing.T) (*ExpenseTracker, *repository.SQLiteRepository) {
	t.Helper()
	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := NewExpenseTracker(repo)
	svc.now = func() time.Time { return fixedNow }

	ctx := context.Background()
	if err := svc.RegisterUser(ctx, 1, "tester", "Тест"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if err := svc.SetTimezone(ctx, 1, "UTC+3"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	return svc, repo
}

func TestAddExpenseNormalizesAndDefaults(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	id, err := svc.AddExpense(ctx, 1, 500, "ЕДА", "  ")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	e, err := svc.GetExpense(ctx, id, 1)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if e.Category != "Еда" {
		t.Errorf("Category = %q, want Еда", e.Category)
	}
	if e.Description != model.NoDescription {
		t.Errorf("Description = %q, want sentinel", e.Description)
	}
	if !e.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, fixedNow)
	}
}

func TestAddExpenseIncrementsUsage(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, 1, "Food"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := svc.AddCategory(ctx, 1, "Taxi"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.AddExpense(ctx, 1, 100, "Food", "x"); err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
	}
	if _, err := svc.AddExpense(ctx, 1, 100, "Taxi", "x"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	categories, err := svc.SortedCategories(ctx, 1)
	if err != nil {
		t.Fatalf("SortedCategories: %v", err)
	}
	if categories[0].Name != "Food" || categories[0].UsageCount != 3 {
		t.Errorf("categories[0] = %+v, want Food/3", categories[0])
	}
	if categories[1].Name != "Taxi" || categories[1].UsageCount != 1 {
		t.Errorf("categories[1] = %+v, want Taxi/1", categories[1])
	}
}

func TestDeleteDoesNotDecrementUsage(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, 1, "Еда"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	id, err := svc.AddExpense(ctx, 1, 100, "Еда", "x")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	if err := svc.DeleteExpense(ctx, id, 1); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}

	e, err := svc.GetExpense(ctx, id, 1)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if e != nil {
		t.Error("запись должна быть удалена")
	}

	recent, err := svc.RecentExpenses(ctx, 1, 10)
	if err != nil {
		t.Fatalf("RecentExpenses: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("RecentExpenses после удаления: %+v", recent)
	}

	categories, err := svc.SortedCategories(ctx, 1)
	if err != nil {
		t.Fatalf("SortedCategories: %v", err)
	}
	if categories[0].UsageCount != 1 {
		t.Errorf("счетчик не должен уменьшаться при удалении: %d", categories[0].UsageCount)
	}
}

func TestEditAmountOnly(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	id, err := svc.AddExpense(ctx, 1, 500, "Еда", "Обед")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	amount := 750.0
	if err := svc.EditExpense(ctx, id, repository.ExpenseUpdate{Amount: &amount}); err != nil {
		t.Fatalf("EditExpense: %v", err)
	}

	e, err := svc.GetExpense(ctx, id, 1)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if e.Amount != 750 {
		t.Errorf("Amount = %v, want 750", e.Amount)
	}
	if e.Category != "Еда" || e.Description != "Обед" {
		t.Errorf("остальные поля изменились: %+v", e)
	}
	if !e.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp изменился: %v", e.Timestamp)
	}
}

func TestEditNormalizesCategory(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	id, err := svc.AddExpense(ctx, 1, 500, "Еда", "x")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	category := "ТАКСИ"
	if err := svc.EditExpense(ctx, id, repository.ExpenseUpdate{Category: &category}); err != nil {
		t.Fatalf("EditExpense: %v", err)
	}

	e, err := svc.GetExpense(ctx, id, 1)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if e.Category != "Такси" {
		t.Errorf("Category = %q, want Такси", e.Category)
	}
}

func TestTodayExpensesWindow(t *testing.T) {
	svc, repo := testTracker(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*3600)

	insert := func(ts time.Time, amount float64) {
		t.Helper()
		if _, err := repo.CreateExpense(ctx, &model.Expense{
			UserID: 1, Amount: amount, Category: "Еда", Description: "x", Timestamp: ts.UTC(),
		}); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	insert(time.Date(2025, 3, 15, 0, 0, 0, 0, loc), 1)      // местная полночь — входит
	insert(time.Date(2025, 3, 15, 23, 59, 59, 0, loc), 2)   // последняя секунда дня — входит
	insert(time.Date(2025, 3, 16, 0, 0, 0, 0, loc), 4)      // полночь следующего дня — нет
	insert(time.Date(2025, 3, 14, 23, 59, 59, 0, loc), 8)   // вчера — нет

	expenses, err := svc.TodayExpenses(ctx, 1, "")
	if err != nil {
		t.Fatalf("TodayExpenses: %v", err)
	}
	sum := 0.0
	for _, e := range expenses {
		sum += e.Amount
	}
	if len(expenses) != 2 || sum != 3 {
		t.Errorf("len = %d, sum = %v, want 2 записи на сумму 3", len(expenses), sum)
	}
}

func TestTodayExpensesCategoryFilter(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, 1, 100, "Еда", "x"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := svc.AddExpense(ctx, 1, 200, "Такси", "x"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	// Фильтр нормализует категорию перед сравнением.
	expenses, err := svc.TodayExpenses(ctx, 1, "еда")
	if err != nil {
		t.Fatalf("TodayExpenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Amount != 100 {
		t.Errorf("фильтр по категории: %+v", expenses)
	}
}

func TestMonthTotalWindow(t *testing.T) {
	svc, repo := testTracker(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*3600)

	insert := func(ts time.Time, amount float64) {
		t.Helper()
		if _, err := repo.CreateExpense(ctx, &model.Expense{
			UserID: 1, Amount: amount, Category: "Еда", Description: "x", Timestamp: ts.UTC(),
		}); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	insert(time.Date(2025, 3, 1, 0, 0, 0, 0, loc), 1)    // первое число — входит
	insert(time.Date(2025, 3, 10, 12, 0, 0, 0, loc), 2)  // середина — входит
	insert(time.Date(2025, 3, 20, 12, 0, 0, 0, loc), 4)  // будущий день месяца — нет
	insert(time.Date(2025, 2, 28, 12, 0, 0, 0, loc), 8)  // прошлый месяц — нет
	insert(time.Date(2025, 4, 1, 0, 0, 0, 0, loc), 16)   // следующий месяц — нет

	total, err := svc.MonthTotal(ctx, 1)
	if err != nil {
		t.Fatalf("MonthTotal: %v", err)
	}
	if total != 3 {
		t.Errorf("MonthTotal = %v, want 3", total)
	}
}

func TestTotals(t *testing.T) {
	svc, repo := testTracker(t)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, 1, 500, "Еда", "x"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	// Расход прошлого месяца: попадает в общий итог, но не в месячный.
	if _, err := repo.CreateExpense(ctx, &model.Expense{
		UserID: 1, Amount: 100, Category: "Такси", Description: "x",
		Timestamp: time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	totals, err := svc.Totals(ctx, 1)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Grand != 600 {
		t.Errorf("Grand = %v, want 600", totals.Grand)
	}
	if totals.Month != 500 {
		t.Errorf("Month = %v, want 500", totals.Month)
	}
	if len(totals.ByCategory) != 2 || totals.ByCategory[0].Category != "Еда" {
		t.Errorf("ByCategory = %+v", totals.ByCategory)
	}
}

func TestCategoryReport(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, 1, 500, "Кофе", "x"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := svc.AddExpense(ctx, 1, 250, "кофе", "y"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	report, err := svc.CategoryReport(ctx, 1, "КОФЕ")
	if err != nil {
		t.Fatalf("CategoryReport: %v", err)
	}
	if report.Total != 750 || report.Count != 2 || report.Average != 375 {
		t.Errorf("report = %+v, want 750/2/375", report)
	}

	empty, err := svc.CategoryReport(ctx, 1, "Пусто")
	if err != nil {
		t.Fatalf("CategoryReport: %v", err)
	}
	if empty.Total != 0 || empty.Count != 0 || empty.Average != 0 {
		t.Errorf("пустой отчет = %+v, want нули", empty)
	}
}

func TestCreateDefaultCategories(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	if err := svc.CreateDefaultCategories(ctx, 1); err != nil {
		t.Fatalf("CreateDefaultCategories: %v", err)
	}
	// Повторный вызов ничего не дублирует.
	if err := svc.CreateDefaultCategories(ctx, 1); err != nil {
		t.Fatalf("CreateDefaultCategories: %v", err)
	}

	categories, err := svc.SortedCategories(ctx, 1)
	if err != nil {
		t.Fatalf("SortedCategories: %v", err)
	}
	if len(categories) != 8 {
		t.Fatalf("len = %d, want 8", len(categories))
	}
	for _, c := range categories {
		if c.UsageCount != 0 {
			t.Errorf("новая категория %q имеет usage %d", c.Name, c.UsageCount)
		}
	}
}

func TestTopCategoriesSplit(t *testing.T) {
	svc, _ := testTracker(t)
	ctx := context.Background()

	if err := svc.CreateDefaultCategories(ctx, 1); err != nil {
		t.Fatalf("CreateDefaultCategories: %v", err)
	}

	top, rest, err := svc.TopCategories(ctx, 1)
	if err != nil {
		t.Fatalf("TopCategories: %v", err)
	}
	if len(top) != TopCategoryCount || len(rest) != 8-TopCategoryCount {
		t.Errorf("split = %d/%d, want %d/%d", len(top), len(rest), TopCategoryCount, 8-TopCategoryCount)
	}
}

func TestUserLocationFallback(t *testing.T) {
	svc, _ := testTracker(t)

	// Неизвестный пользователь молча получает UTC.
	if loc := svc.UserLocation(context.Background(), 404); loc != time.UTC {
		t.Errorf("UserLocation(404) = %v, want UTC", loc)
	}
}
