package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kackeymlg-lab/expense-bot/internal/model"

	_ "modernc.org/sqlite"
)

// timeLayout — формат хранения временных меток (UTC). Лексикографическое
// сравнение строк в этом формате совпадает с хронологическим.
const timeLayout = "2006-01-02 15:04:05.999999"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) UpsertUser(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, first_name)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name`,
		user.ID, user.Username, user.FirstName)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	var firstSeen string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, username, first_name, timezone, first_seen
		FROM users WHERE user_id = ?`, userID).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.Timezone, &firstSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	u.FirstSeen = parseTime(firstSeen)
	return &u, nil
}

func (r *SQLiteRepository) SetTimezone(ctx context.Context, userID int64, timezone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET timezone = ? WHERE user_id = ?`, timezone, userID)
	if err != nil {
		return fmt.Errorf("set timezone for user %d: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, expense *model.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount, category, description, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		expense.UserID, expense.Amount, expense.Category, expense.Description,
		formatTime(expense.Timestamp))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}
	expense.ID = id
	return id, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int64, upd ExpenseUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id, userID int64) (*model.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, category, description, timestamp
		FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]model.Expense, error) {
	query := `
		SELECT id, user_id, amount, category, description, timestamp
		FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if filter.From != nil {
		query += " AND timestamp >= ?"
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		query += " AND timestamp <= ?"
		args = append(args, formatTime(*filter.To))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	return expenses, nil
}

func (r *SQLiteRepository) SumExpenses(ctx context.Context, userID int64, from, to time.Time) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE user_id = ? AND timestamp BETWEEN ? AND ?`,
		userID, formatTime(from), formatTime(to)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return sum, nil
}

func (r *SQLiteRepository) GrandTotal(ctx context.Context, userID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ?`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("grand total: %w", err)
	}
	return sum, nil
}

func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount) AS sum_amount, COUNT(*) AS cnt
		FROM expenses WHERE user_id = ?
		GROUP BY category
		ORDER BY sum_amount DESC, category ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Category, &t.Amount, &t.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return totals, nil
}

func (r *SQLiteRepository) CategoryStats(ctx context.Context, userID int64, category string) (float64, int64, error) {
	var total float64
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses
		WHERE user_id = ? AND category = ?`, userID, category).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("category stats: %w", err)
	}
	return total, count, nil
}

func (r *SQLiteRepository) EnsureCategory(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_categories (user_id, category)
		VALUES (?, ?)
		ON CONFLICT(user_id, category) DO NOTHING`, userID, name)
	if err != nil {
		return fmt.Errorf("ensure category %q: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) IncrementCategoryUsage(ctx context.Context, userID int64, name string) error {
	// Отсутствие строки не считается ошибкой: категория могла быть
	// вписана в расход напрямую, минуя справочник.
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_categories SET usage_count = usage_count + 1
		WHERE user_id = ? AND category = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("increment category %q: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) GetCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, usage_count, created_at
		FROM user_categories WHERE user_id = ?
		ORDER BY usage_count DESC, category ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.UsageCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return categories, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var e model.Expense
	var ts string
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &ts); err != nil {
		return nil, err
	}
	e.Timestamp = parseTime(ts)
	return &e, nil
}
