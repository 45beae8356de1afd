package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
)

// TopCategoryCount — сколько самых используемых категорий попадает в
// верхний ряд клавиатуры.
const TopCategoryCount = 5

// defaultCategories создаются для каждого нового пользователя.
var defaultCategories = []string{
	"Еда",
	"Продукты",
	"Транспорт",
	"Развлечения",
	"Подписки",
	"Здоровье",
	"Одежда",
	"Другое",
}

// NormalizeCategory приводит название категории к каноническому виду:
// нижний регистр, первая буква заглавная. Операция идемпотентна.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// CreateDefaultCategories заводит стандартный набор категорий с нулевым
// счетчиком. Уже существующие не трогаются, повторный вызов безопасен.
func (s *ExpenseTracker) CreateDefaultCategories(ctx context.Context, userID int64) error {
	for _, name := range defaultCategories {
		if err := s.repo.EnsureCategory(ctx, userID, name); err != nil {
			return fmt.Errorf("create default category %q: %w", name, err)
		}
	}
	return nil
}

// AddCategory регистрирует категорию пользователя; если она уже есть,
// вызов успешно ничего не делает.
func (s *ExpenseTracker) AddCategory(ctx context.Context, userID int64, name string) error {
	return s.repo.EnsureCategory(ctx, userID, NormalizeCategory(name))
}

// SortedCategories возвращает категории по убыванию использования,
// при равенстве — по алфавиту.
func (s *ExpenseTracker) SortedCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	return s.repo.GetCategories(ctx, userID)
}

// TopCategories делит отсортированный список на верхние TopCategoryCount
// категорий и остаток.
func (s *ExpenseTracker) TopCategories(ctx context.Context, userID int64) ([]model.Category, []model.Category, error) {
	categories, err := s.SortedCategories(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(categories) <= TopCategoryCount {
		return categories, nil, nil
	}
	return categories[:TopCategoryCount], categories[TopCategoryCount:], nil
}
