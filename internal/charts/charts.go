package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/kackeymlg-lab/expense-bot/internal/repository"
)

// ChartGenerator строит изображения для отчетов бота.
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// CategoryPie строит круговую диаграмму расходов по категориям.
// Возвращает nil без ошибки, если рисовать нечего.
func (g *ChartGenerator) CategoryPie(totals []repository.CategoryTotal) ([]byte, error) {
	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Amount <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s — %.0f", t.Category, t.Amount),
			Value: t.Amount,
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Width:  700,
		Height: 700,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
