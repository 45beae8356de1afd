package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLabel — часовой пояс по умолчанию для новых пользователей.
const DefaultLabel = "UTC+3"

const maxOffset = 12

// Labels возвращает полный список поддерживаемых часовых поясов.
func Labels() []string {
	labels := make([]string, 0, maxOffset+1)
	for i := 0; i <= maxOffset; i++ {
		labels = append(labels, fmt.Sprintf("UTC+%d", i))
	}
	return labels
}

// IsValid сообщает, является ли строка известной меткой часового пояса.
func IsValid(label string) bool {
	_, ok := offset(label)
	return ok
}

// Location преобразует метку вида "UTC+3" в фиксированную зону.
// Неизвестная метка молча превращается в UTC.
func Location(label string) *time.Location {
	n, ok := offset(label)
	if !ok {
		return time.UTC
	}
	if n == 0 {
		return time.UTC
	}
	return time.FixedZone(label, n*3600)
}

func offset(label string) (int, bool) {
	rest, found := strings.CutPrefix(label, "UTC+")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || n > maxOffset {
		return 0, false
	}
	// Atoi принимает знак и ведущие нули, а набор меток закрытый:
	// "UTC+03" и "UTC++3" метками не являются.
	if rest != strconv.Itoa(n) {
		return 0, false
	}
	return n, true
}

// DayWindowAt возвращает границы текущего локального дня: от полуночи
// до 23:59:59.999999 включительно.
func DayWindowAt(loc *time.Location, now time.Time) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999000, loc)
	return start, end
}

// MonthWindowAt возвращает окно "месяц до текущего дня": от полуночи
// первого числа до конца текущего локального дня. Будущие дни месяца
// в окно не входят.
func MonthWindowAt(loc *time.Location, now time.Time) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	_, end := DayWindowAt(loc, now)
	return start, end
}
