package service

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"coffee", "Coffee"},
		{"COFFEE", "Coffee"},
		{"Coffee", "Coffee"},
		{"еда", "Еда"},
		{"ЕДА", "Еда"},
		{"  такси  ", "Такси"},
		{"два слова", "Два слова"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	for _, in := range []string{"coffee", "ЕДА", "Два Слова", "x"} {
		once := NormalizeCategory(in)
		if twice := NormalizeCategory(once); twice != once {
			t.Errorf("NormalizeCategory не идемпотентна: %q -> %q -> %q", in, once, twice)
		}
	}
}
