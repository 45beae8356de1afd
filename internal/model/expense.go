package model

import "time"

// NoDescription подставляется, если пользователь не указал описание расхода.
const NoDescription = "Без описания"

type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
