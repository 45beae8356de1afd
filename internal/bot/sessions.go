package bot

import (
	"sync"

	"github.com/kackeymlg-lab/expense-bot/internal/model"
)

// Sessions хранит состояния диалогов по ID пользователя. На пользователя
// приходится не больше одного состояния; новое полностью замещает старое.
// Хранилище живет только в памяти процесса и теряется при перезапуске.
type Sessions struct {
	mu     sync.RWMutex
	states map[int64]model.State
}

func NewSessions() *Sessions {
	return &Sessions{states: make(map[int64]model.State)}
}

// Get возвращает состояние пользователя; false означает главное меню.
func (s *Sessions) Get(userID int64) (model.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	return state, ok
}

func (s *Sessions) Set(userID int64, state model.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

func (s *Sessions) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
