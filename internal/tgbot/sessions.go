package tgbot

import (
	"sync"
)

// BindSessions - потокобезопасный набор пользователей, ждущих ввода данных API.
// Режим привязки хранится на каждого пользователя отдельно, а не глобальным флагом.
type BindSessions struct {
	mu    sync.RWMutex
	items map[int64]struct{}
}

// NewBindSessions - создать новый BindSessions
func NewBindSessions() *BindSessions {
	return &BindSessions{
		items: make(map[int64]struct{}),
	}
}

// Arm - включить режим привязки для пользователя
func (s *BindSessions) Arm(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = struct{}{}
}

// Disarm - выключить режим привязки для пользователя
func (s *BindSessions) Disarm(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
}

// Armed - проверить, ждёт ли пользователь ввода данных API
func (s *BindSessions) Armed(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.items[userID]
	return exists
}

// Len - получить количество пользователей в режиме привязки
func (s *BindSessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
