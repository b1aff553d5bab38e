package creds

import (
	"context"
	"fmt"
	"sync"

	"github.com/worldproger/mango-go/internal/models"
)

// MemoryStore — хранилище в памяти процесса: для тестов и volatile-режима CLI.
// Контракт видимости тривиален (запись под мьютексом видна следующему чтению),
// но уведомление подписчиков сохраняет семантику боевого хранилища.
type MemoryStore struct {
	mu        sync.Mutex
	pair      models.TokenPair
	has       bool
	listeners []func()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Tokens() (models.TokenPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pair, s.has
}

func (s *MemoryStore) Save(_ context.Context, pair models.TokenPair) error {
	const op = "creds/MemoryStore.Save"

	if !pair.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidPair)
	}

	s.mu.Lock()
	s.pair = pair
	s.has = true
	s.mu.Unlock()

	s.notify()

	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.pair = models.TokenPair{}
	s.has = false
	s.mu.Unlock()

	s.notify()

	return nil
}

func (s *MemoryStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *MemoryStore) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
