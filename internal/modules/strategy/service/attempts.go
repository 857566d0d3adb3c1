package service

import (
	"context"
	"sync"
)

// AttemptStore — счётчик попыток martingale per_cycle по рынку.
type AttemptStore interface {
	Get(ctx context.Context, market string) (int, error)
	Set(ctx context.Context, market string, n int) error
}

// MemoryAttempts — счётчик в памяти процесса, теряется при рестарте.
type MemoryAttempts struct {
	mu sync.Mutex
	n  map[string]int
}

func NewMemoryAttempts() *MemoryAttempts {
	return &MemoryAttempts{n: make(map[string]int)}
}

func (m *MemoryAttempts) Get(_ context.Context, market string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n[market], nil
}

func (m *MemoryAttempts) Set(_ context.Context, market string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n == 0 {
		delete(m.n, market)
		return nil
	}
	m.n[market] = n
	return nil
}
