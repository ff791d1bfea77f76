package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

// InMemoryTokenManager keeps token records in a map. It mirrors the
// postgres repository's soft-delete semantics and backs the tests and
// local development.
type InMemoryTokenManager struct {
	mu     sync.RWMutex
	tokens map[string]models.TokenRecord
}

func NewTokenRepository() *InMemoryTokenManager {
	return &InMemoryTokenManager{
		tokens: make(map[string]models.TokenRecord),
	}
}

func (m *InMemoryTokenManager) AddToken(_ context.Context, record models.TokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[record.TokenID] = record
	return nil
}

func (m *InMemoryTokenManager) RemoveToken(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.tokens[tokenID]
	if !ok || record.Destroyed {
		return storage.ErrTokenNotFound
	}

	now := time.Now()
	record.Destroyed = true
	record.DestroyedAt = &now
	m.tokens[tokenID] = record
	return nil
}

func (m *InMemoryTokenManager) IsUsingToken(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.tokens[tokenID]
	return ok && !record.Destroyed, nil
}
