package memory

import (
	"context"
	"sync"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

type InMemoryCodeManager struct {
	mu     sync.RWMutex
	groups []models.CodeGroup
	codes  []models.Code
}

func NewCodeRepository(groups []models.CodeGroup, codes []models.Code) *InMemoryCodeManager {
	return &InMemoryCodeManager{
		groups: groups,
		codes:  codes,
	}
}

func (m *InMemoryCodeManager) GetGroups(_ context.Context) ([]models.CodeGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var groups []models.CodeGroup
	for _, group := range m.groups {
		if group.UseYn {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func (m *InMemoryCodeManager) GetGroup(_ context.Context, groupID string) (*models.CodeGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, group := range m.groups {
		if group.GroupID == groupID && group.UseYn {
			found := group
			return &found, nil
		}
	}
	return nil, storage.ErrGroupNotFound
}

func (m *InMemoryCodeManager) GetCodes(_ context.Context, groupID string) ([]models.Code, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var codes []models.Code
	for _, code := range m.codes {
		if code.GroupID == groupID && code.UseYn {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (m *InMemoryCodeManager) GetCode(_ context.Context, groupID, codeID string) (*models.Code, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, code := range m.codes {
		if code.GroupID == groupID && code.CodeID == codeID && code.UseYn {
			found := code
			return &found, nil
		}
	}
	return nil, storage.ErrCodeNotFound
}
