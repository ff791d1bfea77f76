package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
)

type InMemoryUserManager struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

// NewUserRepository seeds the store with the given users, passwords
// included. Login compares the stored password verbatim, the same contract
// the backing query has.
func NewUserRepository(users ...models.User) *InMemoryUserManager {
	m := &InMemoryUserManager{
		users: make(map[int64]models.User),
	}
	for _, user := range users {
		m.users[user.UserNo] = user
	}
	return m
}

func (m *InMemoryUserManager) GetUser(_ context.Context, userNo int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userNo]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &user, nil
}

func (m *InMemoryUserManager) GetUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserNo < users[j].UserNo })
	return users, nil
}

func (m *InMemoryUserManager) Login(_ context.Context, userID, password string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.UserID == userID && user.Password == password {
			found := user
			return &found, nil
		}
	}
	return nil, storage.ErrUserNotFound
}
