package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pcbuilderguide/pcbg/internal/apperr"
	"github.com/pcbuilderguide/pcbg/internal/models"
)

// memStore is an in-memory UserStore with the same uniqueness rule as the users table.
type memStore struct {
	mu      sync.Mutex
	nextID  int
	byID    map[int]*models.User
	creates int

	// missLookups makes the next N GetByUsername calls report not-found, simulating
	// a concurrent request that inserted the row after our lookup.
	missLookups int
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, byID: map[int]*models.User{}}
}

func (m *memStore) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.missLookups > 0 {
		m.missLookups--
		return nil, apperr.ErrNotFound
	}
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memStore) Create(_ context.Context, in models.NewUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	for _, u := range m.byID {
		if u.Username == in.Username {
			return nil, apperr.ErrUsernameTaken
		}
	}
	now := time.Now()
	u := &models.User{
		ID:           m.nextID,
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[u.ID] = u
	m.nextID++
	cp := *u
	return &cp, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
