package database

import (
	"context"
	"sync"
	"time"

	"github.com/fmoraes/auth-api/models"
)

// MemoryUserStore is an in-memory UserStore with the same semantics as the
// postgres-backed one. Used by tests and for running the service without a
// database.
type MemoryUserStore struct {
	mu     sync.RWMutex
	byID   map[uint]*models.User
	byName map[string]*models.User
	emails map[string]struct{}
	nextID uint
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:   make(map[uint]*models.User),
		byName: make(map[string]*models.User),
		emails: make(map[string]struct{}),
		nextID: 1,
	}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[user.Username]; ok {
		return ErrDuplicateUser
	}
	if _, ok := s.emails[user.Email]; ok {
		return ErrDuplicateUser
	}

	user.ID = s.nextID
	s.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	s.byID[stored.ID] = &stored
	s.byName[stored.Username] = &stored
	s.emails[stored.Email] = struct{}{}
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byName[username]
	return ok, nil
}

func (s *MemoryUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.emails[email]
	return ok, nil
}
