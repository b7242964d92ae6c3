// Package memory is an in-process user store. It backs development runs and
// tests; data is lost when the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lborres/ledger/core"
	"github.com/lborres/ledger/pkg/crypto"
)

type Store struct {
	mu         sync.RWMutex
	byID       map[string]*core.User
	byUsername map[string]string // username -> id
	ids        *crypto.IDGenerator
	now        func() time.Time
}

var _ core.UserStorage = (*Store)(nil)

func New() *Store {
	return &Store{
		byID:       make(map[string]*core.User),
		byUsername: make(map[string]string),
		ids:        crypto.NewUserIDGenerator(),
		now:        time.Now,
	}
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[u.Username]; exists {
		return core.ErrUserExists
	}

	if u.ID == "" {
		id, err := s.ids.Generate()
		if err != nil {
			return err
		}
		u.ID = id
	}
	if _, exists := s.byID[u.ID]; exists {
		return core.ErrUserExists
	}

	now := s.now()
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	s.byID[u.ID] = &stored
	s.byUsername[u.Username] = u.ID
	return nil
}

// FindByUsername matches case-sensitively.
func (s *Store) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*core.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// DeleteUser removes a user. Sessions issued to it stop resolving on the
// next request.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return core.ErrUserNotFound
	}
	delete(s.byUsername, u.Username)
	delete(s.byID, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
