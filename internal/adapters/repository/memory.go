package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/rapm/internal/domain/model"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	games  map[string][]model.Possession
	closed bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]model.Possession)}
}

func (s *MemoryStore) Put(ctx context.Context, gameID string, ps []model.Possession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if gameID == "" {
		return ErrNoGameID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.games[gameID] = append([]model.Possession(nil), ps...)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, gameID string) ([]model.Possession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	ps, ok := s.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]model.Possession(nil), ps...), nil
}

func (s *MemoryStore) Delete(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.games, gameID)
	return nil
}

func (s *MemoryStore) GameIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Close drops every game. Later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.games = nil
	return nil
}
