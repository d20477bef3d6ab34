package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/pkg/logger"
)

// Key prefix for game possession tables.
const gameKeyPrefix = "game:"

// BadgerStore is a durable Store backed by BadgerDB. Each game is one key
// holding its possessions as a JSON array.
type BadgerStore struct {
	db         *badger.DB
	closed     atomic.Bool
	log        logger.Logger
	inMemory   bool
	syncWrites bool
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens or creates a store at path.
func OpenBadger(path string, opts ...Option) (*BadgerStore, error) {
	s := &BadgerStore{log: logger.Discard()}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	bopts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{log: s.log}).
		WithSyncWrites(s.syncWrites)
	if s.inMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	s.db = db
	return s, nil
}

func gameKey(id string) []byte { return []byte(gameKeyPrefix + id) }

func (s *BadgerStore) check(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *BadgerStore) Put(ctx context.Context, gameID string, ps []model.Possession) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if gameID == "" {
		return ErrNoGameID
	}
	if ps == nil {
		ps = []model.Possession{}
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("marshal possessions: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(gameKey(gameID), data); err != nil {
			return fmt.Errorf("set game %s: %w", gameID, err)
		}
		return nil
	})
}

func (s *BadgerStore) Get(ctx context.Context, gameID string) ([]model.Possession, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	var ps []model.Possession
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(gameID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get game %s: %w", gameID, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ps)
		})
	})
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *BadgerStore) Delete(ctx context.Context, gameID string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(gameKey(gameID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
		return nil
	})
}

func (s *BadgerStore) GameIDs(ctx context.Context) ([]string, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(gameKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), gameKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return ids, nil
}

func (s *BadgerStore) Count(ctx context.Context) int {
	ids, err := s.GameIDs(ctx)
	if err != nil {
		return 0
	}
	return len(ids)
}

// Close closes the database. It is safe to call more than once.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// badgerLogger adapts the application logger to badger.Logger.
type badgerLogger struct {
	log logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(context.Background(), strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, args...)))
}
