package repository

import "github.com/okian/rapm/pkg/logger"

// Option applies a configuration option to the BadgerStore.
type Option func(*BadgerStore)

// WithInMemory keeps the badger database in memory; the path is ignored.
func WithInMemory(enabled bool) Option {
	return func(s *BadgerStore) {
		s.inMemory = enabled
	}
}

// WithLogger routes badger's own log output through l.
func WithLogger(l logger.Logger) Option {
	return func(s *BadgerStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSyncWrites makes every write durable before it returns.
func WithSyncWrites(enabled bool) Option {
	return func(s *BadgerStore) {
		s.syncWrites = enabled
	}
}
