// Package repository stores per-game possession tables.
package repository

import (
	"context"

	"github.com/okian/rapm/internal/domain/model"
)

// Store provides read/write access to possession tables keyed by game id.
type Store interface {
	// Put replaces the possessions of a game.
	Put(ctx context.Context, gameID string, ps []model.Possession) error

	// Get returns the possessions of a game in stored order.
	// Returns ErrNotFound if the game is unknown.
	Get(ctx context.Context, gameID string) ([]model.Possession, error)

	// Delete removes a game. Deleting an unknown game is not an error.
	Delete(ctx context.Context, gameID string) error

	// GameIDs returns every stored game id in ascending order.
	GameIDs(ctx context.Context) ([]string, error)

	// Count returns the number of stored games.
	Count(ctx context.Context) int

	Close() error
}
