package repository

import "errors"

// Store errors.
var (
	ErrNotFound = errors.New("game not found")
	ErrClosed   = errors.New("store closed")
	ErrNoGameID = errors.New("empty game id")
)
