package model

import (
	"sort"
	"sync"
)

// Failure records why a game could not be processed.
type Failure struct {
	GameID string `json:"game_id"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// FailureLog collects per-game failures. Safe for concurrent use.
type FailureLog struct {
	mu       sync.Mutex
	failures map[string]Failure
}

// NewFailureLog creates an empty log.
func NewFailureLog() *FailureLog {
	return &FailureLog{failures: make(map[string]Failure)}
}

// Add records a failure for a game. A later failure replaces an earlier one.
func (l *FailureLog) Add(gameID, stage string, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[gameID] = Failure{GameID: gameID, Stage: stage, Reason: reason}
}

// Len returns the number of failed games.
func (l *FailureLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.failures)
}

// Entries returns the failures ordered by game id.
func (l *FailureLog) Entries() []Failure {
	l.mu.Lock()
	out := make([]Failure, 0, len(l.failures))
	for _, f := range l.failures {
		out = append(out, f)
	}
	l.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}
