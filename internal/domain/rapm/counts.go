package rapm

import (
	"github.com/okian/rapm/internal/domain/model"
)

// Count is the number of possessions a player was on court for.
type Count struct {
	PlayerID string
	Offense  int // O_POSS
	Defense  int // D_POSS
	Total    int // POSS
}

// PossessionCounts tallies offensive and defensive possessions per player,
// in UniqueIDs order. A stint counts for its Possessions.
func PossessionCounts(stints []model.Stint) []Count {
	ids := UniqueIDs(stints)
	index := make(map[string]int, len(ids))
	out := make([]Count, len(ids))
	for i, id := range ids {
		index[id] = i
		out[i].PlayerID = id
	}
	for _, s := range stints {
		for _, p := range s.Offense {
			out[index[p]].Offense += s.Possessions
		}
		for _, p := range s.Defense {
			out[index[p]].Defense += s.Possessions
		}
	}
	for i := range out {
		out[i].Total = out[i].Offense + out[i].Defense
	}
	return out
}
