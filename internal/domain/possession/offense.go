package possession

import (
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
)

// Offense returns the team on offense for a possession ending with last.
//
//   - made shot or free throw: the shooter's team
//   - rebound: the team that did not get it
//   - turnover: the team that committed it
//   - anything else: the primary player's team, or the player slot when no
//     team is recorded
func Offense(last model.AnnotatedEvent) string {
	e := last.Event
	switch pbp.TypeOf(e) {
	case pbp.MadeShot, pbp.FreeThrow:
		return e.Player1TeamID
	case pbp.Rebound:
		if pbp.ReboundingTeam(e) == last.Team1ID {
			return last.Team2ID
		}
		return last.Team1ID
	case pbp.Turnover:
		return pbp.TurnoverTeam(e)
	}
	if pbp.NoPlayerListed(e) {
		return e.Player1ID
	}
	return e.Player1TeamID
}
