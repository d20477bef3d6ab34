package pbp

import (
	"strings"

	"github.com/okian/rapm/internal/domain/model"
)

// IsMiss reports whether the home or visitor description mentions a miss.
// It applies to field goals and free throws alike.
func IsMiss(e model.Event) bool {
	return strings.Contains(strings.ToLower(e.HomeDescription), "miss") ||
		strings.Contains(strings.ToLower(e.VisitorDescription), "miss")
}

// IsThree reports whether a description marks a three point attempt.
func IsThree(e model.Event) bool {
	return strings.Contains(e.HomeDescription, "3PT") || strings.Contains(e.VisitorDescription, "3PT")
}

// NoPlayerListed reports whether the primary player's team is unrecorded.
func NoPlayerListed(e model.Event) bool {
	return e.Player1TeamID == ""
}

// IsTeamRebound reports whether a rebound is credited to a team rather than a player.
func IsTeamRebound(e model.Event) bool {
	if TypeOf(e) != Rebound {
		return false
	}
	return ReboundType(e.Subtype) == ReboundTeam || NoPlayerListed(e)
}

// IsTeamTurnover reports whether a turnover is charged to a team: no player
// is listed, or the subtype is a clock or personnel violation.
func IsTeamTurnover(e model.Event) bool {
	if TypeOf(e) != Turnover {
		return false
	}
	if NoPlayerListed(e) {
		return true
	}
	switch TurnoverType(e.Subtype) {
	case TurnoverFiveSecond, TurnoverEightSecond, TurnoverShotClock, TurnoverTooManyPlayers:
		return true
	}
	return false
}

// IsMissedFreeThrow reports whether e is a missed free throw.
func IsMissedFreeThrow(e model.Event) bool {
	return TypeOf(e) == FreeThrow && IsMiss(e)
}

// IsMadeFreeThrow reports whether e is a made free throw.
func IsMadeFreeThrow(e model.Event) bool {
	return TypeOf(e) == FreeThrow && !IsMiss(e)
}

// IsScoringAttempt reports whether e can carry points: a shot or a free throw.
func IsScoringAttempt(e model.Event) bool {
	switch TypeOf(e) {
	case MadeShot, MissedShot, FreeThrow:
		return true
	}
	return false
}

// ReboundingTeam returns the id of the team that secured a rebound. Team
// rebounds carry the team id in the player slot.
func ReboundingTeam(e model.Event) string {
	if IsTeamRebound(e) {
		return e.Player1ID
	}
	return e.Player1TeamID
}

// TurnoverTeam returns the id of the team that committed a turnover.
func TurnoverTeam(e model.Event) string {
	if IsTeamTurnover(e) {
		return e.Player1ID
	}
	return e.Player1TeamID
}
