package pbp

import (
	"github.com/okian/rapm/internal/domain/model"
)

// Default window sizes.
const (
	DefaultEventWindow    = 20
	DefaultReboundWindow  = 10
	DefaultFoulWindow     = 20
	DefaultAnd1TimeWindow = 10 // seconds
)

// Windows bounds the backward and forward scans used to resolve ambiguous sequences.
type Windows struct {
	Event      int // look-ahead for And-1 detection
	Rebound    int // look-back for the shot a rebound follows
	Foul       int // look-back for the foul behind a free throw
	And1Second int // wall-clock bound of the And-1 look-ahead
}

// DefaultWindows returns the standard window sizes.
func DefaultWindows() Windows {
	return Windows{
		Event:      DefaultEventWindow,
		Rebound:    DefaultReboundWindow,
		Foul:       DefaultFoulWindow,
		And1Second: DefaultAnd1TimeWindow,
	}
}

// Match describes how a windowed lookup was satisfied.
type Match int

const (
	// MatchEmpty means the window held no events.
	MatchEmpty Match = iota
	// MatchFound means an event satisfying the predicate was found.
	MatchFound
	// MatchFallback means nothing matched and the furthest event in the window was returned.
	MatchFallback
)

// lookBack scans events[idx-window:idx] nearest first and returns the first
// event satisfying pred, or the furthest event of the window.
func lookBack(events []model.Event, idx, window int, pred func(model.Event) bool) (model.Event, Match) {
	lo := idx - window
	if lo < 0 {
		lo = 0
	}
	if idx > len(events) {
		idx = len(events)
	}
	if lo >= idx {
		return model.Event{}, MatchEmpty
	}
	for i := idx - 1; i >= lo; i-- {
		if pred(events[i]) {
			return events[i], MatchFound
		}
	}
	return events[lo], MatchFallback
}

// MissedShotForRebound returns the miss a rebound at idx follows.
func MissedShotForRebound(events []model.Event, idx, window int) (model.Event, Match) {
	return lookBack(events, idx, window, func(e model.Event) bool {
		return IsMiss(e) || IsMissedFreeThrow(e)
	})
}

// FoulForFreeThrow returns the foul that awarded the free throw at idx.
func FoulForFreeThrow(events []model.Event, idx, window int) (model.Event, Match) {
	return lookBack(events, idx, window, func(e model.Event) bool {
		return TypeOf(e) == Foul
	})
}

// IsDefensiveRebound reports whether the rebound at idx was secured by the
// team that did not miss. An empty look-back window yields false.
func IsDefensiveRebound(events []model.Event, idx, window int) (bool, Match) {
	e := events[idx]
	if TypeOf(e) != Rebound {
		return false, MatchEmpty
	}
	shot, m := MissedShotForRebound(events, idx, window)
	if m == MatchEmpty {
		return false, m
	}
	return shot.Player1TeamID != ReboundingTeam(e), m
}

// IsLastFreeThrowMade reports whether the made free throw at idx hands the
// ball to the other team. The final of a two or three shot trip always does;
// a 1-of-1 does unless it followed a foul that keeps possession.
func IsLastFreeThrowMade(events []model.Event, idx, window int) (bool, Match) {
	e := events[idx]
	if !IsMadeFreeThrow(e) {
		return false, MatchEmpty
	}
	ft := FreeThrowType(e.Subtype)
	if ft.FinalOfMultiple() {
		return true, MatchFound
	}
	if ft != FreeThrowOneOfOne {
		return false, MatchFound
	}
	foul, m := FoulForFreeThrow(events, idx, window)
	if m == MatchEmpty {
		return true, m
	}
	switch FoulType(foul.Subtype) {
	case FoulAwayFromPlay, FoulLooseBall, FoulInbound:
		return false, m
	}
	return true, m
}

// IsAnd1 reports whether the made shot at idx is followed, within the event
// and time windows, by a foul drawn by the shooter and a made 1-of-1 free
// throw by the shooter.
func IsAnd1(events []model.Event, idx, eventWindow, timeWindow int) bool {
	shot := events[idx]
	if TypeOf(shot) != MadeShot {
		return false
	}
	hi := idx + eventWindow + 1
	if hi > len(events) {
		hi = len(events)
	}
	foul, ft := false, false
	for i := idx + 1; i < hi; i++ {
		e := events[i]
		if e.Elapsed < shot.Elapsed || e.Elapsed > shot.Elapsed+timeWindow {
			continue
		}
		switch TypeOf(e) {
		case Foul:
			switch FoulType(e.Subtype) {
			case FoulTechnical, FoulLooseBall, FoulInbound:
			default:
				if e.Player2ID == shot.Player1ID {
					foul = true
				}
			}
		case FreeThrow:
			if FreeThrowType(e.Subtype) == FreeThrowOneOfOne && e.Player1ID == shot.Player1ID && !IsMiss(e) {
				ft = true
			}
		}
	}
	return foul && ft
}

// IsMakeAndNotAnd1 reports whether the made shot at idx ends the possession.
func IsMakeAndNotAnd1(events []model.Event, idx, eventWindow, timeWindow int) bool {
	return TypeOf(events[idx]) == MadeShot && !IsAnd1(events, idx, eventWindow, timeWindow)
}
