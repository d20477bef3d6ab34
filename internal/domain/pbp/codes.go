// Package pbp classifies play-by-play events: type codes, predicates over
// single events, windowed lookups over the ordered event stream, and clock math.
package pbp

import (
	"github.com/okian/rapm/internal/domain/model"
)

// EventType is the closed set of event categories.
type EventType int

// Event type codes as published by the stats provider.
const (
	Unimportant   EventType = -1
	MadeShot      EventType = 1
	MissedShot    EventType = 2
	FreeThrow     EventType = 3
	Rebound       EventType = 4
	Turnover      EventType = 5
	Foul          EventType = 6
	Violation     EventType = 7
	Substitution  EventType = 8
	Timeout       EventType = 9
	JumpBall      EventType = 10
	Ejection      EventType = 11
	StartOfPeriod EventType = 12
	EndOfPeriod   EventType = 13
	CatchAll      EventType = 14
)

var eventTypeNames = map[EventType]string{ //nolint:gochecknoglobals // static lookup table
	MadeShot:      "MadeShot",
	MissedShot:    "MissedShot",
	FreeThrow:     "FreeThrow",
	Rebound:       "Rebound",
	Turnover:      "Turnover",
	Foul:          "Foul",
	Violation:     "Violation",
	Substitution:  "Substitution",
	Timeout:       "Timeout",
	JumpBall:      "JumpBall",
	Ejection:      "Ejection",
	StartOfPeriod: "StartOfPeriod",
	EndOfPeriod:   "EndOfPeriod",
	CatchAll:      "CatchAll",
}

// String returns the category name.
func (t EventType) String() string {
	if n, ok := eventTypeNames[t]; ok {
		return n
	}
	return "Unimportant"
}

// Known reports whether code is a documented event type.
func Known(code int) bool {
	_, ok := eventTypeNames[EventType(code)]
	return ok
}

// TypeFromCode maps a raw code to its category. Unknown codes map to Unimportant.
func TypeFromCode(code int) EventType {
	if Known(code) {
		return EventType(code)
	}
	return Unimportant
}

// TypeOf classifies an event by its type code.
func TypeOf(e model.Event) EventType {
	return TypeFromCode(e.Type)
}

// FoulType is a foul subtype code.
type FoulType int

// Foul subtypes.
const (
	FoulPersonal           FoulType = 1
	FoulShooting           FoulType = 2
	FoulLooseBall          FoulType = 3
	FoulOffensive          FoulType = 4
	FoulInbound            FoulType = 5
	FoulAwayFromPlay       FoulType = 6
	FoulPunch              FoulType = 8
	FoulClearPath          FoulType = 9
	FoulDouble             FoulType = 10
	FoulTechnical          FoulType = 11
	FoulNonUnsportsmanlike FoulType = 12
	FoulHanging            FoulType = 13
	FoulFlagrant1          FoulType = 14
	FoulFlagrant2          FoulType = 15
	FoulDoubleTechnical    FoulType = 16
	FoulDefensive3Seconds  FoulType = 17
	FoulDelayOfGame        FoulType = 18
	FoulTaunting           FoulType = 19
	FoulExcessTimeout      FoulType = 25
	FoulCharge             FoulType = 26
	FoulPersonalBlock      FoulType = 27
	FoulPersonalTake       FoulType = 28
	FoulShootingBlock      FoulType = 29
	FoulTooManyPlayers     FoulType = 30
)

// ReboundType is a rebound subtype code.
type ReboundType int

// Rebound subtypes.
const (
	ReboundPlayer ReboundType = 0
	ReboundTeam   ReboundType = 1
)

// FreeThrowType is a free throw subtype code.
type FreeThrowType int

// Free throw subtypes.
const (
	FreeThrowOneOfOne     FreeThrowType = 10
	FreeThrowOneOfTwo     FreeThrowType = 11
	FreeThrowTwoOfTwo     FreeThrowType = 12
	FreeThrowOneOfThree   FreeThrowType = 13
	FreeThrowTwoOfThree   FreeThrowType = 14
	FreeThrowThreeOfThree FreeThrowType = 15
	FreeThrowTechnical    FreeThrowType = 16
)

// FinalOfMultiple reports whether t closes a two or three shot trip.
func (t FreeThrowType) FinalOfMultiple() bool {
	return t == FreeThrowTwoOfTwo || t == FreeThrowThreeOfThree
}

// Final reports whether t is the last free throw of its trip.
func (t FreeThrowType) Final() bool {
	return t.FinalOfMultiple() || t == FreeThrowOneOfOne
}

// TurnoverType is a turnover subtype code.
type TurnoverType int

// Turnover subtypes that mark a team turnover.
const (
	TurnoverFiveSecond     TurnoverType = 9
	TurnoverEightSecond    TurnoverType = 10
	TurnoverShotClock      TurnoverType = 11
	TurnoverTooManyPlayers TurnoverType = 44
)
