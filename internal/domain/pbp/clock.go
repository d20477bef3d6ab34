package pbp

import (
	"fmt"
	"strconv"
	"strings"
)

// Period lengths in minutes.
const (
	QuarterMinutes  = 12
	OvertimeMinutes = 5
	Quarters        = 4
	secondsPerMin   = 60
)

// PeriodMinutes returns the length of a period in minutes.
func PeriodMinutes(period int) int {
	if period > Quarters {
		return OvertimeMinutes
	}
	return QuarterMinutes
}

// ElapsedPeriod converts a "M:SS" clock reading into seconds elapsed in the period.
func ElapsedPeriod(period int, clock string) (int, error) {
	if period < 1 {
		return 0, fmt.Errorf("%w: period %d", ErrMalformedEvent, period)
	}
	minStr, secStr, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}
	minutes, err := strconv.Atoi(minStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedClock, clock, err)
	}
	sec, err := strconv.Atoi(secStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedClock, clock, err)
	}
	maxMin := PeriodMinutes(period)
	if minutes < 0 || sec < 0 || sec >= secondsPerMin || minutes*secondsPerMin+sec > maxMin*secondsPerMin {
		return 0, fmt.Errorf("%w: %q out of range for period %d", ErrMalformedClock, clock, period)
	}
	return (maxMin-minutes)*secondsPerMin - sec, nil
}

// PeriodStart returns the game seconds elapsed before period begins.
func PeriodStart(period int) int {
	if period > Quarters {
		return Quarters*QuarterMinutes*secondsPerMin + (period-Quarters-1)*OvertimeMinutes*secondsPerMin
	}
	return (period - 1) * QuarterMinutes * secondsPerMin
}

// ElapsedGame converts a period and clock reading into seconds since tip-off.
func ElapsedGame(period int, clock string) (int, error) {
	t, err := ElapsedPeriod(period, clock)
	if err != nil {
		return 0, err
	}
	return PeriodStart(period) + t, nil
}
