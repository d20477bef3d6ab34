package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/okian/rapm/internal/domain/model"
)

// Play-by-play columns.
const (
	ColGameID             = "GAME_ID"
	ColEventNum           = "EVENTNUM"
	ColPeriod             = "PERIOD"
	ColClock              = "PCTIMESTRING"
	ColEventType          = "EVENTMSGTYPE"
	ColEventSubtype       = "EVENTMSGACTIONTYPE"
	ColHomeDescription    = "HOMEDESCRIPTION"
	ColNeutralDescription = "NEUTRALDESCRIPTION"
	ColVisitorDescription = "VISITORDESCRIPTION"
	ColPlayer1ID          = "PLAYER1_ID"
	ColPlayer1TeamID      = "PLAYER1_TEAM_ID"
	ColPlayer2ID          = "PLAYER2_ID"
	ColPlayer2TeamID      = "PLAYER2_TEAM_ID"
	ColPlayer3ID          = "PLAYER3_ID"
	ColPlayer3TeamID      = "PLAYER3_TEAM_ID"
	ColPoints             = "POINTS"
)

var eventColumns = []string{
	ColGameID, ColEventNum, ColPeriod, ColClock, ColEventType, ColEventSubtype,
	ColHomeDescription, ColNeutralDescription, ColVisitorDescription,
	ColPlayer1ID, ColPlayer1TeamID, ColPlayer2ID, ColPlayer2TeamID, ColPlayer3ID, ColPlayer3TeamID,
}

// ReadEvents reads a play-by-play log. Rows keep file order; Index and the
// elapsed clocks are left for the builder to derive. A POINTS column, when
// present, overrides shot values.
func ReadEvents(r io.Reader) ([]model.Event, error) {
	t, err := newReader(r, ColPeriod, ColClock, ColEventType, ColEventSubtype, ColPlayer1TeamID)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	var out []model.Event
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		e, err := eventFrom(rec, t.has(ColEventNum))
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		out = append(out, e)
	}
}

func eventFrom(rec record, hasNum bool) (model.Event, error) {
	e := model.Event{
		GameID:             rec.id(ColGameID),
		Clock:              rec.str(ColClock),
		HomeDescription:    rec.text(ColHomeDescription),
		NeutralDescription: rec.text(ColNeutralDescription),
		VisitorDescription: rec.text(ColVisitorDescription),
		Player1ID:          rec.id(ColPlayer1ID),
		Player1TeamID:      rec.id(ColPlayer1TeamID),
		Player2ID:          rec.id(ColPlayer2ID),
		Player2TeamID:      rec.id(ColPlayer2TeamID),
		Player3ID:          rec.id(ColPlayer3ID),
		Player3TeamID:      rec.id(ColPlayer3TeamID),
	}
	var err error
	if hasNum {
		if e.EventNum, err = rec.int(ColEventNum); err != nil {
			return e, err
		}
	}
	if e.Period, err = rec.int(ColPeriod); err != nil {
		return e, err
	}
	if e.Type, err = rec.int(ColEventType); err != nil {
		return e, err
	}
	if e.Subtype, err = rec.int(ColEventSubtype); err != nil {
		return e, err
	}
	if e.Points, e.HasPoints, err = rec.optFloat(ColPoints); err != nil {
		return e, err
	}
	return e, nil
}

// WriteEvents writes a play-by-play log. The POINTS column is written when
// any event carries an override.
func WriteEvents(w io.Writer, events []model.Event) error {
	head := append([]string(nil), eventColumns...)
	withPoints := false
	for _, e := range events {
		if e.HasPoints {
			withPoints = true
			break
		}
	}
	if withPoints {
		head = append(head, ColPoints)
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		row := []string{
			e.GameID, itoa(e.EventNum), itoa(e.Period), e.Clock, itoa(e.Type), itoa(e.Subtype),
			e.HomeDescription, e.NeutralDescription, e.VisitorDescription,
			e.Player1ID, e.Player1TeamID, e.Player2ID, e.Player2TeamID, e.Player3ID, e.Player3TeamID,
		}
		if withPoints {
			p := ""
			if e.HasPoints {
				p = formatFloat(e.Points)
			}
			row = append(row, p)
		}
		rows = append(rows, row)
	}
	return writeAll(w, head, rows)
}
