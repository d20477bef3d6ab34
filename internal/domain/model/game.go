package model

// GameRef identifies a scheduled game.
type GameRef struct {
	ID         string
	Season     string // e.g. "2018-19"
	SeasonType string // e.g. "Regular Season"
	Date       string // YYYY-MM-DD, empty when unknown
}
