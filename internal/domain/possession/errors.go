package possession

import (
	"errors"
)

// Sentinel errors for segmentation and aggregation.
var (
	ErrEmptyPossession = errors.New("possession has no events")
	ErrScoringAnomaly  = errors.New("both teams scored in one possession")
	ErrNegativePoints  = errors.New("negative point value")
)
