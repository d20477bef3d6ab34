package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	ErrInvalidConfig = errors.New("invalid pipeline config")
	ErrLoadConfig    = errors.New("load pipeline config")
)
