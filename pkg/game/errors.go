package game

import "errors"

var (
	ErrEmptyRoster     = errors.New("roster is empty")
	ErrDuplicatePlayer = errors.New("duplicate player id")
	ErrInvalidPlayer   = errors.New("invalid player")
)
