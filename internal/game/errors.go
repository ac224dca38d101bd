package game

import "errors"

// Refusals. A command that returns one of these did not change the match.
var (
	ErrInvalidTarget = errors.New("invalid target")
	ErrIllegalPhase  = errors.New("illegal phase")
	ErrGameOver      = errors.New("game already over")
)

// ErrInvalidConfig is returned by NewMatch for a configuration no match can start from.
var ErrInvalidConfig = errors.New("invalid match config")
