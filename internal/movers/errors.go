package movers

import "errors"

var (
	// ErrMissingIndexLevel is returned when no index level is stored for the ranking date.
	ErrMissingIndexLevel = errors.New("index level not available for date")

	// ErrNoActiveConstituents is returned when the registry has no active member.
	ErrNoActiveConstituents = errors.New("no active constituents in registry")

	// ErrDuplicateWrite is returned when mover records already exist for a (symbol, date).
	ErrDuplicateWrite = errors.New("mover record already exists for symbol and date")
)
