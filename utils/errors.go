package utils

import "errors"

// Every import failure is terminal for the run, the recovery path is a full re-import.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedSource   = errors.New("malformed source")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
