package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCoinNotFound is returned when the quote response has no entry for the requested coin
	ErrCoinNotFound = errors.New("coin not found in quote response")

	// ErrMissingField is returned when the quote response lacks one of the required numbers
	ErrMissingField = errors.New("missing field in quote response")

	// ErrNotObject is returned when the dashboard document (or one of its sections) is not a JSON object
	ErrNotObject = errors.New("not a JSON object")
)

// FetchError reports a failed call to the market-data API.
// The persisted document is never touched when a fetch fails.
type FetchError struct {
	Op  string // request, status, read, decode, validate
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch quote: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError reports a dashboard document that could not be read, parsed or written.
type PersistError struct {
	Op   string // read, parse, update, write
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist dashboard %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
