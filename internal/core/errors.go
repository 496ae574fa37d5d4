package core

import "errors"

var (
	// ErrUnknownTable is returned for a table key that is not registered.
	ErrUnknownTable = errors.New("unknown table")

	// ErrForbidden is returned when the session's role may not see a table.
	ErrForbidden = errors.New("forbidden: role may not access this table")

	// ErrNoSession is returned when a per-session operation has no session.
	ErrNoSession = errors.New("no session in context")

	// ErrSourceUnavailable wraps failures to load rows from a RowSource.
	ErrSourceUnavailable = errors.New("row source unavailable")
)
