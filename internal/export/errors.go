package export

import "fmt"

// Error is the single terminal failure of an export. Nothing is retried and
// no partial file is left behind.
type Error struct {
	Op       string // build, write or save
	FileName string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %s: %v", e.FileName, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
