package seeding

import (
	"errors"
	"fmt"
)

// Fatal setup conditions. Callers stop the run when they see one of these.
var (
	ErrRecordFileNotFound = errors.New("record file not found")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrUnsupportedFormat  = errors.New("unsupported cell position format")
)

// MalformedRecordError reports the first record that could not be interpreted.
type MalformedRecordError struct {
	Source string
	Line   int
	Fields int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: got %d fields; each row must be x,y,z,typeID,cellID", e.Source, e.Line, e.Fields)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }
