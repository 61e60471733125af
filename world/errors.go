package world

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedData is returned when a data file cannot be decoded.
	ErrMalformedData = errors.New("malformed block state data")
	// ErrInconsistentMapping is returned when the legacy state map and the canonical
	// block states of a protocol do not agree with each other.
	ErrInconsistentMapping = errors.New("inconsistent block state mapping")
)

// DataFileError names the data file and byte offset a load failure happened at.
type DataFileError struct {
	Path   string
	Offset int
	Err    error
}

func (e *DataFileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s (offset %d): %v", e.Path, e.Offset, e.Err)
}

func (e *DataFileError) Unwrap() error {
	return e.Err
}

// withPath sets the file path on a *DataFileError, if err is one.
func withPath(err error, path string) error {
	var fileErr *DataFileError
	if errors.As(err, &fileErr) && fileErr.Path == "" {
		fileErr.Path = path
	}
	return err
}
