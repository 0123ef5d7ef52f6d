package memkeep

import (
	"errors"
	"fmt"
)

var (
	// ErrFull is returned when inserting into a MemKeep without free slots.
	ErrFull = errors.New("memkeep is full")

	// ErrCorrupt is returned when serialized data can not be loaded.
	ErrCorrupt = errors.New("memkeep data is corrupt")
)

// FullError reports an insert into an exhausted MemKeep.
// It matches ErrFull via errors.Is.
type FullError struct {
	Capacity int
}

func (e *FullError) Error() string {
	return fmt.Sprintf("memkeep is full: all %d slots are in use, increase the capacity", e.Capacity)
}

func (e *FullError) Unwrap() error { return ErrFull }

// CorruptError describes which record of serialized data was rejected.
// It matches ErrCorrupt via errors.Is.
type CorruptError struct {
	Record int
	Reason string
}

func (e *CorruptError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("memkeep data is corrupt: %s", e.Reason)
	}

	return fmt.Sprintf("memkeep data is corrupt at record %d: %s", e.Record, e.Reason)
}

func (e *CorruptError) Unwrap() error { return ErrCorrupt }
