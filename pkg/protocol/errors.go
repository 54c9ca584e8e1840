package protocol

import (
	"errors"
	"fmt"
)

// ErrUnknownEventKind is returned when an event kind is outside the declared set.
var ErrUnknownEventKind = errors.New("unknown event kind")

// ErrInvalidMeta is returned when event metadata cannot be encoded as JSON.
var ErrInvalidMeta = errors.New("invalid event meta")

// StorageReadError reports persisted state that could not be read or parsed.
// It is recoverable: the reader substitutes an empty collection and carries on.
type StorageReadError struct {
	Key   string
	Cause error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Cause)
}

func (e *StorageReadError) Unwrap() error {
	return e.Cause
}

// UnknownSymbolError reports a lookup for a symbol id absent from the catalog.
// Lookups themselves never fail; callers that must explain a miss use this type.
type UnknownSymbolError struct {
	ID string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %s not found", e.ID)
}
