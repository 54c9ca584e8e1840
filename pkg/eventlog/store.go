// Package eventlog provides the append-only log of domain events.
// The log is persisted as a single JSON array; every save rewrites it in full.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"

	"tigre/pkg/kv"
	"tigre/pkg/protocol"
)

// Store loads and saves the event log through a kv.Backend.
type Store struct {
	backend kv.Backend
}

// NewStore returns a Store persisting under protocol.EventsKey.
func NewStore(backend kv.Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the persisted log. It fails soft: when the backend errors or the stored
// document is not a JSON array of events, Load returns an empty log together with a
// *protocol.StorageReadError for the caller to log. An absent key is not an error.
func (s *Store) Load(ctx context.Context) ([]protocol.Event, error) {
	raw, ok, err := s.backend.Get(ctx, protocol.EventsKey)
	if err != nil {
		return []protocol.Event{}, &protocol.StorageReadError{Key: protocol.EventsKey, Cause: err}
	}
	if !ok {
		return []protocol.Event{}, nil
	}

	var events []protocol.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return []protocol.Event{}, &protocol.StorageReadError{Key: protocol.EventsKey, Cause: err}
	}
	if events == nil {
		events = []protocol.Event{}
	}
	return events, nil
}

// Save overwrites the persisted log with events.
func (s *Store) Save(ctx context.Context, events []protocol.Event) error {
	if events == nil {
		events = []protocol.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	if err := s.backend.Put(ctx, protocol.EventsKey, data); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Append returns a new log with evt at the end. The backing array of log is never
// written, so callers holding the previous log observe no change.
func Append(log []protocol.Event, evt protocol.Event) []protocol.Event {
	next := make([]protocol.Event, len(log), len(log)+1)
	copy(next, log)
	return append(next, evt)
}
