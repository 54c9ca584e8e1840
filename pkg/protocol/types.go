package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// EventKind identifies what kind of user action an Event records.
type EventKind string

// Event kinds the client records. The set is closed: LogEvent rejects anything else.
const (
	// FocusSessionCompleted records a focus countdown that reached zero.
	FocusSessionCompleted EventKind = "FOCUS_SESSION_COMPLETED"
	// TOSOverrideSuccess records a successful override of a "terms of self" urge.
	TOSOverrideSuccess EventKind = "TOS_OVERRIDE_SUCCESS"
	// SeedWatered records tending a seed (a small courage commitment).
	SeedWatered EventKind = "SEED_WATERED"
	// ReflectionSubmitted records a written reflection.
	ReflectionSubmitted EventKind = "REFLECTION_SUBMITTED"
	// DayClosed records the user closing out a day.
	DayClosed EventKind = "DAY_CLOSED"
)

// EventKinds lists every known kind in declaration order.
func EventKinds() []EventKind {
	return []EventKind{
		FocusSessionCompleted,
		TOSOverrideSuccess,
		SeedWatered,
		ReflectionSubmitted,
		DayClosed,
	}
}

// Valid reports whether k is one of the declared kinds.
func (k EventKind) Valid() bool {
	for _, known := range EventKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// ParseEventKind resolves user input such as "focus-session-completed" to an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	norm := EventKind(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !norm.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventKind, s)
	}
	return norm, nil
}

// Event is an immutable record of a user action relevant to unlock rules.
// Timestamp is epoch milliseconds and is the authoritative order key.
type Event struct {
	Type      EventKind      `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Meta      map[string]any `json:"meta"`
}

// NewEvent creates an event stamped with now. Meta is stored in the form it decodes
// to, so an event compares equal to itself after a save/load round trip: numbers
// become json.Number and nested values become map[string]any or []any. A nil meta
// becomes an empty map. Meta that cannot be encoded as JSON, such as NaN, is rejected
// with ErrInvalidMeta.
func NewEvent(kind EventKind, meta map[string]any, now time.Time) (Event, error) {
	m, err := normalizeMeta(meta)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      kind,
		Timestamp: now.UnixMilli(),
		Meta:      m,
	}, nil
}

func normalizeMeta(meta map[string]any) (map[string]any, error) {
	if len(meta) == 0 {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMeta, err)
	}
	var m map[string]any
	if err := decodeNumbers(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMeta, err)
	}
	return m, nil
}

// decodeNumbers unmarshals data keeping numbers as json.Number, so integers beyond
// 2^53 survive exactly.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// UnmarshalJSON fills a missing or null meta with an empty map. An element without a
// type, including null, is malformed.
func (e *Event) UnmarshalJSON(data []byte) error {
	type wire Event
	var w wire
	if err := decodeNumbers(data, &w); err != nil {
		return err
	}
	if w.Type == "" {
		return errors.New("event without type")
	}
	if w.Meta == nil {
		w.Meta = map[string]any{}
	}
	*e = Event(w)
	return nil
}

// Time returns the event timestamp as a time.Time.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// MetaString returns meta[key] when it holds a string.
func (e Event) MetaString(key string) (string, bool) {
	v, ok := e.Meta[key].(string)
	return v, ok
}

// MetaInt returns meta[key] as an int. Stored events carry json.Number; events built
// by hand may hold int or float64, which are accepted too.
func (e Event) MetaInt(key string) (int, bool) {
	switch v := e.Meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
