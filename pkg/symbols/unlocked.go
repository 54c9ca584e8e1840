package symbols

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tigre/pkg/kv"
	"tigre/pkg/protocol"
)

// Set is the ordered collection of unlocked symbols. It only grows: there is no
// operation that removes an id.
type Set struct {
	ids []ID
}

// NewSet builds a set from ids, dropping duplicates and ids outside the catalog.
func NewSet(ids ...ID) Set {
	var s Set
	s.add(ids)
	return s
}

// Contains reports whether id is unlocked.
func (s Set) Contains(id ID) bool {
	for _, have := range s.ids {
		if have == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the unlocked ids in unlock order.
func (s Set) IDs() []ID {
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of unlocked symbols.
func (s Set) Len() int { return len(s.ids) }

// Merge returns s with ids appended in order. The receiver is not modified.
func (s Set) Merge(ids ...ID) Set {
	next := Set{ids: s.IDs()}
	next.add(ids)
	return next
}

func (s *Set) add(ids []ID) {
	for _, id := range ids {
		if !Known(id) || s.Contains(id) {
			continue
		}
		s.ids = append(s.ids, id)
	}
}

// LoadUnlocked reads the persisted set. Like the event log it fails soft: unreadable or
// malformed content yields an empty set and a *protocol.StorageReadError. Unknown and
// duplicate ids are dropped and reported to log.
func LoadUnlocked(ctx context.Context, backend kv.Backend, log *slog.Logger) (Set, error) {
	raw, ok, err := backend.Get(ctx, protocol.UnlockedSymbolsKey)
	if err != nil {
		return Set{}, &protocol.StorageReadError{Key: protocol.UnlockedSymbolsKey, Cause: err}
	}
	if !ok {
		return Set{}, nil
	}

	var ids []ID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return Set{}, &protocol.StorageReadError{Key: protocol.UnlockedSymbolsKey, Cause: err}
	}

	set := NewSet(ids...)
	if dropped := len(ids) - set.Len(); dropped > 0 {
		log.Warn("dropped unknown or duplicate unlocked symbols", "count", dropped)
	}
	return set, nil
}

// SaveUnlocked overwrites the persisted set.
func SaveUnlocked(ctx context.Context, backend kv.Backend, set Set) error {
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return fmt.Errorf("marshal unlocked symbols: %w", err)
	}
	if err := backend.Put(ctx, protocol.UnlockedSymbolsKey, data); err != nil {
		return fmt.Errorf("save unlocked symbols: %w", err)
	}
	return nil
}
