package eventlog

import (
	"sort"
	"time"

	"tigre/pkg/protocol"
)

// QueryOpts specifies filter criteria for querying events.
type QueryOpts struct {
	// Kind filters to a single event kind (empty = all kinds)
	Kind protocol.EventKind

	// After filters events created at or after this time (inclusive)
	After *time.Time

	// Before filters events created at or before this time (inclusive)
	Before *time.Time

	// Limit restricts the number of results (0 = no limit)
	Limit int
}

// Query returns the events matching opts, newest first. Events sharing a timestamp
// keep reverse insertion order. The input log is not modified.
func Query(events []protocol.Event, opts QueryOpts) []protocol.Event {
	matched := make([]protocol.Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if opts.Kind != "" && e.Type != opts.Kind {
			continue
		}
		if opts.After != nil && e.Timestamp < opts.After.UnixMilli() {
			continue
		}
		if opts.Before != nil && e.Timestamp > opts.Before.UnixMilli() {
			continue
		}
		matched = append(matched, e)
	}

	// Order by newest first
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})

	// Apply limit
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched
}

// CountKind returns how many events in the log have the given kind.
func CountKind(events []protocol.Event, kind protocol.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Type == kind {
			n++
		}
	}
	return n
}
