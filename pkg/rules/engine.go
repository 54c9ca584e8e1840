// Package rules decides which tail symbols a history of events has earned.
//
// Evaluation is a pure function of (events, unlocked): no I/O, no clock, no hidden
// state. Rules run in declared order against the same snapshot, so when several
// symbols qualify at once the result order is fixed and the caller can treat the
// last element as "most recently unlocked".
package rules

import (
	"fmt"

	"tigre/pkg/eventlog"
	"tigre/pkg/protocol"
	"tigre/pkg/symbols"
)

// Predicate reports whether a symbol has been earned. It must be monotonic: once it
// holds for a log it must hold for every extension of that log.
type Predicate func(events []protocol.Event, unlocked symbols.Set) bool

// Rule grants Symbol when When holds.
type Rule struct {
	Symbol      symbols.ID
	Description string
	When        Predicate
}

// Result is the outcome of one evaluation.
type Result struct {
	NewlyUnlocked []symbols.ID
}

// Last returns the most recently unlocked symbol of the evaluation, if any.
func (r Result) Last() (symbols.ID, bool) {
	if len(r.NewlyUnlocked) == 0 {
		return "", false
	}
	return r.NewlyUnlocked[len(r.NewlyUnlocked)-1], true
}

// Engine evaluates an ordered rule list.
type Engine struct {
	rules []Rule
}

// NewEngine validates rules and returns an engine that evaluates them in order.
// Every rule must name a catalog symbol and no symbol may appear twice.
func NewEngine(rules ...Rule) (*Engine, error) {
	seen := make(map[symbols.ID]bool, len(rules))
	for i, r := range rules {
		if !symbols.Known(r.Symbol) {
			return nil, fmt.Errorf("rule %d: %w", i, &protocol.UnknownSymbolError{ID: string(r.Symbol)})
		}
		if r.When == nil {
			return nil, fmt.Errorf("rule %d (%s): nil predicate", i, r.Symbol)
		}
		if seen[r.Symbol] {
			return nil, fmt.Errorf("rule %d: duplicate rule for %s", i, r.Symbol)
		}
		seen[r.Symbol] = true
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Engine{rules: out}, nil
}

// DefaultRules returns the shipped rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Symbol:      symbols.Consistency,
			Description: "Complete 3 focus sessions",
			When:        AtLeast(protocol.FocusSessionCompleted, 3),
		},
		{
			Symbol:      symbols.Fortaleza,
			Description: "Complete 10 focus sessions",
			When:        AtLeast(protocol.FocusSessionCompleted, 10),
		},
	}
}

// Default returns an engine over DefaultRules.
func Default() *Engine {
	e, err := NewEngine(DefaultRules()...)
	if err != nil {
		panic(fmt.Sprintf("default rules invalid: %v", err))
	}
	return e
}

// Rules returns a copy of the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate returns the symbols that events newly earn. Symbols already in unlocked
// are never returned.
func (e *Engine) Evaluate(events []protocol.Event, unlocked symbols.Set) Result {
	var newly []symbols.ID
	emitted := make(map[symbols.ID]bool)
	for _, r := range e.rules {
		if unlocked.Contains(r.Symbol) || emitted[r.Symbol] {
			continue
		}
		if r.When(events, unlocked) {
			newly = append(newly, r.Symbol)
			emitted[r.Symbol] = true
		}
	}
	return Result{NewlyUnlocked: newly}
}

// Evaluate runs the default rules.
func Evaluate(events []protocol.Event, unlocked symbols.Set) Result {
	return Default().Evaluate(events, unlocked)
}

// AtLeast holds once the log contains n or more events of kind.
func AtLeast(kind protocol.EventKind, n int) Predicate {
	return func(events []protocol.Event, _ symbols.Set) bool {
		return eventlog.CountKind(events, kind) >= n
	}
}
