package main

import (
	"fmt"
	"io"
	"sync"
)

// progressLog prints headless focus progress. On a terminal the countdown line is
// rewritten in place; otherwise each update is its own line.
type progressLog struct {
	w     io.Writer
	isTTY bool
	mu    sync.Mutex
	open  bool // a countdown line is on screen without a trailing newline
}

func newProgressLog(w io.Writer, isTTY bool) *progressLog {
	return &progressLog{w: w, isTTY: isTTY}
}

// Step prints a completed step with a checkmark.
func (p *progressLog) Step(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
	fmt.Fprintf(p.w, "✓ %s\n", msg)
}

// Info prints a plain line.
func (p *progressLog) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
	fmt.Fprintln(p.w, msg)
}

// Countdown shows the remaining time.
func (p *progressLog) Countdown(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.isTTY {
		fmt.Fprintln(p.w, msg)
		return
	}
	fmt.Fprintf(p.w, "\r\033[K%s", msg)
	p.open = true
}

func (p *progressLog) endLine() {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
}
