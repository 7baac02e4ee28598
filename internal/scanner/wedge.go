package scanner

import (
	"strings"
	"sync"
	"time"
)

const (
	minCodeLen = 4
	// Inputs longer than this are checked for repetition even without a previous value.
	longInputLen = 20
)

var doubledLengths = []int{8, 12, 13, 14}

// ExtractNewBarcode strips a keyboard-wedge echo from value. previous is the
// text the field held before the scanner typed again.
func ExtractNewBarcode(value, previous string) string {
	if value == "" {
		return ""
	}
	if previous == "" {
		return value
	}

	return dedupe(strings.TrimSpace(value), strings.TrimSpace(previous))
}

func dedupe(cur, old string) string {
	if old != "" && strings.HasPrefix(cur, old) && len(cur) > len(old) {
		suffix := strings.TrimSpace(cur[len(old):])
		if len(suffix) >= minCodeLen {
			return suffix
		}
	}

	half := len(cur) / 2
	if half >= minCodeLen && cur[:half] == cur[half:] {
		return cur[:half]
	}

	for _, n := range doubledLengths {
		if len(cur) == 2*n && cur[:n] == cur[n:] {
			return cur[:n]
		}
	}
	return cur
}

// Wedge tracks the last text seen in a scan field and cleans each new one.
type Wedge struct {
	mu     sync.Mutex
	last   string
	lastAt time.Time
	window time.Duration
	now    func() time.Time
}

func NewWedge(windowMs int) *Wedge {
	if windowMs <= 0 {
		windowMs = 500
	}
	return &Wedge{window: time.Duration(windowMs) * time.Millisecond, now: time.Now}
}

// Input takes the full field text after a change and returns what the field
// should hold. Text that grows quickly after the previous value is treated as
// a re-send.
func (w *Wedge) Input(text string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	out := text
	switch {
	case w.last != "" && len(text) > len(w.last) && now.Sub(w.lastAt) < w.window:
		out = ExtractNewBarcode(text, w.last)
	case len(text) > longInputLen:
		out = dedupe(strings.TrimSpace(text), "")
	}

	w.last = out
	w.lastAt = now
	return out
}

func (w *Wedge) Reset() {
	w.mu.Lock()
	w.last = ""
	w.lastAt = time.Time{}
	w.mu.Unlock()
}
