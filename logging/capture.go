package logging

import (
	"fmt"
	"sync"
)

// Entry is a single captured log entry.
type Entry struct {
	Level   string
	Message string
}

// Capture is a Logger that records entries in memory for assertions.
type Capture struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *Capture) Info(format string, args ...any)  { c.record("INFO", format, args...) }
func (c *Capture) Warn(format string, args ...any)  { c.record("WARN", format, args...) }
func (c *Capture) Error(format string, args ...any) { c.record("ERROR", format, args...) }

func (c *Capture) record(level, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Entries returns a copy of everything recorded so far.
func (c *Capture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// ByLevel returns the recorded entries with the given level.
func (c *Capture) ByLevel(level string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Entry
	for _, e := range c.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
