// Package diagnostics collects errors that were absorbed instead of returned,
// so they can still be inspected after the fact.
package diagnostics

import (
	"log"
	"sync"
)

// Reporter receives errors that a component handled internally.
type Reporter interface {
	Report(err error)
}

// LogReporter writes every reported error to a logger and keeps a count.
type LogReporter struct {
	logger *log.Logger

	mu    sync.Mutex
	count int
	last  error
}

// NewLogReporter creates a LogReporter that writes to logger.
func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report implements Reporter. Nil errors are ignored.
func (r *LogReporter) Report(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.count++
	r.last = err
	r.mu.Unlock()
	r.logger.Printf("diagnostics: %v", err)
}

// Count returns how many errors have been reported.
func (r *LogReporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Last returns the most recently reported error, or nil.
func (r *LogReporter) Last() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
