// ABOUTME: Scoped, exclusively-held text sink for query output
// ABOUTME: Formats large integers with thousands grouping

package output

import (
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// Sink serializes query output: With hands the underlying writer to
// exactly one caller at a time, so a query's lines are never
// interleaved. The writer is released on every exit path, including
// panics in the closure.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// New wraps w in a sink.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// With acquires the sink for the duration of fn.
func (s *Sink) With(fn func(w io.Writer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.w)
}

// Comma renders n with thousands separators for human-readable counts
// and byte sizes.
func Comma(n uint64) string {
	return humanize.Comma(int64(n))
}
