package outstream

import (
	"bytes"
	"io"
)

// Queue buffers all output in memory so it can be flushed after a TUI
// sharing the same terminal has torn down (spec.md §4.7's "optional
// queue"). It implements io.Writer so a Stream can write straight into
// it without knowing the destination is deferred.
type Queue struct {
	buf bytes.Buffer
}

func (q *Queue) Write(p []byte) (int, error) { return q.buf.Write(p) }

// Flush writes everything buffered so far to w, in order, then resets
// the queue.
func (q *Queue) Flush(w io.Writer) error {
	_, err := w.Write(q.buf.Bytes())
	q.buf.Reset()
	return err
}
