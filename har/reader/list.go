package reader

import (
	"io"

	"github.com/indrora/har/har/format"
)

// List calls visit with every header in stream, in stream order. Bodies are
// skipped without being read when stream can seek, and drained through a
// small buffer otherwise; they are never held in memory. visit may return
// ErrStopIteration to stop early.
func List(stream io.Reader, visit func(*format.Header) error) error {
	return walk(NewReader(stream, format.BUFFER_SIZE), visit)
}
