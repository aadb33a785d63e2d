package writer

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedKind is returned for anything that is neither a regular
	// file nor a directory.
	ErrUnsupportedKind = errors.New("unsupported file type")
	// ErrFileShrank is returned when a file ended before the size recorded
	// in its header. The body is zero padded to keep the stream aligned.
	ErrFileShrank = errors.New("file shrank while being archived")
)

// AccessError is returned for a source path that could not be archived. It
// only affects that path (and whatever is below it).
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
