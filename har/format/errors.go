package format

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidHeader is returned when a header block was not written by a
	// compatible writer, or its fields make no sense.
	ErrInvalidHeader = errors.New("invalid header")
)

// PathCapacityError is returned for paths that cannot be stored in a header.
type PathCapacityError struct {
	Path   string
	Length int
}

func (e *PathCapacityError) Error() string {
	return fmt.Sprintf("path cannot be stored in a header (length=%d, max=%d): %.64q", e.Length, MAX_PATH_LENGTH, e.Path)
}
