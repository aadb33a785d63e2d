package har

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/reader"
	"github.com/indrora/har/har/writer"
)

// Errors re-exported from writer.
var (
	// ErrUnsupportedKind is returned for a source that is neither a regular
	// file nor a directory.
	ErrUnsupportedKind = writer.ErrUnsupportedKind

	// ErrFileShrank is returned when a source file ended before its recorded
	// size.
	ErrFileShrank = writer.ErrFileShrank
)

// Errors re-exported from reader.
var (
	// ErrCorruptHeader is returned when the stream holds something that is
	// not a header where one is expected.
	ErrCorruptHeader = reader.ErrCorruptHeader

	// ErrTruncated is returned when the stream ends inside a body.
	ErrTruncated = reader.ErrTruncated

	// ErrStopIteration ends a List or Inspect early without an error.
	ErrStopIteration = reader.ErrStopIteration
)

type (
	// AccessError is a source path that could not be archived.
	AccessError = writer.AccessError
	// TargetError is an entry that could not be extracted.
	TargetError = reader.TargetError
	// TruncationError is a body shorter than its header promised.
	TruncationError = reader.TruncationError
	// PathCapacityError is a path too long to be stored in a header.
	PathCapacityError = format.PathCapacityError
)

// EntryErrors returns the per-entry errors carried by err, or nil when err
// is nil or fatal.
func EntryErrors(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return nil
}

// IsFatal reports whether err stopped the operation, as opposed to only
// some entries being skipped.
func IsFatal(err error) bool {
	return err != nil && EntryErrors(err) == nil
}
