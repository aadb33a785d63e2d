// Package har reads and writes har archives: a flat stream of fixed-size
// headers, each followed by the body of the file it describes, in pre-order.
//
// The functions here use the OS filesystem with default settings. The
// writer and reader packages take options for everything else.
package har

import (
	"fmt"
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/format/metadata"
	"github.com/indrora/har/har/reader"
	"github.com/indrora/har/har/writer"
	"github.com/indrora/har/internal/log"
)

// Header describes one archive entry.
type Header = format.Header

// SetLogger routes log output of every har package to logger. Nothing is
// logged until it is called.
func SetLogger(logger logrus.FieldLogger) {
	log.Set(logger)
}

// Write archives every root, and everything below the directories among
// them, to stream.
//
// Paths that cannot be archived are skipped; they are returned together
// once every root has been written, see EntryErrors. Failing to write to
// stream is fatal.
func Write(stream io.Writer, roots ...string) error {
	return writer.NewWriter(stream).Write(roots...)
}

// Extract recreates the archived entries relative to the working directory,
// or at their absolute paths if they were archived that way.
//
// Entries that cannot be created are skipped and their bodies consumed. A
// truncated or corrupt stream is fatal.
func Extract(stream io.Reader) error {
	return reader.Extract(stream)
}

// List prints the path of every entry in stream to out, one per line,
// without reading any bodies. When patterns are given only matching paths
// are printed.
func List(stream io.Reader, out io.Writer, patterns ...string) error {
	if err := writer.ValidatePatterns(patterns); err != nil {
		return err
	}
	return reader.List(stream, func(header *format.Header) error {
		if !matchAny(patterns, header.Path) {
			return nil
		}
		_, err := fmt.Fprintln(out, header.Path)
		return errors.Wrap(err, "failed to write listing")
	})
}

func matchAny(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Inspect reads every entry of stream including its body and reports its
// metadata, body digest and content type.
func Inspect(stream io.Reader, visit func(metadata.EntryMetadata) error) error {
	return reader.Inspect(stream, visit)
}
