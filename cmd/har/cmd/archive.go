package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/indrora/har/har"
)

// openArchive opens name for reading; "-" is standard input.
func openArchive(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open archive")
	}
	return file, nil
}

// createArchive opens name for writing; "-" is standard output.
func createArchive(name string) (io.WriteCloser, error) {
	if name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	file, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create archive")
	}
	return file, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// summarize turns the entry errors of a finished run into one line. Each of
// them has been logged already.
func summarize(err error, what string) error {
	if entries := har.EntryErrors(err); entries != nil {
		return errors.Errorf("%d %s skipped", len(entries), what)
	}
	return err
}
