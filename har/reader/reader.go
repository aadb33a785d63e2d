package reader

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/ioutil"
	"github.com/indrora/har/internal/log"
)

// The reader is much simpler than the writer.

var (
	// ErrCorruptHeader is returned when a header block was not written by a
	// compatible writer. Nothing after it can be trusted.
	ErrCorruptHeader = format.ErrInvalidHeader
	// ErrTruncated is returned when the stream ends inside a body.
	ErrTruncated = errors.New("archive truncated")
	// ErrStopIteration can be returned by a visitor to end a walk early
	// without an error.
	ErrStopIteration = errors.New("halt iterating archive")
)

// TruncationError is returned when a body is shorter than its header
// promised.
type TruncationError struct {
	Path string
	Want int64
	Got  int64
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("%v: %s should have %d bytes, only %d available", ErrTruncated, e.Path, e.Want, e.Got)
}

func (e *TruncationError) Unwrap() error {
	return ErrTruncated
}

type Reader struct {
	stream       *ioutil.BlockReader
	lastHeader   *format.Header
	headerOffset int64
	// body bytes of lastHeader not consumed yet
	remaining int64
}

// NewReader reads an archive from reader, moving bodies in bufferSize
// chunks.
func NewReader(reader io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = format.BUFFER_SIZE
	}
	return &Reader{
		stream: ioutil.NewBlockReader(reader, format.HEADER_SIZE, bufferSize),
	}
}

// Next returns the next header. Whatever is left of the previous body is
// skipped first. At the end of the archive Next returns io.EOF.
func (reader *Reader) Next() (*format.Header, error) {

	if reader.lastHeader != nil {
		if err := reader.Skip(); err != nil {
			return nil, err
		}
		reader.lastHeader = nil
	}

	reader.headerOffset = reader.stream.Offset()
	block, err := reader.stream.ReadBlock()
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		// not enough left for a header, which is as good as the end
		log.Warnf("ignoring %d trailing bytes at offset %d", len(block), reader.headerOffset)
		return nil, io.EOF
	case err != nil:
		return nil, errors.Wrap(err, "failed to read header")
	}

	header := format.Decode(block)
	if err := header.Validate(); err != nil {
		return nil, errors.Wrapf(err, "at offset %d", reader.headerOffset)
	}

	reader.lastHeader = &header
	reader.remaining = header.Size
	return &header, nil
}

// HeaderOffset is where the header last returned by Next starts.
func (reader *Reader) HeaderOffset() int64 {
	return reader.headerOffset
}

// Offset is the number of bytes consumed from the stream.
func (reader *Reader) Offset() int64 {
	return reader.stream.Offset()
}

func (reader *Reader) HasBody() bool {
	return reader.remaining > 0
}

// CopyBody copies what is left of the current body to writer. Errors from
// writer abort the copy and leave the stream misaligned; callers that want
// to continue past a failing destination wrap it in an ioutil.SinkWriter.
func (reader *Reader) CopyBody(writer io.Writer) (int64, error) {
	copied, err := reader.stream.CopyN(writer, reader.remaining)
	return copied, reader.consumed(copied, err)
}

// Skip moves past what is left of the current body. On a seekable stream it
// cannot tell whether the body was really there; use CopyBody with io.Discard
// when that matters.
func (reader *Reader) Skip() error {
	skipped, err := reader.stream.Skip(reader.remaining)
	return reader.consumed(skipped, err)
}

func (reader *Reader) consumed(n int64, err error) error {
	want := reader.remaining
	reader.remaining -= n
	if err == nil {
		return nil
	}

	path := ""
	if reader.lastHeader != nil {
		path = reader.lastHeader.Path
		want = reader.lastHeader.Size
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncationError{Path: path, Want: want, Got: want - reader.remaining}
	}
	return errors.Wrapf(err, "failed to read body of %s", path)
}

// walk calls visit for every header until the end of the archive.
func walk(reader *Reader, visit func(*format.Header) error) error {
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := visit(header); err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}
	}
}
