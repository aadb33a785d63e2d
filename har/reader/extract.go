package reader

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/ioutil"
	"github.com/indrora/har/internal/log"
)

// TargetError is returned for an entry that could not be written to the
// destination. The entry's body has still been consumed.
type TargetError struct {
	Op   string
	Path string
	Err  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFs sets the filesystem entries are created on. The default is the OS
// filesystem, with paths used exactly as stored.
func WithFs(fs afero.Fs) Option {
	return func(x *Extractor) {
		x.fs = fs
	}
}

// WithBufferSize sets the size of the chunks bodies are copied in.
func WithBufferSize(size int) Option {
	return func(x *Extractor) {
		if size > 0 {
			x.bufferSize = size
		}
	}
}

type Extractor struct {
	fs         afero.Fs
	bufferSize int

	// directories that are not writable by their owner get their final
	// mode once their contents are in place
	pending []*format.Header
	failed  []error
}

func NewExtractor(opts ...Option) *Extractor {
	x := &Extractor{
		fs:         afero.NewOsFs(),
		bufferSize: format.BUFFER_SIZE,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract recreates every entry of stream on the destination filesystem.
//
// Entries that cannot be created are skipped and returned together once the
// stream is exhausted. A truncated or corrupt stream stops extraction at
// once and only that error is returned.
func (x *Extractor) Extract(stream io.Reader) error {
	x.pending = nil
	x.failed = nil

	reader := NewReader(stream, x.bufferSize)
	err := walk(reader, func(header *format.Header) error {
		if header.IsDir() {
			x.extractDirectory(header)
			return nil
		}
		return x.extractFile(reader, header)
	})

	// deepest first, so parents stay writable until their children are done
	for i := len(x.pending) - 1; i >= 0; i-- {
		x.chmod(x.pending[i])
	}
	x.pending = nil

	if err != nil {
		return err
	}
	if len(x.failed) == 0 {
		return nil
	}
	return multierror.Append(nil, x.failed...)
}

func (x *Extractor) fail(err error) {
	log.Warnf("%v", err)
	x.failed = append(x.failed, err)
}

func (x *Extractor) chmod(header *format.Header) {
	if err := x.fs.Chmod(header.Path, header.Perm()); err != nil {
		x.fail(&TargetError{Op: "chmod", Path: header.Path, Err: err})
	}
}

func (x *Extractor) extractDirectory(header *format.Header) {
	log.Debugf("x %s/", header.Path)

	if err := x.fs.Mkdir(header.Path, header.Perm()|0o700); err != nil {
		if info, statErr := x.fs.Stat(header.Path); statErr == nil && info.IsDir() {
			// existing directories keep their mode
			log.Debugf("%s already exists", header.Path)
			return
		}
		x.fail(&TargetError{Op: "create directory", Path: header.Path, Err: err})
		return
	}

	if header.Perm()&0o700 == 0o700 {
		x.chmod(header)
		return
	}
	// exact owner bits now, final mode later; Mkdir went through the umask
	if err := x.fs.Chmod(header.Path, header.Perm()|0o700); err != nil {
		x.fail(&TargetError{Op: "chmod", Path: header.Path, Err: err})
	}
	x.pending = append(x.pending, header)
}

// extractFile only returns errors that make the rest of the stream
// unreadable.
func (x *Extractor) extractFile(reader *Reader, header *format.Header) error {
	log.Debugf("x %s (%d bytes)", header.Path, header.Size)

	file, err := x.fs.OpenFile(header.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		x.fail(&TargetError{Op: "create", Path: header.Path, Err: err})
		// read, not seeked over, so a short body is still noticed
		_, err = reader.CopyBody(io.Discard)
		return err
	}

	sink := ioutil.NewSinkWriter(file)
	_, copyErr := reader.CopyBody(sink)
	closeErr := file.Close()

	switch {
	case sink.Err() != nil:
		x.fail(&TargetError{Op: "write", Path: header.Path, Err: sink.Err()})
	case closeErr != nil:
		x.fail(&TargetError{Op: "close", Path: header.Path, Err: closeErr})
	default:
		x.chmod(header)
	}
	return copyErr
}

// Extract is a shorthand for NewExtractor(opts...).Extract(stream).
func Extract(stream io.Reader, opts ...Option) error {
	return NewExtractor(opts...).Extract(stream)
}
