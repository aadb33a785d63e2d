package writer

import (
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/ioutil"
	"github.com/indrora/har/internal/log"
)

type ArchiveWriter struct {
	fs         afero.Fs
	blockio    *ioutil.BlockWriter
	buf        []byte
	bufferSize int
	exclude    []string
	skipped    []error
}

func NewWriter(file io.Writer, opts ...Option) *ArchiveWriter {
	archive := &ArchiveWriter{
		fs:         afero.NewOsFs(),
		bufferSize: format.BUFFER_SIZE,
	}
	for _, opt := range opts {
		opt(archive)
	}
	archive.buf = make([]byte, archive.bufferSize)
	archive.blockio = ioutil.NewBlockWriter(file, archive.bufferSize)
	return archive
}

// Write adds every root to the archive and flushes the stream. Paths that
// cannot be archived are skipped and reported together in the returned
// error; the archive is still valid in that case. Any failure to write to
// the stream itself stops everything and is returned on its own.
func (archive *ArchiveWriter) Write(roots ...string) error {
	for _, root := range roots {
		if err := archive.add(root); err != nil {
			return err
		}
	}
	if err := archive.Flush(); err != nil {
		return err
	}
	return archive.Skipped()
}

// AddToArchive appends path, and everything below it if it is a directory,
// in pre-order. The returned error holds the entries that were skipped
// under path, unless writing to the stream failed.
func (archive *ArchiveWriter) AddToArchive(path string) error {
	before := len(archive.skipped)
	if err := archive.add(path); err != nil {
		return err
	}
	return combine(archive.skipped[before:])
}

// Skipped combines every entry error seen so far, or returns nil.
func (archive *ArchiveWriter) Skipped() error {
	return combine(archive.skipped)
}

// Written is the number of bytes written to the stream so far.
func (archive *ArchiveWriter) Written() int64 {
	return archive.blockio.Written()
}

func (archive *ArchiveWriter) Flush() error {
	return archive.blockio.Flush()
}

func combine(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return multierror.Append(nil, errs...)
}

func (archive *ArchiveWriter) skip(err error) {
	log.Warnf("%v", err)
	archive.skipped = append(archive.skipped, err)
}

// add only returns stream errors.
func (archive *ArchiveWriter) add(path string) error {
	if archive.excluded(path) {
		log.Debugf("excluding %s", path)
		return nil
	}

	info, err := archive.fs.Stat(path)
	if err != nil {
		archive.skip(&AccessError{Op: "stat", Path: path, Err: err})
		return nil
	}

	switch {
	case info.IsDir():
		return archive.addDirectory(path, info)
	case info.Mode().IsRegular():
		return archive.addFile(path)
	default:
		archive.skip(&AccessError{Op: "read", Path: path, Err: errors.Wrapf(ErrUnsupportedKind, "%v", info.Mode().Type())})
		return nil
	}
}

func (archive *ArchiveWriter) addDirectory(dirPath string, info fs.FileInfo) error {
	header, err := format.NewHeader(dirPath, info)
	if err != nil {
		// children have longer paths still
		archive.skip(err)
		return nil
	}

	dir, err := archive.fs.Open(dirPath)
	if err != nil {
		archive.skip(&AccessError{Op: "open", Path: dirPath, Err: err})
		return nil
	}
	names, readErr := dir.Readdirnames(-1)
	dir.Close()

	log.Debugf("a %s/", dirPath)
	if _, err := header.WriteTo(archive.blockio); err != nil {
		return err
	}

	if readErr != nil {
		archive.skip(&AccessError{Op: "read directory", Path: dirPath, Err: readErr})
		return nil
	}

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		if err := archive.add(childPath(dirPath, name)); err != nil {
			return err
		}
	}
	return nil
}

func (archive *ArchiveWriter) addFile(filePath string) error {
	file, err := archive.fs.Open(filePath)
	if err != nil {
		archive.skip(&AccessError{Op: "open", Path: filePath, Err: err})
		return nil
	}
	defer file.Close()

	// the size has to come from the handle the body is read through
	info, err := file.Stat()
	if err != nil {
		archive.skip(&AccessError{Op: "stat", Path: filePath, Err: err})
		return nil
	}
	header, err := format.NewHeader(filePath, info)
	if err != nil {
		archive.skip(err)
		return nil
	}

	log.Debugf("a %s (%d bytes)", filePath, header.Size)
	if _, err := header.WriteTo(archive.blockio); err != nil {
		return err
	}
	return archive.writeBody(filePath, file, header.Size)
}

// writeBody copies exactly size bytes of file into the stream. Whatever the
// file fails to deliver is made up with zeros so the next header lands where
// readers expect it.
func (archive *ArchiveWriter) writeBody(filePath string, file io.Reader, size int64) error {
	remaining := size
	var readErr error
	for remaining > 0 {
		n, err := file.Read(archive.buf[:min(int64(len(archive.buf)), remaining)])
		if n > 0 {
			if _, werr := archive.blockio.Write(archive.buf[:n]); werr != nil {
				return werr
			}
			remaining -= int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = err
			break
		}
	}

	if remaining == 0 {
		return nil
	}
	if err := archive.blockio.Pad(remaining); err != nil {
		return err
	}
	if readErr == nil {
		readErr = ErrFileShrank
	}
	archive.skip(&AccessError{
		Op:   "read",
		Path: filePath,
		Err:  errors.Wrapf(readErr, "%d of %d bytes zero filled", remaining, size),
	})
	return nil
}

func (archive *ArchiveWriter) excluded(p string) bool {
	for _, pattern := range archive.exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(p)); ok {
				return true
			}
		}
	}
	return false
}

// childPath joins with a single separator and leaves the parent as given.
func childPath(parent, name string) string {
	if strings.HasSuffix(parent, "/") {
		return parent + name
	}
	return parent + "/" + name
}
