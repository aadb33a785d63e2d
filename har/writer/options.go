package writer

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Option configures an ArchiveWriter.
type Option func(*ArchiveWriter)

// WithFs sets the filesystem paths are read from. The default is the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(archive *ArchiveWriter) {
		archive.fs = fs
	}
}

// WithBufferSize sets the size of the chunks file bodies are copied in.
func WithBufferSize(size int) Option {
	return func(archive *ArchiveWriter) {
		if size > 0 {
			archive.bufferSize = size
		}
	}
}

// WithExclude skips every path matching one of the doublestar patterns.
// Patterns without a slash are also tried against the base name.
func WithExclude(patterns ...string) Option {
	return func(archive *ArchiveWriter) {
		archive.exclude = append(archive.exclude, patterns...)
	}
}

// ValidatePatterns checks patterns before they are handed to WithExclude.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Wrapf(doublestar.ErrBadPattern, "%q", pattern)
		}
	}
	return nil
}
