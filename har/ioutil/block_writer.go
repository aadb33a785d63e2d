package ioutil

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// BlockWriter buffers writes to the archive stream and counts them.
type BlockWriter struct {
	writer  *bufio.Writer
	written int64
}

func NewBlockWriter(destination io.Writer, bufferSize int) *BlockWriter {
	return &BlockWriter{
		writer: bufio.NewWriterSize(destination, bufferSize),
	}
}

func (k *BlockWriter) Write(p []byte) (n int, err error) {
	written, err := k.writer.Write(p)
	k.written += int64(written)
	if err != nil {
		return written, errors.Wrap(err, "failed to write to underlying stream")
	}
	return written, nil
}

// Written is the number of bytes accepted so far.
func (k *BlockWriter) Written() int64 {
	return k.written
}

// Pad writes n zero bytes.
func (k *BlockWriter) Pad(n int64) error {
	empty := make([]byte, min(n, int64(k.writer.Size())))
	for n > 0 {
		chunk := empty[:min(n, int64(len(empty)))]
		if _, err := k.Write(chunk); err != nil {
			return errors.Wrap(err, "failed to pad body")
		}
		n -= int64(len(chunk))
	}
	return nil
}

func (k *BlockWriter) Flush() error {
	return errors.Wrap(k.writer.Flush(), "failed to flush stream")
}
