package ioutil

import (
	"io"

	"github.com/pkg/errors"
)

// BlockReader reads fixed-size blocks and raw body bytes from a stream,
// keeping track of how far into the stream it is. It never reads ahead.
type BlockReader struct {
	reader    io.Reader
	seeker    io.Seeker
	ChunkSize uint64
	offset    int64
	buf       []byte
}

// NewBlockReader wraps reader. When reader is also an io.Seeker, skipped
// bytes are seeked over instead of read.
func NewBlockReader(reader io.Reader, chunkSize uint64, bufferSize int) *BlockReader {
	br := &BlockReader{
		reader:    reader,
		ChunkSize: chunkSize,
		buf:       make([]byte, bufferSize),
	}
	if seeker, ok := reader.(io.Seeker); ok {
		// stdin and pipes are *os.File too, but cannot seek
		if _, err := seeker.Seek(0, io.SeekCurrent); err == nil {
			br.seeker = seeker
		}
	}
	return br
}

func (br *BlockReader) Read(b []byte) (int, error) {
	read, err := br.reader.Read(b)
	br.offset += int64(read)
	return read, err
}

// Offset is the number of bytes consumed from the stream so far.
func (br *BlockReader) Offset() int64 {
	return br.offset
}

// Buffer is the scratch buffer used for chunked copies.
func (br *BlockReader) Buffer() []byte {
	return br.buf
}

// ReadBlock reads exactly one block. It returns io.EOF if the stream ended
// before the block started and io.ErrUnexpectedEOF if it ended partway.
func (br *BlockReader) ReadBlock() ([]byte, error) {
	block := make([]byte, br.ChunkSize)
	n, err := io.ReadFull(br, block)
	if err != nil {
		return block[:n], err
	}
	return block, nil
}

// CopyN copies exactly n bytes from the stream to w in buffer-sized chunks.
// Fewer than n bytes available is reported as io.ErrUnexpectedEOF; the bytes
// that were available have been passed to w.
func (br *BlockReader) CopyN(w io.Writer, n int64) (int64, error) {
	copied, err := io.CopyBuffer(w, io.LimitReader(br, n), br.buf)
	if err != nil {
		return copied, err
	}
	if copied < n {
		return copied, io.ErrUnexpectedEOF
	}
	return copied, nil
}

// Skip moves past n bytes without handing them to anybody. A seekable
// stream cannot tell whether it was seeked past its end, so short streams are
// only detected when the bytes have to be read.
func (br *BlockReader) Skip(n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if br.seeker == nil {
		return br.CopyN(io.Discard, n)
	}
	if _, err := br.seeker.Seek(n, io.SeekCurrent); err != nil {
		return 0, errors.Wrap(err, "failed to seek past body")
	}
	br.offset += n
	return n, nil
}
