package ioutil

import (
	"hash"
	"io"
)

type HashWriter struct {
	writer io.Writer
	hasher hash.Hash
}

// NewHashWriter hashes everything written to dest. dest may be nil to only
// hash.
func NewHashWriter(dest io.Writer, hasher hash.Hash) *HashWriter {
	if dest == nil {
		dest = io.Discard
	}
	return &HashWriter{
		writer: dest,
		hasher: hasher,
	}
}

func (w *HashWriter) Write(b []byte) (int, error) {
	w.hasher.Write(b)
	k, err := w.writer.Write(b)
	if err != nil {
		return 0, err
	}
	return k, nil
}

func (w *HashWriter) Sum() []byte {
	return w.hasher.Sum(nil)
}

// PrefixWriter keeps the first Limit bytes written to it and drops the rest.
type PrefixWriter struct {
	Limit int
	buf   []byte
}

func (p *PrefixWriter) Write(b []byte) (int, error) {
	if room := p.Limit - len(p.buf); room > 0 {
		p.buf = append(p.buf, b[:min(room, len(b))]...)
	}
	return len(b), nil
}

func (p *PrefixWriter) Bytes() []byte {
	return p.buf
}
