package ioutil

import "io"

// SinkWriter passes writes through until the first error, then quietly
// swallows everything after it. The error is kept for Err. Wrapping a
// destination in a SinkWriter lets a copy keep draining its source after the
// destination fails.
type SinkWriter struct {
	writer io.Writer
	err    error
}

func NewSinkWriter(dest io.Writer) *SinkWriter {
	return &SinkWriter{writer: dest}
}

func (s *SinkWriter) Write(b []byte) (int, error) {
	if s.err != nil || s.writer == nil {
		return len(b), nil
	}
	n, err := s.writer.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = err
	}
	return len(b), nil
}

// Err is the first error returned by the destination, if any.
func (s *SinkWriter) Err() error {
	return s.err
}
