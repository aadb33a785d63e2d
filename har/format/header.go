package format

import (
	"bytes"
	"io"
	"io/fs"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Header describes one filesystem object in the archive. It is the portable
// form of the header block; see Decode and MarshalBinary for the wire form.
type Header struct {
	// Path as given on the command line or composed during the walk.
	Path string
	Kind Kind
	// Size is the body length. Always zero for directories.
	Size int64
	// Mode holds Unix style type and permission bits.
	Mode uint32

	// Magic and Version are only meaningful on decoded headers.
	Magic   [4]byte
	Version uint8
}

// NewHeader builds the header for path from its stat information.
func NewHeader(path string, info fs.FileInfo) (*Header, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	h := &Header{
		Path:    path,
		Kind:    KIND_FILE,
		Size:    info.Size(),
		Mode:    ModeFromFileMode(info.Mode()),
		Magic:   MAGIC_BYTES,
		Version: HAR_VERSION,
	}
	if info.IsDir() {
		h.Kind = KIND_DIRECTORY
		h.Size = 0
	}
	return h, nil
}

func checkPath(path string) error {
	if len(path) > MAX_PATH_LENGTH || strings.IndexByte(path, 0) >= 0 {
		return &PathCapacityError{Path: path, Length: len(path)}
	}
	return nil
}

func (h *Header) IsDir() bool {
	return h.Kind == KIND_DIRECTORY
}

// FileMode converts Mode back into an fs.FileMode.
func (h *Header) FileMode() fs.FileMode {
	return FileModeFromMode(h.Mode)
}

// Perm returns the bits that can be applied with chmod: permissions plus
// setuid, setgid and sticky.
func (h *Header) Perm() fs.FileMode {
	return h.FileMode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
}

// Validate reports whether a decoded header is one this build can process.
func (h *Header) Validate() error {
	switch {
	case h.Magic != MAGIC_BYTES:
		return errors.Wrapf(ErrInvalidHeader, "bad magic %q", h.Magic[:])
	case h.Version != HAR_VERSION:
		return errors.Wrapf(ErrInvalidHeader, "unsupported version %d", h.Version)
	case h.Kind != KIND_FILE && h.Kind != KIND_DIRECTORY:
		return errors.Wrapf(ErrInvalidHeader, "unknown kind %d", h.Kind)
	case h.Size < 0:
		return errors.Wrapf(ErrInvalidHeader, "size out of range for %q", h.Path)
	case h.IsDir() && h.Size != 0:
		return errors.Wrapf(ErrInvalidHeader, "directory %q declares a %d byte body", h.Path, h.Size)
	}
	return nil
}

func (h *Header) preamble() Preamble {
	return NewPreamble(h.Kind, h.Mode, uint64(h.Size))
}

// MarshalBinary encodes the header into a HEADER_SIZE block. Paths that do
// not fit are rejected with a *PathCapacityError rather than cut short.
func (h *Header) MarshalBinary() ([]byte, error) {
	if err := checkPath(h.Path); err != nil {
		return nil, err
	}
	if h.Size < 0 {
		return nil, errors.Errorf("negative size %d for %q", h.Size, h.Path)
	}

	buf := new(bytes.Buffer)
	p := h.preamble()
	if err := p.WritePreamble(buf); err != nil {
		return nil, err
	}

	// the rest of the block stays zero, which terminates the path
	block := make([]byte, HEADER_SIZE)
	copy(block, buf.Bytes())
	copy(block[PREAMBLE_SIZE:], h.Path)
	return block, nil
}

// WriteTo writes the encoded header block to w.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	block, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(block)
	if err != nil {
		return int64(n), errors.Wrap(err, "failed to write header")
	}
	return int64(n), nil
}

// UnmarshalBinary decodes a header block. Only the length is checked; use
// Validate to find out whether the block came from a compatible writer.
func (h *Header) UnmarshalBinary(block []byte) error {
	if len(block) != HEADER_SIZE {
		return errors.Wrapf(ErrInvalidHeader, "header block is %d bytes, want %d", len(block), HEADER_SIZE)
	}
	*h = Decode(block)
	return nil
}

// Decode turns a header block into a Header. Any block decodes to something;
// garbage in gives garbage fields out. block must hold at least HEADER_SIZE
// bytes.
func Decode(block []byte) Header {
	p := decodePreamble(block[:PREAMBLE_SIZE])

	path := block[PREAMBLE_SIZE:HEADER_SIZE]
	if i := bytes.IndexByte(path, 0); i >= 0 {
		path = path[:i]
	}

	size := int64(-1)
	if p.Size <= math.MaxInt64 {
		size = int64(p.Size)
	}

	return Header{
		Path:    string(path),
		Kind:    p.Kind,
		Size:    size,
		Mode:    p.Mode,
		Magic:   p.Magic,
		Version: p.Version,
	}
}
