package format

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

/*

Every entry starts with a fixed-size header block. The preamble sits at the
front of the block and the NUL-terminated path fills the rest of it.

*/

const (
	MAGIC_STRING = "HAR"
	HAR_VERSION  = 1
)

var (
	MAGIC_BYTES = [4]byte{'H', 'A', 'R', 0}
)

// HEADER_SIZE is the size of every header block in the stream. Readers and
// writers built with different values cannot read each other's archives.
const HEADER_SIZE = 4096

// PREAMBLE_SIZE is the encoded size of Preamble.
const PREAMBLE_SIZE = 20

// PATH_CAPACITY is the room left for the path, including its NUL terminator.
const PATH_CAPACITY = HEADER_SIZE - PREAMBLE_SIZE

// MAX_PATH_LENGTH is the longest path, in bytes, a header can hold.
const MAX_PATH_LENGTH = PATH_CAPACITY - 1

// BUFFER_SIZE is the default chunk size used when moving bodies around.
const BUFFER_SIZE = 4096

type Kind uint8

const (
	KIND_FILE      Kind = 0
	KIND_DIRECTORY Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KIND_FILE:
		return "file"
	case KIND_DIRECTORY:
		return "directory"
	default:
		return "unknown"
	}
}

type Preamble struct {
	// Magic value, must be MAGIC_BYTES
	Magic [4]byte
	// Format version (HAR_VERSION)
	Version uint8
	// Entry kind (file or directory)
	Kind Kind
	// Unused, always written as zero
	Reserved uint16
	// Unix style mode bits, see ModeFromFileMode
	Mode uint32
	// Number of body bytes that follow the header
	Size uint64
}

func NewPreamble(kind Kind, mode uint32, size uint64) Preamble {
	if kind == KIND_DIRECTORY {
		size = 0
	}
	return Preamble{
		Magic:   MAGIC_BYTES,
		Version: HAR_VERSION,
		Kind:    kind,
		Mode:    mode,
		Size:    size,
	}
}

func (p *Preamble) WritePreamble(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, p); err != nil {
		return errors.Wrap(err, "failed to write preamble")
	}
	return nil
}

// decodePreamble never fails; it only needs PREAMBLE_SIZE bytes.
func decodePreamble(b []byte) Preamble {
	p := Preamble{
		Version:  b[4],
		Kind:     Kind(b[5]),
		Reserved: binary.BigEndian.Uint16(b[6:8]),
		Mode:     binary.BigEndian.Uint32(b[8:12]),
		Size:     binary.BigEndian.Uint64(b[12:20]),
	}
	copy(p.Magic[:], b[0:4])
	return p
}
