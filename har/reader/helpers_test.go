package reader

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indrora/har/har/format"
)

type entry struct {
	path string
	dir  bool
	mode uint32
	body string
	// declared size when it should differ from len(body)
	size int64
}

func file(path, body string, perm uint32) entry {
	return entry{path: path, mode: format.MODE_REGULAR | perm, body: body, size: -1}
}

func dir(path string, perm uint32) entry {
	return entry{path: path, dir: true, mode: format.MODE_DIRECTORY | perm, size: -1}
}

func buildArchive(t *testing.T, entries ...entry) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	for _, e := range entries {
		h := format.Header{Path: e.path, Kind: format.KIND_FILE, Size: int64(len(e.body)), Mode: e.mode}
		if e.dir {
			h.Kind = format.KIND_DIRECTORY
			h.Size = 0
		}
		if e.size >= 0 {
			h.Size = e.size
		}
		_, err := h.WriteTo(buf)
		require.NoError(t, err)
		buf.WriteString(e.body)
	}
	return buf.Bytes()
}

func scenario(t *testing.T) []byte {
	return buildArchive(t,
		dir("root", 0o755),
		file("root/a.txt", "abcd", 0o644),
		dir("root/sub", 0o755),
		file("root/sub/b.txt", "", 0o600),
	)
}

// streamOnly hides Seek so bodies have to be drained.
type streamOnly struct{ io.Reader }

var errBodyRead = errors.New("read reached into a body")

// guardedStream fails any read that touches one of the body ranges.
type guardedStream struct {
	*bytes.Reader
	bodies [][2]int64
}

func newGuardedStream(data []byte) *guardedStream {
	g := &guardedStream{Reader: bytes.NewReader(data)}
	for off := int64(0); off < int64(len(data)); {
		h := format.Decode(data[off : off+format.HEADER_SIZE])
		off += format.HEADER_SIZE
		if h.Size > 0 {
			g.bodies = append(g.bodies, [2]int64{off, off + h.Size})
		}
		off += h.Size
	}
	return g
}

func (g *guardedStream) Read(p []byte) (int, error) {
	pos, _ := g.Reader.Seek(0, io.SeekCurrent)
	end := pos + int64(len(p))
	for _, body := range g.bodies {
		if pos < body[1] && end > body[0] {
			return 0, errBodyRead
		}
	}
	return g.Reader.Read(p)
}
