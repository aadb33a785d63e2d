package writer

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrora/har/har/format"
)

type record struct {
	header format.Header
	body   []byte
}

// parse splits an archive into its records using nothing but the header
// layout.
func parse(t *testing.T, data []byte) []record {
	t.Helper()
	var records []record
	for len(data) > 0 {
		require.GreaterOrEqual(t, len(data), format.HEADER_SIZE, "trailing bytes after %d records", len(records))
		h := format.Decode(data[:format.HEADER_SIZE])
		require.NoError(t, h.Validate())
		data = data[format.HEADER_SIZE:]

		require.GreaterOrEqual(t, int64(len(data)), h.Size, "body of %s is short", h.Path)
		records = append(records, record{header: h, body: data[:h.Size]})
		data = data[h.Size:]
	}
	return records
}

func paths(records []record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.header.Path)
	}
	return out
}

func scenarioFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("root/sub", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "root/a.txt", []byte("abcd"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "root/sub/b.txt", nil, 0o600))
	return fsys
}

func TestWriteScenario(t *testing.T) {
	buff := new(bytes.Buffer)
	writer := NewWriter(buff, WithFs(scenarioFs(t)))

	require.NoError(t, writer.Write("root"))
	assert.Equal(t, int64(buff.Len()), writer.Written())

	records := parse(t, buff.Bytes())
	require.Len(t, records, 4, spew.Sdump(paths(records)))

	assert.ElementsMatch(t, []string{"root", "root/a.txt", "root/sub", "root/sub/b.txt"}, paths(records))

	index := map[string]int{}
	for i, r := range records {
		index[r.header.Path] = i
	}
	assert.Equal(t, 0, index["root"])
	assert.Less(t, index["root/sub"], index["root/sub/b.txt"])

	a := records[index["root/a.txt"]]
	assert.Equal(t, format.KIND_FILE, a.header.Kind)
	assert.Equal(t, int64(4), a.header.Size)
	assert.Equal(t, "abcd", string(a.body))
	assert.Equal(t, fs.FileMode(0o644), a.header.Perm())

	b := records[index["root/sub/b.txt"]]
	assert.Equal(t, int64(0), b.header.Size)
	assert.Equal(t, fs.FileMode(0o600), b.header.Perm())

	root := records[0]
	assert.True(t, root.header.IsDir())
	assert.Equal(t, int64(0), root.header.Size)
	assert.Equal(t, fs.FileMode(0o755), root.header.Perm())
}

func TestDirectoriesPrecedeDescendants(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"t/a/b/c", "t/a/d", "t/e"} {
		require.NoError(t, fsys.MkdirAll(dir, 0o755))
	}
	for _, file := range []string{"t/a/b/c/1", "t/a/b/2", "t/a/d/3", "t/e/4", "t/5"} {
		require.NoError(t, afero.WriteFile(fsys, file, []byte(file), 0o644))
	}

	buff := new(bytes.Buffer)
	require.NoError(t, NewWriter(buff, WithFs(fsys)).Write("t"))

	seen := map[string]bool{}
	for _, r := range parse(t, buff.Bytes()) {
		p := r.header.Path
		for parent := p; strings.Contains(parent, "/"); {
			parent = parent[:strings.LastIndex(parent, "/")]
			assert.True(t, seen[parent], "%s written before its parent %s", p, parent)
		}
		seen[p] = true
		if !r.header.IsDir() {
			assert.Equal(t, p, string(r.body))
		}
	}
	assert.Len(t, seen, 11)
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "root/a", childPath("root", "a"))
	assert.Equal(t, "root/a", childPath("root/", "a"))
	assert.Equal(t, "/a", childPath("/", "a"))
	assert.Equal(t, "./x/a", childPath("./x", "a"))
}

func TestTrailingSlashRoot(t *testing.T) {
	buff := new(bytes.Buffer)
	require.NoError(t, NewWriter(buff, WithFs(scenarioFs(t))).Write("root/sub/"))

	assert.Equal(t, []string{"root/sub/", "root/sub/b.txt"}, paths(parse(t, buff.Bytes())))
}

// brokenFs fails to open the listed paths.
type brokenFs struct {
	afero.Fs
	broken map[string]bool
}

func (b brokenFs) Open(name string) (afero.File, error) {
	if b.broken[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return b.Fs.Open(name)
}

func TestUnreadableEntriesAreSkipped(t *testing.T) {
	fsys := brokenFs{
		Fs:     scenarioFs(t),
		broken: map[string]bool{"root/a.txt": true, "root/sub": true},
	}

	buff := new(bytes.Buffer)
	writer := NewWriter(buff, WithFs(fsys))
	err := writer.Write("root", "missing")

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 3)

	var accessErrors []string
	for _, e := range merr.Errors {
		var accessErr *AccessError
		require.ErrorAs(t, e, &accessErr)
		accessErrors = append(accessErrors, accessErr.Op+" "+accessErr.Path)
	}
	assert.ElementsMatch(t, []string{"open root/a.txt", "open root/sub", "stat missing"}, accessErrors)
	assert.ErrorIs(t, err, fs.ErrPermission)

	// the archive is still well formed, just smaller
	assert.Equal(t, []string{"root"}, paths(parse(t, buff.Bytes())))
}

func TestAddToArchiveReportsPerRoot(t *testing.T) {
	buff := new(bytes.Buffer)
	writer := NewWriter(buff, WithFs(scenarioFs(t)))

	assert.Error(t, writer.AddToArchive("nope"))
	assert.NoError(t, writer.AddToArchive("root/a.txt"))
	require.NoError(t, writer.Flush())

	assert.Error(t, writer.Skipped())
	assert.Equal(t, []string{"root/a.txt"}, paths(parse(t, buff.Bytes())))
}

func TestPathCapacityRejected(t *testing.T) {
	fsys := afero.NewMemMapFs()
	long := "d/" + strings.Repeat("x", format.MAX_PATH_LENGTH)
	require.NoError(t, fsys.MkdirAll(long, 0o755))
	require.NoError(t, afero.WriteFile(fsys, long+"/f", []byte("lost"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "d/ok", []byte("kept"), 0o644))

	buff := new(bytes.Buffer)
	err := NewWriter(buff, WithFs(fsys)).Write("d")

	var capErr *format.PathCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, long, capErr.Path)

	assert.ElementsMatch(t, []string{"d", "d/ok"}, paths(parse(t, buff.Bytes())))
}

func TestExclude(t *testing.T) {
	fsys := scenarioFs(t)
	require.NoError(t, afero.WriteFile(fsys, "root/sub/c.log", []byte("log"), 0o644))

	buff := new(bytes.Buffer)
	require.NoError(t, NewWriter(buff, WithFs(fsys), WithExclude("*.log", "root/a.*")).Write("root"))

	assert.ElementsMatch(t, []string{"root", "root/sub", "root/sub/b.txt"}, paths(parse(t, buff.Bytes())))

	assert.NoError(t, ValidatePatterns([]string{"**/*.go", "a?c"}))
	assert.ErrorIs(t, ValidatePatterns([]string{"[unclosed"}), doublestar.ErrBadPattern)
}

// shrinkingFs reports a bigger size than the file really has.
type shrinkingFs struct{ afero.Fs }

type shrinkingFile struct{ afero.File }

type biggerInfo struct{ fs.FileInfo }

func (b biggerInfo) Size() int64 { return b.FileInfo.Size() + 6 }

func (f shrinkingFile) Stat() (os.FileInfo, error) {
	info, err := f.File.Stat()
	return biggerInfo{info}, err
}

func (s shrinkingFs) Open(name string) (afero.File, error) {
	f, err := s.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return shrinkingFile{f}, nil
}

func TestShrunkFileIsPadded(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "f", []byte("abcd"), 0o644))

	buff := new(bytes.Buffer)
	err := NewWriter(buff, WithFs(shrinkingFs{fsys}), WithBufferSize(3)).Write("f")
	assert.ErrorIs(t, err, ErrFileShrank)

	records := parse(t, buff.Bytes())
	require.Len(t, records, 1)
	assert.Equal(t, []byte("abcd\x00\x00\x00\x00\x00\x00"), records[0].body)
}

type failingStream struct{ after int }

func (f *failingStream) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("no space left on device")
	}
	f.after -= len(p)
	return len(p), nil
}

func TestStreamFailureIsFatal(t *testing.T) {
	writer := NewWriter(&failingStream{after: format.HEADER_SIZE}, WithFs(scenarioFs(t)), WithBufferSize(16))
	err := writer.Write("root")
	require.Error(t, err)

	var merr *multierror.Error
	assert.False(t, errors.As(err, &merr), "stream failures are not entry errors: %v", err)
	assert.Contains(t, err.Error(), "no space left on device")
}
