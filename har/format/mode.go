package format

import "io/fs"

// Unix st_mode bits. These are what goes on the wire regardless of the
// platform the archive was made on.
const (
	MODE_TYPE_MASK uint32 = 0o170000
	MODE_DIRECTORY uint32 = 0o040000
	MODE_REGULAR   uint32 = 0o100000
	MODE_SETUID    uint32 = 0o4000
	MODE_SETGID    uint32 = 0o2000
	MODE_STICKY    uint32 = 0o1000
	MODE_PERM      uint32 = 0o777
)

// ModeFromFileMode translates a Go file mode into Unix st_mode bits.
func ModeFromFileMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())

	if m&fs.ModeSetuid != 0 {
		mode |= MODE_SETUID
	}
	if m&fs.ModeSetgid != 0 {
		mode |= MODE_SETGID
	}
	if m&fs.ModeSticky != 0 {
		mode |= MODE_STICKY
	}

	switch {
	case m.IsDir():
		mode |= MODE_DIRECTORY
	case m.IsRegular():
		mode |= MODE_REGULAR
	}
	return mode
}

// FileModeFromMode is the inverse of ModeFromFileMode.
func FileModeFromMode(mode uint32) fs.FileMode {
	m := fs.FileMode(mode & MODE_PERM)

	if mode&MODE_SETUID != 0 {
		m |= fs.ModeSetuid
	}
	if mode&MODE_SETGID != 0 {
		m |= fs.ModeSetgid
	}
	if mode&MODE_STICKY != 0 {
		m |= fs.ModeSticky
	}
	if mode&MODE_TYPE_MASK == MODE_DIRECTORY {
		m |= fs.ModeDir
	}
	return m
}
