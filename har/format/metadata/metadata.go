package metadata

import (
	"github.com/indrora/har/har/format"
)

func MakePointer[T any](x T) *T {
	return &x
}

// ManifestHeader starts a CBOR manifest. The manifest is a CBOR sequence:
// this header, then one EntryMetadata item per entry in stream order.
type ManifestHeader struct {
	// Version of the archive format that was inspected
	Version uint8 `cbor:"0,keyasint"`
	// Archive name, as given to the inspector (open text field)
	Archive string `cbor:"1,keyasint,omitempty"`
}

// EntryMetadata is what is known about one entry after reading its header
// and body. By all technical means, only the path is required.
type EntryMetadata struct {
	Path     string      `cbor:"0,keyasint"`
	Kind     format.Kind `cbor:"1,keyasint"`
	Mode     *uint32     `cbor:"2,keyasint,omitempty"`
	FileSize *uint64     `cbor:"fileSize,omitempty"`
	MimeType *string     `cbor:"mimetype,omitempty"`
	// BLAKE2b-256 of the body
	Digest []byte `cbor:"blake2b,omitempty"`
	// Offset of the header in the stream
	Offset *int64 `cbor:"offset,omitempty"`
}

// ForHeader fills in the fields that come from the header alone.
func ForHeader(h *format.Header, offset int64) EntryMetadata {
	meta := EntryMetadata{
		Path:   h.Path,
		Kind:   h.Kind,
		Mode:   MakePointer(h.Mode),
		Offset: MakePointer(offset),
	}
	if !h.IsDir() {
		meta.FileSize = MakePointer(uint64(h.Size))
	}
	return meta
}
