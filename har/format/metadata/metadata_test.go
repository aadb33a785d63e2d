package metadata

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/indrora/har/har/format"
)

// Pointers are how "unknown" is told apart from zero in the manifest; make
// sure cbor keeps that distinction.
func TestEntryPointers(t *testing.T) {

	meta := ForHeader(&format.Header{Path: "root/empty", Kind: format.KIND_FILE, Size: 0, Mode: 0o100600}, 4096)

	buff := new(bytes.Buffer)

	enc := cbor.NewEncoder(buff)
	if nil != enc.Encode(meta) {
		t.Fatal("Couldn't encode!")
	}
	dec := cbor.NewDecoder(buff)

	newMeta := new(EntryMetadata)
	if nil != dec.Decode(newMeta) {
		t.Fatal("Couldn't decode!")
	}

	if newMeta.FileSize == nil || *(newMeta.FileSize) != 0 {
		t.Fatal("zero file size should survive, got", newMeta.FileSize)
	}
	if newMeta.FileSize == meta.FileSize {
		t.Fatal("Shouldn't be the same address...")
	}
	if newMeta.MimeType != nil {
		t.Errorf("mime type should stay unset, got %q", *newMeta.MimeType)
	}
	if *newMeta.Mode != 0o100600 || *newMeta.Offset != 4096 {
		t.Errorf("mode/offset mismatch: %o %d", *newMeta.Mode, *newMeta.Offset)
	}
}

func TestDirectoryHasNoSize(t *testing.T) {
	meta := ForHeader(&format.Header{Path: "root", Kind: format.KIND_DIRECTORY, Mode: 0o40755}, 0)
	if meta.FileSize != nil {
		t.Errorf("directories carry no size, got %d", *meta.FileSize)
	}
}
