package reader

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/format/metadata"
	"github.com/indrora/har/har/ioutil"
)

// mimeSniffLimit matches what mimetype reads by default.
const mimeSniffLimit = 3072

// Inspect reads every entry of stream, bodies included, and calls visit with
// what it found. Unlike List it detects truncated bodies on any stream.
func Inspect(stream io.Reader, visit func(metadata.EntryMetadata) error) error {
	reader := NewReader(stream, format.BUFFER_SIZE)
	return walk(reader, func(header *format.Header) error {
		meta := metadata.ForHeader(header, reader.HeaderOffset())
		if !header.IsDir() {
			hasher, err := blake2b.New256(nil)
			if err != nil {
				return errors.Wrap(err, "Failed to initialize BLAKE2b hash")
			}
			hw := ioutil.NewHashWriter(nil, hasher)
			prefix := &ioutil.PrefixWriter{Limit: mimeSniffLimit}

			if _, err := reader.CopyBody(io.MultiWriter(hw, prefix)); err != nil {
				return err
			}
			meta.Digest = hw.Sum()
			meta.MimeType = metadata.MakePointer(mimetype.Detect(prefix.Bytes()).String())
		}
		return visit(meta)
	})
}

// WriteManifest inspects stream and writes the result to out as a CBOR
// sequence, see metadata.ManifestHeader. Entries are encoded as they are
// read.
func WriteManifest(stream io.Reader, out io.Writer, archiveName string) error {
	enc := cbor.NewEncoder(out)
	if err := enc.Encode(metadata.ManifestHeader{Version: format.HAR_VERSION, Archive: archiveName}); err != nil {
		return errors.Wrap(err, "Failed to marshal manifest header to CBOR.")
	}
	return Inspect(stream, func(meta metadata.EntryMetadata) error {
		return errors.Wrapf(enc.Encode(meta), "failed to marshal %s to CBOR", meta.Path)
	})
}
