package reader

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/indrora/har/har/format/metadata"
)

// ReadManifest decodes a manifest written by WriteManifest, calling visit
// for every entry.
func ReadManifest(r io.Reader, visit func(metadata.EntryMetadata) error) (*metadata.ManifestHeader, error) {
	dec := cbor.NewDecoder(r)

	header := new(metadata.ManifestHeader)
	if err := dec.Decode(header); err != nil {
		return nil, errors.Wrap(err, "couldn't unmarshal manifest header")
	}

	for {
		var meta metadata.EntryMetadata
		err := dec.Decode(&meta)
		if err == io.EOF {
			return header, nil
		}
		if err != nil {
			return header, errors.Wrap(err, "couldn't unmarshal manifest entry")
		}
		if err := visit(meta); err != nil {
			return header, err
		}
	}
}
