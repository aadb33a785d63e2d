/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/format/metadata"
	"github.com/indrora/har/har/reader"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect ARCHIVE",
	Short: "Investigate the contents of a har archive",
	Long: `Read every entry of the archive, contents included, and show its header
fields together with the BLAKE2b-256 digest and detected type of its
contents. Unlike list this notices a truncated archive.

With --cbor the same information is written to FILE as a CBOR sequence
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	manifest, _ := cmd.Flags().GetString("cbor")
	verbose, _ := cmd.Flags().GetBool("verbose")

	in, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	if manifest != "" {
		out, err := os.Create(manifest)
		if err != nil {
			return errors.Wrap(err, "failed to create manifest")
		}
		err = reader.WriteManifest(in, out, args[0])
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		return err
	}

	out := cmd.OutOrStdout()
	return reader.Inspect(in, func(meta metadata.EntryMetadata) error {
		if verbose {
			spew.Fdump(out, meta)
			return nil
		}
		return explainEntry(out, meta)
	})
}

func explainEntry(out io.Writer, meta metadata.EntryMetadata) error {
	mode := format.FileModeFromMode(*meta.Mode)
	if meta.Kind == format.KIND_DIRECTORY {
		_, err := fmt.Fprintf(out, "%s %8s %s/\n", mode, "-", meta.Path)
		return err
	}
	_, err := fmt.Fprintf(out, "%s %8d %s\n\tblake2b %x\n\ttype    %s\n",
		mode, *meta.FileSize, meta.Path, meta.Digest, *meta.MimeType)
	return err
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("cbor", "", "Write a CBOR manifest to `FILE` instead of text")
}
