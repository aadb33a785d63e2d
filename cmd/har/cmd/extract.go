/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/reader"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract ARCHIVE",
	Short: "Unwrap a har archive",
	Long: `Unwrap a given archive to the given path (default ".").

Parent directories are not created: an entry whose directory is neither in
the archive nor already present is reported and skipped. Existing files are
overwritten.

Paths are used exactly as stored, so without -C an archive holding absolute
paths or "../" entries writes outside the current directory. With -C every
entry must stay inside DIR; entries that would leave it are reported and
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("directory")
	bufferSize, _ := cmd.Flags().GetInt("buffer-size")

	in, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	opts := []reader.Option{reader.WithBufferSize(bufferSize)}
	if dir != "" && dir != "." {
		opts = append(opts, reader.WithFs(afero.NewBasePathFs(afero.NewOsFs(), dir)))
	}
	return summarize(reader.Extract(in, opts...), "entries were")
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("directory", "C", ".", "Extract into `DIR`")
	extractCmd.Flags().Int("buffer-size", format.BUFFER_SIZE, "Size of the chunks file contents are copied in")
}
