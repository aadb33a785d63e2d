/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/indrora/har/har/format"
	"github.com/indrora/har/har/writer"
	"github.com/indrora/har/internal/log"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create ARCHIVE PATH...",
	Short: "Create a har archive",
	Long: `Create an archive from a specified set of paths.

Directories are archived with everything below them. Paths are stored the
way they were given, so relative paths extract relative to where extract is
run. Anything that cannot be read is reported and left out; the archive is
still complete apart from it.`,
	Example: `har create myarchive.har a b/c
har create - src --exclude '*.o' > src.har`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	exclude, _ := cmd.Flags().GetStringArray("exclude")
	bufferSize, _ := cmd.Flags().GetInt("buffer-size")
	if err := writer.ValidatePatterns(exclude); err != nil {
		return err
	}

	out, err := createArchive(args[0])
	if err != nil {
		return err
	}

	archive := writer.NewWriter(out,
		writer.WithExclude(exclude...),
		writer.WithBufferSize(bufferSize),
	)
	err = archive.Write(args[1:]...)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	log.Infof("wrote %d bytes to %s", archive.Written(), args[0])
	return summarize(err, "paths were")
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringArray("exclude", nil, "Leave out paths matching this pattern (repeatable, ** allowed)")
	createCmd.Flags().Int("buffer-size", format.BUFFER_SIZE, "Size of the chunks file contents are copied in")
}
