/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/indrora/har/har"
)

var listCmd = &cobra.Command{
	Use:     "list ARCHIVE [PATTERN...]",
	Aliases: []string{"ls"},
	Short:   "List the paths in a har archive",
	Long: `Print the path of every entry, in archive order. File contents are skipped
without being read when ARCHIVE is a regular file.

Patterns use doublestar syntax and are matched against the whole path.`,
	Example: `har list myarchive.har
har list myarchive.har '**/*.go'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		return har.List(in, cmd.OutOrStdout(), args[1:]...)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
