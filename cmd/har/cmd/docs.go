/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsCmd = &cobra.Command{
	Use:    "docs DIR",
	Short:  "Generate markdown documentation for every command",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return GenDocs(args[0])
	},
}

// GenDocs writes one markdown page per command into dir.
func GenDocs(dir string) error {
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return errors.Wrap(err, "failed to make docs dir")
	}
	rootCmd.DisableAutoGenTag = true
	return errors.Wrap(doc.GenMarkdownTree(rootCmd, dir), "failed to make docs")
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
