package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for varsub
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "varsub",
		Short: "Substitute environment variables into JSON and YAML files",
		Long: `Varsub replaces values in JSON and YAML configuration files with
values taken from environment variables.

A variable named a.b.c replaces the value found by walking key a, then b,
then c of each selected document. Files are selected with glob search
patterns (*, ?, **, [...], {a,b}) resolved against the workspace.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewFindCommand())

	return cmd
}
