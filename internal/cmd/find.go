package cmd

import (
	"fmt"
	"io"

	"github.com/harrison/varsub/internal/config"
	"github.com/harrison/varsub/internal/fileutil"
	"github.com/harrison/varsub/internal/logger"
	"github.com/spf13/cobra"
)

// NewFindCommand creates the find command
func NewFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <pattern>",
		Short: "List the files a search pattern selects",
		Long: `Resolve a search pattern the same way run does and print every matching
path, one per line, without touching any file. The workspace comes from
--workspace, then GITHUB_WORKSPACE or the config file.

Examples:
  varsub find '**/*.json'
  varsub find --workspace ./deploy 'values-{dev,prod}.*'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := findWorkspace(cmd)
			if err != nil {
				return err
			}
			logLevel, _ := cmd.Flags().GetString("log-level")
			return findFilesWithOutput(args[0], workspace, logLevel, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().String("config", "", "Path to config file (default: .varsub.yaml in the workspace)")
	cmd.Flags().String("workspace", "", "Directory relative patterns are resolved against")
	cmd.Flags().String("log-level", "warn", "Log level (trace, debug, info, warn, error)")

	return cmd
}

// findWorkspace resolves the workspace the same way run does.
func findWorkspace(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("workspace") {
		workspace, _ := cmd.Flags().GetString("workspace")
		return workspace, nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Workspace, nil
}

// findFilesWithOutput prints matches to output and logs to logOutput (for testing)
func findFilesWithOutput(pattern, workspace, logLevel string, output, logOutput io.Writer) error {
	if !logger.ValidLevel(logLevel) {
		return fmt.Errorf("invalid log level %q", logLevel)
	}

	finder := fileutil.NewFinder(logger.NewConsoleLogger(logOutput, logLevel))
	files, err := finder.FindFiles(pattern, workspace)
	if err != nil {
		return fmt.Errorf("failed to find files: %w", err)
	}

	for _, f := range files {
		fmt.Fprintln(output, f)
	}
	return nil
}
