package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/harrison/varsub/internal/config"
	"github.com/harrison/varsub/internal/envtree"
	"github.com/harrison/varsub/internal/logger"
	"github.com/harrison/varsub/internal/processor"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [pattern]...",
		Short: "Substitute environment variables into matching files",
		Long: `Substitute environment variables into every JSON and YAML file selected by
the search patterns.

Patterns come from the arguments, else from the files setting of the config
(INPUT_FILES in the environment, comma separated). Relative patterns are
resolved against the workspace (GITHUB_WORKSPACE, --workspace or the current
directory).

Configuration is loaded from .varsub.yaml in the workspace if present, then
from the environment. CLI flags override both.

Examples:
  varsub run '**/appsettings.json'
  varsub run 'config/*.{yml,yaml}' --dry-run
  INPUT_FILES='a.json,b.yml' varsub run
  varsub run --fail-on-no-match --indent 2 settings.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandWithOutput(cmd, args, os.Environ(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("config", "", "Path to config file (default: .varsub.yaml in the workspace)")
	cmd.Flags().String("workspace", "", "Directory relative patterns are resolved against")
	cmd.Flags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().Bool("dry-run", false, "Substitute without writing files")
	cmd.Flags().Bool("fail-on-no-match", false, "Fail when a pattern matches no file")
	cmd.Flags().Int("indent", 4, "Number of spaces used to indent written JSON")

	return cmd
}

// runCommandWithOutput runs the substitution pipeline against the given
// environment and writes logs to output (for testing)
func runCommandWithOutput(cmd *cobra.Command, args []string, environ []string, output io.Writer) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(output, cfg.LogLevel)
	if cfg.ConfigFile != "" {
		log.Debugf("Loaded configuration from %s", cfg.ConfigFile)
	}

	env := envtree.FromEnviron(environ, cfg.ExcludePrefixes)
	log.Debugf("Environment tree holds %d variables", env.Len())

	p := processor.New(log, processor.Options{
		Workspace:     cfg.Workspace,
		Indent:        cfg.Indent,
		DryRun:        cfg.DryRun,
		FailOnNoMatch: cfg.FailOnNoMatch,
	})

	summary, runErr := p.Run(cfg.Patterns(), env)
	log.LogSummary(summary)

	if runErr != nil {
		return fmt.Errorf("substitution failed: %w", runErr)
	}
	return nil
}

// loadConfig layers config file, environment and flags
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	workspaceFlag, _ := cmd.Flags().GetString("workspace")
	logLevelFlag, _ := cmd.Flags().GetString("log-level")
	dryRunFlag, _ := cmd.Flags().GetBool("dry-run")
	failOnNoMatchFlag, _ := cmd.Flags().GetBool("fail-on-no-match")
	indentFlag, _ := cmd.Flags().GetInt("indent")

	// Build flag pointers for merge (only values set on the command line)
	var workspacePtr *string
	if cmd.Flags().Changed("workspace") {
		workspacePtr = &workspaceFlag
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevelPtr = &logLevelFlag
	}

	var dryRunPtr *bool
	if cmd.Flags().Changed("dry-run") {
		dryRunPtr = &dryRunFlag
	}

	var failOnNoMatchPtr *bool
	if cmd.Flags().Changed("fail-on-no-match") {
		failOnNoMatchPtr = &failOnNoMatchFlag
	}

	var indentPtr *int
	if cmd.Flags().Changed("indent") {
		indentPtr = &indentFlag
	}

	cfg.MergeWithFlags(args, workspacePtr, logLevelPtr, dryRunPtr, failOnNoMatchPtr, indentPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
