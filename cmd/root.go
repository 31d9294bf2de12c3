// Package cmd provides the CLI commands for refactor-find.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func() (*AppConfig, error)

	// HistoryFactory creates a HistoryProvider for the repository at path.
	HistoryFactory func(path string, cfg *AppConfig, log Logger) (domain.HistoryProvider, error)

	// FinderFactory creates a Finder over the given history provider.
	FinderFactory func(history domain.HistoryProvider, log Logger) domain.Finder

	// OutputWriterFactory creates an OutputWriter.
	OutputWriterFactory func() domain.OutputWriter

	// Stdout is the writer for standard output (for the located commit).
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/notices).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// Strategy is the default search strategy when no flag is given.
	Strategy string

	// GitBin is the git binary used for diff statistics.
	GitBin string

	// LogLevel is the log level setting.
	LogLevel string

	// LogAppName is the application name for logging.
	LogAppName string
}

// Command-line flags.
var (
	commitRef string
	strategy  string
	verbose   bool
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for refactor-find.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "refactor-find [path]",
		Short: "Locate the first commit that refactors away a suspect change",
		Long: `refactor-find searches a local Git repository's history for the first
commit that refactors away the change introduced by a suspect commit.

Detection uses aggregate line-change statistics only (git diff -w
--shortstat): if the diff from the suspect's parent to a later commit is
not the simple sum of the suspect's own diff and the independent changes
after it, something in between was rewritten. On success, the located
commit SHA is printed alone to stdout; nothing is printed when no
refactoring exists.

The binary strategy assumes the refactoring signal is monotone over
history (it never gets reverted); when in doubt, use the default linear
strategy.

Examples:
  # Search from the current directory
  refactor-find --commit 1a2b3c4

  # Search a specific repository
  refactor-find /path/to/repo --commit 1a2b3c4

  # Use the binary search strategy
  refactor-find --commit 1a2b3c4 --strategy binary

  # Enable verbose logging
  refactor-find --commit 1a2b3c4 -v`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args, deps)
		},
	}

	// Define flags
	rootCmd.Flags().StringVarP(&commitRef, "commit", "c", "",
		"Suspect commit whose change is being tracked (required)")
	rootCmd.Flags().StringVarP(&strategy, "strategy", "s", "",
		"Search strategy: linear or binary (default from config, linear)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose/debug logging")

	if err := rootCmd.MarkFlagRequired("commit"); err != nil {
		// MarkFlagRequired only fails for unknown flag names
		panic(err)
	}

	return rootCmd
}

// runFind executes the refactoring search with injected dependencies.
func runFind(cmd *cobra.Command, args []string, deps *Dependencies) error {
	if deps == nil {
		return errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Determine repository path
	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}

	// Get stderr for warnings
	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Set log level based on verbose flag (best-effort)
	if verbose {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			writeWarningf(stderr, "warning: could not set log level: %v\n", err)
		}
	}

	// Initialize logger
	log := deps.LoggerFactory()

	log.Info(ctx, "starting refactor-find", map[string]interface{}{
		"path":     repoPath,
		"commit":   commitRef,
		"strategy": strategy,
		"verbose":  verbose,
	})

	// Load configuration
	cfg, err := deps.ConfigLoader()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return fmt.Errorf("configuration error: %w", err)
	}

	// Initialize the history provider
	history, err := deps.HistoryFactory(repoPath, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open git repository", err, map[string]interface{}{
			"path": repoPath,
		})
		if errors.Is(err, domain.ErrRepositoryNotFound) {
			return fmt.Errorf("not a git repository: %s", repoPath)
		}
		return err
	}
	defer func() {
		if closeErr := history.Close(); closeErr != nil {
			log.Warn(ctx, "failed to close git repository", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	// The flag wins over the configured default strategy
	searchStrategy := strategy
	if searchStrategy == "" {
		searchStrategy = cfg.Strategy
	}

	// Create the finder and run the search
	finder := deps.FinderFactory(history, log)
	result, err := finder.FindFirstRefactoring(ctx, domain.SearchInput{
		Commit:   commitRef,
		Strategy: searchStrategy,
	})
	if err != nil {
		log.Error(ctx, "refactoring search failed", err, nil)
		switch {
		case errors.Is(err, domain.ErrCommitNotFound):
			return fmt.Errorf("commit not found or invalid range: %s", commitRef)
		case errors.Is(err, domain.ErrNoParent):
			return fmt.Errorf("commit %s has no parent; a root commit cannot be analyzed", commitRef)
		case errors.Is(err, domain.ErrUnknownStrategy):
			return fmt.Errorf("unknown strategy %q (valid: %s, %s)",
				searchStrategy, domain.StrategyLinear, domain.StrategyBinary)
		}
		return err
	}

	// An exhausted search prints nothing to stdout; external tooling
	// treats empty output as "no refactoring found".
	if !result.Found {
		notice := color.New(color.FgYellow)
		if _, err := notice.Fprintf(stderr,
			"no refactoring of %s found in %d candidate commit(s)\n",
			commitRef, result.Candidates); err != nil {
			log.Warn(ctx, "failed to write notice", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil
	}

	// Write the located commit to stdout
	writer := deps.OutputWriterFactory()
	if err := writer.WriteCommit(result.Commit); err != nil {
		log.Error(ctx, "failed to write output", err, nil)
		return fmt.Errorf("output error: %w", err)
	}

	log.Info(ctx, "refactoring search complete", map[string]interface{}{
		"commit":      result.StartCommit,
		"refactored":  result.Commit,
		"candidates":  result.Candidates,
		"evaluations": result.Evaluations,
		"strategy":    result.Strategy,
	})

	return nil
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
