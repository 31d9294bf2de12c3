// Package main is the entry point for the refactor-find CLI application.
// refactor-find locates, in local Git history, the first commit that
// refactors away the change introduced by a suspect commit, outputting only
// the located commit SHA for consumption by external systems.
package main

import (
	"os"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/sszz-tools/refactor-find/cmd"
	"github.com/sszz-tools/refactor-find/internal/adapters/git"
	logadapter "github.com/sszz-tools/refactor-find/internal/adapters/logger"
	"github.com/sszz-tools/refactor-find/internal/adapters/output"
	"github.com/sszz-tools/refactor-find/internal/domain"
	"github.com/sszz-tools/refactor-find/internal/infrastructure/config"
	"github.com/sszz-tools/refactor-find/internal/usecases"
)

func main() {
	// Create a single shared logger instance for the application
	zapLog := logger.NewZapLoggerFromConfig()
	adapter := logadapter.NewZapAdapter(zapLog)

	// Wire up production dependencies
	deps := &cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			return adapter
		},

		ConfigLoader: func() (*cmd.AppConfig, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return &cmd.AppConfig{
				Strategy:   cfg.Strategy,
				GitBin:     cfg.GitBin,
				LogLevel:   cfg.LogLevel,
				LogAppName: cfg.LogAppName,
			}, nil
		},

		HistoryFactory: func(path string, cfg *cmd.AppConfig, _ cmd.Logger) (domain.HistoryProvider, error) {
			differ := git.NewShortstatDiffer(path, cfg.GitBin)
			return git.NewGoGitRepository(path, differ, adapter)
		},

		FinderFactory: func(history domain.HistoryProvider, _ cmd.Logger) domain.Finder {
			detector := usecases.NewStatDetector(history, adapter)
			return usecases.NewRefactoringFinder(history, detector, adapter)
		},

		OutputWriterFactory: func() domain.OutputWriter {
			return output.NewWriter()
		},

		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	cmd.SetDefaultDependencies(deps)
	cmd.Execute()
}
