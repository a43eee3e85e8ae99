package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BadgerOps/bootunpack/internal/config"
	"github.com/BadgerOps/bootunpack/internal/decompile"
	"github.com/BadgerOps/bootunpack/internal/store"
	"github.com/BadgerOps/bootunpack/internal/unpack"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgPath   string
	envFile   string
	logLevel  string
	logFormat string
	quiet     bool
	globalCfg *config.Config
	logger    *slog.Logger

	// Global components
	globalStore    *store.Store
	globalUnpacker *unpack.Unpacker
	globalRunner   *decompile.Runner
)

// initializeComponents initializes the history store, unpacker and decompiler runner
func initializeComponents() error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	// History is best-effort: an unusable database never blocks an unpack.
	if globalCfg.History.Enabled {
		st, err := store.New(globalCfg.History.DBPath, logger)
		if err != nil {
			logger.Warn("unpack history disabled", "path", globalCfg.History.DBPath, "error", err)
		} else {
			globalStore = st
		}
	}

	globalUnpacker = unpack.New(unpack.TemplateFor(globalCfg.Unpack.Template), logger)

	globalRunner = decompile.NewRunner(decompile.Settings{
		JavaBinary:    globalCfg.Decompiler.JavaBinary,
		FernFlowerJar: globalCfg.Decompiler.FernFlowerJar,
		CFRJar:        globalCfg.Decompiler.CFRJar,
		ExtraArgs:     globalCfg.Decompiler.ExtraArgs,
	}, logger)

	logger.Debug("components initialized", "history", globalStore != nil)
	return nil
}

// shouldSkipComponentInit checks if a command should skip component initialization
func shouldSkipComponentInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "completion":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "config"
}

// closeStore closes the history store connection
func closeStore() {
	if globalStore != nil {
		if err := globalStore.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
		globalStore = nil
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootunpack",
		Short: "Rebuild a source project from a Spring Boot jar or war",
		Long: `bootunpack turns a Spring Boot executable jar (or war) back into a
conventional Maven project: bundled libraries go to lib/, application classes
to src/main/java/ (then through a decompiler), resources to
src/main/resources/, and the application's own pom.xml is recovered from the
archive metadata or synthesized from the manifest.`,
		Example: `  bootunpack unpack app-0.0.1.jar
  bootunpack unpack app.jar --overwrite --decompiler cfr
  bootunpack unpack app.jar --include com.acme --exclude com.acme.generated
  bootunpack inspect app.jar --entries
  bootunpack history --limit 10`,
		Version:      "0.1.0",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()

			if err := config.LoadDotEnv(envFile); err != nil {
				logger.Warn("failed to load env file", "path", envFile, "error", err)
			}

			if cfgPath == "" {
				var err error
				cfgPath, err = config.FindConfigFile()
				if err != nil {
					logger.Debug("config file not found, using defaults", "error", err)
				}
			}

			if cfgPath != "" {
				var err error
				globalCfg, err = config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			} else {
				globalCfg = config.DefaultConfig()
			}
			globalCfg.ApplyEnv(os.Getenv)

			logger.Debug("config loaded", "path", cfgPath)

			if !shouldSkipComponentInit(cmd) {
				if err := initializeComponents(); err != nil {
					return fmt.Errorf("failed to initialize components: %w", err)
				}
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeStore()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (auto-discovered if not specified)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with BOOTUNPACK_* overrides")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	cmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error output")

	cmd.AddCommand(
		newUnpackCmd(),
		newInspectCmd(),
		newHistoryCmd(),
		newConfigCmd(),
	)

	return cmd
}

// setupLogging initializes the slog logger based on flags
func setupLogging() {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if quiet && level < slog.LevelError {
		level = slog.LevelError
	}

	var handler slog.Handler
	if strings.ToLower(logFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}
