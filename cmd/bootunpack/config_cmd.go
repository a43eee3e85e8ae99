package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BadgerOps/bootunpack/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage bootunpack configuration. Subcommands print the effective
configuration or write a default config file.`,
		Example: `  bootunpack config show
  bootunpack config init ~/.config/bootunpack/bootunpack.yaml`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration in YAML format: the loaded config
file (or defaults) with BOOTUNPACK_* environment overrides applied.`,
		Example: `  bootunpack config show
  bootunpack config show --config /etc/bootunpack/bootunpack.yaml`,
		RunE: configShowRun,
	}

	return cmd
}

func configShowRun(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	log.Debug("showing configuration", "path", cfgPath)

	data, err := yaml.Marshal(globalCfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println("Current Configuration:")
	fmt.Println("======================")
	fmt.Println(string(data))

	return nil
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a default config file",
		Long: `Write the default configuration to PATH (bootunpack.yaml in the current
directory if omitted). An existing file is kept unless --force is given.`,
		Example: `  bootunpack config init
  bootunpack config init /etc/bootunpack/bootunpack.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: configInitRun,
	}

	cmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	return cmd
}

func configInitRun(cmd *cobra.Command, args []string) error {
	path := "bootunpack.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to replace it)", path)
		}
	}

	if err := config.Save(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	slog.Default().Info("config written", "path", path)
	if !quiet {
		fmt.Printf("Wrote default configuration to %s\n", path)
	}
	return nil
}
