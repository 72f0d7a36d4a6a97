package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tehbilly/intellij-markdown/internal/cli"
	"github.com/tehbilly/intellij-markdown/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "mdhtml",
	Short: "mdhtml converts Markdown to HTML",
	Long: `mdhtml renders CommonMark and GitHub Flavored Markdown to HTML.
It runs as a one-shot converter, an HTTP service or an MCP tool server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies the flags that override it.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if f := cmd.Flags().Lookup("flavour"); f != nil && f.Changed {
		cfg.Flavour = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
