package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	markdown "github.com/tehbilly/intellij-markdown"
	"github.com/tehbilly/intellij-markdown/internal/input"
	"github.com/tehbilly/intellij-markdown/internal/presentation/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file|-]",
	Short: "Preview a Markdown file in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		source, err := readSource(cmd, args, cfg.MaxInputSize)
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetInt("width")
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		out, err := render(source)
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}

		if tui.IsTerminal() {
			tui.PrintBanner(cmd.ErrOrStderr(), markdown.Version().String())
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

// readSource reads the first argument, or stdin when it is absent or "-".
func readSource(cmd *cobra.Command, args []string, limit int) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		return input.Read(cmd.InOrStdin(), limit)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return input.Read(f, limit)
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Int("width", 0, "Word wrap width (default: terminal width)")
}
