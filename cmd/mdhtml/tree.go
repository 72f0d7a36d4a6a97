package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tehbilly/intellij-markdown/internal/presentation/graph"
	"github.com/tehbilly/intellij-markdown/pkg/adapters/goldmark"
	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
)

var treeCmd = &cobra.Command{
	Use:   "tree [file|-]",
	Short: "Print the syntax tree of a Markdown file",
	Long: `Parses a Markdown file and prints its syntax tree, either as an
indented outline or as a Mermaid flowchart.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		source, err := readSource(cmd, args, cfg.MaxInputSize)
		if err != nil {
			return err
		}

		var opts []goldmark.Option
		if cfg.Flavour == flavour.NameCommonMark {
			opts = append(opts, goldmark.WithoutGFM())
		}
		root, _, err := goldmark.Parse(source, opts...)
		if err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "outline":
			return graph.Dump(cmd.OutOrStdout(), root, source)
		case "mermaid":
			highlight, _ := cmd.Flags().GetStringSlice("highlight")
			offset, _ := cmd.Flags().GetInt("offset")
			overlay := &graph.Overlay{Offset: offset}
			for _, t := range highlight {
				overlay.Types = append(overlay.Types, ast.Type(strings.ToUpper(t)))
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(root, source, overlay))
			return nil
		default:
			return fmt.Errorf("unknown format: %s. Supported: outline, mermaid", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().String("format", "outline", "Output format (outline, mermaid)")
	treeCmd.Flags().StringP("flavour", "f", "", "Markdown flavour (gfm, commonmark)")
	treeCmd.Flags().StringSlice("highlight", nil, "Node types to highlight in mermaid output")
	treeCmd.Flags().Int("offset", -1, "Mark the innermost node containing this source offset")
}
