package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tehbilly/intellij-markdown/internal/cli"
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a Markdown file to HTML",
	Long: `Renders a Markdown file (or standard input) to HTML.
With --watch the file is rendered again every time it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cli.RenderOptions{
			Input:        cli.Stdin,
			MaxInputSize: cfg.MaxInputSize,
		}
		if len(args) > 0 {
			opts.Input = args[0]
		}
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Standalone, _ = cmd.Flags().GetBool("standalone")

		engine, closeCache, err := cli.NewEngine(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeCache(); err != nil {
				logger.Warn("closing cache failed", "err", err)
			}
		}()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		streams := cli.StdIO()
		streams.In = cmd.InOrStdin()
		streams.Out = cmd.OutOrStdout()
		return cli.Execute(ctx, engine, opts, streams, logger)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "Write the HTML to a file instead of stdout")
	renderCmd.Flags().StringP("flavour", "f", "", "Markdown flavour (gfm, commonmark)")
	renderCmd.Flags().BoolP("watch", "w", false, "Re-render when the input file changes")
	renderCmd.Flags().Bool("standalone", false, "Wrap the output in a complete HTML document")
}
