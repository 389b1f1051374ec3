package cmd

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdplay/internal/document"
	"github.com/ezerfernandes/mdplay/internal/editor"
	"github.com/ezerfernandes/mdplay/internal/logger"
	"github.com/ezerfernandes/mdplay/internal/play"
	"github.com/ezerfernandes/mdplay/internal/runner"
)

//go:embed help/run.md
var runHelp string

var errInvalidLine = errors.New("--line must be 1 or greater")

func runCmd(opts *options) *cobra.Command {
	var line int

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "run [flags] filename",
		Aliases: []string{"r"},
		Short:   "Run the code block under the cursor and append its output",
		Long:    runHelp,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			if line < 1 {
				return errInvalidLine
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			output := logger.NewChannel("mdplay", cmd.ErrOrStderr(), cfg.LogLevel)

			host, err := editor.Open(document.OS{}, args[0], line-1, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			command := &play.Command{
				Lang: cfg.Lang,
				Runner: &runner.Shell{
					Command: cfg.Command,
					Tool:    cfg.Tool,
					TempDir: cfg.TempDir,
					Keep:    cfg.Keep,
					Log:     output,
				},
				Output: output,
			}

			if err := command.Execute(cmd.Context(), host); err != nil {
				return fmt.Errorf("%s:%d: %w", args[0], line, err)
			}

			opts.status("%s:%d: finished\n", args[0], line)

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().IntVarP(&line, "line", "n", 0, "1-based cursor line inside the code block")
	cmd.Flags().StringVar(&opts.tool, "tool", "", "tool substituted for {tool} (default from config)")
	cmd.Flags().StringVar(&opts.command, "command", "", "command template (default from config)")
	cmd.Flags().StringVarP(&opts.workDir, "dir", "d", "", "working directory (default: directory of the document)")
	cmd.Flags().StringVar(&opts.tempDir, "temp-dir", "", "directory for per-run source files")
	cmd.Flags().BoolVarP(&opts.keep, "keep", "k", false, "don't remove the per-run source files")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	langFlag(cmd, opts)

	return cmd
}
