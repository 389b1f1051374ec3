// Package cmd implements the mdplay command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdplay/internal/config"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

type statusFunc func(format string, args ...interface{})

type options struct {
	configPath string
	lang       string
	tool       string
	command    string
	workDir    string
	tempDir    string
	keep       bool
	quiet      bool
	logLevel   string

	status statusFunc
}

func (opts *options) createStatus(w io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
}

// config loads the configuration file and applies the flags that were set.
func (opts *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("lang") {
		cfg.Lang = opts.lang
	}

	if flags.Changed("tool") {
		cfg.Tool = opts.tool
	}

	if flags.Changed("command") {
		cfg.Command = opts.command
	}

	if flags.Changed("dir") {
		cfg.WorkDir = opts.workDir
	}

	if flags.Changed("temp-dir") {
		cfg.TempDir = opts.tempDir
	}

	if flags.Changed("keep") {
		cfg.Keep = opts.keep
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	return cfg, cfg.Validate()
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := new(options)

	root := &cobra.Command{ //nolint:exhaustruct
		Use:   "mdplay",
		Short: "Run code blocks embedded in Markdown documents",
		Long: `mdplay runs the fenced code block under an editor cursor and appends
the program output to the document as a new fenced block.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultFile, "configuration file")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")

	root.AddCommand(runCmd(opts), listCmd(opts))

	return root
}

// Execute runs the command line and exits with a non-zero status on error.
func Execute(args []string, stdout, stderr io.Writer) {
	root := rootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, color.New(color.FgRed).Sprint("Error: "+err.Error()))
		os.Exit(1)
	}
}

func langFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "language of runnable fences (default from config)")
}
