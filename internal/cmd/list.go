package cmd

import (
	_ "embed"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdplay/internal/mdcode"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	var langs []string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] filename",
		Aliases: []string{"ls"},
		Short:   "List fenced code blocks and the lines to run them from",
		Long:    listHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			match, err := filter(langs)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()

			tbl := table.New("Line", "Lang", "File", "Runnable").
				WithWriter(cmd.OutOrStdout()).
				WithHeaderFormatter(headerFmt)

			blocks, err := mdcode.Unfence(src)
			if err != nil {
				return err
			}

			for _, block := range selectBlocks(blocks, match) {
				runnable := "no"
				if block.Lang == cfg.Lang {
					runnable = "yes"
				}

				lang := block.Lang
				if len(lang) == 0 {
					lang = "-"
				}

				tbl.AddRow(strconv.Itoa(block.StartLine+1), lang, block.Meta.File(), runnable)
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringSliceVar(&langs, "match", []string{"*"}, "glob patterns selecting block languages")
	langFlag(cmd, opts)

	return cmd
}
