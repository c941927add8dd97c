package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/kankatext/internal/models"
	"github.com/raphaelgruber/kankatext/internal/service"
)

type convertFlags struct {
	input         string
	output        string
	dryRun        bool
	mentionLabels bool
}

func newConvertCmd(a *app) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [export-dir]",
		Short: "Convert a Kanka export into one text file per entity type",
		Long: `Convert a Kanka export into consolidated text files.

The export directory must contain one folder per entity type (characters,
families, locations, journals, notes, organisations, races). Other folders
are ignored. One <type>.txt is written per type that has at least one record.

Examples:
  kankatext convert ./kanka-export
  kankatext convert ./kanka-export --output ./notebook
  kankatext convert --input ./kanka-export --dry-run
  KANKATEXT_INPUT_DIR=./kanka-export kankatext convert`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Kanka export directory (default $KANKATEXT_INPUT_DIR)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default $KANKATEXT_OUTPUT_DIR or NotebookLM_Files)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "run both passes without writing files")
	cmd.Flags().BoolVar(&flags.mentionLabels, "mention-labels", false, "render the |label of a mention instead of the entity name")

	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, args []string, flags convertFlags) error {
	opts := service.ConvertOptions{
		InputDir:      a.cfg.InputDir,
		OutputDir:     a.cfg.OutputDir,
		DryRun:        flags.dryRun,
		MentionLabels: a.cfg.MentionLabels || flags.mentionLabels,
	}
	if len(args) == 1 {
		opts.InputDir = args[0]
	}
	if flags.input != "" {
		opts.InputDir = flags.input
	}
	if flags.output != "" {
		opts.OutputDir = flags.output
	}
	if opts.InputDir == "" {
		return fmt.Errorf("no export directory: pass it as an argument, with --input, or set KANKATEXT_INPUT_DIR")
	}

	result, err := service.NewConvertService(a.logger).Convert(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), a.theme, opts, result)
	return nil
}

// printSummary renders the conversion report.
func printSummary(w io.Writer, theme Theme, opts service.ConvertOptions, r *service.ConvertResult) {
	var b strings.Builder
	if opts.DryRun {
		b.WriteString(theme.success("✓ Dry run complete") + "\n\n")
	} else {
		b.WriteString(theme.success("✓ Conversion complete") + "\n\n")
	}

	fmt.Fprintf(&b, "  Entities indexed:    %d\n", r.Index.Indexed)
	fmt.Fprintf(&b, "  Records rendered:    %d\n", r.Total())
	for _, typ := range models.AllTypes() {
		if n := r.Processed[typ]; n > 0 {
			fmt.Fprintf(&b, "    %-14s %d\n", typ.Folder()+":", n)
		}
	}
	if r.Unresolved > 0 {
		fmt.Fprintf(&b, "  Unresolved mentions: %s\n", theme.warn(fmt.Sprint(r.Unresolved)))
	}
	if r.FilesFailed > 0 {
		fmt.Fprintf(&b, "  Invalid files:       %s\n", theme.failure(fmt.Sprint(r.FilesFailed)))
	}

	if !opts.DryRun {
		if len(r.FilesWritten) == 0 {
			b.WriteString("\n" + theme.hint("No recognized entities found; no files written.") + "\n")
		} else {
			fmt.Fprintf(&b, "\n  Files written to %s:\n", opts.OutputDir)
			for _, path := range r.FilesWritten {
				fmt.Fprintf(&b, "    -> %s\n", path)
			}
		}
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n" + theme.warn(fmt.Sprintf("Warnings (%d):", len(r.Errors))) + "\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  • %s\n", e)
		}
	}

	fmt.Fprint(w, b.String())
}
