package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nconklindev/sweeper/internal/converter"
	"github.com/nconklindev/sweeper/internal/logging"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert files without the interactive UI",
	Long: `Convert reads each file, applies the requested cleaning steps and writes
it in the target format. A file that cannot be read or written is reported
and skipped; the command exits non-zero if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(cfg.Log.Level, os.Stderr)

		label, _ := cmd.Flags().GetString("to")
		target, err := converter.ParseFormat(label)
		if err != nil {
			return err
		}

		dedup, _ := cmd.Flags().GetBool("dedup")
		fill, _ := cmd.Flags().GetBool("fill")
		columns, _ := cmd.Flags().GetStringSlice("columns")

		steps := converter.Steps{
			RemoveDuplicates: dedup,
			FillMissing:      fill,
			Columns:          trimAll(columns),
		}

		jobs := make([]converter.Job, len(args))
		for i, path := range args {
			jobs[i] = converter.Job{
				Path:   path,
				Target: target,
				Steps:  steps,
				OutDir: cfg.Output.Dir,
			}
		}

		exporter := converter.NewExporter(cfg.ExportOptions())
		result := converter.RunBatch(exporter, jobs, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d of %d file(s) failed", result.Failed, result.Total())
		}
		return nil
	},
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	convertCmd.Flags().String("to", "csv", "target format: csv, excel, pdf, powerpoint, word or json")
	convertCmd.Flags().Bool("dedup", false, "remove duplicate rows")
	convertCmd.Flags().Bool("fill", false, "fill missing numeric values with the column mean")
	convertCmd.Flags().StringSlice("columns", nil, "keep only these columns, in this order")

	rootCmd.AddCommand(convertCmd)
}
