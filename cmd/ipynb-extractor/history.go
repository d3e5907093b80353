// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ipynb-extractor/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [notebook]",
	Short: "List recorded extraction runs",
	Long: `History lists past extraction runs from the history database, newest
first: when each notebook was extracted, into which folder, and how many
markdown, code, and skipped cells it had. Give a notebook name to list only
its runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [notebook]",
	Short: "Export the extraction history to YAML or JSON",
	Long: `Export writes every recorded run, including the list of files it wrote,
as YAML or JSON to standard output or to the file given with --output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryExport,
}

func openHistoryStore() (*history.Store, error) {
	cfg := historyConfig(viper.GetViper())
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", cfg.Path, err)
	}
	return store, nil
}

func historyQuery(cmd *cobra.Command, args []string) history.QueryOptions {
	limit, _ := cmd.Flags().GetInt("limit")
	opts := history.QueryOptions{Limit: limit}
	if len(args) > 0 {
		opts.Notebook = args[0]
	}
	return opts
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyQuery(cmd, args)
	opts.WithFiles, _ = cmd.Flags().GetBool("files")

	runs, err := store.Runs(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	formatRuns(cmd.OutOrStdout(), runs, opts.WithFiles)
	return nil
}

func formatRuns(w io.Writer, runs []history.Run, withFiles bool) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No extraction runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-30s  %8s  %5s  %7s  %5s  %s\n",
		"Run", "Started", "Notebook", "Markdown", "Code", "Skipped", "Total", "Replaced")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		notebook := r.Notebook
		if len(notebook) > 30 {
			notebook = notebook[:27] + "..."
		}
		replaced := "no"
		if r.Replaced {
			replaced = "yes"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-30s  %8d  %5d  %7d  %5d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), notebook,
			r.Markdown, r.Code, r.Skipped, r.Total, replaced)
		if withFiles {
			for _, f := range r.Files {
				fmt.Fprintf(w, "       %02d  %-8s  %s (%d bytes)\n", f.Index, f.CellType, f.Path, f.Bytes)
			}
		}
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	opts := historyQuery(cmd, args)
	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), w, opts)
	case "json":
		err = store.ExportJSON(cmd.Context(), w, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
	}
	return nil
}

func init() {
	historyCmd.PersistentFlags().Int("limit", 0, "maximum number of runs (0 = use default)")

	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyCmd.Flags().Bool("files", false, "list the files written by each run")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write the export to this file instead of stdout")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
