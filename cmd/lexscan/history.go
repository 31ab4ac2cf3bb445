package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/lexscan/internal/config"
	"github.com/nao1215/lexscan/internal/database"
)

// defaultHistoryLimit is the number of records listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show results recorded with check --save",
		Long: `History lists checks recorded in the history database, newest first.

Examples:
  # List the last 20 checks
  lexscan history

  # Show the full report of one check
  lexscan history --id 42

  # Count checks per verdict
  lexscan history --stats`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of records to list (0 for all)")
	cmd.Flags().Int64("id", 0, "Show the report of one record")
	cmd.Flags().Bool("stats", false, "Show counts per verdict")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (with --id)")
	cmd.Flags().String("db-dir", "", "History database directory (default: $XDG_DATA_HOME/lexscan)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no history yet (run check with --save): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case id > 0:
		record, err := db.GetResult(ctx, id)
		if err != nil {
			return err
		}
		writer := newReportWriter(cfg, out, config.DisplayNames(cfg.Categories))
		_, err = writer.Write(record.Document())
		return err

	case showStats:
		stats, err := db.Stats(ctx)
		if err != nil {
			return err
		}
		if cfg.JSONReport {
			return writeIndentedJSON(out, stats)
		}
		fmt.Fprintf(out, "Checks:    %d (%d distinct documents)\n", stats.Total, stats.DistinctDocuments)
		fmt.Fprintf(out, "Passed:    %d\n", stats.Passed)
		fmt.Fprintf(out, "Failed:    %d\n", stats.Failed)
		fmt.Fprintf(out, "Skipped:   %d\n", stats.Skipped)
		fmt.Fprintf(out, "Errors:    %d\n", stats.Errors)
		if !stats.LastCheckedAt.IsZero() {
			fmt.Fprintf(out, "Last:      %s\n", stats.LastCheckedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil

	default:
		records, err := db.ListResults(ctx, limit)
		if err != nil {
			return err
		}
		if cfg.JSONReport {
			return writeIndentedJSON(out, records)
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No checks recorded.")
			return nil
		}
		return writeHistoryTable(out, records)
	}
}

func writeHistoryTable(w io.Writer, records []*database.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCHECKED AT\tVERDICT\tMATCHES\tCATEGORIES\tDOCUMENT")
	for _, r := range records {
		categories := strings.Join(r.FailedCategories, ",")
		if categories == "" {
			categories = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			strconv.FormatInt(r.ID, 10),
			r.CheckedAt.Local().Format("2006-01-02 15:04:05"),
			r.Verdict,
			r.MatchCount,
			categories,
			r.Name,
		)
	}
	return tw.Flush()
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
