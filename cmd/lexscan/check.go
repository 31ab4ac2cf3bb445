package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/lexscan/internal/compliance"
	"github.com/nao1215/lexscan/internal/config"
	"github.com/nao1215/lexscan/internal/database"
	"github.com/nao1215/lexscan/internal/model"
	"github.com/nao1215/lexscan/internal/pipeline"
	"github.com/nao1215/lexscan/internal/report"
)

// stdinName is the file argument that reads from standard input.
const stdinName = "-"

// inlineName names the document built from --title and --content.
const inlineName = "<inline>"

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Check documents for sensitive words",
		Long: `Check scans documents against the lexicon and reports every match.

Each file is one document: its first non-blank line is the title (a leading
Markdown "#" is removed) and the rest is the body. HTML tags in the body are
ignored. Use "-" or no argument to read standard input.

Exit status is 0 when every document passed, 2 when sensitive words were
found and 1 on any other error.

Examples:
  # Check a Markdown article
  lexscan check post.md

  # Check several files concurrently and write a Markdown report
  lexscan check --batch 8 --markdown -o report.md posts/*.md

  # Check a title and body given on the command line
  lexscan check --title "标题" --content "<p>正文</p>"

  # Check standard input and keep the result in the history database
  cat post.md | lexscan check --save`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().StringP("title", "t", "", "Title to check (used with --content)")
	cmd.Flags().String("content", "", "Body to check instead of files")

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of documents checked concurrently")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().BoolP("save", "s", false, "Record results in the history database")
	cmd.Flags().String("db-dir", "", "History database directory (default: $XDG_DATA_HOME/lexscan)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	docs, err := collectDocuments(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cmd, cfg, docs, logger)
}

// collectDocuments builds the documents named by flags and arguments.
// Unreadable files become documents with Error set.
func collectDocuments(cmd *cobra.Command, args []string) ([]*model.Document, error) {
	if cmd.Flags().Changed("title") || cmd.Flags().Changed("content") {
		if len(args) > 0 {
			return nil, fmt.Errorf("--title/--content cannot be combined with file arguments")
		}
		title, err := cmd.Flags().GetString("title")
		if err != nil {
			return nil, err
		}
		content, err := cmd.Flags().GetString("content")
		if err != nil {
			return nil, err
		}
		return []*model.Document{model.NewDocument(inlineName, title, content)}, nil
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}

	docs := make([]*model.Document, 0, len(args))
	stdinUsed := false
	for _, arg := range args {
		var (
			doc *model.Document
			err error
		)
		if arg == stdinName {
			if stdinUsed {
				return nil, fmt.Errorf("standard input can only be read once")
			}
			stdinUsed = true
			doc, err = pipeline.ReadDocument(stdinName, cmd.InOrStdin())
		} else {
			doc, err = pipeline.LoadDocument(arg)
		}
		if err != nil {
			doc = model.NewDocument(arg, "", "")
			doc.Error = err.Error()
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// runCheck checks docs, writes the report and optionally records results.
func runCheck(ctx context.Context, cmd *cobra.Command, cfg *config.Config, docs []*model.Document, logger *slog.Logger) error {
	checker := newChecker(cfg, logger)
	if checker.Warm() != compliance.StateReady {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no lexicon found in %s; documents are not scanned.\n", cfg.LexiconDir)
		fmt.Fprintln(cmd.ErrOrStderr(), `Run "lexscan lexicon download" or set --lexicon-dir.`)
	}

	bp := pipeline.NewBatchProcessor(checker,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	docs, err := bp.ProcessBatch(ctx, docs)
	if err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}

	if err := outputReport(cmd, cfg, checker.DisplayNames(), docs); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveResults(ctx, cfg.DBDir, docs, logger); err != nil {
			return err
		}
	}

	summary := model.NewSummary(docs)
	switch {
	case summary.Failed > 0:
		return errDocumentsFailed
	case summary.Errors > 0:
		return fmt.Errorf("%d of %d document(s) could not be checked", summary.Errors, summary.Total)
	default:
		return nil
	}
}

// newReportWriter returns the writer selected by cfg.
func newReportWriter(cfg *config.Config, w io.Writer, names map[string]string) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w, names)
	default:
		return report.NewSimpleWriter(w,
			report.WithVerbose(cfg.Verbose),
			report.WithCategoryNames(names),
		)
	}
}

// outputReport writes one report for a single document, a batch report otherwise.
func outputReport(cmd *cobra.Command, cfg *config.Config, names map[string]string, docs []*model.Document) error {
	output, closeOutput, err := openOutput(cmd, cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck // write errors are reported by the writer

	writer := newReportWriter(cfg, output, names)
	if len(docs) == 1 {
		_, err = writer.Write(docs[0])
	} else {
		_, err = writer.WriteBatch(docs)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveResults records every document in the history database.
func saveResults(ctx context.Context, dbDir string, docs []*model.Document, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for _, doc := range docs {
		id, err := db.SaveResult(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to save result for %s: %w", doc.Name, err)
		}
		logger.Debug("result saved to database", "document", doc.Name, "id", id)
	}
	return nil
}
