package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/lexscan/internal/config"
	"github.com/nao1215/lexscan/internal/download"
)

// NewLexiconCmd creates the lexicon command group.
func NewLexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect or download the sensitive word lists",
	}
	cmd.AddCommand(newLexiconStatsCmd())
	cmd.AddCommand(newLexiconDownloadCmd())
	return cmd
}

func newLexiconStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Load the lexicon and show words per category",
		Long: `Stats loads the lexicon the same way check does and prints, per category,
the number of distinct words and automaton nodes.`,
		Args: cobra.NoArgs,
		RunE: runLexiconStatsCmd,
	}
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	return cmd
}

func runLexiconStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	checker := newChecker(cfg, logger)
	checker.Warm()
	stats := checker.Stats()

	out := cmd.OutOrStdout()
	if cfg.JSONReport {
		return writeIndentedJSON(out, stats)
	}

	fmt.Fprintf(out, "Lexicon:  %s\n", cfg.LexiconDir)
	fmt.Fprintf(out, "State:    %s\n", stats.StateName)
	if len(stats.Categories) == 0 {
		fmt.Fprintln(out, `No words loaded. Run "lexscan lexicon download" or set --lexicon-dir.`)
		return nil
	}
	fmt.Fprintf(out, "Build:    %s\n\n", stats.BuildTime)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tNAME\tWORDS\tNODES")
	for _, c := range stats.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.ID, c.Name, c.Words, c.Nodes)
	}
	fmt.Fprintf(tw, "total\t\t%d\t\n", stats.TotalWords)
	return tw.Flush()
}

func newLexiconDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the lexicon files into the lexicon directory",
		Long: `Download fetches every lexicon file named by the configured categories
from the download base URL and writes it into the lexicon directory.
Existing files are replaced. The command fails if any file could not be
downloaded; the others are still written.`,
		Args: cobra.NoArgs,
		RunE: runLexiconDownloadCmd,
	}
	cmd.Flags().String("download-base-url", config.DefaultDownloadBaseURL, "Base URL of the lexicon files")
	cmd.Flags().Duration("download-timeout", config.DefaultDownloadTimeout, "Timeout for each file")
	cmd.Flags().Int("retries", 2, "Retries per file")
	return cmd
}

func runLexiconDownloadCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	retries, err := cmd.Flags().GetInt("retries")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files := config.LexiconFiles(cfg.Categories)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Downloading %d file(s) into %s\n", len(files), cfg.LexiconDir)

	fetcher := download.NewFetcher(cfg.DownloadBaseURL, cfg.DownloadTimeout,
		download.WithLogger(logger),
		download.WithRetries(retries),
	)
	summary, err := fetcher.Download(ctx, cfg.LexiconDir, files)

	for _, f := range summary.Files {
		if f.OK() {
			fmt.Fprintf(out, "  downloaded: %s (%d bytes)\n", f.Name, f.Bytes)
			continue
		}
		fmt.Fprintf(out, "  failed:     %s: %v\n", f.Name, f.Err)
	}
	fmt.Fprintf(out, "Done: %d/%d file(s)\n", summary.Succeeded(), len(files))

	if err != nil {
		names := make([]string, 0)
		for _, f := range summary.Failed() {
			names = append(names, f.Name)
		}
		if len(names) > 0 {
			return fmt.Errorf("%w (%s)", err, strings.Join(names, ", "))
		}
		return err
	}
	return nil
}
