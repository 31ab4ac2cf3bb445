package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK     = 0
	exitError  = 1
	exitFailed = 2
)

// errDocumentsFailed is returned by check when at least one document
// contains sensitive words. The report has already been written.
var errDocumentsFailed = errors.New("sensitive words found")

// NewRootCmd creates the root command for lexscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexscan",
		Short: "Sensitive word checker for articles",
		Long: `lexscan checks article titles and bodies against local sensitive word lists.

Word lists are plain text files grouped into categories (advertising,
pornography, political, abuse). Download them with "lexscan lexicon download"
or point --lexicon-dir at your own. Without a lexicon every check is skipped
and passes.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .lexscan.yaml or $XDG_CONFIG_HOME/lexscan/config.yaml)")
	cmd.PersistentFlags().StringP("lexicon-dir", "l", "",
		"Directory holding the lexicon files (default: $XDG_DATA_HOME/lexscan/Vocabulary)")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewLexiconCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil && !errors.Is(err, errDocumentsFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDocumentsFailed):
		return exitFailed
	default:
		return exitError
	}
}
