package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aptmaint/internal/output"
	"aptmaint/internal/store"
)

var (
	historyLimit    int
	historySessions bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent maintenance operations from the journal",
	Long: `Shows what aptmaint has done on this machine: each operation with its
argument, duration and exit status, newest first. Needs no privileges;
the journal is only read.

Examples:
  # The last 20 operations
  aptmaint history

  # More of them
  aptmaint history --limit 50

  # Past sessions with their log files
  aptmaint history --sessions`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
	historyCmd.Flags().BoolVar(&historySessions, "sessions", false, "list sessions instead of operations")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		printNoHistory()
		return nil
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer st.Close()

	if historySessions {
		return printSessions(st)
	}
	return printOperations(st)
}

func printOperations(st *store.Store) error {
	ops, err := st.ListRecentOperations(historyLimit)
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			printNoHistory()
			return nil
		}
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(ops) == 0 {
		printNoHistory()
		return nil
	}

	fmt.Print(output.RenderOperationTable(ops))

	if count, err := st.CountSessions(); err == nil {
		fmt.Printf("\nShowing %d operation(s) across %d recorded session(s).\n", len(ops), count)
	}
	return nil
}

func printSessions(st *store.Store) error {
	sessions, err := st.ListSessions(historyLimit)
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			printNoHistory()
			return nil
		}
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(sessions) == 0 {
		printNoHistory()
		return nil
	}

	fmt.Print(output.RenderSessionTable(sessions))
	return nil
}

func printNoHistory() {
	fmt.Println("No maintenance history yet.")
	fmt.Println("The journal is created the first time aptmaint runs as root.")
}
