// Command splitboard is a CLI front end for the shared-expense ledger.
// It wires configuration, logging and the SQLite store to the board and
// expense services.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/splitboard/splitboard/internal/config"
	"github.com/splitboard/splitboard/internal/service"
	"github.com/splitboard/splitboard/internal/storage/sqlite"
	"github.com/splitboard/splitboard/pkg/logging"
)

var (
	store    *sqlite.SQLiteStore
	boards   *service.BoardService
	expenses *service.ExpenseService
)

var rootCmd = &cobra.Command{
	Use:           "splitboard",
	Short:         "Track habits and split shared expenses on boards",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logging.Setup(cfg.LogLevel)

		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		store = s
		boards = service.NewBoardService(store)
		expenses = service.NewExpenseService(store)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
