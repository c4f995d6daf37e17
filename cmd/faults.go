package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twinfield10/NHL-Data/internal/report"
	"github.com/twinfield10/NHL-Data/internal/storage"
)

var faultsCmd = &cobra.Command{
	Use:   "faults",
	Short: "List recorded reconstruction faults",
	Args:  cobra.NoArgs,
	RunE:  runFaults,
}

func runFaults(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	faults, err := db.ListFaults()
	if err != nil {
		return fmt.Errorf("list faults: %w", err)
	}
	report.PrintFaultsTable(os.Stdout, faults)
	return nil
}
