package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twinfield10/NHL-Data/internal/engine"
	"github.com/twinfield10/NHL-Data/internal/report"
	"github.com/twinfield10/NHL-Data/internal/roster"
	"github.com/twinfield10/NHL-Data/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Reconstruct and summarize one stored game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid game ID %q", args[0])
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	events, err := db.LoadEvents(gameID)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintf(os.Stderr, "No events stored for game %d\n", gameID)
		return nil
	}
	shifts, err := db.LoadShifts(gameID)
	if err != nil {
		return fmt.Errorf("load shifts: %w", err)
	}
	players, err := db.LoadPlayers()
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}

	rows, faults := engine.BuildGame(
		engine.GameInput{GameID: gameID, Events: events, Shifts: shifts},
		roster.NewTable(players),
	)

	report.PrintGameSummary(os.Stdout, gameID, rows)
	if len(faults) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintFaultsTable(os.Stdout, faults)
	}
	return nil
}
