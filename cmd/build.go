package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twinfield10/NHL-Data/internal/engine"
	"github.com/twinfield10/NHL-Data/internal/export"
	"github.com/twinfield10/NHL-Data/internal/model"
	"github.com/twinfield10/NHL-Data/internal/report"
	"github.com/twinfield10/NHL-Data/internal/roster"
	"github.com/twinfield10/NHL-Data/internal/storage"
)

var (
	buildGames      string
	buildOut        string
	buildCompress   bool
	buildWorkers    int
	buildSaveFaults bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Reconstruct lineups and context for stored games",
	Long: `Runs the reconstruction engine over stored games: resolves on-ice
lineups from shift intervals, assigns segment indices, derives strength and
context features, and splits shot attempts into the EV/PP/SH/EN tables.

Examples:
  # Everything in the store, summary only
  nhldata build

  # Two games, partition CSVs written to ./out
  nhldata build --games 2023020204,2023020205 --out ./out`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildGames, "games", "", "comma-separated game IDs (default: all stored)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "directory for partition CSV files")
	buildCmd.Flags().BoolVar(&buildCompress, "compress", false, "zstd-compress exported CSVs")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "reconstruction workers (default: config)")
	buildCmd.Flags().BoolVar(&buildSaveFaults, "save-faults", false, "record faults in the database")
}

func runBuild(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := selectGames(db)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nhldata fetch' first.")
		return nil
	}

	players, err := db.LoadPlayers()
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	ros := roster.NewTable(players)

	inputs := make([]engine.GameInput, 0, len(games))
	for _, g := range games {
		events, err := db.LoadEvents(g.GameID)
		if err != nil {
			return fmt.Errorf("load events for game %d: %w", g.GameID, err)
		}
		shifts, err := db.LoadShifts(g.GameID)
		if err != nil {
			return fmt.Errorf("load shifts for game %d: %w", g.GameID, err)
		}
		inputs = append(inputs, engine.GameInput{GameID: g.GameID, Events: events, Shifts: shifts})
	}

	workers := buildWorkers
	if workers == 0 {
		workers = cfg.Workers
	}
	logger.Info().Int("games", len(inputs)).Int("workers", workers).Msg("reconstruction started")

	res := engine.Build(inputs, ros, workers, logger)

	report.PrintBatchSummary(os.Stdout, res)
	if len(res.Faults) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintFaultsTable(os.Stdout, res.Faults)
	}

	if buildSaveFaults {
		if err := db.InsertFaults(res.Faults); err != nil {
			return fmt.Errorf("save faults: %w", err)
		}
	}

	if buildOut != "" {
		if err := exportPartitions(res); err != nil {
			return err
		}
	}
	return nil
}

// selectGames returns the stored games filtered by --games, or all of them.
func selectGames(db *storage.DB) ([]model.Game, error) {
	games, err := db.ListGames()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	if buildGames == "" {
		return games, nil
	}

	want := make(map[int]bool)
	for _, part := range strings.Split(buildGames, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid game ID %q", part)
		}
		want[id] = true
	}

	filtered := games[:0]
	for _, g := range games {
		if want[g.GameID] {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

func exportPartitions(res *engine.Result) error {
	if err := os.MkdirAll(buildOut, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ext := ".csv"
	if buildCompress {
		ext = ".csv.zst"
	}
	tables := []struct {
		name string
		rows []model.Row
	}{
		{"ev", res.EV},
		{"pp", res.PP},
		{"sh", res.SH},
		{"en", res.EN},
		{"superset", res.Superset},
	}
	for _, t := range tables {
		path := filepath.Join(buildOut, t.name+ext)
		if err := export.WriteFile(path, t.rows); err != nil {
			return fmt.Errorf("export %s: %w", t.name, err)
		}
		logger.Info().Str("path", path).Int("rows", len(t.rows)).Msg("partition exported")
	}
	return nil
}
