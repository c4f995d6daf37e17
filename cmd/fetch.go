package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twinfield10/NHL-Data/internal/model"
	"github.com/twinfield10/NHL-Data/internal/nhl"
	"github.com/twinfield10/NHL-Data/internal/parser"
	"github.com/twinfield10/NHL-Data/internal/storage"
)

var (
	// fetchGames is a comma-separated list of game IDs to ingest.
	fetchGames string
	// fetchDate selects every regular-season/playoff game on a date.
	fetchDate string
	// fetchForce re-fetches games already stored.
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download play-by-play, shifts and rosters into the local store",
	Long: `Fetches play-by-play logs, shift charts and both teams' rosters for the
requested games and stores them for reconstruction.

Examples:
  # Specific games
  nhldata fetch --games 2023020204,2023020205

  # Every game on a date
  nhldata fetch --date 2024-01-15`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchGames, "games", "", "comma-separated game IDs")
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "fetch all games on this date (YYYY-MM-DD)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "re-fetch games already stored")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchGames == "" && fetchDate == "" {
		return fmt.Errorf("nothing to fetch: use --games or --date")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	client := nhl.NewClient(cfg.APIBase, cfg.StatsAPIBase,
		time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)

	gameIDs, err := resolveGameIDs(client)
	if err != nil {
		return err
	}

	fetched := 0
	for _, gameID := range gameIDs {
		if !fetchForce {
			exists, err := db.GameExists(gameID)
			if err != nil {
				return fmt.Errorf("check game %d: %w", gameID, err)
			}
			if exists {
				logger.Debug().Int("game_id", gameID).Msg("already stored, skipping")
				continue
			}
		}
		if err := fetchGame(db, client, gameID); err != nil {
			logger.Error().Int("game_id", gameID).Err(err).Msg("fetch failed")
			continue
		}
		fetched++
	}

	logger.Info().Int("fetched", fetched).Int("requested", len(gameIDs)).Msg("fetch complete")
	return nil
}

// resolveGameIDs expands the --games and --date flags into a game ID list.
func resolveGameIDs(client *nhl.Client) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(fetchGames, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid game ID %q", part)
		}
		ids = append(ids, id)
	}

	if fetchDate != "" {
		sched, err := client.GetSchedule(fetchDate)
		if err != nil {
			return nil, fmt.Errorf("schedule for %s: %w", fetchDate, err)
		}
		for _, day := range sched.GameWeek {
			if day.Date != fetchDate {
				continue
			}
			for _, g := range day.Games {
				if parser.SeasonType(g.GameType) == "" {
					continue // preseason and all-star games
				}
				ids = append(ids, g.ID)
			}
		}
	}
	return ids, nil
}

// fetchGame downloads and stores one game's play-by-play, rosters and
// shifts. A shift chart failure is non-fatal: the game is stored without
// shifts and lineup resolution will degrade for it at build time.
func fetchGame(db *storage.DB, client *nhl.Client, gameID int) error {
	pbp, err := client.GetPlayByPlay(gameID)
	if err != nil {
		return fmt.Errorf("play-by-play: %w", err)
	}
	events, err := parser.Events(pbp)
	if err != nil {
		return fmt.Errorf("parse events: %w", err)
	}

	var players []model.Player
	goalies := make(map[int64]bool)
	for _, team := range []string{pbp.HomeTeam.Abbrev, pbp.AwayTeam.Abbrev} {
		r, err := client.GetRoster(team, pbp.Season)
		if err != nil {
			logger.Warn().Int("game_id", gameID).Str("team", team).Err(err).
				Msg("roster unavailable, handedness features will miss")
			continue
		}
		teamPlayers := parser.Players(r, team, pbp.Season)
		players = append(players, teamPlayers...)
		for _, p := range teamPlayers {
			if p.IsGoalie() {
				goalies[p.ID] = true
			}
		}
	}

	var shifts []model.ShiftInterval
	sc, err := client.GetShiftCharts(gameID)
	if err != nil {
		logger.Warn().Int("game_id", gameID).Err(err).Msg("shift charts unavailable")
	} else if shifts, err = parser.Shifts(sc, pbp.HomeTeam, pbp.AwayTeam, goalies); err != nil {
		logger.Warn().Int("game_id", gameID).Err(err).Msg("shift charts malformed")
		shifts = nil
	}

	if err := db.InsertGame(model.Game{
		GameID:     pbp.ID,
		Season:     pbp.Season,
		SeasonType: parser.SeasonType(pbp.GameType),
		GameDate:   pbp.GameDate,
		HomeTeam:   pbp.HomeTeam.Abbrev,
		AwayTeam:   pbp.AwayTeam.Abbrev,
	}); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if err := db.InsertEvents(events); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	if err := db.InsertShifts(shifts); err != nil {
		return fmt.Errorf("insert shifts: %w", err)
	}
	if err := db.InsertPlayers(players); err != nil {
		return fmt.Errorf("insert players: %w", err)
	}

	logger.Info().Int("game_id", gameID).
		Int("events", len(events)).Int("shifts", len(shifts)).Int("players", len(players)).
		Msg("game stored")
	return nil
}
