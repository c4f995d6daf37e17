package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/twinfield10/NHL-Data/internal/model"
)

// GameExists returns true if a game with the given ID is already stored.
func (db *DB) GameExists(gameID int) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame inserts a game header. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(g model.Game) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games(game_id, season, season_type, game_date, home_team, away_team, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.GameID, g.Season, g.SeasonType, g.GameDate, g.HomeTeam, g.AwayTeam,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListGames returns all stored game headers ordered by game_date, game_id.
func (db *DB) ListGames() ([]model.Game, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, season, season_type, game_date, home_team, away_team
		FROM games ORDER BY game_date, game_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.GameID, &g.Season, &g.SeasonType, &g.GameDate,
			&g.HomeTeam, &g.AwayTeam); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// InsertEvents bulk-inserts one game's events in a transaction.
func (db *DB) InsertEvents(events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events(
			game_id, event_idx, season, season_type, game_date, home_team, away_team,
			period, period_type, period_seconds, game_seconds,
			event_type, secondary_type, team, side,
			x, y, zone, home_defending_side, situation_code,
			home_score, away_score, participants
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err = stmt.Exec(
			e.GameID, e.EventIdx, e.Season, e.SeasonType, e.GameDate, e.HomeTeam, e.AwayTeam,
			e.Period, e.PeriodType, e.PeriodSeconds, e.GameSeconds,
			string(e.Type), e.SecondaryType, e.Team, int(e.Side),
			e.X, e.Y, e.Zone, e.HomeDefendingSide, e.SituationCode,
			e.HomeScore, e.AwayScore, encodeParticipants(e.Participants),
		)
		if err != nil {
			return fmt.Errorf("insert event %d/%d: %w", e.GameID, e.EventIdx, err)
		}
	}
	return tx.Commit()
}

// LoadEvents returns one game's events ordered by (period, event_idx).
func (db *DB) LoadEvents(gameID int) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, event_idx, season, season_type, game_date, home_team, away_team,
			period, period_type, period_seconds, game_seconds,
			event_type, secondary_type, team, side,
			x, y, zone, home_defending_side, situation_code,
			home_score, away_score, participants
		FROM events WHERE game_id = ? ORDER BY period, event_idx`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			e            model.Event
			typ          string
			side         int
			participants string
		)
		if err := rows.Scan(
			&e.GameID, &e.EventIdx, &e.Season, &e.SeasonType, &e.GameDate, &e.HomeTeam, &e.AwayTeam,
			&e.Period, &e.PeriodType, &e.PeriodSeconds, &e.GameSeconds,
			&typ, &e.SecondaryType, &e.Team, &side,
			&e.X, &e.Y, &e.Zone, &e.HomeDefendingSide, &e.SituationCode,
			&e.HomeScore, &e.AwayScore, &participants,
		); err != nil {
			return nil, err
		}
		e.Type = model.EventType(typ)
		e.Side = model.Side(side)
		e.Participants = decodeParticipants(participants)
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertShifts bulk-inserts one game's shift intervals in a transaction.
func (db *DB) InsertShifts(shifts []model.ShiftInterval) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO shifts(
			game_id, player_id, team, side, period, start_seconds, end_seconds, is_goalie
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range shifts {
		_, err = stmt.Exec(
			s.GameID, s.PlayerID, s.Team, int(s.Side), s.Period,
			s.StartSeconds, s.EndSeconds, boolInt(s.IsGoalie),
		)
		if err != nil {
			return fmt.Errorf("insert shift for player %d: %w", s.PlayerID, err)
		}
	}
	return tx.Commit()
}

// LoadShifts returns one game's shift intervals.
func (db *DB) LoadShifts(gameID int) ([]model.ShiftInterval, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, player_id, team, side, period, start_seconds, end_seconds, is_goalie
		FROM shifts WHERE game_id = ? ORDER BY period, start_seconds, player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShiftInterval
	for rows.Next() {
		var (
			s        model.ShiftInterval
			side     int
			isGoalie int
		)
		if err := rows.Scan(&s.GameID, &s.PlayerID, &s.Team, &side, &s.Period,
			&s.StartSeconds, &s.EndSeconds, &isGoalie); err != nil {
			return nil, err
		}
		s.Side = model.Side(side)
		s.IsGoalie = isGoalie != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertPlayers bulk-inserts roster entries in a transaction.
func (db *DB) InsertPlayers(players []model.Player) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO players(player_id, season, team, first_name, last_name, position, shoots)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		_, err = stmt.Exec(p.ID, p.Season, p.Team, p.FirstName, p.LastName, p.Position, p.Shoots)
		if err != nil {
			return fmt.Errorf("insert player %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// LoadPlayers returns all stored roster entries, oldest season first so the
// newest entry wins when building a lookup table.
func (db *DB) LoadPlayers() ([]model.Player, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, season, team, first_name, last_name, position, shoots
		FROM players ORDER BY season, player_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Season, &p.Team, &p.FirstName, &p.LastName,
			&p.Position, &p.Shoots); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertFaults appends fault records in a transaction.
func (db *DB) InsertFaults(faults []model.Fault) error {
	if len(faults) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO faults(game_id, kind, detail, created_at) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, f := range faults {
		if _, err = stmt.Exec(f.GameID, string(f.Kind), f.Detail, now); err != nil {
			return fmt.Errorf("insert fault for game %d: %w", f.GameID, err)
		}
	}
	return tx.Commit()
}

// ListFaults returns all recorded faults ordered by game, insertion order.
func (db *DB) ListFaults() ([]model.Fault, error) {
	rows, err := db.conn.Query(`SELECT game_id, kind, detail FROM faults ORDER BY game_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Fault
	for rows.Next() {
		var f model.Fault
		var kind string
		if err := rows.Scan(&f.GameID, &kind, &f.Detail); err != nil {
			return nil, err
		}
		f.Kind = model.FaultKind(kind)
		out = append(out, f)
	}
	return out, rows.Err()
}

// encodeParticipants packs role-tagged player IDs as "Role:ID|Role:ID".
func encodeParticipants(ps []model.Participant) string {
	if len(ps) == 0 {
		return ""
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Role + ":" + strconv.FormatInt(p.PlayerID, 10)
	}
	return strings.Join(parts, "|")
}

func decodeParticipants(s string) []model.Participant {
	if s == "" {
		return nil
	}
	var out []model.Participant
	for _, part := range strings.Split(s, "|") {
		role, idStr, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, model.Participant{PlayerID: id, Role: role})
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
