// Package export writes derived partition tables as CSV files, optionally
// zstd-compressed.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/twinfield10/NHL-Data/internal/model"
)

var header = []string{
	"season", "season_type", "game_id", "game_date", "home_team", "away_team",
	"event_idx", "period", "period_seconds", "game_seconds",
	"event_type", "secondary_type", "event_team", "is_home",
	"strength_state", "true_strength_state", "home_skaters", "away_skaters",
	"x", "y", "x_abs", "y_abs", "distance", "angle",
	"face_index", "pen_index", "shift_index_all", "shift_index_home", "shift_index_away",
	"home_on_1", "home_on_2", "home_on_3", "home_on_4", "home_on_5", "home_on_6", "home_goalie",
	"away_on_1", "away_on_2", "away_on_3", "away_on_4", "away_on_5", "away_on_6", "away_goalie",
	"partition", "score_state", "seconds_since_last",
	"prev_event_type", "prev_event_team", "prev_strength_state",
	"x_last", "y_last", "distance_from_last", "angle_last", "angle_change",
	"puck_speed", "angle_change_speed",
	"event_team_toi", "def_team_toi", "shift_time_diff", "pen_seconds_since",
	"is_rebound", "is_post_miss_shot", "is_set_play", "is_rush_play", "is_fast_rush_play",
	"prior_event_ev", "is_two_man_adv", "is_overtime", "is_playoff", "off_wing",
	"zone_off", "zone_neu", "zone_def",
}

// WriteFile writes rows to path as CSV. A ".zst" suffix on the path selects
// zstd compression.
func WriteFile(path string, rows []model.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if len(path) > 4 && path[len(path)-4:] == ".zst" {
		zw, zerr := zstd.NewWriter(f)
		if zerr != nil {
			return fmt.Errorf("zstd writer: %w", zerr)
		}
		defer func() {
			if cerr := zw.Close(); err == nil {
				err = cerr
			}
		}()
		w = zw
	}
	return Write(w, rows)
}

// Write streams rows as CSV to w.
func Write(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range rows {
		if err := cw.Write(record(&rows[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(r *model.Row) []string {
	rec := make([]string, 0, len(header))
	rec = append(rec,
		strconv.Itoa(r.Season), r.SeasonType, strconv.Itoa(r.GameID), r.GameDate,
		r.HomeTeam, r.AwayTeam,
		strconv.Itoa(r.EventIdx), strconv.Itoa(r.Period),
		strconv.Itoa(r.PeriodSeconds), strconv.Itoa(r.GameSeconds),
		string(r.Type), r.SecondaryType, r.Team, boolStr(r.Side == model.SideHome),
		r.StrengthState, r.TrueStrengthState,
		strconv.Itoa(r.HomeSkaters), strconv.Itoa(r.AwaySkaters),
		floatStr(r.X), floatStr(r.Y), floatStr(r.XNorm), floatStr(r.YNorm),
		floatStr(r.Distance), floatStr(r.Angle),
		strconv.Itoa(r.FaceIndex), strconv.Itoa(r.PenIndex),
		strconv.Itoa(r.ShiftIndexAll), strconv.Itoa(r.ShiftIndexHome), strconv.Itoa(r.ShiftIndexAway),
	)
	rec = append(rec, lineupCols(r.Home)...)
	rec = append(rec, lineupCols(r.Away)...)
	rec = append(rec, string(r.Partition))

	c := r.Context
	if c == nil {
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		return rec
	}
	rec = append(rec,
		strconv.Itoa(c.ScoreState), num(c.SecondsSinceLast),
		string(c.PrevType), c.PrevTeam, c.PrevStrengthState,
		floatStr(c.XLast), floatStr(c.YLast),
		floatStr(c.DistanceFromLast), floatStr(c.AngleLast), floatStr(c.AngleChange),
		floatStr(c.PuckSpeed), floatStr(c.AngleChangeSpeed),
		num(c.EventTeamTOI), num(c.DefTeamTOI), num(c.ShiftTimeDiff), num(c.PenSecondsSince),
		boolStr(c.IsRebound), boolStr(c.IsPostMissShot), boolStr(c.IsSetPlay),
		boolStr(c.IsRushPlay), boolStr(c.IsFastRushPlay),
		boolStr(c.PriorEventEV), boolStr(c.IsTwoManAdv),
		boolStr(c.IsOvertime), boolStr(c.IsPlayoff), boolStr(c.OffWing),
		boolStr(c.ZoneOff), boolStr(c.ZoneNeu), boolStr(c.ZoneDef),
	)
	return rec
}

// lineupCols emits six skater slots and the goalie slot; unresolved lineups
// are all-empty.
func lineupCols(l model.Lineup) []string {
	cols := make([]string, 7)
	if !l.Resolved {
		return cols
	}
	for i := 0; i < 6 && i < len(l.Skaters); i++ {
		cols[i] = strconv.FormatInt(l.Skaters[i], 10)
	}
	if l.Goalie != 0 {
		cols[6] = strconv.FormatInt(l.Goalie, 10)
	}
	return cols
}

func floatStr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
