// Package parser converts raw NHL API payloads into the model types the
// reconstruction engine consumes.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twinfield10/NHL-Data/internal/model"
	"github.com/twinfield10/NHL-Data/internal/nhl"
)

// PeriodLength is the regulation period length in seconds, also used as the
// cumulative-clock offset multiplier for overtime periods.
const PeriodLength = 1200

// eventTypes maps the feed's typeDescKey to the canonical event type.
// Unmapped keys (shootout attempts, challenges) are skipped.
var eventTypes = map[string]model.EventType{
	"faceoff":         model.EventFaceoff,
	"shot-on-goal":    model.EventShot,
	"goal":            model.EventGoal,
	"missed-shot":     model.EventMissedShot,
	"blocked-shot":    model.EventBlockedShot,
	"hit":             model.EventHit,
	"giveaway":        model.EventGiveaway,
	"takeaway":        model.EventTakeaway,
	"penalty":         model.EventPenalty,
	"delayed-penalty": model.EventDelayedPenalty,
	"stoppage":        model.EventStoppage,
	"period-start":    model.EventPeriodStart,
	"period-end":      model.EventPeriodEnd,
	"game-end":        model.EventGameEnd,
}

// SeasonType maps the feed's numeric game type to the season label:
// 2 is the regular season, 3 the playoffs. Other types return "".
func SeasonType(gameType int) string {
	switch gameType {
	case 2:
		return "R"
	case 3:
		return "P"
	}
	return ""
}

// penaltyShotCodes are the situation codes of a penalty-shot attempt: one
// skater and one goalie on the ice.
var penaltyShotCodes = map[string]bool{"0101": true, "1010": true}

// Events converts a play-by-play payload into chronologically ordered
// events. Shootout periods are excluded.
func Events(pbp *nhl.PlayByPlay) ([]model.Event, error) {
	seasonType := SeasonType(pbp.GameType)

	events := make([]model.Event, 0, len(pbp.Plays))
	for _, p := range pbp.Plays {
		if p.PeriodDescriptor.PeriodType == "SO" {
			continue
		}
		typ, ok := eventTypes[p.TypeDescKey]
		if !ok {
			continue
		}

		ps, err := ParseClock(p.TimeInPeriod)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", p.EventID, err)
		}
		period := p.PeriodDescriptor.Number

		events = append(events, model.Event{
			Season:            pbp.Season,
			SeasonType:        seasonType,
			GameID:            pbp.ID,
			GameDate:          pbp.GameDate,
			HomeTeam:          pbp.HomeTeam.Abbrev,
			AwayTeam:          pbp.AwayTeam.Abbrev,
			EventIdx:          p.SortOrder,
			Period:            period,
			PeriodType:        p.PeriodDescriptor.PeriodType,
			PeriodSeconds:     ps,
			GameSeconds:       ps + (period-1)*PeriodLength,
			Type:              typ,
			SecondaryType:     secondaryType(typ, p),
			Team:              teamAbbrev(pbp, p.Details.EventOwnerTeamID),
			Side:              teamSide(pbp, p.Details.EventOwnerTeamID),
			Participants:      participants(typ, p.Details),
			X:                 p.Details.XCoord,
			Y:                 p.Details.YCoord,
			Zone:              p.Details.ZoneCode,
			HomeDefendingSide: p.HomeTeamDefendingSide,
			SituationCode:     p.SituationCode,
			HomeScore:         p.Details.HomeScore,
			AwayScore:         p.Details.AwayScore,
		})
	}
	return events, nil
}

func secondaryType(typ model.EventType, p nhl.Play) string {
	switch {
	case typ.IsShotAttempt() && penaltyShotCodes[p.SituationCode]:
		return "Penalty Shot"
	case typ.IsShotAttempt() || typ == model.EventBlockedShot:
		return p.Details.ShotType
	case typ == model.EventPenalty || typ == model.EventStoppage:
		return p.Details.DescKey
	}
	return ""
}

func teamAbbrev(pbp *nhl.PlayByPlay, teamID int) string {
	switch teamID {
	case pbp.HomeTeam.ID:
		return pbp.HomeTeam.Abbrev
	case pbp.AwayTeam.ID:
		return pbp.AwayTeam.Abbrev
	}
	return ""
}

func teamSide(pbp *nhl.PlayByPlay, teamID int) model.Side {
	switch teamID {
	case pbp.HomeTeam.ID:
		return model.SideHome
	case pbp.AwayTeam.ID:
		return model.SideAway
	}
	return model.SideUnknown
}

// participants extracts the role-tagged player IDs an event type carries.
func participants(typ model.EventType, d nhl.PlayDetails) []model.Participant {
	var ps []model.Participant
	add := func(id int64, role string) {
		if id != 0 {
			ps = append(ps, model.Participant{PlayerID: id, Role: role})
		}
	}
	switch typ {
	case model.EventFaceoff:
		add(d.WinningPlayerID, "Winner")
		add(d.LosingPlayerID, "Loser")
	case model.EventShot, model.EventMissedShot:
		add(d.ShootingPlayerID, "Shooter")
		add(d.GoalieInNetID, "Goalie")
	case model.EventGoal:
		add(d.ScoringPlayerID, "Scorer")
		add(d.Assist1PlayerID, "Assist1")
		add(d.Assist2PlayerID, "Assist2")
		add(d.GoalieInNetID, "Goalie")
	case model.EventBlockedShot:
		add(d.BlockingPlayerID, "Blocker")
		add(d.ShootingPlayerID, "Shooter")
	case model.EventHit:
		add(d.HittingPlayerID, "Hitter")
		add(d.HitteePlayerID, "Hittee")
	case model.EventGiveaway, model.EventTakeaway:
		add(d.PlayerID, "Player")
	case model.EventPenalty:
		add(d.CommittedByPlayerID, "PenaltyOn")
		add(d.DrawnByPlayerID, "DrawnBy")
		add(d.ServedByPlayerID, "ServedBy")
	}
	return ps
}

// Shifts converts shift chart records into half-open intervals. Records
// missing either clock value (goal markers share the shift feed) and
// zero-length artifacts are dropped. The goalies set decides position class.
func Shifts(sc *nhl.ShiftCharts, home, away nhl.TeamInfo, goalies map[int64]bool) ([]model.ShiftInterval, error) {
	shifts := make([]model.ShiftInterval, 0, len(sc.Data))
	for _, s := range sc.Data {
		if s.StartTime == "" || s.EndTime == "" {
			continue
		}
		start, err := ParseClock(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("shift for player %d: %w", s.PlayerID, err)
		}
		end, err := ParseClock(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("shift for player %d: %w", s.PlayerID, err)
		}
		if end <= start {
			continue
		}

		var side model.Side
		switch s.TeamID {
		case home.ID:
			side = model.SideHome
		case away.ID:
			side = model.SideAway
		default:
			return nil, fmt.Errorf("shift for player %d references unknown team %d", s.PlayerID, s.TeamID)
		}

		shifts = append(shifts, model.ShiftInterval{
			GameID:       s.GameID,
			PlayerID:     s.PlayerID,
			Team:         s.TeamAbbrev,
			Side:         side,
			Period:       s.Period,
			StartSeconds: start,
			EndSeconds:   end,
			IsGoalie:     goalies[s.PlayerID],
		})
	}
	return shifts, nil
}

// Players flattens a roster payload into model players for one season.
func Players(r *nhl.Roster, team string, season int) []model.Player {
	var out []model.Player
	for _, group := range [][]nhl.RosterPlayer{r.Forwards, r.Defensemen, r.Goalies} {
		for _, rp := range group {
			out = append(out, model.Player{
				ID:        rp.ID,
				Season:    season,
				Team:      team,
				FirstName: rp.FirstName.Default,
				LastName:  rp.LastName.Default,
				Position:  rp.PositionCode,
				Shoots:    rp.ShootsCatches,
			})
		}
	}
	return out
}

// ParseClock converts an elapsed "MM:SS" clock value (minutes may be a
// single digit) to seconds.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock %q", clock)
	}
	min, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q", clock)
	}
	sec, err := strconv.Atoi(parts[1])
	if err != nil || sec > 59 || sec < 0 || min < 0 {
		return 0, fmt.Errorf("malformed clock %q", clock)
	}
	return min*60 + sec, nil
}
