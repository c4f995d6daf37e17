// Package nhl provides a minimal client for the public NHL web and stats
// APIs: play-by-play, shift charts, rosters and schedules.
package nhl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the root of the gamecenter ("api-web") API.
const DefaultBaseURL = "https://api-web.nhle.com/v1"

// DefaultStatsBaseURL is the root of the stats REST API serving shift charts.
const DefaultStatsBaseURL = "https://api.nhle.com/stats/rest/en"

// Client is a minimal NHL API client. Both public APIs are unauthenticated.
type Client struct {
	base      string
	statsBase string
	http      *http.Client
}

// NewClient returns a client for the given API roots. Empty roots fall back
// to the public endpoints; a zero timeout falls back to 30 seconds.
func NewClient(base, statsBase string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if statsBase == "" {
		statsBase = DefaultStatsBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:      base,
		statsBase: statsBase,
		http:      &http.Client{Timeout: timeout},
	}
}

// ---- Play-by-play payload ----

// TeamInfo identifies one club in a game payload.
type TeamInfo struct {
	ID     int    `json:"id"`
	Abbrev string `json:"abbrev"`
}

// PeriodDescriptor carries the period number and its type (REG, OT, SO).
type PeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

// PlayDetails holds the per-event detail block. Player ID fields are zero
// when the event type does not carry that role.
type PlayDetails struct {
	XCoord           *float64 `json:"xCoord"`
	YCoord           *float64 `json:"yCoord"`
	ZoneCode         string   `json:"zoneCode"`
	EventOwnerTeamID int      `json:"eventOwnerTeamId"`
	ShotType         string   `json:"shotType"`
	DescKey          string   `json:"descKey"`
	HomeScore        int      `json:"homeScore"`
	AwayScore        int      `json:"awayScore"`

	WinningPlayerID     int64 `json:"winningPlayerId"`
	LosingPlayerID      int64 `json:"losingPlayerId"`
	ShootingPlayerID    int64 `json:"shootingPlayerId"`
	ScoringPlayerID     int64 `json:"scoringPlayerId"`
	Assist1PlayerID     int64 `json:"assist1PlayerId"`
	Assist2PlayerID     int64 `json:"assist2PlayerId"`
	GoalieInNetID       int64 `json:"goalieInNetId"`
	HittingPlayerID     int64 `json:"hittingPlayerId"`
	HitteePlayerID      int64 `json:"hitteePlayerId"`
	BlockingPlayerID    int64 `json:"blockingPlayerId"`
	CommittedByPlayerID int64 `json:"committedByPlayerId"`
	DrawnByPlayerID     int64 `json:"drawnByPlayerId"`
	ServedByPlayerID    int64 `json:"servedByPlayerId"`
	PlayerID            int64 `json:"playerId"`
}

// Play is one raw play-by-play record.
type Play struct {
	EventID               int              `json:"eventId"`
	PeriodDescriptor      PeriodDescriptor `json:"periodDescriptor"`
	TimeInPeriod          string           `json:"timeInPeriod"`
	SituationCode         string           `json:"situationCode"`
	HomeTeamDefendingSide string           `json:"homeTeamDefendingSide"`
	TypeDescKey           string           `json:"typeDescKey"`
	SortOrder             int              `json:"sortOrder"`
	Details               PlayDetails      `json:"details"`
}

// PlayByPlay is the /gamecenter/{id}/play-by-play payload.
type PlayByPlay struct {
	ID       int      `json:"id"`
	Season   int      `json:"season"`
	GameType int      `json:"gameType"`
	GameDate string   `json:"gameDate"`
	AwayTeam TeamInfo `json:"awayTeam"`
	HomeTeam TeamInfo `json:"homeTeam"`
	Plays    []Play   `json:"plays"`
}

// ---- Shift chart payload ----

// Shift is one raw shift chart record. Start and end times are "MM:SS"
// elapsed within the period.
type Shift struct {
	GameID     int    `json:"gameId"`
	PlayerID   int64  `json:"playerId"`
	TeamAbbrev string `json:"teamAbbrev"`
	TeamID     int    `json:"teamId"`
	Period     int    `json:"period"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Duration   string `json:"duration"`
	TypeCode   int    `json:"typeCode"`
}

// ShiftCharts is the shiftcharts query payload.
type ShiftCharts struct {
	Data []Shift `json:"data"`
}

// ---- Roster payload ----

// LocalizedName is the {"default": "..."} wrapper the roster API uses.
type LocalizedName struct {
	Default string `json:"default"`
}

// RosterPlayer is one roster entry.
type RosterPlayer struct {
	ID            int64         `json:"id"`
	FirstName     LocalizedName `json:"firstName"`
	LastName      LocalizedName `json:"lastName"`
	PositionCode  string        `json:"positionCode"`
	ShootsCatches string        `json:"shootsCatches"`
}

// Roster is the /roster/{team}/{season} payload.
type Roster struct {
	Forwards   []RosterPlayer `json:"forwards"`
	Defensemen []RosterPlayer `json:"defensemen"`
	Goalies    []RosterPlayer `json:"goalies"`
}

// ---- Schedule payload ----

// ScheduledGame is one game in a schedule payload.
type ScheduledGame struct {
	ID       int      `json:"id"`
	Season   int      `json:"season"`
	GameType int      `json:"gameType"`
	GameDate string   `json:"gameDate"`
	HomeTeam TeamInfo `json:"homeTeam"`
	AwayTeam TeamInfo `json:"awayTeam"`
}

// ScheduleDay is one date's slate.
type ScheduleDay struct {
	Date  string          `json:"date"`
	Games []ScheduledGame `json:"games"`
}

// Schedule is the /schedule/{date} payload.
type Schedule struct {
	GameWeek []ScheduleDay `json:"gameWeek"`
}

// get performs a GET request and JSON-decodes the response body into out.
func (c *Client) get(url string, out interface{}) error {
	resp, err := c.http.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetPlayByPlay fetches the full play-by-play log for a game.
func (c *Client) GetPlayByPlay(gameID int) (*PlayByPlay, error) {
	var pbp PlayByPlay
	url := fmt.Sprintf("%s/gamecenter/%d/play-by-play", c.base, gameID)
	if err := c.get(url, &pbp); err != nil {
		return nil, err
	}
	return &pbp, nil
}

// GetShiftCharts fetches the shift chart records for a game.
func (c *Client) GetShiftCharts(gameID int) (*ShiftCharts, error) {
	var sc ShiftCharts
	url := fmt.Sprintf("%s/shiftcharts?cayenneExp=gameId=%d", c.statsBase, gameID)
	if err := c.get(url, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// GetRoster fetches a team's roster for a season, e.g. ("BOS", 20232024).
func (c *Client) GetRoster(team string, season int) (*Roster, error) {
	var r Roster
	url := fmt.Sprintf("%s/roster/%s/%d", c.base, team, season)
	if err := c.get(url, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetSchedule fetches the schedule week containing date ("2024-01-15").
func (c *Client) GetSchedule(date string) (*Schedule, error) {
	var s Schedule
	url := fmt.Sprintf("%s/schedule/%s", c.base, date)
	if err := c.get(url, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
