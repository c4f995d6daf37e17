package model

// Side identifies which bench an event or shift belongs to.
type Side int

const (
	SideUnknown Side = 0
	SideHome    Side = 1
	SideAway    Side = 2
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "?"
	}
}

// Opponent returns the other bench, or SideUnknown.
func (s Side) Opponent() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	default:
		return SideUnknown
	}
}

// EventType is the canonical play-by-play event type.
type EventType string

const (
	EventFaceoff        EventType = "FACEOFF"
	EventShot           EventType = "SHOT"
	EventGoal           EventType = "GOAL"
	EventMissedShot     EventType = "MISSED_SHOT"
	EventBlockedShot    EventType = "BLOCKED_SHOT"
	EventHit            EventType = "HIT"
	EventGiveaway       EventType = "GIVEAWAY"
	EventTakeaway       EventType = "TAKEAWAY"
	EventPenalty        EventType = "PENALTY"
	EventDelayedPenalty EventType = "DELAYED_PENALTY"
	EventStoppage       EventType = "STOPPAGE"
	EventPeriodStart    EventType = "PERIOD_START"
	EventPeriodEnd      EventType = "PERIOD_END"
	EventGameEnd        EventType = "GAME_END"
)

// IsShotAttempt reports whether t is a Fenwick shot attempt (unblocked).
func (t EventType) IsShotAttempt() bool {
	return t == EventShot || t == EventGoal || t == EventMissedShot
}

// IsContextEvent reports whether t belongs to the event superset used for
// prior-event context (shot attempts plus possession-changing plays).
func (t EventType) IsContextEvent() bool {
	switch t {
	case EventGoal, EventShot, EventMissedShot, EventBlockedShot,
		EventFaceoff, EventTakeaway, EventGiveaway, EventHit:
		return true
	}
	return false
}

// ---- Raw inputs produced by the acquisition layer ----

// Participant is one player attached to an event, with the role the feed
// assigned them (Winner, Loser, Shooter, Scorer, Hitter, Hittee, ...).
type Participant struct {
	PlayerID int64
	Role     string
}

// Event is one play-by-play record. Events are immutable once parsed; the
// engine annotates copies, never the originals.
type Event struct {
	Season     int
	SeasonType string // "R" regular season, "P" playoffs
	GameID     int
	GameDate   string
	HomeTeam   string
	AwayTeam   string

	EventIdx      int // feed sort order within the game
	Period        int
	PeriodType    string // "REG", "OT", "SO"
	PeriodSeconds int
	GameSeconds   int // PeriodSeconds + (Period-1)*1200

	Type          EventType
	SecondaryType string // shot type, penalty descKey, "Penalty Shot"
	Team          string // event-owning team abbrev, "" for neutral events
	Side          Side

	Participants []Participant

	// Raw rink coordinates; nil when the feed omits them.
	X, Y *float64
	// Zone is "O", "N" or "D" from the event team's perspective.
	Zone string
	// HomeDefendingSide is "left" or "right" when the feed provides it.
	HomeDefendingSide string
	// SituationCode is the 4-character skater code, "" when absent.
	SituationCode string

	HomeScore int
	AwayScore int
}

// Participant returns the player ID holding the given role, or 0.
func (e *Event) Participant(role string) int64 {
	for _, p := range e.Participants {
		if p.Role == role {
			return p.PlayerID
		}
	}
	return 0
}

// ShiftInterval is one continuous on-ice presence of a single player.
// Intervals are half-open [StartSeconds, EndSeconds) within a period.
type ShiftInterval struct {
	GameID        int
	PlayerID      int64
	Team          string
	Side          Side
	Period        int
	StartSeconds  int
	EndSeconds    int
	IsGoalie      bool
}

// Game is one stored contest's header row.
type Game struct {
	GameID     int
	Season     int
	SeasonType string
	GameDate   string
	HomeTeam   string
	AwayTeam   string
}

// Player is one roster entry for a season.
type Player struct {
	ID        int64
	Season    int
	Team      string
	FirstName string
	LastName  string
	Position  string // "C", "L", "R", "D", "G"
	Shoots    string // "L" or "R"
}

// IsGoalie reports whether the roster entry is a goaltender.
func (p Player) IsGoalie() bool { return p.Position == "G" }

// IsForward reports whether the roster entry is a forward.
func (p Player) IsForward() bool {
	return p.Position == "C" || p.Position == "L" || p.Position == "R"
}

// ---- Derived artifacts ----

// Lineup is the resolved on-ice roster for one side at one event.
// Resolved=false means shift data was unavailable and every slot is null.
type Lineup struct {
	Skaters  []int64 // ascending player IDs, at most 6
	Goalie   int64   // 0 when the net is empty or unresolved
	Resolved bool
}

// Key returns a comparable encoding of the lineup used for run-length
// segmentation. Unresolved lineups share a single key so missing shift data
// never fabricates segment boundaries.
func (l Lineup) Key() string {
	if !l.Resolved {
		return ""
	}
	buf := make([]byte, 0, 64)
	for _, id := range l.Skaters {
		buf = appendID(buf, id)
	}
	buf = append(buf, 'g')
	buf = appendID(buf, l.Goalie)
	return string(buf)
}

func appendID(buf []byte, id int64) []byte {
	for id > 0 {
		buf = append(buf, byte('0'+id%10))
		id /= 10
	}
	return append(buf, ',')
}

// Partition is one of the four mutually exclusive situational views.
type Partition string

const (
	PartitionNone Partition = ""
	PartitionEV   Partition = "EV"
	PartitionPP   Partition = "PP"
	PartitionSH   Partition = "SH"
	PartitionEN   Partition = "EN"
)

// Context carries the prior-event and relative-time features derived for
// rows in the context superset.
type Context struct {
	SecondsSinceLast float64 // 0 when no prior event this period; 0.5 floor on ties

	PrevType          EventType
	PrevTeam          string
	PrevSameTeam      bool
	PrevStrengthState string

	// Previous event's normalized coordinates, sign-flipped into the acting
	// side's attacking frame when the prior event belonged to the other side.
	XLast, YLast *float64

	DistanceFromLast *float64
	AngleLast        *float64
	AngleChange      *float64
	PuckSpeed        *float64
	AngleChangeSpeed *float64

	EventTeamTOI  float64
	DefTeamTOI    float64
	ShiftTimeDiff float64 // DefTeamTOI - EventTeamTOI

	ScoreState      int // acting side's goals minus opponent's, as of the prior row
	PenSecondsSince float64

	IsRebound      bool
	IsPostMissShot bool
	IsSetPlay      bool
	IsRushPlay     bool
	IsFastRushPlay bool
	PriorEventEV   bool
	IsTwoManAdv    bool
	IsHome         bool
	IsOvertime     bool
	IsPlayoff      bool
	OffWing        bool
	ZoneOff        bool
	ZoneNeu        bool
	ZoneDef        bool
}

// Row is one fully annotated event as emitted by the engine.
type Row struct {
	Event

	// Strength.
	StrengthState     string // "{home}v{away}", e.g. "5v4"
	TrueStrengthState string // empty-net sides shown as "E"
	HomeSkaters       int
	AwaySkaters       int
	HomeEmptyNet      bool
	AwayEmptyNet      bool

	// Normalized coordinates: positive X is always the event-owning side's
	// attacking direction. Nil when normalization was impossible.
	XNorm, YNorm *float64
	Distance     *float64
	Angle        *float64

	// Monotonic segment counters, scoped per game.
	FaceIndex      int
	PenIndex       int
	ShiftIndexAll  int
	ShiftIndexHome int
	ShiftIndexAway int

	// Game-clock seconds at the start of the current segment window.
	ShiftStartAll  int
	ShiftStartHome int
	ShiftStartAway int
	PenStart       int

	Home Lineup
	Away Lineup

	Partition Partition
	Context   *Context // nil outside the context superset
}

// ---- Faults ----

// FaultKind classifies a recoverable data-quality condition.
type FaultKind string

const (
	FaultSource      FaultKind = "source"      // missing/malformed shift or roster data
	FaultOrdering    FaultKind = "ordering"    // same-timestamp events with conflicting lineups
	FaultCardinality FaultKind = "cardinality" // more resolved players than slots
	FaultConfig      FaultKind = "config"      // unrecoverable within one contest
)

// Fault is a recorded, non-fatal condition encountered during reconstruction.
type Fault struct {
	GameID int
	Kind   FaultKind
	Detail string
}
