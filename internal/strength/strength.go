// Package strength classifies events into situational partitions (EV, PP,
// SH, EN) and derives the prior-event and relative-time context features
// used by the downstream modeling stage.
package strength

import (
	"math"

	"github.com/twinfield10/NHL-Data/internal/model"
	"github.com/twinfield10/NHL-Data/internal/rink"
	"github.com/twinfield10/NHL-Data/internal/roster"
)

// Tactical windows and thresholds, in seconds and feet.
const (
	reboundWindow  = 3.0
	setPlayWindow  = 3.0
	rushWindow     = 5.0
	fastRushWindow = 3.0

	setPlayDepth  = 25.0 // faceoff must be inside the attacking zone
	zoneBoundary  = 25.0
	offWingAngle  = 10.0
	minElapsed    = 0.5 // floor for same-second consecutive events
	penCapTrigger = 300.0
	penCapValue   = 120.0
)

// PenaltyShotLabel is the secondary type the feed attaches to penalty shots.
const PenaltyShotLabel = "Penalty Shot"

var evStates = map[string]bool{"5v5": true, "4v4": true, "3v3": true}

// Advantage/disadvantage sets keyed on the empty-net-aware state, from the
// acting side's perspective. States read "{home}v{away}".
var (
	ppHome = map[string]bool{"6v5": true, "6v4": true, "5v4": true, "5v3": true, "4v3": true}
	ppAway = map[string]bool{"5v6": true, "4v6": true, "4v5": true, "3v5": true, "3v4": true}
	shHome = map[string]bool{"4v5": true, "3v5": true, "3v4": true}
	shAway = map[string]bool{"5v4": true, "5v3": true, "4v3": true}
	enHome = map[string]bool{"5vE": true, "4vE": true, "3vE": true}
	enAway = map[string]bool{"Ev5": true, "Ev4": true, "Ev3": true}
)

// Annotate parses and forward-fills situation codes, fills the strength
// columns and applies the penalty-shot override. Rows carrying the
// one-on-one codes 0101 and 1010 without a penalty-shot label are dropped
// (stoppages and markers around the attempt); the filtered slice is returned.
func Annotate(rows []model.Row) []model.Row {
	out := rows[:0]
	prevCode := ""
	for i := range rows {
		r := rows[i]

		// A penalty shot is one skater against an empty net regardless of
		// what the situation code says.
		if r.SecondaryType == PenaltyShotLabel {
			switch r.Side {
			case model.SideHome:
				r.HomeSkaters, r.AwaySkaters = 1, 0
				r.HomeEmptyNet, r.AwayEmptyNet = false, true
				r.StrengthState, r.TrueStrengthState = "1vE", "1vE"
			case model.SideAway:
				r.HomeSkaters, r.AwaySkaters = 0, 1
				r.HomeEmptyNet, r.AwayEmptyNet = true, false
				r.StrengthState, r.TrueStrengthState = "Ev1", "Ev1"
			}
			out = append(out, r)
			continue
		}

		code := r.SituationCode
		if code == "" {
			code = prevCode
		}
		prevCode = code
		if code == "0101" || code == "1010" {
			continue
		}

		if len(code) == 4 {
			r.AwayEmptyNet = code[0] == '0'
			r.AwaySkaters = int(code[1] - '0')
			r.HomeSkaters = int(code[2] - '0')
			r.HomeEmptyNet = code[3] == '0'
			r.StrengthState = stateLabel(r.HomeSkaters, r.AwaySkaters, false, false)
			r.TrueStrengthState = stateLabel(r.HomeSkaters, r.AwaySkaters, r.HomeEmptyNet, r.AwayEmptyNet)
		}

		out = append(out, r)
	}
	return out
}

func stateLabel(homeSkaters, awaySkaters int, homeEmpty, awayEmpty bool) string {
	h := digit(homeSkaters)
	a := digit(awaySkaters)
	if homeEmpty {
		h = "E"
	}
	if awayEmpty {
		a = "E"
	}
	return h + "v" + a
}

func digit(n int) string { return string(rune('0' + n)) }

// Derive walks one game's annotated, segment-indexed rows in order and
// attaches Context and Partition to every row in the context superset.
// The previous-event linkage resets at period boundaries.
func Derive(rows []model.Row, ros *roster.Table) {
	var prev *model.Row
	prevPeriod := 0

	for i := range rows {
		r := &rows[i]
		if r.Period != prevPeriod {
			prev = nil
			prevPeriod = r.Period
		}
		if !r.Type.IsContextEvent() {
			continue
		}

		r.Context = deriveContext(r, prev, ros)
		r.Partition = partitionFor(r)
		prev = r
	}
}

func deriveContext(r, prev *model.Row, ros *roster.Table) *model.Context {
	c := &model.Context{
		IsHome:     r.Side == model.SideHome,
		IsOvertime: r.Period >= 4,
		IsPlayoff:  r.SeasonType == "P",
	}

	homeTOI := float64(r.GameSeconds - r.ShiftStartHome)
	awayTOI := float64(r.GameSeconds - r.ShiftStartAway)
	if r.Side == model.SideAway {
		c.EventTeamTOI, c.DefTeamTOI = awayTOI, homeTOI
	} else {
		c.EventTeamTOI, c.DefTeamTOI = homeTOI, awayTOI
	}
	c.ShiftTimeDiff = c.DefTeamTOI - c.EventTeamTOI

	// Only live at asymmetric skater counts: an expired or offset penalty
	// leaves the clock running but the feature zeroed.
	if r.PenIndex > 0 && r.HomeSkaters != r.AwaySkaters {
		v := float64(r.GameSeconds - r.PenStart)
		if v >= penCapTrigger {
			v = penCapValue
		}
		c.PenSecondsSince = v
	}

	// A two-skater gap in either direction: the advantaged side's 5v3 and
	// the short-handed side's 3v5 both carry the flag.
	gap := r.HomeSkaters - r.AwaySkaters
	if gap < 0 {
		gap = -gap
	}
	c.IsTwoManAdv = gap >= 2

	if r.XNorm != nil {
		c.ZoneOff = *r.XNorm >= zoneBoundary
		c.ZoneNeu = math.Abs(*r.XNorm) < zoneBoundary
		c.ZoneDef = *r.XNorm <= -zoneBoundary
	}

	if shooter := shooterOf(r); shooter != 0 && r.YNorm != nil && r.Angle != nil {
		switch ros.Shoots(shooter) {
		case "R":
			c.OffWing = *r.YNorm > 0 && *r.Angle > offWingAngle
		case "L":
			c.OffWing = *r.YNorm < 0 && *r.Angle > offWingAngle
		}
	}

	if prev == nil {
		return c
	}

	secs := float64(r.GameSeconds - prev.GameSeconds)
	if secs == 0 {
		secs = minElapsed
	}
	c.SecondsSinceLast = secs

	c.PrevType = prev.Type
	c.PrevTeam = prev.Team
	c.PrevSameTeam = prev.Team != "" && prev.Team == r.Team
	c.PrevStrengthState = prev.StrengthState
	c.PriorEventEV = evStates[prev.StrengthState]

	prevHome, prevAway := prev.HomeScore, prev.AwayScore
	if r.Side == model.SideAway {
		c.ScoreState = prevAway - prevHome
	} else {
		c.ScoreState = prevHome - prevAway
	}

	if prev.XNorm != nil && prev.YNorm != nil {
		xl, yl := *prev.XNorm, *prev.YNorm
		if !c.PrevSameTeam {
			xl, yl = -xl, -yl
		}
		c.XLast, c.YLast = &xl, &yl

		al := rink.Angle(xl, yl)
		c.AngleLast = &al

		if r.XNorm != nil && r.YNorm != nil {
			d := math.Sqrt((*r.XNorm-xl)*(*r.XNorm-xl) + (*r.YNorm-yl)*(*r.YNorm-yl))
			speed := d / secs
			c.DistanceFromLast = &d
			c.PuckSpeed = &speed
		}
		if r.Angle != nil {
			ac := math.Abs(*r.Angle - al)
			acSpeed := ac / secs
			c.AngleChange = &ac
			c.AngleChangeSpeed = &acSpeed
		}
	}

	c.IsRebound = c.PrevSameTeam && prev.Type == model.EventShot && secs <= reboundWindow
	c.IsPostMissShot = c.PrevSameTeam && secs <= reboundWindow &&
		(prev.Type == model.EventMissedShot || prev.Type == model.EventBlockedShot)

	if c.XLast != nil {
		c.IsSetPlay = c.PrevSameTeam && prev.Type == model.EventFaceoff &&
			*c.XLast > setPlayDepth && secs <= setPlayWindow

		rushOrigin := oppTurnover(prev.Type) && !c.PrevSameTeam ||
			prev.Type == model.EventTakeaway && c.PrevSameTeam
		c.IsRushPlay = rushOrigin && *c.XLast < 0 && secs <= rushWindow
		c.IsFastRushPlay = rushOrigin && *c.XLast < zoneBoundary && secs <= fastRushWindow
	}

	return c
}

// oppTurnover reports whether t, when owned by the opposing side, counts as
// a rush origin (they coughed the puck up or had an attempt go the other way).
func oppTurnover(t model.EventType) bool {
	switch t {
	case model.EventGiveaway, model.EventShot, model.EventMissedShot, model.EventBlockedShot:
		return true
	}
	return false
}

// shooterOf returns the shooting/scoring participant, or 0.
func shooterOf(r *model.Row) int64 {
	if id := r.Event.Participant("Scorer"); id != 0 {
		return id
	}
	return r.Event.Participant("Shooter")
}

// partitionFor places one event in exactly one of the four situational views
// from its own side's perspective, or none when the state matches no view
// (penalty shots and degenerate codes).
func partitionFor(r *model.Row) model.Partition {
	var pp, sh, en map[string]bool
	switch r.Side {
	case model.SideHome:
		pp, sh, en = ppHome, shHome, enHome
	case model.SideAway:
		pp, sh, en = ppAway, shAway, enAway
	default:
		return model.PartitionNone
	}

	switch {
	case evStates[r.StrengthState]:
		return model.PartitionEV
	case pp[r.TrueStrengthState]:
		return model.PartitionPP
	case sh[r.TrueStrengthState]:
		return model.PartitionSH
	case en[r.TrueStrengthState]:
		return model.PartitionEN
	}
	return model.PartitionNone
}

// Partitions splits fully derived rows into the four shot-attempt views.
// Blocked shots stay in the superset only.
func Partitions(rows []model.Row) (ev, pp, sh, en []model.Row) {
	for i := range rows {
		r := rows[i]
		if !r.Type.IsShotAttempt() {
			continue
		}
		switch r.Partition {
		case model.PartitionEV:
			ev = append(ev, r)
		case model.PartitionPP:
			pp = append(pp, r)
		case model.PartitionSH:
			sh = append(sh, r)
		case model.PartitionEN:
			en = append(en, r)
		}
	}
	return ev, pp, sh, en
}
