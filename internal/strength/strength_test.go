package strength

import (
	"math"
	"testing"

	"github.com/twinfield10/NHL-Data/internal/model"
	"github.com/twinfield10/NHL-Data/internal/roster"
)

func f(v float64) *float64 { return &v }

type eventSpec struct {
	idx, period, seconds int
	typ                  model.EventType
	team                 string
	side                 model.Side
	code                 string
	x, y                 *float64
}

func makeRows(specs []eventSpec) []model.Row {
	rows := make([]model.Row, len(specs))
	for i, s := range specs {
		rows[i] = model.Row{Event: model.Event{
			GameID:        1,
			SeasonType:    "R",
			HomeTeam:      "BOS",
			AwayTeam:      "TOR",
			EventIdx:      s.idx,
			Period:        s.period,
			PeriodSeconds: s.seconds,
			GameSeconds:   s.seconds + (s.period-1)*1200,
			Type:          s.typ,
			Team:          s.team,
			Side:          s.side,
			SituationCode: s.code,
		}}
		if s.x != nil {
			x, y := *s.x, *s.y
			rows[i].XNorm, rows[i].YNorm = &x, &y
		}
	}
	return rows
}

func TestAnnotate_SituationParsing(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 0, model.EventFaceoff, "BOS", model.SideHome, "1551", nil, nil},
		{2, 1, 30, model.EventShot, "BOS", model.SideHome, "1451", nil, nil},
	})
	out := Annotate(rows)

	if out[0].StrengthState != "5v5" || out[0].TrueStrengthState != "5v5" {
		t.Errorf("state = %s/%s, want 5v5/5v5", out[0].StrengthState, out[0].TrueStrengthState)
	}
	if out[1].StrengthState != "5v4" {
		t.Errorf("state = %s, want 5v4", out[1].StrengthState)
	}
	if out[1].HomeSkaters != 5 || out[1].AwaySkaters != 4 {
		t.Errorf("skaters = %dv%d, want 5v4", out[1].HomeSkaters, out[1].AwaySkaters)
	}
}

func TestAnnotate_EmptyNetState(t *testing.T) {
	// Away goalie pulled for the extra attacker.
	rows := makeRows([]eventSpec{
		{1, 3, 1100, model.EventShot, "BOS", model.SideHome, "0651", nil, nil},
	})
	out := Annotate(rows)

	if out[0].StrengthState != "5v6" {
		t.Errorf("StrengthState = %s, want 5v6", out[0].StrengthState)
	}
	if out[0].TrueStrengthState != "5vE" {
		t.Errorf("TrueStrengthState = %s, want 5vE", out[0].TrueStrengthState)
	}
	if !out[0].AwayEmptyNet || out[0].HomeEmptyNet {
		t.Error("expected away net empty, home net occupied")
	}
}

func TestAnnotate_ForwardFill(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 0, model.EventFaceoff, "BOS", model.SideHome, "1551", nil, nil},
		{2, 1, 10, model.EventStoppage, "", model.SideUnknown, "", nil, nil},
	})
	out := Annotate(rows)

	if out[1].StrengthState != "5v5" {
		t.Errorf("forward-filled state = %s, want 5v5", out[1].StrengthState)
	}
}

func TestAnnotate_DropsOneOnOneCodes(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 0, model.EventFaceoff, "BOS", model.SideHome, "1551", nil, nil},
		{2, 1, 600, model.EventStoppage, "", model.SideUnknown, "1010", nil, nil},
		{3, 1, 630, model.EventShot, "BOS", model.SideHome, "1551", nil, nil},
	})
	out := Annotate(rows)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[1].EventIdx != 3 {
		t.Errorf("surviving row = %d, want event 3", out[1].EventIdx)
	}
}

func TestAnnotate_PenaltyShotOverride(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 2, 300, model.EventShot, "BOS", model.SideHome, "1010", nil, nil},
		{2, 2, 900, model.EventShot, "TOR", model.SideAway, "0101", nil, nil},
	})
	rows[0].SecondaryType = PenaltyShotLabel
	rows[1].SecondaryType = PenaltyShotLabel
	out := Annotate(rows)

	if len(out) != 2 {
		t.Fatalf("penalty-shot rows must survive the code filter, got %d rows", len(out))
	}
	if out[0].StrengthState != "1vE" || out[0].HomeSkaters != 1 {
		t.Errorf("home penalty shot = %s (%d skaters), want 1vE (1)", out[0].StrengthState, out[0].HomeSkaters)
	}
	if out[1].StrengthState != "Ev1" || out[1].AwaySkaters != 1 {
		t.Errorf("away penalty shot = %s (%d skaters), want Ev1 (1)", out[1].StrengthState, out[1].AwaySkaters)
	}
}

func derive(rows []model.Row) []model.Row {
	out := Annotate(rows)
	Derive(out, roster.Empty())
	return out
}

func TestPartitionExclusivity(t *testing.T) {
	codes := []string{"1551", "1451", "1541", "1441", "1331", "1531", "1351", "0651", "1560", "1431"}
	for _, code := range codes {
		for _, side := range []model.Side{model.SideHome, model.SideAway} {
			rows := derive(makeRows([]eventSpec{
				{1, 1, 100, model.EventShot, "X", side, code, f(60), f(5)},
			}))
			n := 0
			for _, p := range []model.Partition{model.PartitionEV, model.PartitionPP, model.PartitionSH, model.PartitionEN} {
				if rows[0].Partition == p {
					n++
				}
			}
			if n > 1 {
				t.Errorf("code %s side %v matched %d partitions", code, side, n)
			}
		}
	}
}

func TestPartitionAssignment(t *testing.T) {
	cases := []struct {
		code string
		side model.Side
		want model.Partition
	}{
		{"1551", model.SideHome, model.PartitionEV},
		{"1441", model.SideAway, model.PartitionEV},
		{"1451", model.SideHome, model.PartitionPP}, // 5v4, home up a man
		{"1451", model.SideAway, model.PartitionSH},
		{"1541", model.SideAway, model.PartitionPP},
		{"1541", model.SideHome, model.PartitionSH},
		{"0651", model.SideHome, model.PartitionEN}, // away net empty, home shooting
		{"1560", model.SideAway, model.PartitionEN},
	}
	for _, tc := range cases {
		rows := derive(makeRows([]eventSpec{
			{1, 1, 100, model.EventShot, "X", tc.side, tc.code, nil, nil},
		}))
		if rows[0].Partition != tc.want {
			t.Errorf("code %s side %v = %q, want %q", tc.code, tc.side, rows[0].Partition, tc.want)
		}
	}
}

func TestRebound(t *testing.T) {
	rows := derive(makeRows([]eventSpec{
		{1, 1, 50, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(5)},
		{2, 1, 51, model.EventShot, "BOS", model.SideHome, "1551", f(75), f(2)},
	}))

	c := rows[1].Context
	if c == nil {
		t.Fatal("expected context on second shot")
	}
	if c.SecondsSinceLast != 1 {
		t.Errorf("SecondsSinceLast = %v, want 1", c.SecondsSinceLast)
	}
	if !c.IsRebound {
		t.Error("expected is_rebound for same-side shots 1s apart")
	}
	if !c.PriorEventEV {
		t.Error("expected prior event at even strength")
	}
}

func TestSameSecondFloorsElapsedTime(t *testing.T) {
	rows := derive(makeRows([]eventSpec{
		{1, 1, 50, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(5)},
		{2, 1, 50, model.EventShot, "BOS", model.SideHome, "1551", f(76), f(-3)},
	}))

	c := rows[1].Context
	if c.SecondsSinceLast != 0.5 {
		t.Errorf("SecondsSinceLast = %v, want 0.5 floor", c.SecondsSinceLast)
	}
	if c.PuckSpeed == nil {
		t.Fatal("expected a puck speed")
	}
	if math.IsInf(*c.PuckSpeed, 0) || math.IsNaN(*c.PuckSpeed) {
		t.Errorf("PuckSpeed = %v, want finite", *c.PuckSpeed)
	}
	wantSpeed := *c.DistanceFromLast / 0.5
	if *c.PuckSpeed != wantSpeed {
		t.Errorf("PuckSpeed = %v, want %v", *c.PuckSpeed, wantSpeed)
	}
}

func TestNoReboundOutsideWindow(t *testing.T) {
	rows := derive(makeRows([]eventSpec{
		{1, 1, 50, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(5)},
		{2, 1, 54, model.EventShot, "BOS", model.SideHome, "1551", f(75), f(2)},
	}))

	if rows[1].Context.IsRebound {
		t.Error("4 seconds is outside the rebound window")
	}
}

func TestSetPlay(t *testing.T) {
	rows := derive(makeRows([]eventSpec{
		{1, 1, 100, model.EventFaceoff, "BOS", model.SideHome, "1551", f(69), f(22)},
		{2, 1, 102, model.EventShot, "BOS", model.SideHome, "1551", f(75), f(5)},
	}))

	if !rows[1].Context.IsSetPlay {
		t.Error("expected is_set_play after attacking-zone faceoff win 2s earlier")
	}
}

func TestRushPlay(t *testing.T) {
	// TOR giveaway deep in their attacking frame becomes a BOS rush origin
	// after the perspective flip.
	rows := derive(makeRows([]eventSpec{
		{1, 1, 200, model.EventGiveaway, "TOR", model.SideAway, "1551", f(40), f(10)},
		{2, 1, 204, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(0)},
	}))

	c := rows[1].Context
	if c.XLast == nil || *c.XLast != -40 {
		t.Fatalf("XLast = %v, want -40 after perspective flip", c.XLast)
	}
	if !c.IsRushPlay {
		t.Error("expected is_rush_play from opponent giveaway below the zone line")
	}
	if c.IsFastRushPlay {
		t.Error("4 seconds is outside the fast-rush window")
	}
}

func TestScoreStateFromPriorRow(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 100, model.EventGoal, "BOS", model.SideHome, "1551", f(70), f(0)},
		{2, 1, 130, model.EventShot, "TOR", model.SideAway, "1551", f(60), f(8)},
	})
	rows[0].HomeScore, rows[0].AwayScore = 1, 0
	rows[1].HomeScore, rows[1].AwayScore = 1, 0
	out := Annotate(rows)
	Derive(out, roster.Empty())

	// The away shooter is down a goal as of the prior row.
	if got := out[1].Context.ScoreState; got != -1 {
		t.Errorf("ScoreState = %d, want -1", got)
	}
	// The first event of a period has no prior row to read from.
	if got := out[0].Context.ScoreState; got != 0 {
		t.Errorf("first event ScoreState = %d, want 0", got)
	}
}

func TestPenSecondsSince(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 150, model.EventShot, "BOS", model.SideHome, "1451", f(70), f(0)},
	})
	rows[0].PenIndex = 1
	rows[0].PenStart = 100
	out := Annotate(rows)
	Derive(out, roster.Empty())

	if got := out[0].Context.PenSecondsSince; got != 50 {
		t.Errorf("PenSecondsSince = %v, want 50", got)
	}
}

func TestPenSecondsSinceCap(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 500, model.EventShot, "BOS", model.SideHome, "1451", f(70), f(0)},
	})
	rows[0].PenIndex = 1
	rows[0].PenStart = 100
	out := Annotate(rows)
	Derive(out, roster.Empty())

	if got := out[0].Context.PenSecondsSince; got != 120 {
		t.Errorf("PenSecondsSince = %v, want capped 120", got)
	}
}

func TestPenSecondsSinceZeroAtEqualStrength(t *testing.T) {
	// Plain 5v5 with the away net empty: the penalty clock may still be
	// inside its window, but with equal skater counts the feature stays 0.
	rows := makeRows([]eventSpec{
		{1, 3, 1150, model.EventShot, "BOS", model.SideHome, "0551", f(70), f(0)},
	})
	rows[0].PenIndex = 2
	rows[0].PenStart = 4300
	out := Annotate(rows)
	Derive(out, roster.Empty())

	if out[0].TrueStrengthState != "5vE" {
		t.Fatalf("TrueStrengthState = %s, want 5vE", out[0].TrueStrengthState)
	}
	if got := out[0].Context.PenSecondsSince; got != 0 {
		t.Errorf("PenSecondsSince = %v, want 0 at 5v5", got)
	}
}

func TestShiftRelativeTimeOnIce(t *testing.T) {
	rows := makeRows([]eventSpec{
		{1, 1, 130, model.EventShot, "TOR", model.SideAway, "1551", f(60), f(8)},
	})
	rows[0].ShiftStartHome = 100
	rows[0].ShiftStartAway = 120
	out := Annotate(rows)
	Derive(out, roster.Empty())

	c := out[0].Context
	if c.EventTeamTOI != 10 || c.DefTeamTOI != 30 {
		t.Errorf("TOI = %v/%v, want 10/30", c.EventTeamTOI, c.DefTeamTOI)
	}
	if c.ShiftTimeDiff != 20 {
		t.Errorf("ShiftTimeDiff = %v, want 20", c.ShiftTimeDiff)
	}
}

func TestOffWing(t *testing.T) {
	ros := roster.NewTable([]model.Player{
		{ID: 8470001, Position: "C", Shoots: "R"},
		{ID: 8470002, Position: "L", Shoots: "L"},
	})

	rows := makeRows([]eventSpec{
		{1, 1, 100, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(15)},
		{2, 1, 200, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(15)},
	})
	rows[0].Participants = []model.Participant{{PlayerID: 8470001, Role: "Shooter"}}
	rows[1].Participants = []model.Participant{{PlayerID: 8470002, Role: "Shooter"}}
	rows[0].Angle = f(37.9)
	rows[1].Angle = f(37.9)
	out := Annotate(rows)
	Derive(out, ros)

	// Right-hand shot from positive y at a wide angle shoots off the wing.
	if !out[0].Context.OffWing {
		t.Error("expected off_wing for the right-hand shot")
	}
	if out[1].Context.OffWing {
		t.Error("left-hand shot from positive y is on the strong side")
	}
}

func TestTwoManGap(t *testing.T) {
	cases := []struct {
		code string
		side model.Side
		want bool
	}{
		{"1351", model.SideHome, true}, // 5v3, home up two
		{"1351", model.SideAway, true}, // same gap seen from the short side
		{"1531", model.SideHome, true},
		{"1451", model.SideHome, false}, // one-man gap
		{"1551", model.SideAway, false},
	}
	for _, tc := range cases {
		rows := derive(makeRows([]eventSpec{
			{1, 1, 100, model.EventShot, "X", tc.side, tc.code, nil, nil},
		}))
		if got := rows[0].Context.IsTwoManAdv; got != tc.want {
			t.Errorf("code %s side %v: IsTwoManAdv = %v, want %v", tc.code, tc.side, got, tc.want)
		}
	}
}

func TestContextResetsAtPeriodBoundary(t *testing.T) {
	rows := derive(makeRows([]eventSpec{
		{1, 1, 1195, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(5)},
		{2, 2, 3, model.EventShot, "BOS", model.SideHome, "1551", f(75), f(2)},
	}))

	c := rows[1].Context
	if c.PrevType != "" {
		t.Errorf("PrevType = %q, want no carryover across periods", c.PrevType)
	}
	if c.IsRebound {
		t.Error("rebound must not link across a period boundary")
	}
}

func TestBlockedShotStaysOutOfPartitionTables(t *testing.T) {
	rows := derive(makeRows([]eventSpec{
		{1, 1, 100, model.EventBlockedShot, "BOS", model.SideHome, "1551", f(60), f(5)},
		{2, 1, 120, model.EventShot, "BOS", model.SideHome, "1551", f(70), f(5)},
	}))

	ev, pp, sh, en := Partitions(rows)
	if len(ev) != 1 || rows[0].Context == nil {
		t.Errorf("blocked shot must stay in the superset (context %v) but out of EV (%d rows)",
			rows[0].Context != nil, len(ev))
	}
	if len(pp)+len(sh)+len(en) != 0 {
		t.Error("unexpected rows in PP/SH/EN")
	}
}
