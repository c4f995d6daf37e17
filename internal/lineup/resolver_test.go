package lineup

import (
	"reflect"
	"testing"

	"github.com/twinfield10/NHL-Data/internal/model"
)

const (
	playerA int64 = 8470001
	playerB int64 = 8470002
	playerC int64 = 8470003
	playerD int64 = 8470004
	playerE int64 = 8470005
	playerF int64 = 8470006
	playerG int64 = 8470007
	goalie1 int64 = 8470100
	goalie2 int64 = 8470101
)

func makeShift(playerID int64, period, start, end int, side model.Side, isGoalie bool) model.ShiftInterval {
	return model.ShiftInterval{
		GameID:       1,
		PlayerID:     playerID,
		Side:         side,
		Period:       period,
		StartSeconds: start,
		EndSeconds:   end,
		IsGoalie:     isGoalie,
	}
}

func makeEvent(idx, period, seconds int) model.Row {
	return model.Row{Event: model.Event{
		GameID:        1,
		EventIdx:      idx,
		Period:        period,
		PeriodSeconds: seconds,
	}}
}

func mustResolver(t *testing.T, shifts []model.ShiftInterval) *Resolver {
	t.Helper()
	r, err := NewResolver(shifts)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestClassify(t *testing.T) {
	cases := []struct {
		start, end, at int
		want           Category
	}{
		{90, 110, 100, CategoryCurrent},
		{100, 110, 100, CategoryOn},
		{90, 100, 100, CategoryOff},
		{90, 95, 100, CategoryNone},
		{105, 110, 100, CategoryNone},
	}
	for _, tc := range cases {
		if got := Classify(tc.start, tc.end, tc.at); got != tc.want {
			t.Errorf("Classify(%d, %d, %d) = %v, want %v", tc.start, tc.end, tc.at, got, tc.want)
		}
	}
}

// An event at t=100 with one interval ending at 100 and another starting at
// 100 resolves to the incoming player only when it is the last event at that
// timestamp.
func TestBoundary_OnOffTieBreak(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 90, 100, model.SideHome, false),
		makeShift(playerB, 1, 100, 110, model.SideHome, false),
	})

	rows := []model.Row{
		makeEvent(1, 1, 100),
		makeEvent(2, 1, 100),
	}
	r.Resolve(rows)

	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, []int64{playerA}) {
		t.Errorf("earlier event at t=100 resolved %v, want outgoing player %d", got, playerA)
	}
	if got := rows[1].Home.Skaters; !reflect.DeepEqual(got, []int64{playerB}) {
		t.Errorf("last event at t=100 resolved %v, want incoming player %d", got, playerB)
	}
}

func TestBoundary_OnOffSingleEvent(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 90, 100, model.SideHome, false),
		makeShift(playerB, 1, 100, 110, model.SideHome, false),
	})

	// A lone event at the boundary is trivially the last at its timestamp.
	rows := []model.Row{makeEvent(1, 1, 100)}
	r.Resolve(rows)

	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, []int64{playerB}) {
		t.Errorf("resolved %v, want incoming player %d", got, playerB)
	}
}

// A period marker sharing the boundary second does not steal the last slot
// from the play recorded before it.
func TestBoundary_MarkersIgnoredInTieBreak(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 90, 100, model.SideHome, false),
		makeShift(playerB, 1, 100, 110, model.SideHome, false),
	})

	shot := makeEvent(1, 1, 100)
	shot.Type = model.EventShot
	marker := makeEvent(2, 1, 100)
	marker.Type = model.EventPeriodEnd

	rows := []model.Row{shot, marker}
	r.Resolve(rows)

	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, []int64{playerB}) {
		t.Errorf("shot resolved %v, want incoming player %d", got, playerB)
	}
}

func TestCurrentUnionsWithBoundary(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 90, 110, model.SideHome, false), // current at 100
		makeShift(playerB, 1, 100, 110, model.SideHome, false),
	})

	rows := []model.Row{makeEvent(1, 1, 100)}
	r.Resolve(rows)

	want := []int64{playerA, playerB}
	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, want) {
		t.Errorf("resolved %v, want %v", got, want)
	}
}

func TestCurrentWithOnAndOff(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 90, 110, model.SideHome, false),  // current
		makeShift(playerB, 1, 100, 110, model.SideHome, false), // on
		makeShift(playerC, 1, 90, 100, model.SideHome, false),  // off
	})

	rows := []model.Row{
		makeEvent(1, 1, 100),
		makeEvent(2, 1, 100),
	}
	r.Resolve(rows)

	if got, want := rows[0].Home.Skaters, []int64{playerA, playerC}; !reflect.DeepEqual(got, want) {
		t.Errorf("earlier event resolved %v, want current+off %v", got, want)
	}
	if got, want := rows[1].Home.Skaters, []int64{playerA, playerB}; !reflect.DeepEqual(got, want) {
		t.Errorf("last event resolved %v, want current+on %v", got, want)
	}
}

func TestConsecutiveShiftsMerged(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 0, 30, model.SideHome, false),
		makeShift(playerA, 1, 30, 60, model.SideHome, false),
	})

	// The join point is interior to the merged interval, not a boundary.
	rows := []model.Row{makeEvent(1, 1, 30)}
	r.Resolve(rows)

	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, []int64{playerA}) {
		t.Errorf("resolved %v, want %v", got, []int64{playerA})
	}
}

func TestSidesResolveIndependently(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(playerA, 1, 90, 110, model.SideHome, false),
		makeShift(playerB, 1, 90, 110, model.SideAway, false),
		makeShift(goalie1, 1, 0, 1200, model.SideHome, true),
	})

	rows := []model.Row{makeEvent(1, 1, 100)}
	r.Resolve(rows)

	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, []int64{playerA}) {
		t.Errorf("home resolved %v, want %v", got, []int64{playerA})
	}
	if got := rows[0].Away.Skaters; !reflect.DeepEqual(got, []int64{playerB}) {
		t.Errorf("away resolved %v, want %v", got, []int64{playerB})
	}
	if rows[0].Home.Goalie != goalie1 {
		t.Errorf("home goalie = %d, want %d", rows[0].Home.Goalie, goalie1)
	}
	if rows[0].Away.Goalie != 0 {
		t.Errorf("away goalie = %d, want empty net 0", rows[0].Away.Goalie)
	}
}

func TestTruncation_SevenSkaters(t *testing.T) {
	players := []int64{playerG, playerF, playerE, playerD, playerC, playerB, playerA}
	var shifts []model.ShiftInterval
	for _, p := range players {
		shifts = append(shifts, makeShift(p, 1, 90, 110, model.SideHome, false))
	}
	r := mustResolver(t, shifts)

	rows := []model.Row{makeEvent(1, 1, 100)}
	faults := r.Resolve(rows)

	want := []int64{playerA, playerB, playerC, playerD, playerE, playerF}
	if got := rows[0].Home.Skaters; !reflect.DeepEqual(got, want) {
		t.Errorf("resolved %v, want lowest six %v", got, want)
	}
	if len(faults) != 1 || faults[0].Kind != model.FaultCardinality {
		t.Fatalf("faults = %+v, want one cardinality fault", faults)
	}
}

func TestTwoGoaliesFault(t *testing.T) {
	r := mustResolver(t, []model.ShiftInterval{
		makeShift(goalie2, 1, 90, 110, model.SideHome, true),
		makeShift(goalie1, 1, 90, 110, model.SideHome, true),
	})

	rows := []model.Row{makeEvent(1, 1, 100)}
	faults := r.Resolve(rows)

	if rows[0].Home.Goalie != goalie1 {
		t.Errorf("goalie = %d, want lowest ID %d", rows[0].Home.Goalie, goalie1)
	}
	if len(faults) != 1 || faults[0].Kind != model.FaultCardinality {
		t.Fatalf("faults = %+v, want one cardinality fault", faults)
	}
}

func TestNewResolver_NoUsableShifts(t *testing.T) {
	if _, err := NewResolver(nil); err == nil {
		t.Error("expected error for empty shift data")
	}
	// Zero-length artifacts alone are not usable either.
	shifts := []model.ShiftInterval{makeShift(playerA, 1, 50, 50, model.SideHome, false)}
	if _, err := NewResolver(shifts); err == nil {
		t.Error("expected error when only zero-length shifts exist")
	}
}

func TestNewResolver_OverlapIsMalformed(t *testing.T) {
	shifts := []model.ShiftInterval{
		makeShift(playerA, 1, 0, 40, model.SideHome, false),
		makeShift(playerA, 1, 30, 60, model.SideHome, false),
	}
	if _, err := NewResolver(shifts); err == nil {
		t.Error("expected error for overlapping shifts of one player")
	}
}

func TestNullFill(t *testing.T) {
	rows := []model.Row{makeEvent(1, 1, 100)}
	rows[0].Home = model.Lineup{Skaters: []int64{playerA}, Resolved: true}

	NullFill(rows)

	if rows[0].Home.Resolved || rows[0].Away.Resolved {
		t.Error("expected unresolved lineups after NullFill")
	}
	if rows[0].Home.Skaters != nil {
		t.Error("expected nil skater slots after NullFill")
	}
}
