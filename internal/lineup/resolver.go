// Package lineup reconciles shift-interval records against event timestamps
// to reconstruct the on-ice roster of both sides at every event.
package lineup

import (
	"fmt"
	"sort"

	"github.com/twinfield10/NHL-Data/internal/model"
)

// MaxSkaters is the slot count per side; resolved players beyond it are a
// data fault and get truncated deterministically.
const MaxSkaters = 6

// Category is the relationship of one shift interval to an event timestamp.
type Category int

const (
	CategoryNone    Category = iota
	CategoryCurrent          // interval strictly contains t
	CategoryOn               // interval starts exactly at t
	CategoryOff              // interval ends exactly at t
)

// Classify places the half-open interval [start, end) relative to t.
func Classify(start, end, t int) Category {
	switch {
	case start < t && t < end:
		return CategoryCurrent
	case t == start:
		return CategoryOn
	case t == end:
		return CategoryOff
	}
	return CategoryNone
}

// Resolver holds one game's shift intervals bucketed by period, side and
// position class, ready to answer "who was on the ice at second t".
type Resolver struct {
	buckets map[bucketKey][]model.ShiftInterval
}

type bucketKey struct {
	period int
	side   model.Side
	goalie bool
}

// NewResolver validates, merges and buckets one game's shift intervals.
// A nil error with an empty interval set is impossible: absent or malformed
// shift data returns an error so the caller can degrade to null lineups.
func NewResolver(shifts []model.ShiftInterval) (*Resolver, error) {
	usable := make([]model.ShiftInterval, 0, len(shifts))
	for _, s := range shifts {
		if s.EndSeconds <= s.StartSeconds {
			continue // zero-length instrumentation artifacts
		}
		if s.Side == model.SideUnknown {
			return nil, fmt.Errorf("shift for player %d has no side", s.PlayerID)
		}
		usable = append(usable, s)
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("no usable shift intervals")
	}

	merged, err := mergeConsecutive(usable)
	if err != nil {
		return nil, err
	}

	buckets := make(map[bucketKey][]model.ShiftInterval)
	for _, s := range merged {
		k := bucketKey{s.Period, s.Side, s.IsGoalie}
		buckets[k] = append(buckets[k], s)
	}
	return &Resolver{buckets: buckets}, nil
}

// mergeConsecutive collapses back-to-back intervals of the same player in the
// same period into one logical interval, so a recorded line change that puts
// the same player straight back on the ice does not register as churn.
// Overlapping intervals for one player are malformed input.
func mergeConsecutive(shifts []model.ShiftInterval) ([]model.ShiftInterval, error) {
	type playerKey struct {
		playerID int64
		period   int
	}
	byPlayer := make(map[playerKey][]model.ShiftInterval)
	for _, s := range shifts {
		k := playerKey{s.PlayerID, s.Period}
		byPlayer[k] = append(byPlayer[k], s)
	}

	var out []model.ShiftInterval
	for k, list := range byPlayer {
		sort.Slice(list, func(i, j int) bool { return list[i].StartSeconds < list[j].StartSeconds })
		cur := list[0]
		for _, s := range list[1:] {
			if s.StartSeconds < cur.EndSeconds {
				return nil, fmt.Errorf("overlapping shifts for player %d in period %d", k.playerID, k.period)
			}
			if s.StartSeconds == cur.EndSeconds {
				cur.EndSeconds = s.EndSeconds
				continue
			}
			out = append(out, cur)
			cur = s
		}
		out = append(out, cur)
	}
	return out, nil
}

// Resolve fills Home and Away lineups on every row of one game, in place.
// Rows must be chronologically sorted; the last event recorded at an exact
// timestamp is the one that prefers incoming ("on") shifts at a boundary.
func (r *Resolver) Resolve(rows []model.Row) []model.Fault {
	lastAt := lastEventAt(rows)

	var faults []model.Fault
	for i := range rows {
		row := &rows[i]
		last := lastAt[clockKey{row.Period, row.PeriodSeconds}] == i

		row.Home = r.resolveSide(row, model.SideHome, last, &faults)
		row.Away = r.resolveSide(row, model.SideAway, last, &faults)
	}
	return faults
}

type clockKey struct{ period, seconds int }

// lastEventAt maps each (period, second) to the index of the final event
// recorded at that instant. Period and game markers share clock seconds with
// real plays but carry no on-ice action, so they never claim the last slot.
func lastEventAt(rows []model.Row) map[clockKey]int {
	m := make(map[clockKey]int, len(rows))
	for i := range rows {
		switch rows[i].Type {
		case model.EventPeriodStart, model.EventPeriodEnd, model.EventGameEnd:
			continue
		}
		m[clockKey{rows[i].Period, rows[i].PeriodSeconds}] = i
	}
	return m
}

func (r *Resolver) resolveSide(row *model.Row, side model.Side, last bool, faults *[]model.Fault) model.Lineup {
	skaters := resolveSlot(r.buckets[bucketKey{row.Period, side, false}], row.PeriodSeconds, last)
	goalies := resolveSlot(r.buckets[bucketKey{row.Period, side, true}], row.PeriodSeconds, last)

	if len(skaters) > MaxSkaters {
		*faults = append(*faults, model.Fault{
			GameID: row.GameID,
			Kind:   model.FaultCardinality,
			Detail: fmt.Sprintf("%d skaters resolved for %s at period %d second %d, truncated to %d",
				len(skaters), side, row.Period, row.PeriodSeconds, MaxSkaters),
		})
		skaters = skaters[:MaxSkaters]
	}

	var goalie int64
	if len(goalies) > 0 {
		goalie = goalies[0]
		if len(goalies) > 1 {
			*faults = append(*faults, model.Fault{
				GameID: row.GameID,
				Kind:   model.FaultCardinality,
				Detail: fmt.Sprintf("%d goalies resolved for %s at period %d second %d",
					len(goalies), side, row.Period, row.PeriodSeconds),
			})
		}
	}

	return model.Lineup{Skaters: skaters, Goalie: goalie, Resolved: true}
}

// resolveSlot classifies a bucket's intervals against t and applies the
// boundary precedence:
//
//  1. a single non-empty category wins outright;
//  2. "current" unions with whichever single boundary category is non-empty;
//  3. when both "on" and "off" are non-empty, the last event at t takes the
//     incoming shift, every earlier event takes the outgoing one;
//  4. with all three non-empty, rule 3 picks the boundary side and "current"
//     is unioned in.
//
// The returned IDs are ascending.
func resolveSlot(bucket []model.ShiftInterval, t int, last bool) []int64 {
	var cur, on, off []int64
	for _, s := range bucket {
		switch Classify(s.StartSeconds, s.EndSeconds, t) {
		case CategoryCurrent:
			cur = append(cur, s.PlayerID)
		case CategoryOn:
			on = append(on, s.PlayerID)
		case CategoryOff:
			off = append(off, s.PlayerID)
		}
	}

	var ids []int64
	switch {
	case len(on) == 0 && len(off) == 0:
		ids = cur
	case len(cur) == 0 && len(off) == 0:
		ids = on
	case len(cur) == 0 && len(on) == 0:
		ids = off
	case len(cur) == 0:
		if last {
			ids = on
		} else {
			ids = off
		}
	case len(off) == 0:
		ids = union(cur, on)
	case len(on) == 0:
		ids = union(cur, off)
	default:
		if last {
			ids = union(cur, on)
		} else {
			ids = union(cur, off)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func union(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// NullFill marks every lineup column of a game unresolved. Used when shift
// source data is absent or malformed so the rest of the pipeline still runs.
func NullFill(rows []model.Row) {
	for i := range rows {
		rows[i].Home = model.Lineup{}
		rows[i].Away = model.Lineup{}
	}
}
