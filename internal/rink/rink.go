// Package rink converts raw rink coordinates into a canonical attacking
// frame: positive x always points at the net the event-owning side is
// attacking, regardless of which physical end they defended that period.
package rink

import (
	"math"

	"github.com/twinfield10/NHL-Data/internal/model"
)

// GoalLineX is the distance from center ice to each goal line, in feet.
const GoalLineX = 89.25

// MinDistance floors degenerate zero-distance shots so rate features stay finite.
const MinDistance = 0.25

// Normalize fills XNorm/YNorm/Distance/Angle on every row of one game, in
// place. Rows must already be in chronological order. The returned count is
// the number of neutral-zone rows whose sign could not be inferred and were
// left unnormalized.
func Normalize(rows []model.Row) int {
	signs := periodSigns(rows)

	undefined := 0
	for i := range rows {
		r := &rows[i]
		if r.X == nil || r.Y == nil || r.Side == model.SideUnknown {
			continue
		}

		s, ok := flipSign(r, signs)
		if !ok {
			if r.Zone == "N" {
				undefined++
			}
			continue
		}

		x := *r.X * s
		y := *r.Y * s
		d := Distance(x, y)
		a := Angle(x, y)
		r.XNorm, r.YNorm = &x, &y
		r.Distance, r.Angle = &d, &a
	}
	return undefined
}

// flipSign returns the multiplier that rotates the raw coordinates into the
// event side's attacking frame. The explicit defending-side indicator wins;
// zone codes are the fallback, with neutral-zone rows inheriting the
// per-period majority sign of their side.
func flipSign(r *model.Row, signs map[signKey]float64) (float64, bool) {
	if r.HomeDefendingSide != "" {
		switch {
		case r.HomeDefendingSide == "left" && r.Side == model.SideHome:
			return 1, true
		case r.HomeDefendingSide == "right" && r.Side == model.SideHome:
			return -1, true
		case r.HomeDefendingSide == "left" && r.Side == model.SideAway:
			return -1, true
		case r.HomeDefendingSide == "right" && r.Side == model.SideAway:
			return 1, true
		}
	}

	switch r.Zone {
	case "O":
		if *r.X >= 0 {
			return 1, true
		}
		return -1, true
	case "D":
		if *r.X >= 0 {
			return -1, true
		}
		return 1, true
	case "N":
		if s, ok := signs[signKey{r.Period, r.Side}]; ok {
			return s, true
		}
		return 0, false
	}
	return 0, false
}

type signKey struct {
	period int
	side   model.Side
}

// periodSigns computes, per (period, side), the majority attacking-frame
// sign implied by that side's zone-classified events. A side with no such
// events borrows the negation of its opponent's majority.
func periodSigns(rows []model.Row) map[signKey]float64 {
	votes := make(map[signKey]int)
	for i := range rows {
		r := &rows[i]
		if r.X == nil || r.Side == model.SideUnknown || r.HomeDefendingSide != "" || *r.X == 0 {
			continue
		}
		var v int
		switch {
		case r.Zone == "O" && *r.X > 0, r.Zone == "D" && *r.X < 0:
			v = 1
		case r.Zone == "O" && *r.X < 0, r.Zone == "D" && *r.X > 0:
			v = -1
		default:
			continue
		}
		votes[signKey{r.Period, r.Side}] += v
	}

	signs := make(map[signKey]float64, len(votes))
	for k, v := range votes {
		if v > 0 {
			signs[k] = 1
		} else if v < 0 {
			signs[k] = -1
		}
	}
	// Borrow the opponent's inverted sign when one side cast no usable votes.
	for k, s := range signs {
		opp := signKey{k.period, k.side.Opponent()}
		if _, ok := signs[opp]; !ok {
			signs[opp] = -s
		}
	}
	return signs
}

// Distance is the Euclidean distance from (x, y) to the attacked goal line
// at x = GoalLineX, floored at MinDistance and rounded to 3 decimals.
func Distance(x, y float64) float64 {
	dx := GoalLineX - x
	d := math.Sqrt(dx*dx + y*y)
	if d == 0 {
		d = MinDistance
	}
	return round3(d)
}

// Angle is the absolute shot angle in degrees relative to the attacked goal
// line, reflected past 90 for coordinates behind the goal line.
func Angle(x, y float64) float64 {
	dx := GoalLineX - x
	var a float64
	if dx == 0 {
		a = 90
	} else {
		a = math.Abs(math.Atan(y/dx)) * 180 / math.Pi
	}
	if x > GoalLineX {
		a = 180 - a
	}
	return round3(a)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
