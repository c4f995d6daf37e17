// Package segment assigns monotonic segment counters to an ordered event
// stream: faceoff and penalty indices plus combined/home/away lineup-change
// indices, with the game-clock window start of each segment.
package segment

import (
	"fmt"

	"github.com/twinfield10/NHL-Data/internal/model"
)

// Index walks one game's rows in chronological order and fills the five
// segment counters and their window start seconds, in place. Counters start
// at zero and increase by one at each detected boundary; they never reset
// mid-game. Rows must already be sorted by (period, event index) and carry
// resolved lineups (or uniformly unresolved ones).
//
// When two consecutive rows share a game-clock second but imply different
// lineup tuples, the later row wins and an ordering fault is recorded.
func Index(rows []model.Row) []model.Fault {
	var faults []model.Fault

	var (
		faceIdx, penIdx, allIdx, homeIdx, awayIdx int

		prevAllKey, prevHomeKey, prevAwayKey string
		prevType                             model.EventType
		havePrev                             bool
		prevSeconds                          int
	)

	// Window starts, keyed by (period, counter value) so a segment spanning
	// a period boundary still opens a fresh window.
	type windowKey struct{ period, idx int }
	allStart := make(map[windowKey]int)
	homeStart := make(map[windowKey]int)
	awayStart := make(map[windowKey]int)
	penStart := make(map[int]int)

	for i := range rows {
		r := &rows[i]

		allKey := r.Home.Key() + "|" + r.Away.Key()
		homeKey := r.Home.Key()
		awayKey := r.Away.Key()

		if r.Type == model.EventFaceoff {
			faceIdx++
		}
		if r.Type == model.EventPenalty {
			penIdx++
		}

		boundary := func(prev, cur string) bool {
			return !havePrev || prev != cur || prevType == model.EventPeriodStart
		}
		allChanged := boundary(prevAllKey, allKey)
		if allChanged {
			allIdx++
		}
		if boundary(prevHomeKey, homeKey) {
			homeIdx++
		}
		if boundary(prevAwayKey, awayKey) {
			awayIdx++
		}

		if havePrev && allChanged && prevAllKey != allKey && r.GameSeconds == prevSeconds {
			faults = append(faults, model.Fault{
				GameID: r.GameID,
				Kind:   model.FaultOrdering,
				Detail: fmt.Sprintf("lineup change with no clock movement at %ds (event %d)", r.GameSeconds, r.EventIdx),
			})
		}

		r.FaceIndex = faceIdx
		r.PenIndex = penIdx
		r.ShiftIndexAll = allIdx
		r.ShiftIndexHome = homeIdx
		r.ShiftIndexAway = awayIdx

		if _, ok := allStart[windowKey{r.Period, allIdx}]; !ok {
			allStart[windowKey{r.Period, allIdx}] = r.GameSeconds
		}
		if _, ok := homeStart[windowKey{r.Period, homeIdx}]; !ok {
			homeStart[windowKey{r.Period, homeIdx}] = r.GameSeconds
		}
		if _, ok := awayStart[windowKey{r.Period, awayIdx}]; !ok {
			awayStart[windowKey{r.Period, awayIdx}] = r.GameSeconds
		}
		if penIdx > 0 {
			if _, ok := penStart[penIdx]; !ok {
				penStart[penIdx] = r.GameSeconds
			}
		}

		r.ShiftStartAll = allStart[windowKey{r.Period, allIdx}]
		r.ShiftStartHome = homeStart[windowKey{r.Period, homeIdx}]
		r.ShiftStartAway = awayStart[windowKey{r.Period, awayIdx}]
		if penIdx > 0 {
			r.PenStart = penStart[penIdx]
		}

		prevAllKey, prevHomeKey, prevAwayKey = allKey, homeKey, awayKey
		prevType = r.Type
		prevSeconds = r.GameSeconds
		havePrev = true
	}

	return faults
}
