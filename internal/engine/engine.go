// Package engine runs the reconstruction pipeline: one sequential forward
// pass per game (strength annotation, coordinate normalization, lineup
// resolution, segment indexing, context derivation), with independent games
// fanned out across a bounded worker pool.
package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/twinfield10/NHL-Data/internal/lineup"
	"github.com/twinfield10/NHL-Data/internal/model"
	"github.com/twinfield10/NHL-Data/internal/rink"
	"github.com/twinfield10/NHL-Data/internal/roster"
	"github.com/twinfield10/NHL-Data/internal/segment"
	"github.com/twinfield10/NHL-Data/internal/strength"
)

// GameInput is one contest's raw material, fully materialized in memory
// before resolution begins.
type GameInput struct {
	GameID int
	Events []model.Event
	Shifts []model.ShiftInterval
}

// Result is the batch output: the annotated superset plus the four
// situational partitions, all sorted by (game, period, event index), and
// the fault report.
type Result struct {
	Superset []model.Row
	EV       []model.Row
	PP       []model.Row
	SH       []model.Row
	EN       []model.Row
	Faults   []model.Fault
}

// BadGames returns the IDs of games that recorded a source-data fault
// (missing shifts, uninferable coordinates), deduplicated and ascending.
func (r *Result) BadGames() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, f := range r.Faults {
		if f.Kind == model.FaultSource && !seen[f.GameID] {
			seen[f.GameID] = true
			ids = append(ids, f.GameID)
		}
	}
	sort.Ints(ids)
	return ids
}

// BuildGame reconstructs a single game. Faults are returned, never raised:
// missing or malformed shift data degrades to null lineups.
func BuildGame(in GameInput, ros *roster.Table) ([]model.Row, []model.Fault) {
	events := make([]model.Event, len(in.Events))
	copy(events, in.Events)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Period != events[j].Period {
			return events[i].Period < events[j].Period
		}
		return events[i].EventIdx < events[j].EventIdx
	})

	rows := make([]model.Row, len(events))
	for i, e := range events {
		rows[i] = model.Row{Event: e}
	}

	rows = strength.Annotate(rows)

	var faults []model.Fault
	if n := rink.Normalize(rows); n > 0 {
		faults = append(faults, model.Fault{
			GameID: in.GameID,
			Kind:   model.FaultSource,
			Detail: fmt.Sprintf("%d neutral-zone events with no inferable attacking direction", n),
		})
	}
	resolver, err := lineup.NewResolver(in.Shifts)
	if err != nil {
		lineup.NullFill(rows)
		faults = append(faults, model.Fault{
			GameID: in.GameID,
			Kind:   model.FaultSource,
			Detail: fmt.Sprintf("lineups unresolved: %v", err),
		})
	} else {
		faults = append(faults, resolver.Resolve(rows)...)
	}

	faults = append(faults, segment.Index(rows)...)
	strength.Derive(rows, ros)

	return rows, faults
}

// Build runs the batch. Games are independent units of work; a fault or
// panic inside one game never aborts its siblings. The final merge re-sorts
// by (game, period, event index) so output is deterministic regardless of
// completion order.
func Build(games []GameInput, ros *roster.Table, workers int, logger zerolog.Logger) *Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(games) {
		workers = len(games)
	}

	outputs := make([]gameOutput, len(games))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outputs[idx] = runGame(games[idx], ros, logger)
			}
		}()
	}
	for idx := range games {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	res := &Result{}
	for _, out := range outputs {
		res.Superset = append(res.Superset, out.rows...)
		res.Faults = append(res.Faults, out.faults...)
	}
	sort.SliceStable(res.Superset, func(i, j int) bool {
		a, b := &res.Superset[i], &res.Superset[j]
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.EventIdx < b.EventIdx
	})
	sort.SliceStable(res.Faults, func(i, j int) bool {
		return res.Faults[i].GameID < res.Faults[j].GameID
	})

	res.EV, res.PP, res.SH, res.EN = strength.Partitions(res.Superset)
	return res
}

type gameOutput struct {
	rows   []model.Row
	faults []model.Fault
}

// runGame is declared apart from Build so the deferred recover covers exactly
// one game's work.
func runGame(in GameInput, ros *roster.Table, logger zerolog.Logger) (out gameOutput) {
	gl := logger.With().Int("game_id", in.GameID).Logger()
	defer func() {
		if r := recover(); r != nil {
			gl.Error().Interface("panic", r).Msg("game reconstruction aborted")
			out.rows = nil
			out.faults = []model.Fault{{
				GameID: in.GameID,
				Kind:   model.FaultConfig,
				Detail: fmt.Sprintf("reconstruction aborted: %v", r),
			}}
		}
	}()

	rows, faults := BuildGame(in, ros)
	for _, f := range faults {
		gl.Warn().Str("kind", string(f.Kind)).Msg(f.Detail)
	}
	gl.Debug().Int("events", len(rows)).Int("faults", len(faults)).Msg("game reconstructed")

	out.rows = rows
	out.faults = faults
	return out
}
