package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/twinfield10/NHL-Data/internal/engine"
	"github.com/twinfield10/NHL-Data/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintGamesTable lists stored games.
func PrintGamesTable(w io.Writer, games []model.Game) {
	table := newTable(w)
	table.Header("GAME_ID", "DATE", "SEASON", "TYPE", "AWAY", "HOME")
	for _, g := range games {
		table.Append(
			strconv.Itoa(g.GameID),
			g.GameDate,
			strconv.Itoa(g.Season),
			g.SeasonType,
			g.AwayTeam,
			g.HomeTeam,
		)
	}
	table.Render()
}

// PrintBatchSummary prints per-game row counts across the four partitions.
func PrintBatchSummary(w io.Writer, res *engine.Result) {
	type counts struct {
		total, ev, pp, sh, en int
	}
	byGame := make(map[int]*counts)
	order := []int{}
	get := func(gameID int) *counts {
		c, ok := byGame[gameID]
		if !ok {
			c = &counts{}
			byGame[gameID] = c
			order = append(order, gameID)
		}
		return c
	}
	for i := range res.Superset {
		get(res.Superset[i].GameID).total++
	}
	for i := range res.EV {
		get(res.EV[i].GameID).ev++
	}
	for i := range res.PP {
		get(res.PP[i].GameID).pp++
	}
	for i := range res.SH {
		get(res.SH[i].GameID).sh++
	}
	for i := range res.EN {
		get(res.EN[i].GameID).en++
	}
	sort.Ints(order)

	table := newTable(w)
	table.Header("GAME_ID", "EVENTS", "EV", "PP", "SH", "EN", "FAULTS")
	faultCount := make(map[int]int)
	for _, f := range res.Faults {
		faultCount[f.GameID]++
	}
	for _, gameID := range order {
		c := byGame[gameID]
		table.Append(
			strconv.Itoa(gameID),
			strconv.Itoa(c.total),
			strconv.Itoa(c.ev),
			strconv.Itoa(c.pp),
			strconv.Itoa(c.sh),
			strconv.Itoa(c.en),
			strconv.Itoa(faultCount[gameID]),
		)
	}
	table.Render()

	fmt.Fprintf(w, "\n%d games  |  %d superset rows  |  EV %d  PP %d  SH %d  EN %d  |  %d faults\n",
		len(order), len(res.Superset), len(res.EV), len(res.PP), len(res.SH), len(res.EN), len(res.Faults))
	if bad := res.BadGames(); len(bad) > 0 {
		fmt.Fprintf(w, "games with source faults: %v\n", bad)
	}
}

// PrintFaultsTable lists fault records.
func PrintFaultsTable(w io.Writer, faults []model.Fault) {
	if len(faults) == 0 {
		fmt.Fprintln(w, "no faults recorded")
		return
	}
	table := newTable(w)
	table.Header("GAME_ID", "KIND", "DETAIL")
	for _, f := range faults {
		table.Append(strconv.Itoa(f.GameID), string(f.Kind), f.Detail)
	}
	table.Render()
}

// PrintGameSummary prints one game's segment and strength breakdown.
func PrintGameSummary(w io.Writer, gameID int, rows []model.Row) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "no rows for game %d\n", gameID)
		return
	}
	first := rows[0]
	fmt.Fprintf(w, "\nGame %d  |  %s  |  %s @ %s\n\n",
		gameID, first.GameDate, first.AwayTeam, first.HomeTeam)

	type periodStats struct {
		events, faceoffs, penalties int
		shiftLo, shiftHi            int
		strengths                   map[string]int
	}
	byPeriod := make(map[int]*periodStats)
	var periods []int
	for i := range rows {
		r := &rows[i]
		ps, ok := byPeriod[r.Period]
		if !ok {
			ps = &periodStats{shiftLo: r.ShiftIndexAll, strengths: make(map[string]int)}
			byPeriod[r.Period] = ps
			periods = append(periods, r.Period)
		}
		ps.events++
		if r.Type == model.EventFaceoff {
			ps.faceoffs++
		}
		if r.Type == model.EventPenalty {
			ps.penalties++
		}
		if r.ShiftIndexAll > ps.shiftHi {
			ps.shiftHi = r.ShiftIndexAll
		}
		if r.StrengthState != "" {
			ps.strengths[r.StrengthState]++
		}
	}
	sort.Ints(periods)

	table := newTable(w)
	table.Header("PERIOD", "EVENTS", "FACEOFFS", "PENALTIES", "SHIFT_SEGMENTS", "TOP_STRENGTH")
	for _, p := range periods {
		ps := byPeriod[p]
		table.Append(
			strconv.Itoa(p),
			strconv.Itoa(ps.events),
			strconv.Itoa(ps.faceoffs),
			strconv.Itoa(ps.penalties),
			strconv.Itoa(ps.shiftHi-ps.shiftLo+1),
			topStrength(ps.strengths),
		)
	}
	table.Render()
}

func topStrength(counts map[string]int) string {
	best, bestN := "", -1
	for s, n := range counts {
		if n > bestN || (n == bestN && s < best) {
			best, bestN = s, n
		}
	}
	if best == "" {
		return "-"
	}
	return best
}
