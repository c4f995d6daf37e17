// Package roster holds the immutable player reference table for a batch:
// position and handedness lookups shared read-only across per-game tasks.
package roster

import "github.com/twinfield10/NHL-Data/internal/model"

// Table is a read-only player lookup built once per batch.
type Table struct {
	players map[int64]model.Player
}

// NewTable indexes roster entries by player ID. Later entries for the same
// player win, so callers should append newer seasons last.
func NewTable(players []model.Player) *Table {
	m := make(map[int64]model.Player, len(players))
	for _, p := range players {
		m[p.ID] = p
	}
	return &Table{players: m}
}

// Empty returns a table with no players; every lookup misses.
func Empty() *Table { return &Table{players: map[int64]model.Player{}} }

// Lookup returns the roster entry for id.
func (t *Table) Lookup(id int64) (model.Player, bool) {
	p, ok := t.players[id]
	return p, ok
}

// Shoots returns the player's handedness ("L" or "R"), or "" when unknown.
func (t *Table) Shoots(id int64) string {
	return t.players[id].Shoots
}

// IsGoalie reports whether id is rostered as a goaltender.
func (t *Table) IsGoalie(id int64) bool {
	return t.players[id].IsGoalie()
}

// GoalieIDs returns the set of rostered goaltenders, used to split shift
// intervals into skater and goalie buckets.
func (t *Table) GoalieIDs() map[int64]bool {
	ids := make(map[int64]bool)
	for id, p := range t.players {
		if p.IsGoalie() {
			ids[id] = true
		}
	}
	return ids
}

// Len returns the number of players in the table.
func (t *Table) Len() int { return len(t.players) }
