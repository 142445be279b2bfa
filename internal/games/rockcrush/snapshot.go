package rockcrush

import (
	"fmt"

	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush/engine"
)

// Snapshot contains the game state needed to resume or compare a game.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick        uint64
	Mode        string
	Score       int
	MovesLeft   int
	MovesBudget int
	MovesUsed   int
	HighScore   int
	Status      int
	EndReason   int
	CursorRow   int
	CursorCol   int
	HintsUsed   int

	// Board kinds, flattened: row*size + col = index
	Size  int
	Board []int
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Mode: string(g.mode)}
	}
	st := g.session.Snapshot()

	size := len(st.Grid)
	board := make([]int, 0, size*size)
	for _, row := range st.Grid {
		for _, k := range row {
			board = append(board, int(k))
		}
	}

	return Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		Score:       st.Score,
		MovesLeft:   st.MovesLeft,
		MovesBudget: st.MovesBudget,
		MovesUsed:   st.MovesUsed,
		HighScore:   st.HighScore,
		Status:      int(st.Status),
		EndReason:   int(st.EndReason),
		CursorRow:   g.cursor.Row,
		CursorCol:   g.cursor.Col,
		HintsUsed:   g.hintsUsed,
		Size:        size,
		Board:       board,
	}
}

// ApplySnapshot restores game state from a snapshot taken in the same mode.
// Pending animations, hints and messages are dropped.
func (g *Game) ApplySnapshot(snap Snapshot) error {
	if g.session == nil {
		return fmt.Errorf("rockcrush: game not started")
	}
	if snap.Mode != string(g.mode) {
		return fmt.Errorf("rockcrush: snapshot mode %q, game mode %q", snap.Mode, g.mode)
	}
	if snap.Size <= 0 || len(snap.Board) != snap.Size*snap.Size {
		return fmt.Errorf("rockcrush: snapshot board has %d cells, want %d", len(snap.Board), snap.Size*snap.Size)
	}

	grid := make([][]engine.Kind, snap.Size)
	for r := range snap.Size {
		grid[r] = make([]engine.Kind, snap.Size)
		for c := range snap.Size {
			v := snap.Board[r*snap.Size+c]
			if v < 0 || v > 255 {
				return fmt.Errorf("rockcrush: snapshot kind %d out of range", v)
			}
			grid[r][c] = engine.Kind(v)
		}
	}

	err := g.session.Restore(engine.State{
		Grid:      grid,
		Score:     snap.Score,
		MovesLeft: snap.MovesLeft,
		MovesUsed: snap.MovesUsed,
		Status:    engine.Status(snap.Status),
		EndReason: engine.EndReason(snap.EndReason),
	})
	if err != nil {
		return fmt.Errorf("rockcrush: restore snapshot: %w", err)
	}

	last := snap.Size - 1
	g.tick = snap.Tick
	g.cursor = engine.P(core.Clamp(snap.CursorRow, 0, last), core.Clamp(snap.CursorCol, 0, last))
	g.hintsUsed = snap.HintsUsed
	g.paused = false
	g.frames = nil
	g.frameTicks = 0
	g.hint = nil
	g.hintTicks = 0
	g.message = ""
	g.messageTicks = 0
	return nil
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.MovesLeft) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.MovesUsed) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Status)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EndReason) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.CursorRow) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.CursorCol) //#nosec G115 -- hash computation

	for _, v := range snap.Board {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	return h
}
