// Package engine implements the Rock Crush tile-matching rules: grid
// generation, swap validation, match resolution, cascades and solvability
// analysis. It is UI-agnostic and deterministic for a given RandomSource.
package engine

import (
	"errors"
	"fmt"
)

// Kind identifies a tile's matching category.
// Empty marks a cell mid-cascade; palette kinds are 1..PaletteSize.
type Kind uint8

// Empty is the sentinel for a cell with no tile assigned.
const Empty Kind = 0

// Pos addresses a cell by row and column (0-indexed, row 0 at the top).
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Manhattan returns the Manhattan distance to another position.
func (p Pos) Manhattan(other Pos) int {
	dr := p.Row - other.Row
	dc := p.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Adjacent reports whether other is exactly one row or one column away.
func (p Pos) Adjacent(other Pos) bool {
	return p.Manhattan(other) == 1
}

// Move is a proposed exchange of kinds between two adjacent cells.
type Move struct {
	A Pos
	B Pos
}

// String returns a string representation of the move.
func (m Move) String() string {
	return fmt.Sprintf("%v<->%v", m.A, m.B)
}

// Status is the lifecycle state of a session.
type Status int

const (
	StatusNotStarted Status = iota
	StatusPlaying
	StatusGameOver
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusPlaying:
		return "playing"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// EndReason explains why a session reached StatusGameOver.
type EndReason int

const (
	EndNone EndReason = iota
	EndStalemate
	EndOutOfMoves
)

// String returns a human-readable name for the end reason.
func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndStalemate:
		return "stalemate"
	case EndOutOfMoves:
		return "out_of_moves"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidMove is returned for out-of-range, identical or non-adjacent coordinates.
	ErrInvalidMove = errors.New("engine: invalid move")

	// ErrGameOver is returned when a swap is attempted after the session ended.
	ErrGameOver = errors.New("engine: game over")

	// ErrBusy is returned when a swap or reset arrives while a cascade is settling.
	ErrBusy = errors.New("engine: cascade in progress")

	// ErrInvalidConfig is returned by New and Restore for unusable parameters.
	ErrInvalidConfig = errors.New("engine: invalid config")
)
