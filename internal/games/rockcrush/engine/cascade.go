package engine

// Collapse lets every column fall independently: non-empty kinds drop to the
// bottom keeping their vertical order, then the vacated top cells are filled
// with fresh random kinds, bottom-most first. New tiles are not filtered
// against matches; gravity-made matches drive the cascade.
// Returns the refilled positions.
func Collapse(g *Grid, rng RandomSource, palette int) []Pos {
	n := g.n
	var filled []Pos

	for c := range n {
		write := n - 1
		for r := n - 1; r >= 0; r-- {
			if k := g.At(P(r, c)); k != Empty {
				g.Set(P(write, c), k)
				write--
			}
		}
		for r := write; r >= 0; r-- {
			g.Set(P(r, c), RandomKind(rng, palette))
			filled = append(filled, P(r, c))
		}
	}

	return filled
}

// Phase tags a cascade frame.
type Phase int

const (
	PhaseSwap Phase = iota
	PhaseClear
	PhaseDrop
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSwap:
		return "swap"
	case PhaseClear:
		return "clear"
	case PhaseDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Frame is an intermediate grid snapshot recorded while a swap settles.
// Hosts may replay frames at their own pace; the session state is already
// final when they are produced.
type Frame struct {
	Phase  Phase
	Round  int      // Cascade round, 1-based; 0 for the swap frame
	Grid   [][]Kind // Grid after this phase
	Cells  []Pos    // Swapped, cleared or refilled cells
	Points int      // Points awarded by a clear frame
}

// settle runs clear -> collapse rounds until a detection pass finds nothing.
// Must be called with s.mu held.
func (s *Session) settle(t *Turn) {
	for round := 1; ; round++ {
		m := FindMatches(s.grid)
		if m.None() {
			return
		}
		if s.cfg.MaxCascadeSteps > 0 && round > s.cfg.MaxCascadeSteps {
			s.stats.CascadeLimitHits++
			s.logger.Warn("cascade bound reached, grid left unsettled",
				"rounds", s.cfg.MaxCascadeSteps, "pending", m.Len())
			return
		}

		points := Clear(s.grid, m) * s.cfg.PointsPerTile
		s.score += points
		t.Points += points
		t.Rounds = round
		t.Frames = append(t.Frames, Frame{
			Phase:  PhaseClear,
			Round:  round,
			Grid:   s.grid.Rows(),
			Cells:  m.Cells,
			Points: points,
		})

		filled := Collapse(s.grid, s.rng, s.cfg.PaletteSize)
		t.Frames = append(t.Frames, Frame{
			Phase: PhaseDrop,
			Round: round,
			Grid:  s.grid.Rows(),
			Cells: filled,
		})
	}
}
