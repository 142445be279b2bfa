package engine

// GenParams configures grid generation.
type GenParams struct {
	Size          int // Grid dimension N
	Palette       int // Number of kinds
	MaxRetries    int // Redraws per cell before a forced placement
	MaxReshuffles int // Regenerations allowed while the grid has no legal move
}

// GenResult is a generated grid plus diagnostics.
type GenResult struct {
	Grid       *Grid
	Forced     int // Cells placed past the retry cap
	Reshuffles int // Whole-grid regenerations due to no legal move
}

// Generate fills a fresh grid in row-major order so that no run of MinRun
// exists. Each cell is redrawn while it would complete a run with the two
// cells to its left or the two cells above it. After MaxRetries redraws the
// lowest kind that completes no run is forced in.
//
// A grid with no legal move is regenerated up to MaxReshuffles times; if every
// attempt is stuck the last grid is returned and the session's analysis ends
// the game.
func Generate(p GenParams, rng RandomSource) GenResult {
	res := GenResult{Grid: NewGrid(p.Size)}
	for {
		res.Forced += fill(res.Grid, p, rng)
		if HasLegalMove(res.Grid) || res.Reshuffles >= p.MaxReshuffles {
			return res
		}
		res.Reshuffles++
	}
}

// fill overwrites every cell of g and returns the number of forced placements.
func fill(g *Grid, p GenParams, rng RandomSource) int {
	forced := 0
	for r := range g.n {
		for c := range g.n {
			pos := P(r, c)
			k := RandomKind(rng, p.Palette)
			for tries := 0; completesRun(g, pos, k); tries++ {
				if tries >= p.MaxRetries {
					k = safeKind(g, pos, p.Palette)
					forced++
					break
				}
				k = RandomKind(rng, p.Palette)
			}
			g.Set(pos, k)
		}
	}
	return forced
}

// completesRun reports whether placing k at p would finish a run with the
// two preceding cells in its row or its column.
func completesRun(g *Grid, p Pos, k Kind) bool {
	if p.Col >= 2 && g.At(P(p.Row, p.Col-1)) == k && g.At(P(p.Row, p.Col-2)) == k {
		return true
	}
	if p.Row >= 2 && g.At(P(p.Row-1, p.Col)) == k && g.At(P(p.Row-2, p.Col)) == k {
		return true
	}
	return false
}

// safeKind returns the lowest kind that completes no run at p.
// At most two kinds are excluded, so any palette of three or more has one;
// smaller palettes fall back to kind 1.
func safeKind(g *Grid, p Pos, palette int) Kind {
	for k := Kind(1); int(k) <= palette; k++ {
		if !completesRun(g, p, k) {
			return k
		}
	}
	return 1
}
