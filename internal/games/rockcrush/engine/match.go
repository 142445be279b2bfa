package engine

// MinRun is the shortest line of identical kinds that counts as a match.
const MinRun = 3

// Run is a maximal horizontal or vertical line of at least MinRun identical kinds.
type Run struct {
	Start      Pos
	Length     int
	Horizontal bool
	Kind       Kind
}

// Cells returns the positions covered by the run.
func (r Run) Cells() []Pos {
	cells := make([]Pos, r.Length)
	for i := range r.Length {
		if r.Horizontal {
			cells[i] = P(r.Start.Row, r.Start.Col+i)
		} else {
			cells[i] = P(r.Start.Row+i, r.Start.Col)
		}
	}
	return cells
}

// Matches is the result of one detection pass.
// Cells holds every matched position exactly once, in row-major order,
// so a cell shared by a horizontal and a vertical run is counted once.
type Matches struct {
	Runs  []Run
	Cells []Pos
}

// None returns true if the pass found no runs.
func (m Matches) None() bool {
	return len(m.Cells) == 0
}

// Len returns the number of unique matched cells.
func (m Matches) Len() int {
	return len(m.Cells)
}

// FindMatches scans rows left to right, then columns top to bottom, and
// returns every run of MinRun or more identical non-empty kinds.
// The grid is not modified.
func FindMatches(g *Grid) Matches {
	n := g.n
	marked := make([]bool, n*n)
	var runs []Run

	for r := range n {
		start := 0
		for c := 1; c <= n; c++ {
			if c < n && g.At(P(r, c)) == g.At(P(r, start)) {
				continue
			}
			if k := g.At(P(r, start)); k != Empty && c-start >= MinRun {
				run := Run{Start: P(r, start), Length: c - start, Horizontal: true, Kind: k}
				runs = append(runs, run)
				markRun(g, marked, run)
			}
			start = c
		}
	}

	for c := range n {
		start := 0
		for r := 1; r <= n; r++ {
			if r < n && g.At(P(r, c)) == g.At(P(start, c)) {
				continue
			}
			if k := g.At(P(start, c)); k != Empty && r-start >= MinRun {
				run := Run{Start: P(start, c), Length: r - start, Horizontal: false, Kind: k}
				runs = append(runs, run)
				markRun(g, marked, run)
			}
			start = r
		}
	}

	if len(runs) == 0 {
		return Matches{}
	}

	cells := make([]Pos, 0, len(marked))
	for i, hit := range marked {
		if hit {
			cells = append(cells, P(i/n, i%n))
		}
	}
	return Matches{Runs: runs, Cells: cells}
}

func markRun(g *Grid, marked []bool, run Run) {
	for _, p := range run.Cells() {
		marked[g.index(p)] = true
	}
}

// Clear sets every matched cell to Empty and returns how many cells were cleared.
func Clear(g *Grid, m Matches) int {
	for _, p := range m.Cells {
		g.Set(p, Empty)
	}
	return len(m.Cells)
}
