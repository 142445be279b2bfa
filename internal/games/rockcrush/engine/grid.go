package engine

// Grid is a square board of kinds stored in row-major order: index = row*N + col.
type Grid struct {
	n     int
	cells []Kind
}

// NewGrid creates an n×n grid with every cell Empty.
func NewGrid(n int) *Grid {
	return &Grid{
		n:     n,
		cells: make([]Kind, n*n),
	}
}

// GridFromRows builds a grid from a square matrix of kinds.
// Returns nil if rows is empty or not square.
func GridFromRows(rows [][]Kind) *Grid {
	n := len(rows)
	if n == 0 {
		return nil
	}
	g := NewGrid(n)
	for r, row := range rows {
		if len(row) != n {
			return nil
		}
		copy(g.cells[r*n:(r+1)*n], row)
	}
	return g
}

// Size returns the grid dimension N.
func (g *Grid) Size() int {
	return g.n
}

func (g *Grid) index(p Pos) int {
	return p.Row*g.n + p.Col
}

// InBounds returns true if the position lies inside the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.n && p.Col >= 0 && p.Col < g.n
}

// At returns the kind at p, or Empty when p is out of bounds.
func (g *Grid) At(p Pos) Kind {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[g.index(p)]
}

// Set stores k at p. Out-of-bounds positions are ignored.
func (g *Grid) Set(p Pos, k Kind) {
	if g.InBounds(p) {
		g.cells[g.index(p)] = k
	}
}

// Swap exchanges the kinds at a and b.
func (g *Grid) Swap(a, b Pos) {
	ia, ib := g.index(a), g.index(b)
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Kind, len(g.cells))
	copy(cells, g.cells)
	return &Grid{n: g.n, cells: cells}
}

// CopyFrom overwrites g with the contents of other. Both must have the same size.
func (g *Grid) CopyFrom(other *Grid) {
	copy(g.cells, other.cells)
}

// Equal returns true if both grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.n != other.n {
		return false
	}
	for i, k := range g.cells {
		if k != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy of the grid as a matrix, for rendering and snapshots.
func (g *Grid) Rows() [][]Kind {
	rows := make([][]Kind, g.n)
	for r := range rows {
		rows[r] = make([]Kind, g.n)
		copy(rows[r], g.cells[r*g.n:(r+1)*g.n])
	}
	return rows
}

// EmptyCount returns the number of Empty cells.
func (g *Grid) EmptyCount() int {
	count := 0
	for _, k := range g.cells {
		if k == Empty {
			count++
		}
	}
	return count
}
