package engine

import "testing"

func TestGridFromRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]Kind
		ok   bool
	}{
		{"square", [][]Kind{{1, 2}, {3, 4}}, true},
		{"empty", nil, false},
		{"ragged", [][]Kind{{1, 2}, {3}}, false},
		{"wide", [][]Kind{{1, 2, 3}, {1, 2, 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GridFromRows(tt.rows)
			if (g != nil) != tt.ok {
				t.Fatalf("GridFromRows() returned %v, want ok=%v", g, tt.ok)
			}
			if g != nil && !rowsEqual(g.Rows(), tt.rows) {
				t.Errorf("Rows() = %v, want %v", g.Rows(), tt.rows)
			}
		})
	}
}

func TestGridAccess(t *testing.T) {
	g := GridFromRows([][]Kind{
		{1, 2, 3},
		{4, 5, 1},
		{2, 3, 4},
	})

	if got := g.At(P(1, 2)); got != 1 {
		t.Errorf("At(1,2) = %d, want 1", got)
	}
	if got := g.At(P(-1, 0)); got != Empty {
		t.Errorf("At out of bounds = %d, want Empty", got)
	}
	if got := g.At(P(0, 3)); got != Empty {
		t.Errorf("At out of bounds = %d, want Empty", got)
	}

	g.Set(P(5, 5), 3) // ignored
	g.Swap(P(0, 0), P(2, 2))
	if g.At(P(0, 0)) != 4 || g.At(P(2, 2)) != 1 {
		t.Errorf("Swap did not exchange kinds: %v", g.Rows())
	}

	g.Set(P(1, 1), Empty)
	if got := g.EmptyCount(); got != 1 {
		t.Errorf("EmptyCount() = %d, want 1", got)
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := GridFromRows(stalemateBoard())
	c := g.Clone()
	if !g.Equal(c) {
		t.Fatal("clone should equal original")
	}

	c.Set(P(0, 0), 5)
	if g.At(P(0, 0)) != 1 {
		t.Error("modifying clone changed original")
	}
	if g.Equal(c) {
		t.Error("grids should differ after modification")
	}

	g.CopyFrom(c)
	if !g.Equal(c) {
		t.Error("CopyFrom should make grids equal")
	}

	rows := g.Rows()
	rows[1][1] = 5
	if g.At(P(1, 1)) == 5 {
		t.Error("Rows() should return a copy")
	}
}

func TestPosAdjacent(t *testing.T) {
	tests := []struct {
		a, b Pos
		want bool
	}{
		{P(0, 0), P(0, 1), true},
		{P(0, 0), P(1, 0), true},
		{P(3, 3), P(2, 3), true},
		{P(0, 0), P(0, 0), false},
		{P(0, 0), P(1, 1), false},
		{P(0, 0), P(0, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"-"+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Adjacent(tt.b); got != tt.want {
				t.Errorf("%v.Adjacent(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
