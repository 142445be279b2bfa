package engine

import "testing"

func TestGenerateHasNoRuns(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		palette int
	}{
		{"classic", 8, 5},
		{"small palette", 8, 3},
		{"large board", 12, 6},
		{"minimum board", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 25; seed++ {
				res := Generate(GenParams{
					Size:          tt.size,
					Palette:       tt.palette,
					MaxRetries:    50,
					MaxReshuffles: 100,
				}, NewRandom(seed))

				rows := res.Grid.Rows()
				if !FindMatches(res.Grid).None() || naiveHasRun(rows) {
					t.Fatalf("seed %d: generated grid has a run: %v", seed, rows)
				}
				if res.Grid.EmptyCount() != 0 {
					t.Fatalf("seed %d: generated grid has empty cells", seed)
				}
				for _, row := range rows {
					for _, k := range row {
						if k < 1 || int(k) > tt.palette {
							t.Fatalf("seed %d: kind %d outside palette", seed, k)
						}
					}
				}
			}
		})
	}
}

func TestGenerateForcedPlacement(t *testing.T) {
	res := Generate(GenParams{Size: 3, Palette: 3, MaxRetries: 2, MaxReshuffles: 0}, constRand(0))

	want := [][]Kind{
		{1, 1, 2},
		{1, 1, 2},
		{2, 2, 1},
	}
	if !rowsEqual(res.Grid.Rows(), want) {
		t.Errorf("grid = %v, want %v", res.Grid.Rows(), want)
	}
	if res.Forced != 4 {
		t.Errorf("Forced = %d, want 4", res.Forced)
	}
	if res.Reshuffles != 0 {
		t.Errorf("Reshuffles = %d, want 0", res.Reshuffles)
	}
	if !FindMatches(res.Grid).None() {
		t.Error("forced placements must not create runs")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := GenParams{Size: 8, Palette: 5, MaxRetries: 50, MaxReshuffles: 100}
	a := Generate(p, NewRandom(42))
	b := Generate(p, NewRandom(42))
	if !a.Grid.Equal(b.Grid) {
		t.Error("same seed should produce the same grid")
	}
}

func TestGenerateReshufflesStuckGrids(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		res := Generate(GenParams{Size: 8, Palette: 5, MaxRetries: 50, MaxReshuffles: 100}, NewRandom(seed))
		if !HasLegalMove(res.Grid) {
			t.Errorf("seed %d: generated grid has no legal move after %d reshuffles", seed, res.Reshuffles)
		}
	}
}
