package engine

import (
	"math/rand"
	"testing"
)

// scriptRand returns queued values first, then falls back to a seeded source.
type scriptRand struct {
	queue []int
	rng   *rand.Rand
}

func newScriptRand(seed int64) *scriptRand {
	return &scriptRand{rng: NewRandom(seed)}
}

func (s *scriptRand) push(vals ...int) {
	s.queue = append(s.queue, vals...)
}

func (s *scriptRand) Intn(n int) int {
	if len(s.queue) > 0 {
		v := s.queue[0]
		s.queue = s.queue[1:]
		return v % n
	}
	return s.rng.Intn(n)
}

// constRand always returns the same value.
type constRand int

func (c constRand) Intn(n int) int {
	return int(c) % n
}

// kinds converts kind numbers to draw values (kind-1) for scriptRand.
func kinds(ks ...Kind) []int {
	vals := make([]int, len(ks))
	for i, k := range ks {
		vals[i] = int(k) - 1
	}
	return vals
}

func testConfig(size, palette int) Config {
	cfg := DefaultConfig()
	cfg.GridSize = size
	cfg.PaletteSize = palette
	return cfg
}

// newTestSession creates a session and, when rows is non-nil, installs that board.
func newTestSession(t *testing.T, cfg Config, rows [][]Kind, opts ...Option) (*Session, *scriptRand) {
	t.Helper()

	rng := newScriptRand(1)
	s, err := New(cfg, rng, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if rows != nil {
		err := s.Restore(State{Grid: rows, MovesLeft: cfg.MovesBudget, Status: StatusPlaying})
		if err != nil {
			t.Fatalf("Restore() error: %v", err)
		}
	}
	return s, rng
}

// naiveHasRun checks every window of three cells, independently of FindMatches.
func naiveHasRun(rows [][]Kind) bool {
	n := len(rows)
	for r := range n {
		for c := range n {
			k := rows[r][c]
			if k == Empty {
				continue
			}
			if c+2 < n && rows[r][c+1] == k && rows[r][c+2] == k {
				return true
			}
			if r+2 < n && rows[r+1][c] == k && rows[r+2][c] == k {
				return true
			}
		}
	}
	return false
}

// naiveLegalCount counts adjacent swaps that create a run, by brute force.
func naiveLegalCount(rows [][]Kind) int {
	n := len(rows)
	count := 0
	try := func(r1, c1, r2, c2 int) {
		rows[r1][c1], rows[r2][c2] = rows[r2][c2], rows[r1][c1]
		if naiveHasRun(rows) {
			count++
		}
		rows[r1][c1], rows[r2][c2] = rows[r2][c2], rows[r1][c1]
	}
	for r := range n {
		for c := range n {
			if c+1 < n {
				try(r, c, r, c+1)
			}
			if r+1 < n {
				try(r, c, r+1, c)
			}
		}
	}
	return count
}

func rowsEqual(a, b [][]Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		if len(a[r]) != len(b[r]) {
			return false
		}
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

// stalemateBoard has no runs and no swap that creates one.
func stalemateBoard() [][]Kind {
	return [][]Kind{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{1, 2, 3, 4},
		{3, 4, 1, 2},
	}
}

// singleMoveBoard has exactly one legal move: (1,0)<->(1,1).
func singleMoveBoard() [][]Kind {
	return [][]Kind{
		{1, 2, 3, 4},
		{3, 1, 5, 2},
		{1, 2, 3, 4},
		{3, 4, 1, 2},
	}
}

// swapBoard completes a bottom-row run of 3s when (3,2) and (3,3) swap.
func swapBoard() [][]Kind {
	return [][]Kind{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{1, 2, 3, 4},
		{3, 3, 1, 3},
	}
}

// chainBoard clears a run of 3s on swapping (3,2) and (3,3); the drop then
// lines up three 5s on the bottom row.
func chainBoard() [][]Kind {
	return [][]Kind{
		{1, 2, 1, 2},
		{2, 1, 2, 1},
		{4, 5, 5, 4},
		{3, 3, 5, 3},
	}
}
