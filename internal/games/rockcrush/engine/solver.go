// SwapMatches returns the matches g would contain after swapping m. scratch
// receives the swapped copy and must be the same size as g; g is untouched.
func SwapMatches(g, scratch *Grid, m Move) Matches {
	scratch.CopyFrom(g)
	scratch.Swap(m.A, m.B)
	return FindMatches(scratch)
}

// CanSwap reports whether swapping m would produce at least one match.
func CanSwap(g, scratch *Grid, m Move) bool {
	return !SwapMatches(g, scratch, m).None()
}

// LegalMoves enumerates every horizontal neighbour pair (row-major), then every
// vertical neighbour pair, and returns those whose swap produces a match.
func LegalMoves(g *Grid) []Move {
	return legalMoves(g, 0)
}

// HasLegalMove reports whether at least one swap produces a match.
func HasLegalMove(g *Grid) bool {
	return len(legalMoves(g, 1)) > 0
}

// legalMoves stops after limit moves when limit > 0.
func legalMoves(g *Grid, limit int) []Move {
	n := g.n
	scratch := g.Clone()
	var moves []Move

	try := func(m Move) bool {
		scratch.Swap(m.A, m.B)
		ok := !FindMatches(scratch).None()
		scratch.Swap(m.A, m.B)
		if ok {
			moves = append(moves, m)
		}
		return limit > 0 && len(moves) >= limit
	}

	for r := range n {
		for c := 0; c < n-1; c++ {
			if try(Move{A: P(r, c), B: P(r, c+1)}) {
				return moves
			}
		}
	}
	for r := 0; r < n-1; r++ {
		for c := range n {
			if try(Move{A: P(r, c), B: P(r+1, c)}) {
				return moves
			}
		}
	}
	return moves
}
