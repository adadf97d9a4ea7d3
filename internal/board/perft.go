package board

// Perft counts the leaf nodes of the legal-move tree rooted at b to the
// given depth. It is the correctness oracle for the generator and
// make/unmake (§6, §8): any divergence from a known-good count pinpoints a
// legality or incremental-update bug.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := GenLegal(b)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	var undo Undo
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		ApplyMove(b, m, &undo)
		nodes += Perft(b, depth-1)
		UnapplyMove(b, m, &undo)
	}
	return nodes
}

// Divide prints no output itself; it returns the per-root-move leaf count,
// the standard debugging aid for isolating which root move's subtree
// diverges from a reference perft count.
func Divide(b *Board, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	moves := GenLegal(b)
	var undo Undo
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		ApplyMove(b, m, &undo)
		result[m.String()] = Perft(b, depth-1)
		UnapplyMove(b, m, &undo)
	}
	return result
}
