package board

// Piece-square tables feeding the incrementally maintained PSQTMidgame/
// PSQTEndgame running totals (§3 invariant 5). Literal tables are written
// White-to-move, rank 8 first, matching how they read on a printed board;
// squareTable folds that into direct Square indexing at init.
//
// Non-king pieces carry a single positional table reused for both phases;
// only the king tapers between a shelter-seeking midgame table and an
// active endgame table, same split the static evaluator uses for king
// safety versus king activity.
var (
	pawnPST = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightPST = [64]int{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	bishopPST = [64]int{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	rookPST = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	}
	queenPST = [64]int{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	kingMidgamePST = [64]int{
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	}
	kingEndgamePST = [64]int{
		-50, -40, -30, -20, -20, -30, -40, -50,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-50, -30, -30, -30, -30, -30, -30, -50,
	}
)

// psqtMG/psqtEG are the literal tables above, re-indexed by Square (A1=0)
// and combined with PieceValue so PSQTValue is a single array read.
var (
	psqtMG [6][64]int32
	psqtEG [6][64]int32
)

func init() {
	squareTable := func(literal [64]int) [64]int32 {
		var out [64]int32
		for sq := A1; sq <= H8; sq++ {
			rank, file := sq.Rank(), sq.File()
			out[sq] = int32(literal[(7-rank)*8+file])
		}
		return out
	}

	flat := map[PieceType][64]int{
		Pawn: pawnPST, Knight: knightPST, Bishop: bishopPST, Rook: rookPST, Queen: queenPST,
	}
	for pt, table := range flat {
		t := squareTable(table)
		for sq := A1; sq <= H8; sq++ {
			psqtMG[pt][sq] = int32(PieceValue[pt]) + t[sq]
			psqtEG[pt][sq] = int32(PieceValue[pt]) + t[sq]
		}
	}

	mgKing, egKing := squareTable(kingMidgamePST), squareTable(kingEndgamePST)
	for sq := A1; sq <= H8; sq++ {
		psqtMG[King][sq] = mgKing[sq]
		psqtEG[King][sq] = egKing[sq]
	}
}

// PSQTValue returns the piece-square contribution of p standing on sq, from
// White's point of view: a Black piece's square is mirrored for the table
// lookup and the result is negated here.
func PSQTValue(p Piece, sq Square) (mg, eg int32) {
	pt := p.Type()
	s := sq
	if p.Color() == Black {
		s = sq.Mirror()
	}
	mg, eg = psqtMG[pt][s], psqtEG[pt][s]
	if p.Color() == Black {
		return -mg, -eg
	}
	return mg, eg
}
