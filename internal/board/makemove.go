package board

// ApplyMove performs m on b and fills undo with everything UnapplyMove
// needs to reverse it in O(1). Captures (including en-passant) remove the
// victim before the mover's own piece is written, so placePiece/
// removePieceAt always see a consistent intermediate board.
//
// Fifty-move-rule bookkeeping (§9, resolved Open Question): a Normal move
// resets the counter on a pawn move or a capture and increments it
// otherwise; EnPassant and Promotion always reset it; Castle always
// increments it (no pawn moves, nothing is captured); NullMove increments
// it via ApplyNullMove.
func ApplyMove(b *Board, m Move, undo *Undo) {
	us := b.Turn
	them := us.Other()
	from, to := m.From(), m.To()

	undo.Hash = b.Hash
	undo.PawnKingHash = b.PawnKingHash
	undo.KingAttackers = b.KingAttackers
	undo.CastleRooks = b.CastleRooks
	undo.EPSquare = b.EPSquare
	undo.FiftyMoveRule = b.FiftyMoveRule
	undo.PSQTMidgame = b.PSQTMidgame
	undo.PSQTEndgame = b.PSQTEndgame
	undo.Captured = Empty
	undo.CapturedSq = NoSquare
	undo.CastleRookFrom = NoSquare

	piece := b.Squares[from]
	pt := piece.Type()
	oldCastleIdx := b.castleIndex()

	if b.EPSquare != NoSquare {
		b.Hash ^= zobristEPFile[b.EPSquare.File()]
	}
	b.EPSquare = NoSquare

	switch m.Type() {
	case EnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		captured := b.removePieceAt(capSq)
		undo.Captured = captured
		undo.CapturedSq = capSq
		b.Hash ^= zobristPieceKey[captured][capSq]
		b.PawnKingHash ^= zobristPieceKey[captured][capSq]

		b.movePieceSquares(from, to)
		b.Hash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[piece][to]
		b.PawnKingHash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[piece][to]

		b.FiftyMoveRule = 0

	case Castle:
		rookFrom := b.castleRookFrom(us, from, to)
		undo.CastleRookFrom = rookFrom
		rookTo := NewSquare(5, from.Rank())
		if to < from {
			rookTo = NewSquare(3, from.Rank())
		}
		rook := b.Squares[rookFrom]

		b.removePieceAt(from)
		if rookFrom != from {
			b.removePieceAt(rookFrom)
		}
		b.placePiece(piece, to)
		b.placePiece(rook, rookTo)

		b.Hash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[piece][to]
		b.Hash ^= zobristPieceKey[rook][rookFrom] ^ zobristPieceKey[rook][rookTo]
		b.PawnKingHash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[piece][to]

		b.FiftyMoveRule++

	case Promotion:
		if captured := b.Squares[to]; captured != Empty {
			b.removePieceAt(to)
			undo.Captured = captured
			undo.CapturedSq = to
			b.Hash ^= zobristPieceKey[captured][to]
		}
		b.removePieceAt(from)
		promoted := MakePiece(m.Promotion(), us)
		b.placePiece(promoted, to)

		b.Hash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[promoted][to]
		b.PawnKingHash ^= zobristPieceKey[piece][from]

		b.FiftyMoveRule = 0

	default: // Normal
		captured := Empty
		if b.Squares[to] != Empty {
			captured = b.removePieceAt(to)
			undo.Captured = captured
			undo.CapturedSq = to
			b.Hash ^= zobristPieceKey[captured][to]
			if captured.Type() == Pawn || captured.Type() == King {
				b.PawnKingHash ^= zobristPieceKey[captured][to]
			}
		}
		b.movePieceSquares(from, to)
		b.Hash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[piece][to]
		if pt == Pawn || pt == King {
			b.PawnKingHash ^= zobristPieceKey[piece][from] ^ zobristPieceKey[piece][to]
		}

		if pt == Pawn && absInt(int(to)-int(from)) == 16 {
			ep := Square((int(from) + int(to)) / 2)
			b.EPSquare = ep
			b.Hash ^= zobristEPFile[ep.File()]
		}

		if pt == Pawn || captured != Empty {
			b.FiftyMoveRule = 0
		} else {
			b.FiftyMoveRule++
		}
	}

	b.CastleRooks &^= b.CastleMasks[from] | b.CastleMasks[to]

	newCastleIdx := b.castleIndex()
	if newCastleIdx != oldCastleIdx {
		b.Hash ^= zobristCastle[oldCastleIdx] ^ zobristCastle[newCastleIdx]
	}

	b.Hash ^= zobristTurnKey
	b.Turn = them
	if us == Black {
		b.FullMoveCounter++
	}
	b.updateKingAttackers()

	if b.numMoves < MaxHeight {
		b.History[b.numMoves] = b.Hash
	}
	b.numMoves++
}

// UnapplyMove reverses the effect of ApplyMove(b, m, undo). Square
// occupancy is rewound by replaying the inverse piece movement; every
// scalar (hashes, castling rights, PSQT totals, king attackers) is then
// restored verbatim from undo rather than re-derived, since undo already
// holds the exact pre-move values.
func UnapplyMove(b *Board, m Move, undo *Undo) {
	them := b.Turn
	us := them.Other()
	from, to := m.From(), m.To()

	b.numMoves--

	switch m.Type() {
	case EnPassant:
		b.movePieceSquares(to, from)
		if undo.Captured != Empty {
			b.placePiece(undo.Captured, undo.CapturedSq)
		}

	case Castle:
		rookTo := NewSquare(5, from.Rank())
		if to < from {
			rookTo = NewSquare(3, from.Rank())
		}
		king := b.Squares[to]
		rook := b.Squares[rookTo]
		b.removePieceAt(to)
		if rookTo != to {
			b.removePieceAt(rookTo)
		}
		b.placePiece(king, from)
		b.placePiece(rook, undo.CastleRookFrom)

	case Promotion:
		b.removePieceAt(to)
		b.placePiece(MakePiece(Pawn, us), from)
		if undo.Captured != Empty {
			b.placePiece(undo.Captured, undo.CapturedSq)
		}

	default: // Normal
		b.movePieceSquares(to, from)
		if undo.Captured != Empty {
			b.placePiece(undo.Captured, undo.CapturedSq)
		}
	}

	b.Turn = us
	if us == Black {
		b.FullMoveCounter--
	}
	b.Hash = undo.Hash
	b.PawnKingHash = undo.PawnKingHash
	b.KingAttackers = undo.KingAttackers
	b.CastleRooks = undo.CastleRooks
	b.EPSquare = undo.EPSquare
	b.FiftyMoveRule = undo.FiftyMoveRule
	b.PSQTMidgame = undo.PSQTMidgame
	b.PSQTEndgame = undo.PSQTEndgame
}

// ApplyNullMove passes the turn without moving a piece, used by null-move
// pruning. Only the turn, en-passant square and fifty-move counter change;
// king attackers stay empty since a side is never in check when its
// opponent is given a free move (the caller must not invoke this while
// b.InCheck()).
func ApplyNullMove(b *Board, undo *Undo) {
	undo.Hash = b.Hash
	undo.EPSquare = b.EPSquare
	undo.FiftyMoveRule = b.FiftyMoveRule
	undo.KingAttackers = b.KingAttackers

	if b.EPSquare != NoSquare {
		b.Hash ^= zobristEPFile[b.EPSquare.File()]
		b.EPSquare = NoSquare
	}
	b.Hash ^= zobristTurnKey
	b.Turn = b.Turn.Other()
	b.FiftyMoveRule++
	b.KingAttackers = 0

	if b.numMoves < MaxHeight {
		b.History[b.numMoves] = b.Hash
	}
	b.numMoves++
}

// UnapplyNullMove reverses ApplyNullMove.
func UnapplyNullMove(b *Board, undo *Undo) {
	b.numMoves--
	b.Turn = b.Turn.Other()
	b.Hash = undo.Hash
	b.EPSquare = undo.EPSquare
	b.FiftyMoveRule = undo.FiftyMoveRule
	b.KingAttackers = undo.KingAttackers
}

// IsRepetition reports whether the current position has occurred earlier
// in the game since the last capture or pawn move, scanning the history
// ring back at most FiftyMoveRule plies. History[numMoves-1] holds the
// current position, so same-side-to-move positions sit at even offsets
// behind it.
func (b *Board) IsRepetition() bool {
	limit := b.FiftyMoveRule
	if limit > b.numMoves-1 {
		limit = b.numMoves - 1
	}
	for i := 2; i <= limit; i += 2 {
		if b.History[b.numMoves-1-i] == b.Hash {
			return true
		}
	}
	return false
}
