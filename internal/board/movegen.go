package board

// GenNoisy appends every pseudo-legal capture, en-passant capture and
// promotion to ml (§4.3, "genAllNoisyMoves"). Used both for the main
// search's move picker and for quiescence, which never looks past this
// stage.
func GenNoisy(b *Board, ml *MoveList) {
	us := b.Turn
	them := us.Other()
	enemies := b.Colours[them]
	occ := b.AllOccupied

	genPawnNoisy(b, ml, us, enemies, occ)

	for bb := b.PieceBBOf(us, Knight); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, KnightAttacks(from)&enemies, Normal)
	}
	for bb := b.PieceBBOf(us, Bishop); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, BishopAttacks(from, occ)&enemies, Normal)
	}
	for bb := b.PieceBBOf(us, Rook); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, RookAttacks(from, occ)&enemies, Normal)
	}
	for bb := b.PieceBBOf(us, Queen); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, QueenAttacks(from, occ)&enemies, Normal)
	}

	king := b.KingSquare[us]
	addTargets(ml, king, KingAttacks(king)&enemies, Normal)
}

// GenQuiet appends every pseudo-legal non-capture, non-promotion move to
// ml, including castling (§4.3, "genAllQuietMoves").
func GenQuiet(b *Board, ml *MoveList) {
	us := b.Turn
	occ := b.AllOccupied
	empty := ^occ

	genPawnQuiet(b, ml, us, empty)

	for bb := b.PieceBBOf(us, Knight); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, KnightAttacks(from)&empty, Normal)
	}
	for bb := b.PieceBBOf(us, Bishop); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, BishopAttacks(from, occ)&empty, Normal)
	}
	for bb := b.PieceBBOf(us, Rook); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, RookAttacks(from, occ)&empty, Normal)
	}
	for bb := b.PieceBBOf(us, Queen); bb != 0; {
		from := bb.PopLSB()
		addTargets(ml, from, QueenAttacks(from, occ)&empty, Normal)
	}

	king := b.KingSquare[us]
	addTargets(ml, king, KingAttacks(king)&empty, Normal)

	genCastling(b, us, ml)
}

func addTargets(ml *MoveList, from Square, targets Bitboard, _ MoveType) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(NewMove(from, to))
	}
}

func genPawnNoisy(b *Board, ml *MoveList, us Color, enemies, occ Bitboard) {
	pawns := b.PieceBBOf(us, Pawn)
	var attackL, attackR, pushPromo Bitboard
	var promoRank Bitboard
	var dir int
	empty := ^occ

	if us == White {
		attackL = pawns.northWest() & enemies
		attackR = pawns.northEast() & enemies
		pushPromo = pawns.north() & empty & Rank8
		promoRank = Rank8
		dir = 8
	} else {
		attackL = pawns.southWest() & enemies
		attackR = pawns.southEast() & enemies
		pushPromo = pawns.south() & empty & Rank1
		promoRank = Rank1
		dir = -8
	}

	for bb := attackL &^ promoRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-dir+1), to))
	}
	for bb := attackR &^ promoRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-dir-1), to))
	}
	for bb := attackL & promoRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-dir+1), to)
	}
	for bb := attackR & promoRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-dir-1), to)
	}
	for bb := pushPromo; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-dir), to)
	}

	if b.EPSquare != NoSquare {
		epBB := SquareBB(b.EPSquare)
		var attackers Bitboard
		if us == White {
			attackers = (epBB.southWest() | epBB.southEast()) & pawns
		} else {
			attackers = (epBB.northWest() | epBB.northEast()) & pawns
		}
		for attackers != 0 {
			from := attackers.PopLSB()
			ml.Add(NewEnPassant(from, b.EPSquare))
		}
	}
}

func genPawnQuiet(b *Board, ml *MoveList, us Color, empty Bitboard) {
	pawns := b.PieceBBOf(us, Pawn)
	var push1, push2, promoRank Bitboard
	var dir int

	if us == White {
		push1 = pawns.north() & empty
		push2 = (push1 & Rank3).north() & empty
		promoRank = Rank8
		dir = 8
	} else {
		push1 = pawns.south() & empty
		push2 = (push1 & Rank6).south() & empty
		promoRank = Rank1
		dir = -8
	}

	for bb := push1 &^ promoRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-dir), to))
	}
	for bb := push2; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*dir), to))
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// genCastling appends legal castling moves. Rook squares come from
// CastleRooks rather than hardcoded corners, so chess960 start squares
// work without special-casing (§4.3, "castling chess960-safe via
// castleRooks").
func genCastling(b *Board, us Color, ml *MoveList) {
	if b.InCheck() {
		return
	}
	them := us.Other()
	king := b.KingSquare[us]
	rank := king.Rank()
	rooks := b.CastleRooks & b.Colours[us]

	for side := 0; side < 2; side++ {
		kingside := side == 0
		var rookSq Square = NoSquare
		rr := rooks
		for rr != 0 {
			sq := rr.PopLSB()
			if kingside && sq > king {
				if rookSq == NoSquare || sq < rookSq {
					rookSq = sq
				}
			} else if !kingside && sq < king {
				if rookSq == NoSquare || sq > rookSq {
					rookSq = sq
				}
			}
		}
		if rookSq == NoSquare {
			continue
		}

		var kingTo, rookTo Square
		if kingside {
			kingTo, rookTo = NewSquare(6, rank), NewSquare(5, rank)
		} else {
			kingTo, rookTo = NewSquare(2, rank), NewSquare(3, rank)
		}

		if !castlePathClear(b, king, rookSq, kingTo, rookTo) {
			continue
		}
		if castlePathAttacked(b, them, king, kingTo) {
			continue
		}
		ml.Add(NewCastle(king, kingTo))
	}
}

// castlePathClear reports whether every square the king or rook must
// cross is empty, other than the squares the king and rook already
// occupy.
func castlePathClear(b *Board, king, rookSq, kingTo, rookTo Square) bool {
	occupiedMask := b.AllOccupied &^ (SquareBB(king) | SquareBB(rookSq))
	path := Between(king, kingTo) | SquareBB(kingTo) | Between(rookSq, rookTo) | SquareBB(rookTo)
	return path&occupiedMask == 0
}

// castlePathAttacked reports whether any square from the king's current
// square through its destination (inclusive) is attacked by them.
func castlePathAttacked(b *Board, them Color, king, kingTo Square) bool {
	path := Between(king, kingTo) | SquareBB(kingTo) | SquareBB(king)
	for path != 0 {
		sq := path.PopLSB()
		if b.SquareIsAttacked(sq, them) {
			return true
		}
	}
	return false
}

// castleRookFrom recovers the rook square a castle move touches: the
// unique CastleRooks entry on the matching side of the king's current
// square.
func (b *Board) castleRookFrom(us Color, kingFrom, kingTo Square) Square {
	kingside := kingTo > kingFrom
	rooks := b.CastleRooks & b.Colours[us]
	var rookSq Square = NoSquare
	for rooks != 0 {
		sq := rooks.PopLSB()
		if kingside && sq > kingFrom {
			if rookSq == NoSquare || sq < rookSq {
				rookSq = sq
			}
		} else if !kingside && sq < kingFrom {
			if rookSq == NoSquare || sq > rookSq {
				rookSq = sq
			}
		}
	}
	return rookSq
}

// GenLegal returns every legal move in the position, filtering pseudo-legal
// moves with make/unmake.
func GenLegal(b *Board) *MoveList {
	ml := &MoveList{}
	GenNoisy(b, ml)
	GenQuiet(b, ml)
	return filterLegal(b, ml)
}

func filterLegal(b *Board, ml *MoveList) *MoveList {
	out := &MoveList{}
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if IsLegal(b, m) {
			out.Add(m)
		}
	}
	return out
}

// IsLegal reports whether m leaves the mover's own king safe. Castling is
// accepted as validated at generation time; king moves are checked by an
// attack lookup on the destination; en-passant, moves of pinned pieces and
// any move made while in check are checked by applying and reverting them;
// every other move is accepted directly (§4.3, grounded on the teacher's
// IsLegal, stripped of its debug logging).
func IsLegal(b *Board, m Move) bool {
	us := b.Turn
	them := us.Other()
	from := m.From()
	king := b.KingSquare[us]

	if m.IsCastle() {
		return true // generation already validated the path and squares
	}

	if from == king {
		occ := b.AllOccupied &^ SquareBB(from)
		return b.AttackersOfColor(m.To(), them, occ) == 0
	}

	if m.IsEnPassant() {
		var undo Undo
		ApplyMove(b, m, &undo)
		attacked := b.SquareIsAttacked(king, them)
		UnapplyMove(b, m, &undo)
		return !attacked
	}

	// A pinned piece (or a piece blocking check) only matters if it moves
	// off the line it was defending.
	pinned := b.pinnedPieces(us)
	if pinned&SquareBB(from) == 0 && b.KingAttackers == 0 {
		return true
	}

	var undo Undo
	ApplyMove(b, m, &undo)
	attacked := b.SquareIsAttacked(king, them)
	UnapplyMove(b, m, &undo)
	return !attacked
}

// pinnedPieces returns the bitboard of c's pieces that are pinned to c's
// king by an enemy slider, found by x-raying through the first blocker on
// each ray from the king.
func (b *Board) pinnedPieces(c Color) Bitboard {
	king := b.KingSquare[c]
	them := c.Other()
	var pinned Bitboard

	sliders := (b.PieceBBOf(them, Bishop) | b.PieceBBOf(them, Queen)) & BishopAttacks(king, 0)
	sliders |= (b.PieceBBOf(them, Rook) | b.PieceBBOf(them, Queen)) & RookAttacks(king, 0)

	for sliders != 0 {
		sq := sliders.PopLSB()
		between := Between(king, sq) & b.AllOccupied
		if between.PopCount() == 1 && between&b.Colours[c] != 0 {
			pinned |= between
		}
	}
	return pinned
}

// MoveIsPseudoLegal reports whether m could plausibly be generated by
// GenNoisy/GenQuiet in the current position. Castles and non-en-passant
// pawn moves are checked by generating into a local move list and
// searching it; en-passant and other pieces' moves are checked against
// attack sets. External callers (a TT move replayed from a stale entry, a move
// string parsed off the wire) must be validated this way before being
// trusted (§4.3, §9 "moveIsPseudoLegal for castle moves").
func MoveIsPseudoLegal(b *Board, m Move) bool {
	if m == NoneMove || m == NullMove {
		return false
	}
	from, to := m.From(), m.To()
	piece := b.Squares[from]
	if piece == Empty || piece.Color() != b.Turn {
		return false
	}
	if b.Squares[to] != Empty && b.Squares[to].Color() == b.Turn {
		return false
	}

	switch m.Type() {
	case Castle:
		ml := &MoveList{}
		genCastling(b, b.Turn, ml)
		return ml.Contains(m)
	case EnPassant:
		if piece.Type() != Pawn || to != b.EPSquare {
			return false
		}
		return PawnAttacks(from, b.Turn)&SquareBB(to) != 0
	case Promotion:
		if piece.Type() != Pawn || to.RelativeRank(b.Turn) != 7 {
			return false
		}
	}

	switch piece.Type() {
	case Pawn:
		ml := &MoveList{}
		genPawnNoisy(b, ml, b.Turn, b.Colours[b.Turn.Other()], b.AllOccupied)
		genPawnQuiet(b, ml, b.Turn, ^b.AllOccupied)
		return ml.Contains(m)
	case Knight:
		return KnightAttacks(from)&SquareBB(to) != 0
	case Bishop:
		return BishopAttacks(from, b.AllOccupied)&SquareBB(to) != 0
	case Rook:
		return RookAttacks(from, b.AllOccupied)&SquareBB(to) != 0
	case Queen:
		return QueenAttacks(from, b.AllOccupied)&SquareBB(to) != 0
	case King:
		return KingAttacks(from)&SquareBB(to) != 0
	}
	return false
}
