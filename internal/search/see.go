package search

import "github.com/corvid/chessplay-core/internal/board"

// see reports whether the capture sequence initiated by m nets at least
// threshold centipawns for the side to move, using iterative least-
// valuable-attacker swaps with X-ray re-exposure for sliders (§4.7).
// Grounded on the teacher's SEE/seeSwap/getLeastValuableAttacker
// (internal/engine/eval.go), adapted to the board/threshold signature.
func see(b *board.Board, m board.Move, threshold int) bool {
	from, to := m.From(), m.To()
	attacker := b.PieceAt(from)
	if attacker == board.Empty {
		return threshold <= 0
	}

	var gain int
	if m.IsEnPassant() {
		gain = board.PieceValue[board.Pawn]
	} else {
		victim := b.PieceAt(to)
		if victim == board.Empty {
			return threshold <= 0
		}
		gain = board.PieceValue[victim.Type()]
	}
	if m.IsPromotion() {
		gain += board.PieceValue[m.Promotion()] - board.PieceValue[board.Pawn]
	}

	return seeSwap(b, to, from, attacker, gain) >= threshold
}

func seeSwap(b *board.Board, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gains [32]int
	d := 0
	gains[d] = initialGain

	occ := b.AllOccupied &^ board.SquareBB(excludeFrom)
	attackerValue := board.PieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	var occludersCleared board.Bitboard

	for {
		d++
		gains[d] = attackerValue - gains[d-1]
		if max32(-gains[d-1], gains[d]) < 0 {
			break
		}

		sq, piece := leastValuableAttacker(b, target, side, occ&^occludersCleared)
		if sq == board.NoSquare {
			break
		}
		occludersCleared |= board.SquareBB(sq)
		attackerValue = board.PieceValue[piece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gains[d-1] = -max32(-gains[d-1], gains[d])
	}
	return gains[0]
}

// leastValuableAttacker finds side's cheapest piece attacking target given
// occ, recomputing slider attacks against occ so a capture that clears a
// blocker re-exposes the X-rayed attacker behind it.
func leastValuableAttacker(b *board.Board, target board.Square, side board.Color, occ board.Bitboard) (board.Square, board.Piece) {
	pawns := b.PieceBBOf(side, board.Pawn) & occ
	if a := pawns & board.PawnAttacks(target, side.Other()); a != 0 {
		sq := a.LSB()
		return sq, board.MakePiece(board.Pawn, side)
	}
	knights := b.PieceBBOf(side, board.Knight) & occ
	if a := knights & board.KnightAttacks(target); a != 0 {
		sq := a.LSB()
		return sq, board.MakePiece(board.Knight, side)
	}
	bishopAttacks := board.BishopAttacks(target, occ)
	if a := b.PieceBBOf(side, board.Bishop) & occ & bishopAttacks; a != 0 {
		sq := a.LSB()
		return sq, board.MakePiece(board.Bishop, side)
	}
	rookAttacks := board.RookAttacks(target, occ)
	if a := b.PieceBBOf(side, board.Rook) & occ & rookAttacks; a != 0 {
		sq := a.LSB()
		return sq, board.MakePiece(board.Rook, side)
	}
	if a := b.PieceBBOf(side, board.Queen) & occ & (bishopAttacks | rookAttacks); a != 0 {
		sq := a.LSB()
		return sq, board.MakePiece(board.Queen, side)
	}
	kings := b.PieceBBOf(side, board.King) & occ
	if a := kings & board.KingAttacks(target); a != 0 {
		sq := a.LSB()
		return sq, board.MakePiece(board.King, side)
	}
	return board.NoSquare, board.Empty
}

func max32(a, b int) int {
	if a > b {
		return a
	}
	return b
}
