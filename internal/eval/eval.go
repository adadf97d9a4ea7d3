// Package eval implements the tapered static evaluator (§4.4): material
// and piece-square terms come straight off the incrementally maintained
// Board.PSQTMidgame/PSQTEndgame fields; the pawn-structure term (with
// passed pawns) is cached per pawn-king hash, and mobility, king safety,
// bishop pair and rook files are computed fresh on every call.
package eval

import (
	"github.com/corvid/chessplay-core/internal/board"
)

// Classical bonus/penalty constants, grounded on the teacher's
// internal/engine/eval.go tuning tables (_examples/hailam-chessplay).
const (
	bishopPairMgBonus = 25
	bishopPairEgBonus = 50

	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15

	doubledPawnMgPenalty  = -15
	doubledPawnEgPenalty  = -20
	isolatedPawnMgPenalty = -20
	isolatedPawnEgPenalty = -25

	tempoBonus = 10

	maxPhase = 24
)

var mobilityMgWeight = [6]int32{0, 4, 5, 2, 1, 0}
var mobilityEgWeight = [6]int32{0, 3, 4, 4, 2, 0}
var attackerWeight = [6]int32{0, 20, 20, 40, 80, 0}
var passedPawnBonus = [8]int32{0, 10, 20, 40, 70, 120, 200, 0}

var phaseWeight = [6]int32{0, 1, 1, 2, 4, 0}

// EvalInfo carries the attack bitboards built while evaluating, reused by
// quiescence search for delta-pruning and SEE-adjacent pruning decisions
// (§4.4, "EvalInfo with attacked[2]/attackedBy2[2]").
type EvalInfo struct {
	Attacked     [2]board.Bitboard
	AttackedBy2  [2]board.Bitboard
}

// Evaluate returns the tapered static evaluation of b from the
// side-to-move's perspective, using ptable to cache the pawn-structure
// term across calls that share a pawn-king hash.
func Evaluate(b *board.Board, ei *EvalInfo, ptable *PawnKingTable) int32 {
	mg := b.PSQTMidgame
	eg := b.PSQTEndgame
	phase := gamePhase(b)

	pawnMG, pawnEG := pawnStructure(b, ptable)
	mg += pawnMG
	eg += pawnEG

	mobMG, mobEG := mobility(b, ei)
	mg += mobMG
	eg += mobEG

	mg += kingSafety(b)

	bpMG, bpEG := bishopPair(b)
	mg += bpMG
	eg += bpEG

	rfMG, rfEG := rookFiles(b)
	mg += rfMG
	eg += rfEG

	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if b.Turn == board.Black {
		score = -score
	}
	score += tempoBonus
	return score
}

func gamePhase(b *board.Board) int32 {
	phase := int32(0)
	for pt := board.Knight; pt <= board.Queen; pt++ {
		phase += phaseWeight[pt] * int32(b.PieceBB[pt].PopCount())
	}
	if phase > maxPhase {
		phase = maxPhase
	}
	return phase
}

// mobility counts safe destination squares per piece (excluding squares
// defended by an enemy pawn or occupied by a friendly piece) and also
// fills ei's attack bitboards, since both walk the same attack sets.
func mobility(b *board.Board, ei *EvalInfo) (mg, eg int32) {
	occ := b.AllOccupied
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		them := c.Other()
		enemyPawns := b.PieceBBOf(them, board.Pawn)
		var unsafe board.Bitboard
		if c == board.White {
			unsafe = shiftSE(enemyPawns) | shiftSW(enemyPawns)
		} else {
			unsafe = shiftNE(enemyPawns) | shiftNW(enemyPawns)
		}
		blocked := unsafe | b.Colours[c]

		var attacked, attacked2 board.Bitboard
		addAttacks := func(pt board.PieceType, from board.Square, attacks board.Bitboard) {
			attacked2 |= attacked & attacks
			attacked |= attacks
			safe := attacks &^ blocked
			n := int32(safe.PopCount())
			mg += sign * mobilityMgWeight[pt] * n
			eg += sign * mobilityEgWeight[pt] * n
		}

		for bb := b.PieceBBOf(c, board.Knight); bb != 0; {
			sq := bb.PopLSB()
			addAttacks(board.Knight, sq, board.KnightAttacks(sq))
		}
		for bb := b.PieceBBOf(c, board.Bishop); bb != 0; {
			sq := bb.PopLSB()
			addAttacks(board.Bishop, sq, board.BishopAttacks(sq, occ))
		}
		for bb := b.PieceBBOf(c, board.Rook); bb != 0; {
			sq := bb.PopLSB()
			addAttacks(board.Rook, sq, board.RookAttacks(sq, occ))
		}
		for bb := b.PieceBBOf(c, board.Queen); bb != 0; {
			sq := bb.PopLSB()
			addAttacks(board.Queen, sq, board.QueenAttacks(sq, occ))
		}
		if ei != nil {
			ei.Attacked[c] = attacked
			ei.AttackedBy2[c] = attacked2
		}
	}
	return mg, eg
}

func kingSafety(b *board.Board) int32 {
	var score int32
	occ := b.AllOccupied
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		enemy := c.Other()
		king := b.KingSquare[c]
		zone := board.KingAttacks(king) | board.SquareBB(king)
		if c == board.White {
			zone |= shiftN(zone)
		} else {
			zone |= shiftS(zone)
		}

		var weight int32
		for bb := b.PieceBBOf(enemy, board.Knight); bb != 0; {
			sq := bb.PopLSB()
			if board.KnightAttacks(sq)&zone != 0 {
				weight += attackerWeight[board.Knight]
			}
		}
		for bb := b.PieceBBOf(enemy, board.Bishop); bb != 0; {
			sq := bb.PopLSB()
			if board.BishopAttacks(sq, occ)&zone != 0 {
				weight += attackerWeight[board.Bishop]
			}
		}
		for bb := b.PieceBBOf(enemy, board.Rook); bb != 0; {
			sq := bb.PopLSB()
			if board.RookAttacks(sq, occ)&zone != 0 {
				weight += attackerWeight[board.Rook]
			}
		}
		for bb := b.PieceBBOf(enemy, board.Queen); bb != 0; {
			sq := bb.PopLSB()
			if board.QueenAttacks(sq, occ)&zone != 0 {
				weight += attackerWeight[board.Queen]
			}
		}
		score -= sign * weight
	}
	return score
}

func bishopPair(b *board.Board) (mg, eg int32) {
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		if b.PieceBBOf(c, board.Bishop).PopCount() >= 2 {
			mg += sign * bishopPairMgBonus
			eg += sign * bishopPairEgBonus
		}
	}
	return mg, eg
}

func rookFiles(b *board.Board) (mg, eg int32) {
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		own := b.PieceBBOf(c, board.Pawn)
		enemy := b.PieceBBOf(c.Other(), board.Pawn)
		for bb := b.PieceBBOf(c, board.Rook); bb != 0; {
			sq := bb.PopLSB()
			file := board.FileMask(sq.File())
			hasOwn := own&file != 0
			hasEnemy := enemy&file != 0
			if !hasOwn {
				if !hasEnemy {
					mg += sign * rookOpenFileMg
					eg += sign * rookOpenFileEg
				} else {
					mg += sign * rookSemiOpenFileMg
					eg += sign * rookSemiOpenFileEg
				}
			}
		}
	}
	return mg, eg
}

func shiftN(bb board.Bitboard) board.Bitboard  { return bb << 8 }
func shiftS(bb board.Bitboard) board.Bitboard  { return bb >> 8 }
func shiftNE(bb board.Bitboard) board.Bitboard { return (bb << 9) &^ board.FileMask(0) }
func shiftNW(bb board.Bitboard) board.Bitboard { return (bb << 7) &^ board.FileMask(7) }
func shiftSE(bb board.Bitboard) board.Bitboard { return (bb >> 7) &^ board.FileMask(0) }
func shiftSW(bb board.Bitboard) board.Bitboard { return (bb >> 9) &^ board.FileMask(7) }
