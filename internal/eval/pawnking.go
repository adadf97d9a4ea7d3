package eval

import "github.com/corvid/chessplay-core/internal/board"

// pawnKingEntry mirrors the teacher's PawnEntry
// (_examples/hailam-chessplay/internal/engine/pawnhash.go), extended with
// a passed-pawn bitboard per both colors. The bitboard is written on every
// store but not read back: a probe hit returns only the mg/eg scores, and
// nothing outside this file can reach the field.
type pawnKingEntry struct {
	key     uint64
	mg      int16
	eg      int16
	passed  [2]board.Bitboard
}

// PawnKingTable caches the pawn-structure term of the evaluation, keyed by
// Board.PawnKingHash. Grounded on the teacher's PawnTable: a flat
// power-of-two-sized slice addressed by key&mask, one entry per slot, no
// chaining on collision (a stale hit is simply overwritten).
type PawnKingTable struct {
	entries []pawnKingEntry
	mask    uint64
}

// NewPawnKingTable allocates a table sized to the nearest power of two not
// exceeding sizeMB megabytes.
func NewPawnKingTable(sizeMB int) *PawnKingTable {
	const entrySize = 8 + 2 + 2 + 4 + 16 // 4 bytes of padding align passed
	count := (sizeMB * 1024 * 1024) / entrySize
	size := 1
	for size*2 <= count {
		size *= 2
	}
	if size < 1 {
		size = 1
	}
	return &PawnKingTable{
		entries: make([]pawnKingEntry, size),
		mask:    uint64(size - 1),
	}
}

func (t *PawnKingTable) probe(key uint64) (pawnKingEntry, bool) {
	e := &t.entries[key&t.mask]
	if e.key == key {
		return *e, true
	}
	return pawnKingEntry{}, false
}

func (t *PawnKingTable) store(key uint64, mg, eg int32, passed [2]board.Bitboard) {
	e := &t.entries[key&t.mask]
	e.key = key
	e.mg = int16(mg)
	e.eg = int16(eg)
	e.passed = passed
}

// Clear resets every slot, used when starting a new search with a
// changed hash configuration.
func (t *PawnKingTable) Clear() {
	for i := range t.entries {
		t.entries[i] = pawnKingEntry{}
	}
}

// pawnStructure returns the doubled/isolated/passed-pawn mg/eg term,
// serving it from ptable when the pawn-king hash matches a cached entry.
// ptable may be nil, in which case the term is always recomputed.
func pawnStructure(b *board.Board, ptable *PawnKingTable) (mg, eg int32) {
	if ptable != nil {
		if e, ok := ptable.probe(b.PawnKingHash); ok {
			return int32(e.mg), int32(e.eg)
		}
	}

	var passed [2]board.Bitboard
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		own := b.PieceBBOf(c, board.Pawn)
		enemy := b.PieceBBOf(c.Other(), board.Pawn)

		for file := 0; file < 8; file++ {
			count := (own & board.FileMask(file)).PopCount()
			if count > 1 {
				mg += sign * doubledPawnMgPenalty * int32(count-1)
				eg += sign * doubledPawnEgPenalty * int32(count-1)
			}
			if count > 0 {
				adjacent := adjacentFiles(file)
				if own&adjacent == 0 {
					mg += sign * isolatedPawnMgPenalty
					eg += sign * isolatedPawnEgPenalty
				}
			}
		}

		bb := own
		for bb != 0 {
			sq := bb.PopLSB()
			if isPassedPawn(sq, c, enemy) {
				passed[c] |= board.SquareBB(sq)
				rank := sq.RelativeRank(c)
				mg += sign * passedPawnBonus[rank]
				eg += sign * (passedPawnBonus[rank] * 3 / 2)
			}
		}
	}

	if ptable != nil {
		ptable.store(b.PawnKingHash, mg, eg, passed)
	}
	return mg, eg
}

func adjacentFiles(file int) board.Bitboard {
	var m board.Bitboard
	if file > 0 {
		m |= board.FileMask(file - 1)
	}
	if file < 7 {
		m |= board.FileMask(file + 1)
	}
	return m
}

// isPassedPawn reports whether the pawn on sq has no enemy pawn able to
// block or capture it on its own file or either adjacent file ahead of it,
// grounded on the teacher's isPassedPawn
// (_examples/hailam-chessplay/internal/engine/eval.go).
func isPassedPawn(sq board.Square, c board.Color, enemyPawns board.Bitboard) bool {
	file := sq.File()
	rank := sq.Rank()
	span := adjacentFiles(file) | board.FileMask(file)

	var ahead board.Bitboard
	if c == board.White {
		for r := rank + 1; r <= 7; r++ {
			ahead |= board.RankMask(r)
		}
	} else {
		for r := rank - 1; r >= 0; r-- {
			ahead |= board.RankMask(r)
		}
	}
	return enemyPawns&span&ahead == 0
}
