package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit occupancy set, one bit per square.
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101 << iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Bitboard = 0xFF << (8 * iota)
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	EmptyBB  Bitboard = 0
	Universe Bitboard = ^Bitboard(0)

	notFileA = ^FileA
	notFileH = ^FileH
	notAB    = ^(FileA | FileB)
	notGH    = ^(FileG | FileH)
)

var fileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}
var rankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}

// FileMask returns the full-file mask containing file (0=a..7=h).
func FileMask(file int) Bitboard { return fileMask[file] }

// RankMask returns the full-rank mask containing rank (0=rank1..7=rank8).
func RankMask(rank int) Bitboard { return rankMask[rank] }

// SquareBB returns the singleton bitboard for sq.
func SquareBB(sq Square) Bitboard { return 1 << Bitboard(sq) }

func (b Bitboard) has(sq Square) bool { return b&SquareBB(sq) != 0 }

// PopCount returns the number of occupied squares.
func (b Bitboard) PopCount() int { return bits.OnesCount64(uint64(b)) }

// LSB returns the lowest-indexed occupied square, or NoSquare if empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB clears and returns the lowest-indexed occupied square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

func (b Bitboard) north() Bitboard     { return b << 8 }
func (b Bitboard) south() Bitboard     { return b >> 8 }
func (b Bitboard) east() Bitboard      { return (b << 1) & notFileA }
func (b Bitboard) west() Bitboard      { return (b >> 1) & notFileH }
func (b Bitboard) northEast() Bitboard { return (b << 9) & notFileA }
func (b Bitboard) northWest() Bitboard { return (b << 7) & notFileH }
func (b Bitboard) southEast() Bitboard { return (b >> 7) & notFileA }
func (b Bitboard) southWest() Bitboard { return (b >> 9) & notFileH }

func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.has(NewSquare(file, rank)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
