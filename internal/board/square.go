// Package board implements a bitboard chess position: squares, pieces,
// attack tables, Zobrist hashing, move encoding, move generation and
// incremental make/unmake.
package board

import "fmt"

// Square is a board square, 0-63, rank-major: file = sq & 7, rank = sq >> 3.
// A1 = 0, H1 = 7, A8 = 56, H8 = 63 (little-endian rank-file mapping).
type Square int8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare is the "none" sentinel used for an absent en-passant target.
const NoSquare Square = -1

// File returns the file, 0 (a) through 7 (h).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the rank, 0 (rank 1) through 7 (rank 8).
func (s Square) Rank() int { return int(s) >> 3 }

// NewSquare builds a square from 0-indexed file and rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

// Mirror flips a square across the board's horizontal midline, turning a
// white-relative square into the equivalent black-relative one.
func (s Square) Mirror() Square { return s ^ 56 }

// RelativeRank returns the rank as seen by c: rank 0 is always c's own
// back rank.
func (s Square) RelativeRank(c Color) int {
	if c == White {
		return s.Rank()
	}
	return 7 - s.Rank()
}

func (s Square) String() string {
	if s < A1 || s > H8 {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+s.File(), '1'+s.Rank())
}

// ParseSquare parses algebraic notation ("e4") into a Square.
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("board: bad square %q", str)
	}
	file := int(str[0] - 'a')
	rank := int(str[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("board: bad square %q", str)
	}
	return NewSquare(file, rank), nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func signInt(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
