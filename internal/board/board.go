package board

import (
	"fmt"
	"strings"

	"github.com/corvid/chessplay-core/internal/logging"
)

var log = logging.Get("board")

// MaxHeight bounds the search stack and the per-root repetition history;
// fixed-size arrays throughout Board and its callers are sized against it
// (§9, "Cyclic state... has a strict LIFO lifecycle bounded by
// MAX_HEIGHT").
const MaxHeight = 128

// Board is a complete chess position: bitboards, the square-indexed
// mirror of the same data, incremental hashes, castling/en-passant state
// and the running piece-square material score.
//
// Invariants (must hold after every Apply/Unapply, §3):
//  1. Colours[White] and Colours[Black] are disjoint; their union equals
//     the union of PieceBB[*].
//  2. Squares[sq] == Empty iff sq is absent from Colours[White]|Colours[Black];
//     otherwise PieceBB[type] and Colours[color] both contain sq.
//  3. Hash is the XOR of the Zobrist piece/turn/castle/en-passant keys.
//  4. PawnKingHash mirrors (3) restricted to pawns and kings.
//  5. PSQTMidgame/PSQTEndgame equal the sum of the piece-square tables
//     over occupied squares.
//  6. Exactly one king of each color exists.
type Board struct {
	Squares [64]Piece
	Colours [2]Bitboard
	PieceBB [6]Bitboard

	AllOccupied Bitboard

	Turn Color

	CastleRooks Bitboard
	CastleMasks [64]Bitboard

	EPSquare      Square
	FiftyMoveRule int
	FullMoveCounter int

	Hash         uint64
	PawnKingHash uint64

	PSQTMidgame int32
	PSQTEndgame int32

	History   [MaxHeight]uint64 // ring of hashes since root, one per ply played
	numMoves  int

	KingAttackers Bitboard
	KingSquare    [2]Square

	Chess960 bool
}

// Occupied returns the combined occupancy of color c.
func (b *Board) Occupied(c Color) Bitboard { return b.Colours[c] }

// PieceBBOf returns the bitboard of pieces of type pt and color c.
func (b *Board) PieceBBOf(c Color, pt PieceType) Bitboard { return b.PieceBB[pt] & b.Colours[c] }

// PieceAt is an O(1) lookup via the square-indexed mirror.
func (b *Board) PieceAt(sq Square) Piece { return b.Squares[sq] }

// IsEmpty reports whether sq holds no piece.
func (b *Board) IsEmpty(sq Square) bool { return b.Squares[sq] == Empty }

// InCheck reports whether the side to move is currently in check.
func (b *Board) InCheck() bool { return b.KingAttackers != 0 }

// Copy returns a deep copy (Board contains no pointers, so value-copy
// suffices).
func (b *Board) Copy() *Board {
	cp := *b
	return &cp
}

func (b *Board) placePiece(p Piece, sq Square) {
	b.Squares[sq] = p
	bb := SquareBB(sq)
	b.Colours[p.Color()] |= bb
	b.PieceBB[p.Type()] |= bb
	b.AllOccupied |= bb
	if p.Type() == King {
		b.KingSquare[p.Color()] = sq
	}
	mg, eg := PSQTValue(p, sq)
	b.PSQTMidgame += mg
	b.PSQTEndgame += eg
}

func (b *Board) removePieceAt(sq Square) Piece {
	p := b.Squares[sq]
	if p == Empty {
		return Empty
	}
	bb := SquareBB(sq)
	b.Squares[sq] = Empty
	b.Colours[p.Color()] &^= bb
	b.PieceBB[p.Type()] &^= bb
	b.AllOccupied &^= bb
	mg, eg := PSQTValue(p, sq)
	b.PSQTMidgame -= mg
	b.PSQTEndgame -= eg
	return p
}

func (b *Board) movePieceSquares(from, to Square) {
	p := b.Squares[from]
	moveBB := SquareBB(from) | SquareBB(to)
	b.Squares[from] = Empty
	b.Squares[to] = p
	b.Colours[p.Color()] ^= moveBB
	b.PieceBB[p.Type()] ^= moveBB
	b.AllOccupied ^= moveBB
	if p.Type() == King {
		b.KingSquare[p.Color()] = to
	}
	mgFrom, egFrom := PSQTValue(p, from)
	mgTo, egTo := PSQTValue(p, to)
	b.PSQTMidgame += mgTo - mgFrom
	b.PSQTEndgame += egTo - egFrom
}

// NewEmpty returns a zeroed board ready for FEN placement.
func NewEmpty() *Board {
	b := &Board{EPSquare: NoSquare, FullMoveCounter: 1}
	b.KingSquare[White] = NoSquare
	b.KingSquare[Black] = NoSquare
	return b
}

// NewStartingPosition returns the standard initial chess position.
func NewStartingPosition() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: starting FEN must parse: " + err.Error())
	}
	return b
}

// ComputeHash recomputes the Zobrist hash from scratch; used at setup and
// by the invariant fuzz tests to validate incremental maintenance (§8).
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.Squares[sq]; p != Empty {
			h ^= zobristPieceKey[p][sq]
		}
	}
	if b.Turn == Black {
		h ^= zobristTurnKey
	}
	h ^= zobristCastle[b.castleIndex()]
	if b.EPSquare != NoSquare {
		h ^= zobristEPFile[b.EPSquare.File()]
	}
	return h
}

// ComputePawnKingHash recomputes the pawn+king sub-hash from scratch.
func (b *Board) ComputePawnKingHash() uint64 {
	var h uint64
	pk := b.PieceBB[Pawn] | b.PieceBB[King]
	for pk != 0 {
		sq := pk.PopLSB()
		h ^= zobristPieceKey[b.Squares[sq]][sq]
	}
	return h
}

// castleIndex folds CastleRooks down to one of 16 combinations for the
// Zobrist castling key, in the classical K/Q/k/q sense: one bit per
// (color, side) pair that still has an eligible rook, independent of
// which file that rook sits on (chess960-safe).
func (b *Board) castleIndex() int {
	idx := 0
	if b.CastleRooks&b.Colours[White] != 0 {
		lo, hi := b.castleRooksOnRank(White)
		if hi {
			idx |= 1
		}
		if lo {
			idx |= 2
		}
	}
	if b.CastleRooks&b.Colours[Black] != 0 {
		lo, hi := b.castleRooksOnRank(Black)
		if hi {
			idx |= 4
		}
		if lo {
			idx |= 8
		}
	}
	return idx
}

// castleRooksOnRank reports whether color c retains a queenside (lo, the
// rook left of the king) and/or kingside (hi, right of the king) castle
// rook.
func (b *Board) castleRooksOnRank(c Color) (lo, hi bool) {
	rooks := b.CastleRooks & b.Colours[c]
	king := b.KingSquare[c]
	for rooks != 0 {
		sq := rooks.PopLSB()
		if sq < king {
			lo = true
		} else {
			hi = true
		}
	}
	return
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(b.Squares[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	fmt.Fprintf(&sb, "turn=%s castle=%s ep=%s fifty=%d hash=%016x\n",
		b.Turn, b.ToFEN(), b.EPSquare, b.FiftyMoveRule, b.Hash)
	return sb.String()
}

// HasNonPawnMaterial reports whether the side to move has any piece other
// than pawns and king, used to avoid null-move pruning in pure pawn
// endgames where zugzwang is common (§4.8, null-move precondition).
func (b *Board) HasNonPawnMaterial() bool {
	us := b.Turn
	return b.PieceBBOf(us, Knight)|b.PieceBBOf(us, Bishop)|b.PieceBBOf(us, Rook)|b.PieceBBOf(us, Queen) != 0
}

// IsInsufficientMaterial reports whether neither side has enough material
// to force checkmate.
func (b *Board) IsInsufficientMaterial() bool {
	if b.PieceBB[Pawn]|b.PieceBB[Rook]|b.PieceBB[Queen] != 0 {
		return false
	}
	wMinors := b.PieceBBOf(White, Knight).PopCount() + b.PieceBBOf(White, Bishop).PopCount()
	bMinors := b.PieceBBOf(Black, Knight).PopCount() + b.PieceBBOf(Black, Bishop).PopCount()
	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}
	return false
}
