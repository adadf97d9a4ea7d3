package board

import "fmt"

// Move packs a chess move into 16 bits: bits 0-5 are the from-square,
// bits 6-11 the to-square, bits 12-13 the move type, and bits 14-15 the
// promotion piece (meaningful only when the type is Promotion). The
// layout is part of the interface: transposition-table best moves must
// decode correctly across builds of the same version.
type Move uint16

// MoveType distinguishes the four move shapes make/unmake must dispatch
// on.
type MoveType uint16

const (
	Normal MoveType = iota
	Castle
	EnPassant
	Promotion
)

const (
	moveFromShift = 0
	moveToShift   = 6
	moveTypeShift = 12
	movePromoShift = 14
	moveSquareMask = 0x3F
	moveTypeMask   = 0x3
)

// NoneMove is the "no move" sentinel: from == to == A1, a pattern no
// legal move generator ever produces.
const NoneMove Move = 0

// NullMove is the "passed turn" sentinel used by null-move pruning. It is
// bit-distinct from NoneMove (bit 15 set, unreachable by NewMove/NewCastle
// /NewEnPassant with real squares since promo bits are only read under
// Promotion) while still decoding from==to==A1 under Normal.
const NullMove Move = 1 << 15

// NewMove builds a normal (non-special) move.
func NewMove(from, to Square) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift
}

// NewCastle builds a castle move; from/to are the king's own squares.
func NewCastle(from, to Square) Move {
	return NewMove(from, to) | Move(Castle)<<moveTypeShift
}

// NewEnPassant builds an en-passant capture move.
func NewEnPassant(from, to Square) Move {
	return NewMove(from, to) | Move(EnPassant)<<moveTypeShift
}

// NewPromotion builds a promotion move. promo must be Knight, Bishop,
// Rook or Queen.
func NewPromotion(from, to Square, promo PieceType) Move {
	return NewMove(from, to) | Move(Promotion)<<moveTypeShift | Move(promo-Knight)<<movePromoShift
}

// From returns the origin square.
func (m Move) From() Square { return Square((m >> moveFromShift) & moveSquareMask) }

// To returns the destination square.
func (m Move) To() Square { return Square((m >> moveToShift) & moveSquareMask) }

// Type returns the move's shape.
func (m Move) Type() MoveType { return MoveType((m >> moveTypeShift) & moveTypeMask) }

// Promotion returns the promotion piece type; only meaningful when
// Type() == Promotion.
func (m Move) Promotion() PieceType {
	return PieceType((m>>movePromoShift)&3) + Knight
}

func (m Move) IsPromotion() bool { return m.Type() == Promotion }
func (m Move) IsCastle() bool    { return m.Type() == Castle }
func (m Move) IsEnPassant() bool { return m.Type() == EnPassant }

// IsCapture reports whether m captures a piece on b, including en-passant.
func (m Move) IsCapture(b *Board) bool {
	if m.IsEnPassant() {
		return true
	}
	return b.Squares[m.To()] != Empty
}

// IsQuiet reports whether m is neither a capture nor a promotion.
func (m Move) IsQuiet(b *Board) bool {
	return !m.IsCapture(b) && !m.IsPromotion()
}

func (m Move) String() string {
	if m == NoneMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove decodes long-algebraic notation ("e2e4", "e7e8q") against b,
// inferring Castle/EnPassant from the board state since the wire format
// carries no flag bits of its own (§6, "Move notation").
func ParseMove(str string, b *Board) (Move, error) {
	if len(str) < 4 {
		return NoneMove, fmt.Errorf("board: bad move %q", str)
	}
	from, err := ParseSquare(str[0:2])
	if err != nil {
		return NoneMove, err
	}
	to, err := ParseSquare(str[2:4])
	if err != nil {
		return NoneMove, err
	}
	if len(str) == 5 {
		var promo PieceType
		switch str[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoneMove, fmt.Errorf("board: bad promotion piece %q", str)
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := b.Squares[from]
	if piece == Empty {
		return NoneMove, fmt.Errorf("board: no piece on %s", from)
	}
	if piece.Type() == King && absInt(int(to)-int(from)) == 2 {
		return NewCastle(from, to), nil
	}
	if piece.Type() == Pawn && to == b.EPSquare {
		return NewEnPassant(from, to), nil
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-capacity move buffer sized per §4.3 ("MAX_MOVES
// (256 suffices)"), avoiding per-call allocation in the generator's hot
// path.
type MoveList struct {
	moves [256]Move
	n     int
}

func (ml *MoveList) Add(m Move)        { ml.moves[ml.n] = m; ml.n++ }
func (ml *MoveList) Len() int          { return ml.n }
func (ml *MoveList) Get(i int) Move    { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int)     { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()            { ml.n = 0 }

func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

func (ml *MoveList) Slice() []Move { return ml.moves[:ml.n] }

// Undo is the per-ply saved view (§3, "Undo") sufficient to reverse a
// make in O(1) without recomputation.
type Undo struct {
	Hash          uint64
	PawnKingHash  uint64
	KingAttackers Bitboard
	CastleRooks   Bitboard
	EPSquare      Square
	FiftyMoveRule int
	PSQTMidgame   int32
	PSQTEndgame   int32
	Captured      Piece
	CapturedSq    Square
	CastleRookFrom Square // origin square of the castling rook; chess960 rook
	                      // squares aren't recoverable from geometry alone once
	                      // CastleRooks has been cleared by the move itself.
}
