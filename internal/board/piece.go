package board

// Color is a side: White or Black.
type Color int8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	default:
		return "-"
	}
}

// PieceType is a piece kind without color.
type PieceType int8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

var pieceTypeChar = [...]byte{'p', 'n', 'b', 'r', 'q', 'k'}

// Char returns the lowercase FEN letter for the piece type.
func (pt PieceType) Char() byte {
	if pt < Pawn || pt > King {
		return ' '
	}
	return pieceTypeChar[pt]
}

// PieceValue is the classical centipawn material value per piece type,
// indexed by PieceType; used by SEE and as a fallback when no tapered
// table applies. Tuning constants proper live in internal/eval.
var PieceValue = [7]int{100, 320, 330, 500, 900, 0, 0}

// Piece is a colour+type index in [0,11], plus the Empty sentinel. Encoded
// as pieceType + color*6 so that Piece values double as table indices
// throughout move ordering and evaluation.
type Piece int8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	Empty Piece = 12
)

// MakePiece builds a Piece from its type and color.
func MakePiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return Empty
	}
	return Piece(int8(c)*6 + int8(pt))
}

// Type returns the piece's type.
func (p Piece) Type() PieceType {
	if p >= Empty || p < 0 {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the piece's color.
func (p Piece) Color() Color {
	if p >= Empty || p < 0 {
		return NoColor
	}
	return Color(p / 6)
}

var pieceChars = "PNBRQKpnbrqk"

func (p Piece) String() string {
	if p >= Empty || p < 0 {
		return "."
	}
	return string(pieceChars[p])
}

// PieceFromChar converts a FEN piece letter to a Piece, or Empty if c is
// not a recognised letter.
func PieceFromChar(c byte) Piece {
	for i := 0; i < len(pieceChars); i++ {
		if pieceChars[i] == c {
			return Piece(i)
		}
	}
	return Empty
}
