package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a new Board. It accepts both classical
// castling notation (KQkq) and Shredder-FEN/chess960 notation (file
// letters, e.g. "HAha"), inferring which from the board contents: a castle
// letter is read as a rook file relative to the matching king's home
// square rather than assuming standard rook squares (§6, "accepts
// classical and Shredder-FEN notation... forgiving of e.g. trailing
// whitespace"). On error the returned board is nil and the caller's
// existing position, if any, is left untouched.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		log.Debugf("rejecting FEN with %d fields: %q", len(fields), fen)
		return nil, fmt.Errorf("board: FEN needs at least 4 fields, got %d", len(fields))
	}

	b := NewEmpty()

	if err := parsePlacement(b, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		b.Turn = White
	case "b":
		b.Turn = Black
	default:
		return nil, fmt.Errorf("board: bad side to move %q", fields[1])
	}

	if err := parseCastling(b, fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("board: bad en-passant square %q", fields[3])
		}
		b.EPSquare = sq
	}

	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("board: bad halfmove clock %q", fields[4])
		}
		b.FiftyMoveRule = n
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("board: bad fullmove counter %q", fields[5])
		}
		b.FullMoveCounter = n
	}

	if b.PieceBBOf(White, King).PopCount() != 1 || b.PieceBBOf(Black, King).PopCount() != 1 {
		return nil, fmt.Errorf("board: FEN must have exactly one king per side")
	}

	b.Hash = b.ComputeHash()
	b.PawnKingHash = b.ComputePawnKingHash()
	b.updateKingAttackers()
	return b, nil
}

func parsePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("board: FEN placement needs 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := PieceFromChar(byte(ch))
			if p == Empty {
				return fmt.Errorf("board: bad FEN piece letter %q", ch)
			}
			if file > 7 {
				return fmt.Errorf("board: FEN rank %d overflows", rank+1)
			}
			b.placePiece(p, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("board: FEN rank %d has %d files, want 8", rank+1, file)
		}
	}
	return nil
}

// parseCastling accepts "-", classical "KQkq" and Shredder-FEN file
// letters. Each recognised rook is recorded in CastleRooks and the
// CastleMasks "touch" table is rebuilt so that ApplyMove can clear rights
// with a single unconditional AND-NOT (§3, "castleMasks[sq]").
func parseCastling(b *Board, field string) error {
	if field == "-" {
		return nil
	}
	for _, ch := range field {
		var c Color
		var file int
		switch {
		case ch == 'K':
			c, file = White, rookFileKingside(b, White)
		case ch == 'Q':
			c, file = White, rookFileQueenside(b, White)
		case ch == 'k':
			c, file = Black, rookFileKingside(b, Black)
		case ch == 'q':
			c, file = Black, rookFileQueenside(b, Black)
		case ch >= 'A' && ch <= 'H':
			c, file = White, int(ch-'A')
			b.Chess960 = true
		case ch >= 'a' && ch <= 'h':
			c, file = Black, int(ch-'a')
			b.Chess960 = true
		default:
			return fmt.Errorf("board: bad castling letter %q", ch)
		}
		rank := 0
		if c == Black {
			rank = 7
		}
		sq := NewSquare(file, rank)
		if b.Squares[sq] != MakePiece(Rook, c) {
			return fmt.Errorf("board: castling rook square %s has no %s rook", sq, c)
		}
		b.CastleRooks |= SquareBB(sq)
	}
	b.rebuildCastleMasks()
	return nil
}

func rookFileKingside(b *Board, c Color) int {
	king := b.KingSquare[c]
	for f := 7; f > king.File(); f-- {
		return f
	}
	return 7
}

func rookFileQueenside(b *Board, c Color) int {
	king := b.KingSquare[c]
	for f := 0; f < king.File(); f++ {
		return f
	}
	return 0
}

// rebuildCastleMasks derives CastleMasks from the current CastleRooks and
// king squares: touching a king's square clears both of its rooks, and
// touching a rook's own square clears only that rook.
func (b *Board) rebuildCastleMasks() {
	for i := range b.CastleMasks {
		b.CastleMasks[i] = 0
	}
	for _, c := range [2]Color{White, Black} {
		rooks := b.CastleRooks & b.Colours[c]
		if rooks == 0 {
			continue
		}
		king := b.KingSquare[c]
		if king != NoSquare {
			b.CastleMasks[king] |= rooks
		}
		rr := rooks
		for rr != 0 {
			sq := rr.PopLSB()
			b.CastleMasks[sq] |= SquareBB(sq)
		}
	}
}

// ToFEN renders the castling field: classical "KQkq" when every castle
// rook sits on its standard square and the position is not flagged
// chess960, Shredder file letters otherwise (§6, "Shredder-FEN... iff any
// castle rook is off its standard square or chess960 mode is active").
func (b *Board) ToFEN() string {
	if b.CastleRooks == 0 {
		return "-"
	}
	useShredder := b.Chess960
	if !useShredder {
		standard := SquareBB(A1) | SquareBB(H1) | SquareBB(A8) | SquareBB(H8)
		if b.CastleRooks&^standard != 0 {
			useShredder = true
		}
	}

	var sb strings.Builder
	for _, c := range [2]Color{White, Black} {
		rooks := b.CastleRooks & b.Colours[c]
		if rooks == 0 {
			continue
		}
		king := b.KingSquare[c]
		var kingside, queenside Square = NoSquare, NoSquare
		rr := rooks
		for rr != 0 {
			sq := rr.PopLSB()
			if sq > king {
				kingside = sq
			} else {
				queenside = sq
			}
		}
		letter := func(sq Square, short bool) {
			if sq == NoSquare {
				return
			}
			if useShredder {
				ch := byte('A' + sq.File())
				if c == Black {
					ch = byte('a' + sq.File())
				}
				sb.WriteByte(ch)
				return
			}
			if short {
				if c == White {
					sb.WriteByte('K')
				} else {
					sb.WriteByte('k')
				}
			} else {
				if c == White {
					sb.WriteByte('Q')
				} else {
					sb.WriteByte('q')
				}
			}
		}
		letter(kingside, true)
		letter(queenside, false)
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FullFEN renders the complete FEN string for the position.
func (b *Board) FullFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.Squares[NewSquare(file, rank)]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.Turn.String())
	sb.WriteByte(' ')
	sb.WriteString(b.ToFEN())
	sb.WriteByte(' ')
	sb.WriteString(b.EPSquare.String())
	fmt.Fprintf(&sb, " %d %d", b.FiftyMoveRule, b.FullMoveCounter)
	return sb.String()
}
