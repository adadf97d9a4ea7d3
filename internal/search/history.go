package search

import "github.com/corvid/chessplay-core/internal/board"

// mvvLva scores MVV/LVA: victim value dominates, attacker value breaks
// ties in favor of the cheaper attacker. Grounded on the teacher's
// mvvLva table (internal/engine/ordering.go), reshaped to plain
// [victim][attacker] centipawn deltas instead of a hand-tuned lookup.
func mvvLvaScore(victim, attacker board.PieceType) int32 {
	return int32(board.PieceValue[victim])*16 - int32(board.PieceValue[attacker])
}

const historyMax = 16384

// History holds the per-worker quiet-move ordering tables: killers,
// history, counter-moves, capture history and countermove history.
// Grounded on the teacher's MoveOrderer (internal/engine/ordering.go);
// kept private to one worker since the specification scopes killers and
// histories per-thread (§5, "private board, stacks, killers, histories").
type History struct {
	killers [board.MaxHeight][2]board.Move

	quietHistory [64][64]int32

	counterMoves [12][64]board.Move

	captureHistory [12][64][6]int32

	counterMoveHistory [12][64][12][64]int32
}

// NewHistory returns a zeroed History ready for a new search.
func NewHistory() *History { return &History{} }

// Clear resets the killer and counter-move tables and ages (halves) the
// history tables rather than zeroing them, matching the teacher's
// between-search decay so ordering quality persists across
// iterative-deepening iterations within one search.
func (h *History) Clear() {
	for i := range h.killers {
		h.killers[i][0] = board.NoneMove
		h.killers[i][1] = board.NoneMove
	}
	for i := range h.quietHistory {
		for j := range h.quietHistory[i] {
			h.quietHistory[i][j] /= 2
		}
	}
	for i := range h.counterMoves {
		for j := range h.counterMoves[i] {
			h.counterMoves[i][j] = board.NoneMove
		}
	}
	for i := range h.captureHistory {
		for j := range h.captureHistory[i] {
			for k := range h.captureHistory[i][j] {
				h.captureHistory[i][j][k] /= 2
			}
		}
	}
	for i := range h.counterMoveHistory {
		for j := range h.counterMoveHistory[i] {
			for k := range h.counterMoveHistory[i][j] {
				for l := range h.counterMoveHistory[i][j][k] {
					h.counterMoveHistory[i][j][k][l] /= 2
				}
			}
		}
	}
}

func (h *History) Killer1(height int) board.Move { return h.killers[height][0] }
func (h *History) Killer2(height int) board.Move { return h.killers[height][1] }

// UpdateKillers records m as the newest killer at height, shifting the
// previous first killer down, unless m is already the first killer.
func (h *History) UpdateKillers(m board.Move, height int) {
	if height >= board.MaxHeight {
		return
	}
	if h.killers[height][0] == m {
		return
	}
	h.killers[height][1] = h.killers[height][0]
	h.killers[height][0] = m
}

func (h *History) CounterMove(prevPiece board.Piece, prevTo board.Square) board.Move {
	if prevPiece == board.Empty {
		return board.NoneMove
	}
	return h.counterMoves[prevPiece][prevTo]
}

func (h *History) UpdateCounterMove(prevPiece board.Piece, prevTo board.Square, counter board.Move) {
	if prevPiece == board.Empty {
		return
	}
	h.counterMoves[prevPiece][prevTo] = counter
}

func (h *History) QuietScore(from, to board.Square) int32 { return h.quietHistory[from][to] }

// UpdateHistory applies the depth-squared bonus/penalty scheme (§4.8 step
// 14), clamping to keep the table well inside int32 range indefinitely.
func (h *History) UpdateHistory(from, to board.Square, depth int, good bool) {
	bonus := int32(depth * depth)
	v := &h.quietHistory[from][to]
	if good {
		*v += bonus
		if *v > historyMax {
			*v = historyMax
		}
	} else {
		*v -= bonus
		if *v < -historyMax {
			*v = -historyMax
		}
	}
}

func (h *History) CaptureScore(attacker board.Piece, to board.Square, victim board.PieceType) int32 {
	if attacker == board.Empty || victim >= board.King {
		return 0
	}
	return h.captureHistory[attacker][to][victim]
}

func (h *History) UpdateCaptureHistory(attacker board.Piece, to board.Square, victim board.PieceType, depth int, good bool) {
	if attacker == board.Empty || victim >= board.King {
		return
	}
	bonus := int32(depth * depth)
	v := &h.captureHistory[attacker][to][victim]
	if good {
		*v += bonus
		if *v > historyMax {
			*v = historyMax
		}
	} else {
		*v -= bonus
		if *v < -historyMax {
			*v = -historyMax
		}
	}
}

func (h *History) CounterMoveHistoryScore(prevPiece board.Piece, prevTo board.Square, movePiece board.Piece, moveTo board.Square) int32 {
	if prevPiece == board.Empty || movePiece == board.Empty {
		return 0
	}
	return h.counterMoveHistory[prevPiece][prevTo][movePiece][moveTo]
}

func (h *History) UpdateCounterMoveHistory(prevPiece board.Piece, prevTo board.Square, movePiece board.Piece, moveTo board.Square, depth int, good bool) {
	if prevPiece == board.Empty || movePiece == board.Empty {
		return
	}
	bonus := int32(depth * depth)
	v := &h.counterMoveHistory[prevPiece][prevTo][movePiece][moveTo]
	if good {
		*v += bonus
		if *v > historyMax {
			*v = historyMax
		}
	} else {
		*v -= bonus
		if *v < -historyMax {
			*v = -historyMax
		}
	}
}
