package search

import (
	"sync/atomic"

	"github.com/corvid/chessplay-core/internal/board"
	"github.com/corvid/chessplay-core/internal/config"
	"github.com/corvid/chessplay-core/internal/eval"
	"github.com/corvid/chessplay-core/internal/logging"
	"github.com/corvid/chessplay-core/internal/tt"
)

var log = logging.Get("search")

// MateValue and MaxHeight mirror the transposition table's constants;
// search and tt must agree on the window within which scores are treated
// as mate distances.
const (
	MateValue = tt.MateValue
	MaxHeight = board.MaxHeight
	DrawValue = 0
)

// abortSignal is panicked by checkAbort and recovered at the top of
// Search, the non-local-exit mechanism §9 calls for: unwinding the whole
// recursive stack back to iterative deepening in O(depth) rather than
// threading a stop value through every return.
type abortSignal struct{}

// pvLine is one node's local principal variation, copied into its
// parent's line on every improvement (§4.8, "PV update").
type pvLine struct {
	moves [MaxHeight]board.Move
	n     int
}

func (l *pvLine) set(m board.Move, child *pvLine) {
	l.moves[0] = m
	copy(l.moves[1:], child.moves[:child.n])
	l.n = child.n + 1
}

// Searcher is one worker's complete search state: its own board, undo
// stack, ordering tables and correction history, plus shared references
// to the transposition table and time manager (§5, "private board,
// stacks, killers, histories... shared TT"). Grounded on the teacher's
// Searcher (internal/engine/search.go), generalized from single-depth
// negamax to the specification's full pruning/extension pipeline.
type Searcher struct {
	Board    *board.Board
	TT       *tt.Table
	PawnKing *eval.PawnKingTable
	Hist     *History
	Corr     *CorrectionHistory
	Cfg      config.Config
	TM       *TimeManager

	Stop *uint32 // shared abort flag; non-zero stops every worker sharing it

	Nodes uint64

	pv        [MaxHeight]pvLine
	undo      [MaxHeight]board.Undo
	nullUndo  [MaxHeight]board.Undo
}

// NewSearcher builds a worker-local searcher sharing tt and stop with its
// siblings but owning every other table privately.
func NewSearcher(b *board.Board, table *tt.Table, stop *uint32, cfg config.Config) *Searcher {
	return &Searcher{
		Board:    b,
		TT:       table,
		PawnKing: eval.NewPawnKingTable(4),
		Hist:     NewHistory(),
		Corr:     NewCorrectionHistory(),
		Cfg:      cfg,
		Stop:     stop,
	}
}

func (s *Searcher) checkAbort() {
	if s.Nodes&8191 != 0 {
		return
	}
	if s.Stop != nil && atomic.LoadUint32(s.Stop) != 0 {
		panic(abortSignal{})
	}
	if s.TM != nil && s.TM.ShouldStop() {
		panic(abortSignal{})
	}
}

// RootResult is what one completed (or aborted) iteration hands back to
// the driving iterative-deepening loop.
type RootResult struct {
	Value   int32
	PV      []board.Move
	Aborted bool
}

// Search runs a single fixed-depth search from the current root position
// within [alpha, beta], recovering cleanly from an abort raised anywhere
// in the recursive tree.
func (s *Searcher) Search(depth int, alpha, beta int32) (result RootResult) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortSignal); ok {
				log.Debugf("search aborted at depth %d after %d nodes", depth, s.Nodes)
				result.Aborted = true
				return
			}
			panic(r)
		}
	}()

	value := s.search(alpha, beta, depth, 0, board.NoneMove, board.Empty, false)
	result.Value = value
	result.PV = append([]board.Move(nil), s.pv[0].moves[:s.pv[0].n]...)
	return result
}

// AspirationWindow implements §4.8's aspiration-window driver: a narrow
// window around the previous iteration's score, widened on repeated
// failures until it either resolves or gives up and searches the full
// range.
func (s *Searcher) AspirationWindow(depth int, prevValue, prevPrevValue int32, haveHistory bool) RootResult {
	if depth <= 4 || !haveHistory || isMateScore(prevValue) {
		return s.Search(depth, -MateValue, MateValue)
	}

	delta := prevValue - prevPrevValue
	if delta < 0 {
		delta = -delta
	}
	margin := int32(float64(delta) * 1.6)
	if margin < 1 {
		margin = 1
	}

	alpha := prevValue - margin
	beta := prevValue + margin

	for {
		result := s.Search(depth, alpha, beta)
		if result.Aborted {
			return result
		}
		if result.Value > alpha && result.Value < beta {
			return result
		}
		if margin > 640 || isMateScore(result.Value) {
			return s.Search(depth, -MateValue, MateValue)
		}
		margin *= 2
		if result.Value <= alpha {
			alpha = prevValue - margin
		}
		if result.Value >= beta {
			beta = prevValue + margin
		}
	}
}

func isMateScore(v int32) bool {
	if v < 0 {
		v = -v
	}
	return v >= MateValue-MaxHeight
}

// evaluate computes the tapered static evaluation of the current board,
// adjusted by the correction history (§4.4, §12).
func (s *Searcher) evaluate() (int32, eval.EvalInfo) {
	var ei eval.EvalInfo
	v := eval.Evaluate(s.Board, &ei, s.PawnKing)
	if s.Corr != nil {
		v += s.Corr.Get(int(s.Board.Turn), s.Board.PawnKingHash)
	}
	return v, ei
}

// hasAnyLegalMove reports whether the side to move has at least one legal
// move, used only to resolve the fifty-move/checkmate edge case (§9, Open
// Question: checkmate dominates the fifty-move draw even at the exact ply
// the counter reaches 100).
func hasAnyLegalMove(b *board.Board) bool {
	var ml board.MoveList
	board.GenNoisy(b, &ml)
	for i := 0; i < ml.Len(); i++ {
		if board.IsLegal(b, ml.Get(i)) {
			return true
		}
	}
	ml.Clear()
	board.GenQuiet(b, &ml)
	for i := 0; i < ml.Len(); i++ {
		if board.IsLegal(b, ml.Get(i)) {
			return true
		}
	}
	return false
}

// search is the negamax/PVS core (§4.8), implemented in the order the
// specification lists its fifteen steps.
func (s *Searcher) search(alpha, beta int32, depth, height int, prevMove board.Move, prevPiece board.Piece, prevWasNull bool) int32 {
	s.Nodes++
	s.checkAbort()

	isPV := beta-alpha > 1
	s.pv[height].n = 0

	// 2. Mate-distance pruning.
	if a := int32(-MateValue + height); alpha < a {
		alpha = a
	}
	if bnd := int32(MateValue - height - 1); beta > bnd {
		beta = bnd
	}
	if alpha >= beta {
		return alpha
	}

	// 3. Fifty-move and threefold checks.
	if height > 0 {
		if s.Board.FiftyMoveRule >= 100 {
			if s.Board.InCheck() && !hasAnyLegalMove(s.Board) {
				return -MateValue + int32(height)
			}
			return DrawValue
		}
		if s.Board.IsRepetition() {
			return DrawValue
		}
	}

	if height >= MaxHeight-1 {
		v, _ := s.evaluate()
		return v
	}

	// 4. Horizon.
	inCheck := s.Board.InCheck()
	if depth <= 0 {
		if !inCheck {
			return s.qsearch(alpha, beta, height)
		}
		depth = 0
	}

	// 5. TT probe.
	var ttMove board.Move
	ttHit, hasTT := s.TT.Probe(s.Board.Hash)
	if hasTT {
		ttMove = ttHit.BestMove
		if !isPV && int(ttHit.Depth) >= depth {
			ttValue := tt.ValueFromTT(ttHit.Value, height)
			switch ttHit.Bound {
			case tt.PVNode:
				return ttValue
			case tt.CutNode:
				if ttValue >= beta {
					return ttValue
				}
			case tt.AllNode:
				if ttValue <= alpha {
					return ttValue
				}
			}
		}
	}

	// 6. Static evaluation, lazily computed.
	var staticEval int32
	var ei eval.EvalInfo
	evalComputed := false
	evalFn := func() int32 {
		if !evalComputed {
			staticEval, ei = s.evaluate()
			evalComputed = true
		}
		return staticEval
	}

	if !inCheck && !isPV {
		// 7. Razoring.
		if depth <= s.Cfg.RazorDepth && depth < len(s.Cfg.RazorMargin) {
			e := evalFn()
			margin := int32(s.Cfg.RazorMargin[depth])
			if e+margin < alpha {
				if depth == 1 {
					return s.qsearch(alpha, beta, height)
				}
				v := s.qsearch(alpha-margin, alpha-margin+1, height)
				if v <= alpha-margin {
					return v
				}
			}
		}

		// 8. Beta / reverse-futility pruning.
		if depth <= s.Cfg.BetaPruningDepth && s.Board.HasNonPawnMaterial() {
			e := evalFn()
			reduced := e - int32(depth*s.Cfg.BetaPruningSlope)
			if reduced > beta {
				return reduced
			}
		}

		// 9. Null-move pruning.
		if depth >= s.Cfg.NullMovePruningDepth && !prevWasNull && s.Board.HasNonPawnMaterial() {
			e := evalFn()
			if e >= beta {
				r := 4 + depth/6 + int(e-beta+200)/400
				if r > 7 {
					r = 7
				}
				rdepth := depth - r
				if rdepth < 0 {
					rdepth = 0
				}
				board.ApplyNullMove(s.Board, &s.nullUndo[height])
				v := -s.search(-beta, -beta+1, rdepth, height+1, board.NullMove, board.Empty, true)
				board.UnapplyNullMove(s.Board, &s.nullUndo[height])
				if v >= beta {
					if isMateScore(v) {
						v = beta
					}
					return v
				}
			}
		}
	}

	// 10. Internal iterative deepening.
	if isPV && ttMove == board.NoneMove && depth >= s.Cfg.InternalIterativeDeepeningDepth {
		s.search(alpha, beta, depth-2, height, prevMove, prevPiece, prevWasNull)
		if e, ok := s.TT.Probe(s.Board.Hash); ok {
			ttMove = e.BestMove
		}
	}

	// 11. Check extension.
	if inCheck && (isPV || depth <= 6) {
		depth++
	}

	// 12. Move loop.
	picker := NewPicker(s.Board, s.Hist, ttMove, height, prevMove, prevPiece)
	bestValue := int32(-MateValue - 1)
	bestMove := board.NoneMove
	played := 0
	quietsTried := make([]board.Move, 0, 32)
	bound := tt.AllNode

	// Evaluated once against the board state at node entry: whether the TT
	// move was tactical, an LMR input (§4.8, "plus 1 if TT move was
	// tactical and previous best matched it").
	ttMoveTactical := ttMove != board.NoneMove && !ttMove.IsQuiet(s.Board)

	for {
		m, noisy := picker.Next()
		if m == board.NoneMove {
			break
		}
		quiet := !noisy

		// Futility pruning.
		if !isPV && quiet && played >= 1 && depth <= s.Cfg.FutilityPruningDepth &&
			depth < len(s.Cfg.FutilityMargin) && !inCheck {
			e := evalFn()
			if e+int32(s.Cfg.FutilityMargin[depth]) <= alpha {
				continue
			}
		}

		if !board.IsLegal(s.Board, m) {
			continue
		}

		movedPiece := s.Board.PieceAt(m.From())
		board.ApplyMove(s.Board, m, &s.undo[height])
		played++
		if quiet {
			quietsTried = append(quietsTried, m)
		}

		// Late-move pruning.
		if !isPV && quiet && played > 1 && depth <= s.Cfg.LateMovePruningDepth &&
			depth < len(s.Cfg.LateMovePruningCounts) &&
			len(quietsTried) > s.Cfg.LateMovePruningCounts[depth] && !s.Board.InCheck() {
			board.UnapplyMove(s.Board, m, &s.undo[height])
			played--
			quietsTried = quietsTried[:len(quietsTried)-1]
			continue
		}

		// Late-move reductions.
		r := 1
		if played >= 4 && depth >= 3 && quiet {
			r = 2 + (played-4)/8 + (depth-4)/6
			if !isPV {
				r += 2
			}
			if ttMoveTactical && bestMove == ttMove {
				r++
			}
			r -= int(s.Hist.QuietScore(m.From(), m.To())) / 24
			if r < 1 {
				r = 1
			}
			if r > depth-1 {
				r = depth - 1
			}
		}

		var value int32
		if played == 1 || isPV {
			value = -s.search(-beta, -alpha, depth-r, height+1, m, movedPiece, false)
		} else {
			value = -s.search(-alpha-1, -alpha, depth-r, height+1, m, movedPiece, false)
		}

		if value > alpha && (r != 1 || isPV) {
			value = -s.search(-beta, -alpha, depth-1, height+1, m, movedPiece, false)
		}

		board.UnapplyMove(s.Board, m, &s.undo[height])

		if value > bestValue {
			bestValue = value
			bestMove = m
			if value > alpha {
				alpha = value
				bound = tt.PVNode
				s.pv[height].set(m, &s.pv[height+1])
			}
		}

		if value >= beta {
			bound = tt.CutNode
			if quiet {
				s.Hist.UpdateKillers(m, height)
				s.Hist.UpdateHistory(m.From(), m.To(), depth, true)
				for _, qm := range quietsTried[:len(quietsTried)-1] {
					s.Hist.UpdateHistory(qm.From(), qm.To(), depth, false)
				}
			}
			break
		}
	}

	// 13. Mate/stalemate.
	if played == 0 {
		if inCheck {
			return -MateValue + int32(height)
		}
		return DrawValue
	}

	// 15. TT store.
	d := depth
	if d < 0 {
		d = 0
	}
	s.TT.Store(s.Board.Hash, uint8(d), bound, tt.ValueToTT(bestValue, height), bestMove)

	if evalComputed && s.Corr != nil && !inCheck && bound != tt.CutNode {
		s.Corr.Update(int(s.Board.Turn), s.Board.PawnKingHash, bestValue, staticEval, int32(depth))
	}

	return bestValue
}

// qsearch is the capture-only horizon search (§4.8, five-step algorithm).
func (s *Searcher) qsearch(alpha, beta int32, height int) int32 {
	s.Nodes++
	s.checkAbort()

	if height >= MaxHeight-1 {
		v, _ := s.evaluate()
		return v
	}

	s.pv[height].n = 0

	best, ei := s.evaluate()
	if best >= beta {
		return best
	}
	if best > alpha {
		alpha = best
	}

	them := s.Board.Turn.Other()

	// Delta pruning.
	heaviest := heaviestPiece(s.Board, them)
	maxGain := int32(heaviest) + 55
	if s.Board.PieceBBOf(them, board.Queen) == 0 {
		maxGain = int32(heaviest) + 35
	}
	if s.Board.PieceBBOf(them, board.Queen) == 0 && s.Board.PieceBBOf(them, board.Rook) == 0 {
		maxGain = int32(heaviest) + 15
	}
	if best+maxGain < alpha {
		ourPawns := s.Board.PieceBBOf(s.Board.Turn, board.Pawn)
		seventh := board.RankMask(6)
		if s.Board.Turn == board.Black {
			seventh = board.RankMask(1)
		}
		if ourPawns&seventh == 0 {
			return best
		}
	}

	picker := NewQPicker(s.Board, board.NoneMove)
	for {
		m, _ := picker.Next()
		if m == board.NoneMove {
			break
		}

		var captureValue int32
		if m.IsEnPassant() {
			captureValue = int32(board.PieceValue[board.Pawn])
		} else if victim := s.Board.PieceAt(m.To()); victim != board.Empty {
			captureValue = int32(board.PieceValue[victim.Type()])
		}
		if m.IsPromotion() {
			captureValue += int32(board.PieceValue[m.Promotion()]) - int32(board.PieceValue[board.Pawn])
		}
		if best+captureValue+55 < alpha && !m.IsPromotion() {
			continue
		}

		if !m.IsPromotion() {
			if victim := s.Board.PieceAt(m.To()); victim != board.Empty {
				attacker := s.Board.PieceAt(m.From())
				toBB := board.SquareBB(m.To())
				protected := ei.Attacked[them]&toBB != 0
				secondAttacker := ei.AttackedBy2[s.Board.Turn]&toBB != 0
				if protected && !secondAttacker && board.PieceValue[victim.Type()] < board.PieceValue[attacker.Type()] {
					continue
				}
			}
		}

		if !board.IsLegal(s.Board, m) {
			continue
		}

		var undo board.Undo
		board.ApplyMove(s.Board, m, &undo)
		value := -s.qsearch(-beta, -alpha, height+1)
		board.UnapplyMove(s.Board, m, &undo)

		if value > best {
			best = value
			if value > alpha {
				alpha = value
				s.pv[height].set(m, &s.pv[height+1])
			}
		}
		if value >= beta {
			return value
		}
	}

	return best
}

func heaviestPiece(b *board.Board, c board.Color) int {
	if b.PieceBBOf(c, board.Queen) != 0 {
		return board.PieceValue[board.Queen]
	}
	if b.PieceBBOf(c, board.Rook) != 0 {
		return board.PieceValue[board.Rook]
	}
	if b.PieceBBOf(c, board.Bishop) != 0 {
		return board.PieceValue[board.Bishop]
	}
	if b.PieceBBOf(c, board.Knight) != 0 {
		return board.PieceValue[board.Knight]
	}
	return board.PieceValue[board.Pawn]
}
