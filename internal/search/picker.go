package search

import "github.com/corvid/chessplay-core/internal/board"

type stage int

const (
	stageTT stage = iota
	stageGenNoisy
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounterMove
	stageGenQuiet
	stageQuiet
	stageBadCaptures
	stageDone
)

// Picker is the staged move enumerator of §4.6: it yields the TT move,
// then winning captures, then killers and the counter-move, then quiets in
// history order, and finally losing captures — never repeating a move and
// skipping anything already tried. Genuinely restructured from the
// teacher's score-everything-then-PickMove loop (internal/engine/
// ordering.go, search.go) into a lazy state machine, since the
// specification's stage boundaries (e.g. "skip stages 4-7 in qsearch")
// have no equivalent in the teacher at all.
type Picker struct {
	b    *board.Board
	hist *History

	ttMove      board.Move
	height      int
	prevMove    board.Move
	prevPiece   board.Piece
	qsearchOnly bool

	stage stage

	noisy       board.MoveList
	noisyScores [256]int32
	goodOrder   []int
	badOrder    []int
	goodPos     int
	badPos      int

	quiet       board.MoveList
	quietScores [256]int32
	quietOrder  []int
	quietPos    int

	killer1, killer2, counter board.Move

	tried []board.Move
}

// NewPicker builds a full-search picker for the given node. prevMove/
// prevPiece are the previous ply's move and the piece that landed on its
// destination square, used for counter-move lookup; pass board.NoneMove/
// board.Empty at the root.
func NewPicker(b *board.Board, hist *History, ttMove board.Move, height int, prevMove board.Move, prevPiece board.Piece) *Picker {
	return &Picker{
		b:         b,
		hist:      hist,
		ttMove:    ttMove,
		height:    height,
		prevMove:  prevMove,
		prevPiece: prevPiece,
		stage:     stageTT,
	}
}

// NewQPicker builds a quiescence picker, which skips the killer/counter/
// quiet stages entirely (§4.6, "Quiescence picker skips stages 4-7").
func NewQPicker(b *board.Board, ttMove board.Move) *Picker {
	return &Picker{
		b:           b,
		ttMove:      ttMove,
		qsearchOnly: true,
		stage:       stageTT,
	}
}

func (p *Picker) wasTried(m board.Move) bool {
	for _, t := range p.tried {
		if t == m {
			return true
		}
	}
	return false
}

func (p *Picker) markTried(m board.Move) { p.tried = append(p.tried, m) }

// Next returns the next move and whether it is a capture/promotion (the
// "noisy" classification the search loop needs for futility/LMR/LMP), or
// board.NoneMove when the picker is exhausted.
func (p *Picker) Next() (board.Move, bool) {
	for {
		switch p.stage {
		case stageTT:
			p.stage = stageGenNoisy
			if p.ttMove != board.NoneMove && board.MoveIsPseudoLegal(p.b, p.ttMove) {
				p.markTried(p.ttMove)
				return p.ttMove, !p.ttMove.IsQuiet(p.b)
			}

		case stageGenNoisy:
			board.GenNoisy(p.b, &p.noisy)
			p.scoreNoisy()
			p.stage = stageGoodCaptures

		case stageGoodCaptures:
			if p.goodPos < len(p.goodOrder) {
				i := p.goodOrder[p.goodPos]
				p.goodPos++
				m := p.noisy.Get(i)
				if p.wasTried(m) {
					continue
				}
				p.markTried(m)
				return m, true
			}
			if p.qsearchOnly {
				p.stage = stageBadCaptures
			} else {
				p.stage = stageKiller1
			}

		case stageKiller1:
			p.stage = stageKiller2
			if p.hist != nil {
				p.killer1 = p.hist.Killer1(p.height)
				if p.killer1 != board.NoneMove && !p.wasTried(p.killer1) && board.MoveIsPseudoLegal(p.b, p.killer1) && p.killer1.IsQuiet(p.b) {
					p.markTried(p.killer1)
					return p.killer1, false
				}
			}

		case stageKiller2:
			p.stage = stageCounterMove
			if p.hist != nil {
				p.killer2 = p.hist.Killer2(p.height)
				if p.killer2 != board.NoneMove && !p.wasTried(p.killer2) && board.MoveIsPseudoLegal(p.b, p.killer2) && p.killer2.IsQuiet(p.b) {
					p.markTried(p.killer2)
					return p.killer2, false
				}
			}

		case stageCounterMove:
			p.stage = stageGenQuiet
			if p.hist != nil && p.prevMove != board.NoneMove {
				p.counter = p.hist.CounterMove(p.prevPiece, p.prevMove.To())
				if p.counter != board.NoneMove && !p.wasTried(p.counter) && board.MoveIsPseudoLegal(p.b, p.counter) && p.counter.IsQuiet(p.b) {
					p.markTried(p.counter)
					return p.counter, false
				}
			}

		case stageGenQuiet:
			board.GenQuiet(p.b, &p.quiet)
			p.scoreQuiet()
			p.stage = stageQuiet

		case stageQuiet:
			if p.quietPos < len(p.quietOrder) {
				i := p.quietOrder[p.quietPos]
				p.quietPos++
				m := p.quiet.Get(i)
				if p.wasTried(m) {
					continue
				}
				p.markTried(m)
				return m, false
			}
			p.stage = stageBadCaptures

		case stageBadCaptures:
			if p.badPos < len(p.badOrder) {
				i := p.badOrder[p.badPos]
				p.badPos++
				m := p.noisy.Get(i)
				if p.wasTried(m) {
					continue
				}
				p.markTried(m)
				return m, true
			}
			p.stage = stageDone

		case stageDone:
			return board.NoneMove, false
		}
	}
}

// scoreNoisy scores every generated capture/promotion by MVV/LVA (plus
// capture-history when available) and partitions it into a SEE>=0
// "winning-first" order and a SEE<0 "bad capture" order, both sorted
// descending by score (§4.6 stages 2-3, 8; §4.7 for the threshold test).
func (p *Picker) scoreNoisy() {
	n := p.noisy.Len()
	p.goodOrder = make([]int, 0, n)
	p.badOrder = make([]int, 0, n)
	for i := 0; i < n; i++ {
		m := p.noisy.Get(i)
		attacker := p.b.PieceAt(m.From())
		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else if cap := p.b.PieceAt(m.To()); cap != board.Empty {
			victim = cap.Type()
		} else {
			victim = board.Pawn // promotion with no capture
		}
		score := mvvLvaScore(victim, attacker.Type())
		if p.hist != nil {
			score += p.hist.CaptureScore(attacker, m.To(), victim) / 4
		}
		if m.IsPromotion() {
			score += int32(board.PieceValue[m.Promotion()]) * 4
		}
		p.noisyScores[i] = score

		if see(p.b, m, 0) {
			p.goodOrder = append(p.goodOrder, i)
		} else {
			p.badOrder = append(p.badOrder, i)
		}
	}
	sortByScoreDesc(p.goodOrder, p.noisyScores[:])
	sortByScoreDesc(p.badOrder, p.noisyScores[:])
}

// scoreQuiet scores every generated quiet move by history plus
// countermove-history (§4.6 stages 6-7).
func (p *Picker) scoreQuiet() {
	n := p.quiet.Len()
	p.quietOrder = make([]int, n)
	for i := 0; i < n; i++ {
		p.quietOrder[i] = i
		m := p.quiet.Get(i)
		score := int32(0)
		if p.hist != nil {
			score = p.hist.QuietScore(m.From(), m.To())
			if p.prevMove != board.NoneMove {
				movePiece := p.b.PieceAt(m.From())
				score += p.hist.CounterMoveHistoryScore(p.prevPiece, p.prevMove.To(), movePiece, m.To()) / 2
			}
		}
		p.quietScores[i] = score
	}
	sortByScoreDesc(p.quietOrder, p.quietScores[:])
}

func sortByScoreDesc(order []int, scores []int32) {
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && scores[order[j-1]] < scores[order[j]] {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
}
