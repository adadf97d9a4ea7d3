// Package pool implements the lazy-SMP thread pool (§5, §6):
// getBestMove fans a root position out across N independent workers that
// share only the transposition table, coordinated through a single mutex
// guarding iteration bookkeeping rather than search recursion itself.
// Grounded on the teacher's Engine/Worker (internal/engine/engine.go,
// worker.go), restructured from its channel/goroutine/WaitGroup plumbing
// onto golang.org/x/sync/errgroup, which the rest of the example pack
// reaches for whenever it needs a cancellable worker fan-out. Any worker
// deciding the search is over returns errStop, which errgroup turns into
// real ctx cancellation for every sibling; a small watcher goroutine
// bridges that cancellation into the atomic flag Searcher.checkAbort
// polls, since the recursive search itself has no access to a Context.
package pool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corvid/chessplay-core/internal/board"
	"github.com/corvid/chessplay-core/internal/config"
	"github.com/corvid/chessplay-core/internal/logging"
	"github.com/corvid/chessplay-core/internal/search"
	"github.com/corvid/chessplay-core/internal/tt"
)

var log = logging.Get("pool")

// errStop is returned by iterativeDeepening when a worker decides the
// search is finished (time budget spent, depth limit reached, a terminal
// score found, its search aborted); errgroup cancels the shared ctx for
// every other worker in response.
var errStop = errors.New("pool: search stopped")

// Limits is the external engine protocol's input (§6, "getBestMove(...)
// supplying Limits{...}").
type Limits = search.Limits

// Report is the payload uciReport must be able to assemble (§6,
// "payload must include depth, mate-aware score..., time, nodes, nps,
// hashfull, and PV").
type Report struct {
	Depth     int
	Value     int32
	Time      time.Duration
	Nodes     uint64
	NPS       uint64
	HashFull  int
	PV        []board.Move
}

// ReportFunc is the uciReport callback (§6).
type ReportFunc func(Report)

// abortKind distinguishes why a worker unwound out of iterative deepening
// (§5, "Three abort kinds").
type abortKind int32

const (
	abortNone abortKind = iota
	abortDepth
	abortAll
)

// Pool is the lazy-SMP thread pool: one Searcher per worker, a single
// shared TT, and the mutex-guarded iteration-coordination block described
// in §5.
type Pool struct {
	tt  *tt.Table
	cfg config.Config

	mu          sync.Mutex
	depths      []int // each worker's currently-completed depth
	bestMoves   [][]board.Move
	completed   []int // highest depth each worker has finished
	stop        uint32
	abort       abortKind
	sharedBest  board.Move
	sharedValue int32
	sharedDepth int
	sharedPV    []board.Move

	workers []*search.Searcher // valid only for the duration of one GetBestMove call
}

// New allocates a pool with the given transposition-table size and
// configuration. Workers themselves are created per search, since each
// needs a private copy of the root board (§5, "private board... per
// worker").
func New(ttSizeMB int, cfg config.Config) *Pool {
	return &Pool{
		tt:  tt.New(ttSizeMB),
		cfg: cfg,
	}
}

// TT exposes the shared table, e.g. for an explicit "clear hash" command.
func (p *Pool) TT() *tt.Table { return p.tt }

// GetBestMove runs lazy-SMP iterative deepening across threads workers on
// root, honoring limits, and reports progress from worker 0 via report.
// Mirrors §6's getBestMove(threads, board, limits, &best, &ponder)
// signature, adapted to Go idiom (return values instead of out-params).
func GetBestMove(p *Pool, threads int, root *board.Board, limits Limits, report ReportFunc) (best, ponder board.Move) {
	if threads < 1 {
		threads = runtime.GOMAXPROCS(0)
	}

	p.tt.NewSearch()
	atomic.StoreUint32(&p.stop, 0)

	tm := search.NewTimeManager(limits)

	p.mu.Lock()
	p.depths = make([]int, threads)
	p.bestMoves = make([][]board.Move, threads)
	p.completed = make([]int, threads)
	p.sharedBest = board.NoneMove
	p.sharedValue = 0
	p.sharedDepth = 0
	p.sharedPV = nil
	p.abort = abortNone
	p.mu.Unlock()

	searchers := make([]*search.Searcher, threads)
	for i := 0; i < threads; i++ {
		b := root.Copy()
		s := search.NewSearcher(b, p.tt, &p.stop, p.cfg)
		s.TM = tm
		searchers[i] = s
	}
	p.mu.Lock()
	p.workers = searchers
	p.mu.Unlock()

	maxDepth := search.MaxHeight - 1
	if limits.LimitedByDepth && limits.DepthLimit > 0 && limits.DepthLimit < maxDepth {
		maxDepth = limits.DepthLimit
	}

	startTime := limits.Start
	if startTime.IsZero() {
		startTime = time.Now()
	}

	log.Debugf("pool: starting search, %d workers, maxDepth=%d", threads, maxDepth)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		<-ctx.Done()
		atomic.StoreUint32(&p.stop, 1)
		return nil
	})
	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() error {
			return p.iterativeDeepening(ctx, i, searchers[i], maxDepth, tm, startTime, report)
		})
	}
	_ = g.Wait()

	p.mu.Lock()
	best = p.sharedBest
	p.mu.Unlock()

	if len(p.sharedPV) > 1 {
		ponder = p.sharedPV[1]
	}
	return best, ponder
}

// iterativeDeepening drives one worker through depths 1..maxDepth,
// electing to skip ahead when enough siblings are already deeper (§4.8,
// "lazy-SMP helper election"), and stopping on any termination condition
// (§4.8, "Termination conditions").
func (p *Pool) iterativeDeepening(ctx context.Context, id int, s *search.Searcher, maxDepth int, tm *search.TimeManager, startTime time.Time, report ReportFunc) error {
	var prevValue, prevPrevValue int32
	haveHistory := false
	var lastBest board.Move

	for depth := 1; depth <= maxDepth; depth++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if p.shouldSkipDepth(id, depth, len(p.depths)) {
			p.mu.Lock()
			p.depths[id] = depth
			p.mu.Unlock()
			continue
		}

		iterStart := time.Now()
		result := s.AspirationWindow(depth, prevValue, prevPrevValue, haveHistory)
		if result.Aborted {
			return errStop
		}

		prevPrevValue = prevValue
		prevValue = result.Value
		haveHistory = true

		nodes := p.totalNodes()
		elapsed := time.Since(startTime)

		p.mu.Lock()
		p.depths[id] = depth
		p.bestMoves[id] = result.PV
		p.completed[id] = depth

		bestMoveChanged := len(result.PV) > 0 && result.PV[0] != lastBest
		if len(result.PV) > 0 {
			lastBest = result.PV[0]
		}

		if depth >= p.sharedDepth {
			p.sharedDepth = depth
			p.sharedValue = result.Value
			p.sharedPV = result.PV
			if len(result.PV) > 0 {
				p.sharedBest = result.PV[0]
			}
			if id == 0 && report != nil {
				report(Report{
					Depth:    depth,
					Value:    result.Value,
					Time:     elapsed,
					Nodes:    nodes,
					NPS:      nps(nodes, elapsed),
					HashFull: p.tt.Hashfull(),
					PV:       result.PV,
				})
			}
		}
		p.mu.Unlock()

		scoreDropped := prevPrevValue-result.Value >= 8
		tm.OnDepthFinished(depth, scoreDropped, bestMoveChanged, time.Since(iterStart))

		if tm.ShouldStop() {
			log.Debugf("worker %d stopping: time budget spent at depth %d", id, depth)
			return errStop
		}
		if tm.ForecastExceedsMax(depth) {
			log.Debugf("worker %d stopping: depth %d+1 forecast to exceed time budget", id, depth)
			return errStop
		}
		if isTerminalScore(result.Value) {
			log.Debugf("worker %d stopping: terminal score %d found at depth %d", id, result.Value, depth)
			return errStop
		}
	}
	return errStop
}

// shouldSkipDepth implements lazy-SMP helper election: a worker may skip
// straight to depth+1 if at least half the other workers are already at
// or above this depth (§4.8).
func (p *Pool) shouldSkipDepth(id, depth, threads int) bool {
	if threads < 3 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	ahead := 0
	for i, d := range p.depths {
		if i == id {
			continue
		}
		if d >= depth {
			ahead++
		}
	}
	return ahead*2 >= threads-1
}

// totalNodes sums every worker's node counter. Read without per-worker
// synchronization: a torn or stale read only skews a progress counter,
// never search correctness, the same tolerance the shared TT relies on
// (§5, "Shared mutable state").
func (p *Pool) totalNodes() uint64 {
	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()
	var total uint64
	for _, w := range workers {
		total += w.Nodes
	}
	return total
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return nodes * uint64(time.Second) / uint64(elapsed)
}

func isTerminalScore(v int32) bool {
	if v < 0 {
		v = -v
	}
	return v >= search.MateValue-4
}
