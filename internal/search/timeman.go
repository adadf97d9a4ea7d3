package search

import "time"

// Limits mirrors the external engine protocol's Limits structure (§6,
// "getBestMove(threads, board, limits, ...)"), the contract an external
// front-end (out of scope per §1) supplies to getBestMove.
type Limits struct {
	LimitedByNone bool
	LimitedByTime bool
	LimitedByDepth bool
	LimitedBySelf bool

	TimeLimit time.Duration
	DepthLimit int

	Start time.Time
	Time  time.Duration
	Inc   time.Duration
	Mtg   int // moves to go; negative means unknown/sudden-death
}

// TimeManager implements the two adaptive formulas of §4.9. Structurally
// grounded on the teacher's TimeManager (internal/engine/timeman.go:
// Init/Elapsed/ShouldStop/PastOptimum/stability adjustment), but the
// ideal/max formulas themselves are the specification's, not the
// teacher's ad hoc sudden-death estimate.
type TimeManager struct {
	ideal time.Duration
	max   time.Duration
	start time.Time

	timeUsage [maxIterativeDepth + 1]time.Duration
}

const maxIterativeDepth = 128

// NewTimeManager derives ideal/max budgets from limits per §4.9.
func NewTimeManager(limits Limits) *TimeManager {
	tm := &TimeManager{start: limits.Start}

	if limits.LimitedByTime {
		tm.ideal = limits.TimeLimit
		tm.max = limits.TimeLimit
		return tm
	}
	if !limits.LimitedBySelf {
		tm.ideal = time.Hour
		tm.max = time.Hour
		return tm
	}

	t := limits.Time
	inc := limits.Inc
	mtg := limits.Mtg

	var ideal, max time.Duration
	if mtg >= 0 {
		ideal = t * 5 / (10 * time.Duration(mtg+3))
		max = t * 24 / (10 * time.Duration(mtg+1))
	} else {
		ideal = t * 5 / 10 / 30
		max = inc + t/15
	}

	ceiling := t - 20*time.Millisecond
	if ceiling < 0 {
		ceiling = 0
	}
	if ideal > ceiling {
		ideal = ceiling
	}
	if max > ceiling {
		max = ceiling
	}
	tm.ideal = ideal
	tm.max = max
	return tm
}

func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

func (tm *TimeManager) ShouldStop() bool { return tm.Elapsed() >= tm.max }

func (tm *TimeManager) PastIdeal() bool { return tm.Elapsed() >= tm.ideal }

// OnDepthFinished applies the post-iteration ideal-time adjustments (§4.9,
// "ideal is multiplied by 1.10 if the score dropped... 1.35 if the best
// move changed") and records this depth's wall-clock cost for the
// next-iteration forecast.
func (tm *TimeManager) OnDepthFinished(depth int, scoreDropped, bestMoveChanged bool, elapsedThisDepth time.Duration) {
	if depth >= 0 && depth <= maxIterativeDepth {
		tm.timeUsage[depth] = elapsedThisDepth
	}
	if scoreDropped {
		tm.ideal = time.Duration(float64(tm.ideal) * 1.10)
	}
	if bestMoveChanged {
		tm.ideal = time.Duration(float64(tm.ideal) * 1.35)
	}
	if tm.ideal > tm.max {
		tm.ideal = tm.max
	}
}

// ForecastExceedsMax projects the next iteration's cost from the ratio of
// the last two iterations' wall-clock time and reports whether that
// forecast would blow through the maximum budget (§4.9, "forecasts next-
// iteration cost... aborts if the forecast exceeds max").
func (tm *TimeManager) ForecastExceedsMax(depth int) bool {
	if depth < 1 || depth > maxIterativeDepth {
		return false
	}
	prev := tm.timeUsage[depth]
	prevPrev := tm.timeUsage[depth-1]
	if prevPrev <= 0 {
		return false
	}
	ratio := float64(prev) / float64(prevPrev)
	forecast := time.Duration(float64(prev) * ratio)
	return tm.Elapsed()+forecast > tm.max
}
