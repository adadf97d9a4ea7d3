package search

// CorrectionHistory tracks how far static evaluation has historically
// missed the search's verdict for positions sharing a hash bucket, and
// nudges future static evaluations toward the historical correction.
// Adapted from the teacher's CorrectionHistory (internal/engine/
// correction.go, itself grounded on Stockfish's correction history),
// generalized from a single table to one keyed per side to move since the
// specification's evaluator is already side-to-move-relative.
type CorrectionHistory struct {
	table [2][1 << 16]int32
}

// NewCorrectionHistory returns a zeroed table.
func NewCorrectionHistory() *CorrectionHistory { return &CorrectionHistory{} }

func (ch *CorrectionHistory) index(hash uint64) uint64 { return hash & 0xFFFF }

// Get returns the correction to add to a position's static evaluation.
func (ch *CorrectionHistory) Get(turn int, hash uint64) int32 {
	return ch.table[turn][ch.index(hash)]
}

// Update applies a gravity-filtered correction toward the error between
// the search's verdict and the static evaluation, scaled by depth and
// clamped against runaway corrections (same scheme as the teacher).
func (ch *CorrectionHistory) Update(turn int, hash uint64, searchScore, staticEval, depth int32) {
	if depth < 1 {
		return
	}
	diff := searchScore - staticEval
	bonus := diff * depth / 8
	if bonus > 256 {
		bonus = 256
	} else if bonus < -256 {
		bonus = -256
	}

	idx := ch.index(hash)
	old := ch.table[turn][idx]
	newVal := old + (bonus-old)/16
	if newVal > 16000 {
		newVal = 16000
	} else if newVal < -16000 {
		newVal = -16000
	}
	ch.table[turn][idx] = newVal
}

// Clear resets every correction to zero.
func (ch *CorrectionHistory) Clear() {
	for c := range ch.table {
		for i := range ch.table[c] {
			ch.table[c][i] = 0
		}
	}
}

// Age halves every correction, run between unrelated games so stale
// corrections decay rather than persisting indefinitely.
func (ch *CorrectionHistory) Age() {
	for c := range ch.table {
		for i := range ch.table[c] {
			ch.table[c][i] /= 2
		}
	}
}
