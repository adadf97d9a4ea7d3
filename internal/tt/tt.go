// Package tt implements the shared transposition table: a 4-way bucketed,
// 32-byte-packed hash table addressed by the position's Zobrist hash,
// probed and stored without per-entry locking (§4.5, §5 "Shared mutable
// state"). Structurally grounded on the teacher's flat
// internal/engine/transposition.go, redesigned to the specification's
// exact bucket layout and replacement policy.
package tt

import (
	"fmt"
	"sync/atomic"

	"github.com/corvid/chessplay-core/internal/board"
	"github.com/corvid/chessplay-core/internal/logging"
)

var log = logging.Get("tt")

// Bound is the kind of score stored in an entry: exact, or a bound from a
// cutoff the search didn't fully resolve.
type Bound uint8

const (
	BoundNone Bound = iota
	PVNode          // exact score
	CutNode         // lower bound (failed high, score >= beta)
	AllNode         // upper bound (failed low, score <= alpha)
)

// MateValue and MaxHeight define the window within which stored scores are
// mate-distance adjusted (§4.5, "valueToTT/valueFromTT").
const (
	MateValue = 32000
	MaxHeight = board.MaxHeight
)

// entry is one 8-byte (64-bit) packed transposition slot. Fields mirror the
// specification's `{value: i16, depth: u8, info: u8 (age:6|bound:2),
// bestMove: u16, hash16: u16}` layout; Go field ordering is chosen to keep
// the struct compact without needing an explicit byte-packed encoding.
type entry struct {
	hash16   uint16
	bestMove board.Move
	value    int16
	depth    uint8
	info     uint8 // bits 0-1: bound, bits 2-7: generation
}

func (e *entry) bound() Bound { return Bound(e.info & 0x3) }
func (e *entry) age() uint8   { return e.info >> 2 }

func packInfo(age uint8, b Bound) uint8 {
	return (age << 2) | uint8(b)
}

// bucket holds 4 entries, the specification's fixed associativity.
type bucket struct {
	entries [4]entry
}

// Table is the shared transposition table. All fields besides generation
// are read/written without synchronization across worker goroutines;
// probe semantics tolerate torn reads because the hash16 fragment match is
// the correctness test (§5).
type Table struct {
	buckets    []bucket
	mask       uint64
	generation uint32 // atomically bumped once per new root search
}

// New allocates a table sized to the largest power of two of buckets
// fitting in sizeMB megabytes.
func New(sizeMB int) *Table {
	const bucketSize = 32
	if sizeMB < 1 {
		log.Warningf("tt: requested size %dMB is too small, falling back to 1MB", sizeMB)
		sizeMB = 1
	}
	count := (sizeMB * 1024 * 1024) / bucketSize
	size := 1
	for size*2 <= count {
		size *= 2
	}
	if size < 1 {
		size = 1
	}
	buckets, err := allocBuckets(size)
	if err != nil {
		log.Fatalf("tt: allocation of %d buckets failed: %v", size, err)
	}
	return &Table{
		buckets: buckets,
		mask:    uint64(size - 1),
	}
}

// allocBuckets is split out from New so an allocation failure (e.g. a
// misconfigured hash size requesting more memory than the process can
// commit) is caught and turned into an error that New logs as fatal
// (§10, "TT allocation failure at init").
func allocBuckets(size int) (buckets []bucket, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return make([]bucket, size), nil
}

// Clear zeroes every bucket and resets the generation counter, used on an
// explicit position-reset command (§4.5, "Lifecycle").
func (t *Table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = bucket{}
	}
	atomic.StoreUint32(&t.generation, 0)
}

// NewSearch bumps the generation counter, the "aged, not zeroed" step run
// once per new root search (§4.5, "Resource lifecycle").
func (t *Table) NewSearch() {
	atomic.AddUint32(&t.generation, 1)
}

func (t *Table) index(hash uint64) uint64 { return hash & t.mask }

func fingerprint(hash uint64) uint16 { return uint16(hash >> 48) }

// Entry is the caller-facing view of a probe hit.
type Entry struct {
	Value    int16
	BestMove board.Move
	Depth    uint8
	Bound    Bound
}

// Probe returns the first entry in hash's bucket whose fingerprint
// matches, refreshing its generation to the current one so it counts as
// fresh for replacement purposes (§4.5, "Probe").
func (t *Table) Probe(hash uint64) (Entry, bool) {
	b := &t.buckets[t.index(hash)]
	want := fingerprint(hash)
	gen := uint8(atomic.LoadUint32(&t.generation))
	for i := range b.entries {
		e := &b.entries[i]
		if e.hash16 == want && e.depth > 0 {
			e.info = packInfo(gen, e.bound())
			return Entry{
				Value:    e.value,
				BestMove: e.bestMove,
				Depth:    e.depth,
				Bound:    e.bound(),
			}, true
		}
	}
	return Entry{}, false
}

// Store records a search result in hash's bucket, replacing in order of
// preference: an empty slot, a slot with a matching fingerprint, or the
// slot minimising depth - 2*(64 + gen - entryAge) (§4.5, "Store").
func (t *Table) Store(hash uint64, depth uint8, bound Bound, value int16, best board.Move) {
	b := &t.buckets[t.index(hash)]
	want := fingerprint(hash)
	gen := uint8(atomic.LoadUint32(&t.generation)) & 0x3F

	var victim *entry
	worstScore := int32(1 << 30)
	for i := range b.entries {
		e := &b.entries[i]
		if e.depth == 0 {
			victim = e
			break
		}
		if e.hash16 == want {
			victim = e
			break
		}
		score := int32(e.depth) - 2*int32(64+uint16(gen)-uint16(e.age()))
		if score < worstScore {
			worstScore = score
			victim = e
		}
	}
	if victim == nil {
		victim = &b.entries[0]
	}

	if best == board.NoneMove && victim.hash16 == want {
		best = victim.bestMove // keep the previous best move when storing an eval-only refresh
	}

	victim.hash16 = want
	victim.bestMove = best
	victim.value = value
	victim.depth = depth
	victim.info = packInfo(gen, bound)
}

// Hashfull estimates per-mille table occupancy by sampling the first 1250
// buckets (§4.5, "hashfull is estimated by counting non-empty entries in
// the first 1250 buckets").
func (t *Table) Hashfull() int {
	sample := 1250
	if sample > len(t.buckets) {
		sample = len(t.buckets)
	}
	if sample == 0 {
		return 0
	}
	gen := uint8(atomic.LoadUint32(&t.generation)) & 0x3F
	used := 0
	total := 0
	for i := 0; i < sample; i++ {
		for j := range t.buckets[i].entries {
			e := &t.buckets[i].entries[j]
			total++
			if e.depth > 0 && e.age() == gen {
				used++
			}
		}
	}
	return (used * 1000) / total
}

// ValueToTT converts a search score (mate distance counted from the root)
// into a TT-relative score (mate distance counted from the storing node,
// at height plies) that remains valid regardless of where in the tree the
// entry is later probed (§4.5, "Mate-score adjustment").
func ValueToTT(v int32, height int) int16 {
	if v >= MateValue-MaxHeight {
		return int16(v + int32(height))
	}
	if v <= -MateValue+MaxHeight {
		return int16(v - int32(height))
	}
	return int16(v)
}

// ValueFromTT is the inverse of ValueToTT, reconstructing a score relative
// to the querying ply.
func ValueFromTT(v int16, height int) int32 {
	val := int32(v)
	if val >= MateValue-MaxHeight {
		return val - int32(height)
	}
	if val <= -MateValue+MaxHeight {
		return val + int32(height)
	}
	return val
}
