package tt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid/chessplay-core/internal/board"
)

func TestStoreThenProbeHits(t *testing.T) {
	table := New(1)
	b := board.NewStartingPosition()
	m := board.NewMove(board.E2, board.E4)

	table.Store(b.Hash, 6, PVNode, 37, m)

	e, ok := table.Probe(b.Hash)
	require.True(t, ok)
	require.Equal(t, int16(37), e.Value)
	require.Equal(t, m, e.BestMove)
	require.Equal(t, uint8(6), e.Depth)
	require.Equal(t, PVNode, e.Bound)
}

func TestProbeMissOnDifferentHash(t *testing.T) {
	table := New(1)
	_, ok := table.Probe(0xDEADBEEF)
	require.False(t, ok)
}

func TestStoreKeepsPreviousBestMoveOnEvalOnlyRefresh(t *testing.T) {
	table := New(1)
	b := board.NewStartingPosition()
	m := board.NewMove(board.D2, board.D4)

	table.Store(b.Hash, 4, CutNode, 10, m)
	table.Store(b.Hash, 4, PVNode, 12, board.NoneMove)

	e, ok := table.Probe(b.Hash)
	require.True(t, ok)
	require.Equal(t, m, e.BestMove, "refresh without a new best move should keep the old one")
}

func TestClearResetsGenerationAndEntries(t *testing.T) {
	table := New(1)
	b := board.NewStartingPosition()
	table.Store(b.Hash, 3, PVNode, 5, board.NoneMove)

	table.Clear()

	_, ok := table.Probe(b.Hash)
	require.False(t, ok, "clear should wipe every bucket")
}

func TestValueToFromTTRoundTripsNonMateScores(t *testing.T) {
	for _, v := range []int32{0, 15, -240, 1000} {
		tv := ValueToTT(v, 5)
		require.Equal(t, v, ValueFromTT(tv, 5))
	}
}

func TestValueToFromTTAdjustsMateDistance(t *testing.T) {
	const height = 3
	mateIn2 := int32(MateValue - 2)
	tv := ValueToTT(mateIn2, height)
	require.Equal(t, int16(mateIn2+height), tv, "mate scores are stored relative to the storing node")
	require.Equal(t, int32(mateIn2), ValueFromTT(tv, height), "and reconstructed relative to the root at the probing height")

	gettingMated := int32(-MateValue + 2)
	tv2 := ValueToTT(gettingMated, height)
	require.Equal(t, int32(gettingMated), ValueFromTT(tv2, height))
}

func TestHashfullStartsAtZero(t *testing.T) {
	table := New(1)
	require.Equal(t, 0, table.Hashfull())
}

func TestNewSearchAgesEntriesForHashfullAccounting(t *testing.T) {
	table := New(1)
	for i := uint64(0); i < 1250; i++ {
		table.Store(i, 2, PVNode, 1, board.NoneMove)
	}
	require.Greater(t, table.Hashfull(), 0, "entries stored under the current generation should count")

	table.NewSearch()
	require.Equal(t, 0, table.Hashfull(), "bumping the generation ages out entries from the prior search")
}
