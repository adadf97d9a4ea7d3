package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid/chessplay-core/internal/board"
	"github.com/corvid/chessplay-core/internal/config"
	"github.com/corvid/chessplay-core/internal/tt"
)

func newTestSearcher(b *board.Board) *Searcher {
	var stop uint32
	return NewSearcher(b, tt.New(1), &stop, config.Default())
}

func TestSearchFindsMateInOne(t *testing.T) {
	b, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)
	s := newTestSearcher(b)

	result := s.Search(4, -MateValue, MateValue)
	require.False(t, result.Aborted)
	require.True(t, isMateScore(result.Value))
	require.Greater(t, result.Value, int32(0), "mate for the side to move must score positive")
	require.NotEmpty(t, result.PV)
	require.Equal(t, board.NewMove(board.A1, board.A8), result.PV[0])
}

func TestSearchReturnsDrawOnStalemate(t *testing.T) {
	b, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	s := newTestSearcher(b)

	result := s.Search(2, -MateValue, MateValue)
	require.False(t, result.Aborted)
	require.Equal(t, int32(DrawValue), result.Value)
}

func TestSearchFromStartingPositionReturnsLegalMove(t *testing.T) {
	b := board.NewStartingPosition()
	s := newTestSearcher(b)

	result := s.Search(3, -MateValue, MateValue)
	require.False(t, result.Aborted)
	require.NotEmpty(t, result.PV)

	var ml board.MoveList
	board.GenNoisy(b, &ml)
	board.GenQuiet(b, &ml)
	found := false
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i) == result.PV[0] {
			found = true
			break
		}
	}
	require.True(t, found, "PV[0] must be a pseudo-legal move from the root position")
}

func TestAspirationWindowWidensOnFailLow(t *testing.T) {
	b := board.NewStartingPosition()
	s := newTestSearcher(b)

	result := s.AspirationWindow(6, 500, 490, true)
	require.False(t, result.Aborted)
	require.NotEmpty(t, result.PV)
}

func TestSearcherDoesNotMutateBoardAcrossSearch(t *testing.T) {
	b, err := board.ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	require.NoError(t, err)
	before := *b
	s := newTestSearcher(b)

	s.Search(4, -MateValue, MateValue)

	require.Equal(t, before.Hash, b.Hash)
	require.Equal(t, before.Squares, b.Squares)
	require.Equal(t, before.Turn, b.Turn)
}

func TestCheckAbortPanicsWhenStopSignalled(t *testing.T) {
	b := board.NewStartingPosition()
	var stop uint32 = 1
	s := NewSearcher(b, tt.New(1), &stop, config.Default())
	s.Nodes = 8192

	require.Panics(t, func() { s.checkAbort() })
}
