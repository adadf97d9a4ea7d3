package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvid/chessplay-core/internal/board"
	"github.com/corvid/chessplay-core/internal/config"
)

func TestGetBestMoveReturnsLegalMoveSingleThreaded(t *testing.T) {
	p := New(1, config.Default())
	root := board.NewStartingPosition()

	limits := Limits{LimitedByDepth: true, DepthLimit: 5, Start: time.Now()}
	best, _ := GetBestMove(p, 1, root, limits, nil)

	require.NotEqual(t, board.NoneMove, best)

	var ml board.MoveList
	board.GenNoisy(root, &ml)
	board.GenQuiet(root, &ml)
	found := false
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i) == best {
			found = true
			break
		}
	}
	require.True(t, found, "best move must be pseudo-legal from the root position")
}

func TestGetBestMoveReportsProgressFromWorkerZero(t *testing.T) {
	p := New(1, config.Default())
	root := board.NewStartingPosition()

	var reports []Report
	limits := Limits{LimitedByDepth: true, DepthLimit: 4, Start: time.Now()}
	GetBestMove(p, 2, root, limits, func(r Report) {
		reports = append(reports, r)
	})

	require.NotEmpty(t, reports, "iterative deepening should report at least one completed depth")
	for i := 1; i < len(reports); i++ {
		require.GreaterOrEqual(t, reports[i].Depth, reports[i-1].Depth)
	}
}

func TestGetBestMoveFindsMateInOneUnderLazySMP(t *testing.T) {
	p := New(1, config.Default())
	root, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	limits := Limits{LimitedByDepth: true, DepthLimit: 5, Start: time.Now()}
	best, _ := GetBestMove(p, 4, root, limits, nil)

	require.Equal(t, board.NewMove(board.A1, board.A8), best)
}

func TestShouldSkipDepthRequiresHalfSiblingsAhead(t *testing.T) {
	ahead := &Pool{depths: []int{5, 5, 1, 1, 1}}
	require.True(t, ahead.shouldSkipDepth(2, 5, 5), "two of four siblings are already at depth 5")

	behind := &Pool{depths: []int{1, 5, 1, 1, 1}}
	require.False(t, behind.shouldSkipDepth(0, 5, 5), "only one of four siblings is ahead of worker 0")
}

func TestTotalNodesSumsAcrossWorkers(t *testing.T) {
	p := New(1, config.Default())
	root := board.NewStartingPosition()
	limits := Limits{LimitedByDepth: true, DepthLimit: 3, Start: time.Now()}
	GetBestMove(p, 2, root, limits, nil)

	require.Greater(t, p.totalNodes(), uint64(0))
}
