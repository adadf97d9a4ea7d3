package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid/chessplay-core/internal/board"
)

func TestStartingPositionIsRoughlyBalanced(t *testing.T) {
	b := board.NewStartingPosition()
	var ei EvalInfo
	score := Evaluate(b, &ei, nil)

	require.InDelta(t, tempoBonus, score, 40,
		"the only asymmetry in the starting position is the side-to-move tempo bonus")
}

func TestEvaluateIsSideToMoveRelativeAfterNullMove(t *testing.T) {
	b := board.NewStartingPosition()
	var ei EvalInfo
	white := Evaluate(b, &ei, nil)

	var undo board.Undo
	board.ApplyNullMove(b, &undo)
	black := Evaluate(b, &ei, nil)
	board.UnapplyNullMove(b, &undo)

	require.InDelta(t, white, black, 1,
		"swapping the side to move on a symmetric position should negate the mirrored score")
}

func TestUpMaterialScoresHigher(t *testing.T) {
	withQueen, err := board.ParseFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	require.NoError(t, err)
	withoutQueen, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var ei EvalInfo
	up := Evaluate(withQueen, &ei, nil)
	even := Evaluate(withoutQueen, &ei, nil)
	require.Greater(t, up, even, "a lone extra queen must dominate the static evaluation")
}

func TestMobilityFillsAttackInfo(t *testing.T) {
	b := board.NewStartingPosition()
	var ei EvalInfo
	Evaluate(b, &ei, nil)

	require.NotZero(t, ei.Attacked[board.White], "the starting position's knights attack something")
	require.NotZero(t, ei.Attacked[board.Black])
}

func TestPawnKingTableCachesAcrossCallsWithSameHash(t *testing.T) {
	b := board.NewStartingPosition()
	pt := NewPawnKingTable(1)

	mg1, eg1 := pawnStructure(b, pt)
	mg2, eg2 := pawnStructure(b, pt)
	require.Equal(t, mg1, mg2)
	require.Equal(t, eg1, eg2)
}

func TestIsPassedPawnDetectsUnopposedPawn(t *testing.T) {
	b, err := board.ParseFEN("4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, isPassedPawn(board.E4, board.White, b.PieceBBOf(board.Black, board.Pawn)))
}

func TestIsPassedPawnFalseWhenBlockedOnAdjacentFile(t *testing.T) {
	b, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.False(t, isPassedPawn(board.E4, board.White, b.PieceBBOf(board.Black, board.Pawn)))
}
