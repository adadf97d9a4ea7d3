package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartingPositionHashes(t *testing.T) {
	b := NewStartingPosition()
	require.Equal(t, b.ComputeHash(), b.Hash)
	require.Equal(t, b.ComputePawnKingHash(), b.PawnKingHash)
	require.Equal(t, White, b.Turn)
	require.Equal(t, 32, b.AllOccupied.PopCount())
}

func TestApplyUnapplyPreservesInvariants(t *testing.T) {
	b, err := ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	require.NoError(t, err)

	before := *b
	ml := GenLegal(b)
	require.True(t, ml.Len() > 0)

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		var undo Undo
		ApplyMove(b, m, &undo)
		require.Equal(t, b.ComputeHash(), b.Hash, "hash drifted after %s", m)
		require.Equal(t, b.ComputePawnKingHash(), b.PawnKingHash, "pawn-king hash drifted after %s", m)
		UnapplyMove(b, m, &undo)

		require.Equal(t, before.Hash, b.Hash, "unapply did not restore hash for %s", m)
		require.Equal(t, before.PSQTMidgame, b.PSQTMidgame, "unapply did not restore psqt for %s", m)
		require.Equal(t, before.Squares, b.Squares, "unapply did not restore squares for %s", m)
		require.Equal(t, before.CastleRooks, b.CastleRooks, "unapply did not restore castle rights for %s", m)
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	b := NewStartingPosition()
	before := *b
	var undo Undo
	ApplyNullMove(b, &undo)
	require.Equal(t, Black, b.Turn)
	UnapplyNullMove(b, &undo)
	require.Equal(t, before.Hash, b.Hash)
	require.Equal(t, before.Turn, b.Turn)
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
	}
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		require.NoError(t, err, fen)
		require.Equal(t, fen, b.FullFEN())
	}
}

func TestChess960CastlingMasks(t *testing.T) {
	// A chess960 start with king on e-file and rooks at a/h, expressed via
	// Shredder castling letters, must behave identically to classical KQkq.
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w HAha - 0 1")
	require.NoError(t, err)
	require.True(t, b.Chess960)
	require.Equal(t, SquareBB(A1)|SquareBB(H1)|SquareBB(A8)|SquareBB(H8), b.CastleRooks)
}

func TestPerftStartingPosition(t *testing.T) {
	if testing.Short() {
		t.Skip("perft to depth 5 is slow under -short")
	}
	b := NewStartingPosition()
	require.Equal(t, uint64(20), Perft(b, 1))
	require.Equal(t, uint64(400), Perft(b, 2))
	require.Equal(t, uint64(8902), Perft(b, 3))
	require.Equal(t, uint64(197281), Perft(b, 4))
	require.Equal(t, uint64(4865609), Perft(b, 5))
}

func TestPerftKiwipete(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(48), Perft(b, 1))
	require.Equal(t, uint64(2039), Perft(b, 2))
	require.Equal(t, uint64(97862), Perft(b, 3))
	if testing.Short() {
		return
	}
	require.Equal(t, uint64(4085603), Perft(b, 4))
}

func TestPerftPosition3(t *testing.T) {
	b, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(14), Perft(b, 1))
	require.Equal(t, uint64(191), Perft(b, 2))
	require.Equal(t, uint64(2812), Perft(b, 3))
	if testing.Short() {
		return
	}
	require.Equal(t, uint64(43238), Perft(b, 4))
	require.Equal(t, uint64(674624), Perft(b, 5))
	require.Equal(t, uint64(11030083), Perft(b, 6))
}

func TestPerftPosition4(t *testing.T) {
	b, err := ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(6), Perft(b, 1))
	require.Equal(t, uint64(264), Perft(b, 2))
	require.Equal(t, uint64(9467), Perft(b, 3))
	if testing.Short() {
		return
	}
	require.Equal(t, uint64(422333), Perft(b, 4))
	require.Equal(t, uint64(15833292), Perft(b, 5))
}

func TestMoveIsPseudoLegalMatchesGenerator(t *testing.T) {
	b := NewStartingPosition()
	noisy, quiet := &MoveList{}, &MoveList{}
	GenNoisy(b, noisy)
	GenQuiet(b, quiet)

	for i := 0; i < quiet.Len(); i++ {
		require.True(t, MoveIsPseudoLegal(b, quiet.Get(i)), "quiet move %s should be pseudo-legal", quiet.Get(i))
	}
	for i := 0; i < noisy.Len(); i++ {
		require.True(t, MoveIsPseudoLegal(b, noisy.Get(i)), "noisy move %s should be pseudo-legal", noisy.Get(i))
	}
	require.False(t, MoveIsPseudoLegal(b, NewMove(E2, E5)))
	require.False(t, MoveIsPseudoLegal(b, NoneMove))
}
