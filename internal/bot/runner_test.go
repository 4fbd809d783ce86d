package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rook-server/internal/rook"
	"rook-server/internal/service"
	"rook-server/internal/store"
)

func newTestService() *service.GameService {
	retry := service.RetryPolicy{
		MaxAttempts: 3,
		Backoff:     func(int) time.Duration { return 0 },
	}
	return service.New(store.NewMemory(), nil, retry)
}

func TestBotTurn(t *testing.T) {
	g := &rook.Game{
		Players: []rook.Player{
			{Seat: 0, Name: "Alice"},
			{Seat: 1, Name: "Bot 1", IsBot: true},
		},
	}

	_, ok := botTurn(g)
	assert.False(t, ok, "no round means no turn")

	g.Status = rook.StatusBidding
	g.Round = &rook.Round{Turn: 0, ContractSeat: -1}
	_, ok = botTurn(g)
	assert.False(t, ok, "a human holds the turn")

	g.Round.Turn = 1
	seat, ok := botTurn(g)
	require.True(t, ok)
	assert.Equal(t, 1, seat)

	// In trump selection the turn belongs to the contract winner.
	g.Status = rook.StatusTrumpSelection
	g.Round.Turn = 0
	g.Round.ContractSeat = 1
	seat, ok = botTurn(g)
	require.True(t, ok)
	assert.Equal(t, 1, seat)
}

// hostAct plays seat 0 with the same heuristics the bots use, so the test
// can drive a mixed table to the end of a deal.
func hostAct(ctx context.Context, t *testing.T, svc *service.GameService, engine *Engine, g *rook.Game) {
	t.Helper()
	switch g.Status {
	case rook.StatusBidding:
		amount, pass := engine.ChooseBid(g, 0)
		if pass {
			_, err := svc.Pass(ctx, g.Code, 0)
			require.NoError(t, err)
			return
		}
		_, err := svc.PlaceBid(ctx, g.Code, 0, amount)
		require.NoError(t, err)
	case rook.StatusTrumpSelection:
		trump, discards := engine.ChooseTrump(g, 0)
		_, err := svc.ChooseTrump(ctx, g.Code, 0, trump, discards)
		require.NoError(t, err)
	case rook.StatusPlaying:
		_, err := svc.PlayCard(ctx, g.Code, 0, engine.ChooseCard(g, 0))
		require.NoError(t, err)
	}
}

func hostDue(g *rook.Game) bool {
	if g.Round == nil {
		return false
	}
	if g.Status == rook.StatusTrumpSelection {
		return g.Round.ContractSeat == 0
	}
	return g.Round.Turn == 0
}

// TestRunnerPlaysOutADeal seats three bots with one scripted human and ticks
// the runner until the first deal settles. Every action goes through the
// service, so a finished deal proves the bots only ever made legal moves.
func TestRunnerPlaysOutADeal(t *testing.T) {
	svc := newTestService()
	engine := NewEngine()
	runner := NewRunner(svc, time.Second)
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "Alice")
	require.NoError(t, err)
	for range 3 {
		_, _, err := svc.AddBot(ctx, game.Code)
		require.NoError(t, err)
	}
	_, err = svc.ChoosePartner(ctx, game.Code, 2)
	require.NoError(t, err)

	lastVersion := int64(0)
	for i := 0; i < 500; i++ {
		g, err := svc.GetGame(ctx, game.Code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, g.Version, lastVersion)
		lastVersion = g.Version

		if g.Status == rook.StatusFinished || g.Round.Number > 1 {
			return
		}
		if hostDue(g) {
			hostAct(ctx, t, svc, engine, g)
		} else {
			runner.tick(ctx)
		}
	}
	t.Fatal("deal did not settle within the step budget")
}

func TestExpectedRace(t *testing.T) {
	assert.True(t, expectedRace(rook.NewError(rook.CodeInvalidTurn, "not your turn")))
	assert.True(t, expectedRace(rook.NewError(rook.CodeConcurrencyConflict, "kept changing")))
	assert.False(t, expectedRace(rook.NewError(rook.CodeIllegalPlay, "bad card")))
}
