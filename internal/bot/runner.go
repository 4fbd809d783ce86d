package bot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"rook-server/internal/logging"
	"rook-server/internal/rook"
	"rook-server/internal/service"
)

// Runner polls active games on a timer and submits one action per game per
// tick for any bot that holds the turn. It has no privileged access: losing
// a race to a human (INVALID_TURN or a version conflict) just means the next
// tick reads the newer document.
type Runner struct {
	svc      *service.GameService
	engine   *Engine
	interval time.Duration
	logger   zerolog.Logger
}

func NewRunner(svc *service.GameService, interval time.Duration) *Runner {
	return &Runner{
		svc:      svc,
		engine:   NewEngine(),
		interval: interval,
		logger:   logging.NewLogger("bot", nil),
	}
}

// Start runs the polling loop until the context is canceled.
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	games, err := r.svc.ListActive(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("could not list active games")
		return
	}
	for _, game := range games {
		if err := r.act(ctx, game); err != nil {
			if expectedRace(err) {
				r.logger.Debug().Err(err).
					Str(logging.GameCodeKey, game.Code).
					Msg("lost the race, will retry next tick")
			} else {
				r.logger.Warn().Err(err).
					Str(logging.GameCodeKey, game.Code).
					Msg("bot action failed")
			}
		}
	}
}

func (r *Runner) act(ctx context.Context, game *rook.Game) error {
	seat, ok := botTurn(game)
	if !ok {
		return nil
	}

	switch game.Status {
	case rook.StatusBidding:
		amount, pass := r.engine.ChooseBid(game, seat)
		if pass {
			_, err := r.svc.Pass(ctx, game.Code, seat)
			return err
		}
		_, err := r.svc.PlaceBid(ctx, game.Code, seat, amount)
		return err

	case rook.StatusTrumpSelection:
		trump, discards := r.engine.ChooseTrump(game, seat)
		_, err := r.svc.ChooseTrump(ctx, game.Code, seat, trump, discards)
		return err

	case rook.StatusPlaying:
		card := r.engine.ChooseCard(game, seat)
		_, err := r.svc.PlayCard(ctx, game.Code, seat, card)
		return err
	}
	return nil
}

// botTurn reports the seat due to act, if that seat is a bot.
func botTurn(game *rook.Game) (int, bool) {
	if game.Round == nil {
		return -1, false
	}
	seat := game.Round.Turn
	if game.Status == rook.StatusTrumpSelection {
		seat = game.Round.ContractSeat
	}
	player := game.PlayerBySeat(seat)
	if player == nil || !player.IsBot {
		return -1, false
	}
	return seat, true
}

func expectedRace(err error) bool {
	return errors.Is(err, rook.ErrInvalidTurn) ||
		errors.Is(err, rook.ErrConcurrencyConflict) ||
		errors.Is(err, rook.ErrInvalidTransition)
}
