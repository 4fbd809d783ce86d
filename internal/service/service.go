// Package service exposes the game's operation surface. Every mutation runs
// the same optimistic-concurrency loop: read the document, apply the
// operation to the copy, and commit with a compare-and-swap on the version.
// Losing the race means re-reading and re-validating from scratch, up to the
// retry policy's bound.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"rook-server/internal/logging"
	"rook-server/internal/rook"
	"rook-server/internal/store"
)

// createCodeAttempts bounds regeneration when a random game code collides.
const createCodeAttempts = 5

type GameService struct {
	store    store.Store
	notifier Notifier
	retry    RetryPolicy
	logger   zerolog.Logger
}

func New(st store.Store, notifier Notifier, retry RetryPolicy) *GameService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &GameService{
		store:    st,
		notifier: notifier,
		retry:    retry,
		logger:   logging.NewLogger("service", nil),
	}
}

// CreateGame starts a new lobby with the host in seat 0.
func (s *GameService) CreateGame(ctx context.Context, hostName string) (*rook.Game, error) {
	for attempt := 0; attempt < createCodeAttempts; attempt++ {
		game, err := rook.NewGame(GenerateGameCode(), hostName)
		if err != nil {
			return nil, err
		}
		err = s.store.Create(ctx, game)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.logger.Info().
			Str(logging.GameCodeKey, game.Code).
			Str(logging.PlayerNameKey, hostName).
			Msg("game created")
		return game, nil
	}
	return nil, rook.NewError(rook.CodeInvariantViolation, "could not generate a free game code")
}

func (s *GameService) GetGame(ctx context.Context, code string) (*rook.Game, error) {
	game, err := s.store.Load(ctx, NormalizeGameCode(code))
	if errors.Is(err, store.ErrNotFound) {
		return nil, rook.NewError(rook.CodeNotFound, "game %s not found", code)
	}
	return game, err
}

// ListActive returns every unfinished game.
func (s *GameService) ListActive(ctx context.Context) ([]*rook.Game, error) {
	return s.store.ListActive(ctx)
}

// CleanupFinished deletes finished games idle longer than olderThan.
func (s *GameService) CleanupFinished(ctx context.Context, olderThan time.Duration) (int, error) {
	return s.store.CleanupFinished(ctx, olderThan)
}

// JoinGame seats a human player and returns their seat.
func (s *GameService) JoinGame(ctx context.Context, code, playerName string) (*rook.Game, int, error) {
	seat := -1
	game, err := s.mutate(ctx, code, EventPlayerJoined, func(g *rook.Game) error {
		var err error
		seat, err = g.AddPlayer(playerName, false)
		return err
	})
	return game, seat, err
}

// AddBot seats a bot in the next open seat. Two racing AddBot calls resolve
// through the version check: the loser retries against the new document and
// takes the following seat or fails with GAME_FULL.
func (s *GameService) AddBot(ctx context.Context, code string) (*rook.Game, int, error) {
	seat := -1
	game, err := s.mutate(ctx, code, EventBotAdded, func(g *rook.Game) error {
		var err error
		seat, err = g.AddPlayer(nextBotName(g), true)
		return err
	})
	return game, seat, err
}

func (s *GameService) ChoosePartner(ctx context.Context, code string, partnerSeat int) (*rook.Game, error) {
	return s.mutate(ctx, code, EventPartnerChosen, func(g *rook.Game) error {
		return g.ChoosePartner(partnerSeat)
	})
}

func (s *GameService) PlaceBid(ctx context.Context, code string, seat, amount int) (*rook.Game, error) {
	return s.mutate(ctx, code, EventBidPlaced, func(g *rook.Game) error {
		return g.PlaceBid(seat, amount)
	})
}

func (s *GameService) Pass(ctx context.Context, code string, seat int) (*rook.Game, error) {
	return s.mutate(ctx, code, EventBidPassed, func(g *rook.Game) error {
		return g.PassBid(seat)
	})
}

func (s *GameService) ChooseTrump(ctx context.Context, code string, seat int, trump rook.Suit, discards []rook.Card) (*rook.Game, error) {
	return s.mutate(ctx, code, EventTrumpChosen, func(g *rook.Game) error {
		return g.ChooseTrump(seat, trump, discards)
	})
}

func (s *GameService) PlayCard(ctx context.Context, code string, seat int, card rook.Card) (*rook.Game, error) {
	return s.mutate(ctx, code, EventCardPlayed, func(g *rook.Game) error {
		return g.PlayCard(seat, card)
	})
}

// mutate is the optimistic-concurrency controller. The apply function must
// be a pure function of the loaded document: it is re-run from a fresh read
// on every attempt. Domain failures abort immediately; only version
// conflicts are retried.
func (s *GameService) mutate(ctx context.Context, code, eventType string, apply func(*rook.Game) error) (*rook.Game, error) {
	code = NormalizeGameCode(code)

	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		game, err := s.store.Load(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return nil, rook.NewError(rook.CodeNotFound, "game %s not found", code)
		}
		if err != nil {
			return nil, err
		}

		expected := game.Version
		if err := apply(game); err != nil {
			return nil, err
		}
		game.Version = expected + 1

		err = s.store.ConditionalSave(ctx, game, expected)
		if err == nil {
			s.logger.Debug().
				Str(logging.GameCodeKey, code).
				Int64(logging.VersionKey, game.Version).
				Str(logging.MsgTypeKey, eventType).
				Msg("mutation committed")
			s.notifier.Broadcast(code, Event{Type: eventType, Game: game})
			return game, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}

		s.logger.Debug().
			Str(logging.GameCodeKey, code).
			Int64(logging.VersionKey, expected).
			Int("attempt", attempt).
			Msg("version conflict, retrying")

		if attempt == s.retry.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retry.Backoff(attempt)):
		}
	}
	return nil, rook.NewError(rook.CodeConcurrencyConflict,
		"game %s kept changing underneath us after %d attempts", code, s.retry.MaxAttempts)
}

func nextBotName(g *rook.Game) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("Bot %d", i)
		taken := false
		for _, p := range g.Players {
			if p.Name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
	}
}
