package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"rook-server/internal/rook"
)

// Memory keeps game documents as serialized JSON guarded by a mutex. The
// JSON round-trip gives callers their own copy, so two concurrent actors can
// never mutate the same struct — the same isolation the Postgres store
// provides. Used in tests and for running without a database.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, code string) (*rook.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[code]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, code)
	}
	return decode(doc)
}

func (m *Memory) Create(ctx context.Context, game *rook.Game) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return errors.Wrap(err, "serialize game")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[game.Code]; ok {
		return errors.Wrap(ErrAlreadyExists, game.Code)
	}
	m.docs[game.Code] = doc
	return nil
}

func (m *Memory) ConditionalSave(ctx context.Context, game *rook.Game, expectedVersion int64) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return errors.Wrap(err, "serialize game")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.docs[game.Code]
	if !ok {
		return errors.Wrap(ErrNotFound, game.Code)
	}
	current, err := decode(stored)
	if err != nil {
		return err
	}
	if current.Version != expectedVersion {
		return errors.Wrapf(ErrVersionConflict, "expected version %d, found %d", expectedVersion, current.Version)
	}
	m.docs[game.Code] = doc
	return nil
}

func (m *Memory) ListActive(ctx context.Context) ([]*rook.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var games []*rook.Game
	for _, doc := range m.docs {
		game, err := decode(doc)
		if err != nil {
			return nil, err
		}
		if game.Status != rook.StatusFinished {
			games = append(games, game)
		}
	}
	return games, nil
}

func (m *Memory) CleanupFinished(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for code, doc := range m.docs {
		game, err := decode(doc)
		if err != nil {
			return deleted, err
		}
		if game.Status == rook.StatusFinished && game.UpdatedAt.Before(cutoff) {
			delete(m.docs, code)
			deleted++
		}
	}
	return deleted, nil
}

func decode(doc []byte) (*rook.Game, error) {
	var game rook.Game
	if err := json.Unmarshal(doc, &game); err != nil {
		return nil, errors.Wrap(err, "deserialize game")
	}
	return &game, nil
}
