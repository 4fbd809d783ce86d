// Package store persists game documents. Every implementation offers the
// same contract: load by code, create at version 1, and a compare-and-swap
// save that only lands if the stored version is the one the caller read.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"rook-server/internal/rook"
)

var (
	ErrNotFound        = errors.New("game not found")
	ErrVersionConflict = errors.New("game version conflict")
	ErrAlreadyExists   = errors.New("game code already exists")
)

type Store interface {
	// Load returns the current document for a game code, or ErrNotFound.
	Load(ctx context.Context, code string) (*rook.Game, error)

	// Create inserts a brand-new game at version 1, or ErrAlreadyExists
	// when the code is taken.
	Create(ctx context.Context, game *rook.Game) error

	// ConditionalSave writes the document only if the stored version still
	// equals expectedVersion. The document's own Version must already be
	// expectedVersion+1. Returns ErrVersionConflict when another writer won.
	ConditionalSave(ctx context.Context, game *rook.Game, expectedVersion int64) error

	// ListActive returns every game that has not finished. Used on startup
	// restore and by the bot runner.
	ListActive(ctx context.Context) ([]*rook.Game, error)

	// CleanupFinished deletes finished games untouched for longer than
	// olderThan, returning how many were removed.
	CleanupFinished(ctx context.Context, olderThan time.Duration) (int, error)
}
