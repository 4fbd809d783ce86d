package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"rook-server/internal/rook"
)

// Postgres stores each game as a JSON document in the games table. The
// version column carries the optimistic lock: ConditionalSave is a single
// UPDATE guarded by WHERE version = expected, so a stale writer touches
// zero rows and never clobbers a newer document.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Load(ctx context.Context, code string) (*rook.Game, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT doc FROM games WHERE code = $1`, code).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrap(ErrNotFound, code)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load game %s", code)
	}
	return decode(doc)
}

func (p *Postgres) Create(ctx context.Context, game *rook.Game) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return errors.Wrap(err, "serialize game")
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO games (code, status, version, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		game.Code, string(game.Status), game.Version, doc, game.CreatedAt, game.UpdatedAt)
	if isUniqueViolation(err) {
		return errors.Wrap(ErrAlreadyExists, game.Code)
	}
	if err != nil {
		return errors.Wrapf(err, "create game %s", game.Code)
	}
	return nil
}

func (p *Postgres) ConditionalSave(ctx context.Context, game *rook.Game, expectedVersion int64) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return errors.Wrap(err, "serialize game")
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE games
		SET status = $1, version = $2, doc = $3, updated_at = $4
		WHERE code = $5 AND version = $6`,
		string(game.Status), game.Version, doc, game.UpdatedAt, game.Code, expectedVersion)
	if err != nil {
		return errors.Wrapf(err, "save game %s", game.Code)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched: either the game is gone or someone else bumped the
	// version first.
	var exists bool
	err = p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM games WHERE code = $1)`, game.Code).Scan(&exists)
	if err != nil {
		return errors.Wrapf(err, "save game %s", game.Code)
	}
	if !exists {
		return errors.Wrap(ErrNotFound, game.Code)
	}
	return errors.Wrapf(ErrVersionConflict, "game %s expected version %d", game.Code, expectedVersion)
}

func (p *Postgres) ListActive(ctx context.Context) ([]*rook.Game, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT doc FROM games
		WHERE status != $1
		ORDER BY updated_at DESC`,
		string(rook.StatusFinished))
	if err != nil {
		return nil, errors.Wrap(err, "list active games")
	}
	defer rows.Close()

	var games []*rook.Game
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, "scan game row")
		}
		game, err := decode(doc)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, errors.Wrap(rows.Err(), "iterate game rows")
}

func (p *Postgres) CleanupFinished(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM games WHERE status = $1 AND updated_at < $2`,
		string(rook.StatusFinished), cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "cleanup finished games")
	}
	return int(tag.RowsAffected()), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
