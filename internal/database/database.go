// Package database owns the Postgres connection pool and schema migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Service interface {
	Pool() *pgxpool.Pool
	Health() map[string]string
	Close()
}

type service struct {
	pool *pgxpool.Pool
	dsn  string
}

func dsnFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_DATABASE"),
	)
}

// New connects to Postgres using DATABASE_URL (or the DB_* variables) and
// applies pending migrations.
func New() (Service, error) {
	return NewWithDSN(dsnFromEnv())
}

func NewWithDSN(dsn string) (Service, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	if err := migrate(dsn); err != nil {
		pool.Close()
		return nil, err
	}

	return &service{pool: pool, dsn: dsn}, nil
}

// migrate runs goose against the embedded migration files. Goose wants a
// database/sql handle, so it gets its own short-lived connection through the
// pgx stdlib driver.
func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return errors.Wrap(err, "open migration connection")
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	health := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	stats := s.pool.Stat()
	health["status"] = "up"
	health["total_conns"] = strconv.Itoa(int(stats.TotalConns()))
	health["idle_conns"] = strconv.Itoa(int(stats.IdleConns()))
	health["acquired_conns"] = strconv.Itoa(int(stats.AcquiredConns()))
	return health
}

func (s *service) Close() {
	s.pool.Close()
}
