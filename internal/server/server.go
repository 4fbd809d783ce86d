package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/coder/websocket"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"rook-server/internal/bot"
	"rook-server/internal/database"
	"rook-server/internal/logging"
	"rook-server/internal/service"
	"rook-server/internal/store"
)

const (
	finishedGameRetention = 24 * time.Hour
	cleanupInterval       = time.Hour
	idleTimeout           = 10 * time.Minute
	reapInterval          = time.Minute
	botInterval           = 2 * time.Second
)

type Server struct {
	port        int
	db          database.Service
	svc         *service.GameService
	botRunner   *bot.Runner
	sessions    *SessionManager
	connections *ConnectionManager
	rateLimiter *RateLimiter
	health      *ConnectionHealth
	logger      zerolog.Logger

	cancelBackground context.CancelFunc
}

// NewServer wires the store, the game service, the bot runner, and the
// WebSocket transport. With no database configured it falls back to the
// in-memory store, which is enough for local play.
func NewServer() (*Server, *http.Server) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}
	logger := logging.NewLogger("server", nil)

	var (
		db database.Service
		st store.Store
	)
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != "" {
		var err error
		db, err = database.New()
		if err != nil {
			logger.Fatal().Err(err).Msg("database setup failed")
		}
		st = store.NewPostgres(db.Pool())
		logger.Info().Msg("using postgres store")
	} else {
		st = store.NewMemory()
		logger.Warn().Msg("no database configured, games will not survive a restart")
	}

	sessions := NewSessionManager()
	connections := NewConnectionManager()
	svc := service.New(st, newNotifier(sessions, connections), service.DefaultRetryPolicy())

	s := &Server{
		port:        port,
		db:          db,
		svc:         svc,
		botRunner:   bot.NewRunner(svc, botInterval),
		sessions:    sessions,
		connections: connections,
		rateLimiter: NewRateLimiter(20, time.Second),
		health:      NewConnectionHealth(),
		logger:      logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelBackground = cancel
	go s.botRunner.Start(ctx)
	go s.cleanupTask(ctx)
	go s.reapIdleConnections(ctx)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, httpServer
}

// Shutdown stops the background workers and releases the database.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancelBackground()
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// cleanupTask deletes finished games once they are a day old.
func (s *Server) cleanupTask(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.svc.CleanupFinished(ctx, finishedGameRetention)
			if err != nil {
				s.logger.Error().Err(err).Msg("cleanup task failed")
				continue
			}
			if deleted > 0 {
				s.logger.Info().Int("deleted", deleted).Msg("removed old finished games")
			}
		}
	}
}

// reapIdleConnections closes sockets that have been silent too long.
func (s *Server) reapIdleConnections(ctx context.Context) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, connID := range s.health.InactiveConnections(idleTimeout) {
				if conn := s.connections.Connection(connID); conn != nil {
					conn.Close(websocket.StatusGoingAway, "idle timeout")
				}
				s.dropConnection(connID)
				s.logger.Info().Str("connection", connID).Msg("reaped idle connection")
			}
		}
	}
}

func (s *Server) dropConnection(connID string) {
	s.connections.RemoveConnection(connID)
	s.rateLimiter.RemoveConnection(connID)
	s.health.RemoveConnection(connID)
}
