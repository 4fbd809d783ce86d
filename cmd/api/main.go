package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rook-server/internal/logging"
	"rook-server/internal/server"
)

func gracefulShutdown(gameServer *server.Server, httpServer *http.Server, done chan bool) {
	logger := logging.NewLogger("main", nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := gameServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http server forced to shut down")
	}

	done <- true
}

func main() {
	logger := logging.NewLogger("main", nil)
	gameServer, httpServer := server.NewServer()

	done := make(chan bool, 1)
	go gracefulShutdown(gameServer, httpServer, done)

	logger.Info().Str("addr", httpServer.Addr).Msg("listening")
	err := httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("http server error")
	}

	<-done
	logger.Info().Msg("graceful shutdown complete")
}
