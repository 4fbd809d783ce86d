package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"rook-server/internal/logging"
	"rook-server/internal/service"
)

const broadcastTimeout = 5 * time.Second

// notifier fans a committed mutation out to every connected player of the
// game, redacted per seat. Delivery is strictly best-effort: the mutation is
// already persisted, so a dead socket is logged and skipped, never failed.
type notifier struct {
	sessions    *SessionManager
	connections *ConnectionManager
	logger      zerolog.Logger
}

func newNotifier(sessions *SessionManager, connections *ConnectionManager) *notifier {
	return &notifier{
		sessions:    sessions,
		connections: connections,
		logger:      logging.NewLogger("broadcast", nil),
	}
}

func (n *notifier) Broadcast(gameCode string, event service.Event) {
	for _, session := range n.sessions.SessionsForGame(gameCode) {
		conn := n.connections.ConnectionByToken(session.Token)
		if conn == nil {
			continue
		}

		msg := ServerMessage{
			Type:    event.Type,
			Payload: event.Game.ViewFor(session.Seat),
		}
		ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
		err := writeMessage(conn, ctx, msg)
		cancel()
		if err != nil {
			n.logger.Warn().Err(err).
				Str(logging.GameCodeKey, gameCode).
				Int(logging.SeatKey, session.Seat).
				Msg("broadcast delivery failed")
		}
	}
}
