package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"rook-server/internal/logging"
	"rook-server/internal/rook"
	"rook-server/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/websocket", s.websocketHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{"status": "up"}
	if s.db != nil {
		health = s.db.Health()
	}
	resp, err := json.Marshal(health)
	if err != nil {
		http.Error(w, "Failed to marshal health check response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to write health response")
	}
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()
	connectionID := uuid.New().String()
	s.connections.AddConnection(connectionID, socket)
	s.health.UpdateActivity(connectionID)
	s.logger.Info().Str("connection", connectionID).Msg("new connection")
	defer func() {
		s.dropConnection(connectionID)
		s.logger.Info().Str("connection", connectionID).Msg("connection closed")
	}()

	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			return
		}
		if msgType != websocket.MessageText {
			continue
		}
		s.health.UpdateActivity(connectionID)

		if !s.rateLimiter.Allow(connectionID) {
			s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "too many requests, slow down"))
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid JSON"))
			continue
		}

		s.logger.Debug().
			Str("connection", connectionID).
			Str(logging.MsgTypeKey, msg.Type).
			Msg("message received")

		switch msg.Type {
		case "ping":
			s.send(socket, ctx, ServerMessage{Type: "pong", Payload: struct{}{}})
		case "create_game":
			s.handleCreateGame(socket, ctx, connectionID, msg.Payload)
		case "join_game":
			s.handleJoinGame(socket, ctx, connectionID, msg.Payload)
		case "add_bot":
			s.handleAddBot(socket, ctx, msg.Payload)
		case "choose_partner":
			s.handleChoosePartner(socket, ctx, connectionID, msg.Payload)
		case "place_bid":
			s.handlePlaceBid(socket, ctx, connectionID, msg.Payload)
		case "pass":
			s.handlePass(socket, ctx, connectionID)
		case "choose_trump":
			s.handleChooseTrump(socket, ctx, connectionID, msg.Payload)
		case "play_card":
			s.handlePlayCard(socket, ctx, connectionID, msg.Payload)
		case "reconnect":
			s.handleReconnect(socket, ctx, connectionID, msg.Payload)
		case "get_state":
			s.handleGetState(socket, ctx, connectionID)
		default:
			s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "unknown message type %q", msg.Type))
		}
	}
}

func (s *Server) handleCreateGame(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req CreateGameRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid create_game payload"))
		return
	}

	game, err := s.svc.CreateGame(ctx, req.HostName)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	token := uuid.New().String()
	s.sessions.StoreSession(SessionInfo{
		Token:      token,
		GameCode:   game.Code,
		Seat:       rook.HostSeat,
		PlayerName: req.HostName,
	})
	s.connections.BindToken(connectionID, token)

	s.send(socket, ctx, ServerMessage{
		Type: "game_created",
		Payload: CreateGameResponse{
			GameCode: game.Code,
			Token:    token,
			Seat:     rook.HostSeat,
		},
	})
	s.send(socket, ctx, ServerMessage{Type: "game_state", Payload: game.ViewFor(rook.HostSeat)})
}

func (s *Server) handleJoinGame(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req JoinGameRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid join_game payload"))
		return
	}
	code := service.NormalizeGameCode(req.GameCode)
	if err := service.ValidateGameCode(code); err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	game, seat, err := s.svc.JoinGame(ctx, code, req.PlayerName)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	token := uuid.New().String()
	s.sessions.StoreSession(SessionInfo{
		Token:      token,
		GameCode:   game.Code,
		Seat:       seat,
		PlayerName: req.PlayerName,
	})
	s.connections.BindToken(connectionID, token)

	s.send(socket, ctx, ServerMessage{
		Type: "game_joined",
		Payload: JoinGameResponse{
			GameCode: game.Code,
			Token:    token,
			Seat:     seat,
		},
	})
}

func (s *Server) handleAddBot(socket *websocket.Conn, ctx context.Context, payload json.RawMessage) {
	var req AddBotRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid add_bot payload"))
		return
	}

	if _, _, err := s.svc.AddBot(ctx, req.GameCode); err != nil {
		s.sendError(socket, ctx, err)
	}
}

// sessionFor resolves the acting seat from the connection's bound token.
func (s *Server) sessionFor(connectionID string) (SessionInfo, error) {
	token := s.connections.TokenFor(connectionID)
	if token == "" {
		return SessionInfo{}, rook.NewError(rook.CodeValidation, "connection is not in a game")
	}
	return s.sessions.GetSession(token)
}

func (s *Server) handleChoosePartner(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req ChoosePartnerRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid choose_partner payload"))
		return
	}
	session, err := s.sessionFor(connectionID)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}
	if session.Seat != rook.HostSeat {
		s.sendError(socket, ctx, rook.NewError(rook.CodeInvalidTurn, "only the host chooses a partner"))
		return
	}

	if _, err := s.svc.ChoosePartner(ctx, session.GameCode, req.PartnerSeat); err != nil {
		s.sendError(socket, ctx, err)
	}
}

func (s *Server) handlePlaceBid(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req PlaceBidRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid place_bid payload"))
		return
	}
	session, err := s.sessionFor(connectionID)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	if _, err := s.svc.PlaceBid(ctx, session.GameCode, session.Seat, req.Amount); err != nil {
		s.sendError(socket, ctx, err)
	}
}

func (s *Server) handlePass(socket *websocket.Conn, ctx context.Context, connectionID string) {
	session, err := s.sessionFor(connectionID)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	if _, err := s.svc.Pass(ctx, session.GameCode, session.Seat); err != nil {
		s.sendError(socket, ctx, err)
	}
}

func (s *Server) handleChooseTrump(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req ChooseTrumpRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid choose_trump payload"))
		return
	}
	session, err := s.sessionFor(connectionID)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	if _, err := s.svc.ChooseTrump(ctx, session.GameCode, session.Seat, req.Trump, req.Discards); err != nil {
		s.sendError(socket, ctx, err)
	}
}

func (s *Server) handlePlayCard(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req PlayCardRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid play_card payload"))
		return
	}
	session, err := s.sessionFor(connectionID)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	if _, err := s.svc.PlayCard(ctx, session.GameCode, session.Seat, req.Card); err != nil {
		s.sendError(socket, ctx, err)
	}
}

func (s *Server) handleReconnect(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req ReconnectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, rook.NewError(rook.CodeValidation, "invalid reconnect payload"))
		return
	}

	session, err := s.sessions.GetSession(req.Token)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	if displaced := s.connections.BindToken(connectionID, req.Token); displaced != "" {
		if old := s.connections.Connection(displaced); old != nil {
			s.send(old, context.Background(), ServerMessage{
				Type:    "disconnected_elsewhere",
				Payload: ErrorMessage{Message: "You connected from another device"},
			})
			old.Close(websocket.StatusNormalClosure, "Connected from another device")
		}
		s.dropConnection(displaced)
	}

	game, err := s.svc.GetGame(ctx, session.GameCode)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}

	s.send(socket, ctx, ServerMessage{
		Type: "reconnected",
		Payload: ReconnectResponse{
			GameCode: session.GameCode,
			Seat:     session.Seat,
		},
	})
	s.send(socket, ctx, ServerMessage{Type: "game_state", Payload: game.ViewFor(session.Seat)})
}

func (s *Server) handleGetState(socket *websocket.Conn, ctx context.Context, connectionID string) {
	session, err := s.sessionFor(connectionID)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}
	game, err := s.svc.GetGame(ctx, session.GameCode)
	if err != nil {
		s.sendError(socket, ctx, err)
		return
	}
	s.send(socket, ctx, ServerMessage{Type: "game_state", Payload: game.ViewFor(session.Seat)})
}

func writeMessage(socket *websocket.Conn, ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return socket.Write(ctx, websocket.MessageText, data)
}

func (s *Server) send(socket *websocket.Conn, ctx context.Context, msg ServerMessage) {
	if err := writeMessage(socket, ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str(logging.MsgTypeKey, msg.Type).Msg("failed to send message")
	}
}

func (s *Server) sendError(socket *websocket.Conn, ctx context.Context, err error) {
	s.send(socket, ctx, ServerMessage{
		Type: "error",
		Payload: ErrorMessage{
			Message: err.Error(),
			Code:    string(rook.CodeOf(err)),
		},
	})
}
