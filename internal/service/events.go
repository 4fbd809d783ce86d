package service

import "rook-server/internal/rook"

// Event types broadcast after a committed mutation.
const (
	EventPlayerJoined  = "player_joined"
	EventBotAdded      = "bot_added"
	EventPartnerChosen = "partner_chosen"
	EventBidPlaced     = "bid_placed"
	EventBidPassed     = "bid_passed"
	EventTrumpChosen   = "trump_chosen"
	EventCardPlayed    = "card_played"
)

// Event carries the committed game document to whoever fans it out.
// Receivers redact it per seat before it leaves the process.
type Event struct {
	Type string
	Game *rook.Game
}

// Notifier is the outbound notification collaborator. Broadcast is
// fire-and-forget: the mutation is already committed when it is called, and
// a delivery failure must never undo it.
type Notifier interface {
	Broadcast(gameCode string, event Event)
}

// NopNotifier drops every event. Used in tests and by the bot runner's
// standalone mode.
type NopNotifier struct{}

func (NopNotifier) Broadcast(string, Event) {}
