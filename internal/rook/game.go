package rook

import (
	"strings"
	"time"
)

type Status string

const (
	StatusLobby            Status = "LOBBY"
	StatusFull             Status = "FULL"
	StatusPartnerSelection Status = "PARTNER_SELECTION"
	StatusBidding          Status = "BIDDING"
	StatusTrumpSelection   Status = "TRUMP_SELECTION"
	StatusPlaying          Status = "PLAYING"
	StatusFinished         Status = "FINISHED"
)

const (
	NumSeats     = 4
	HandSize     = 13
	KittySize    = 5
	WinningScore = 200
	HostSeat     = 0
)

type Player struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	IsBot bool   `json:"isBot"`
}

// Teams partitions the four seats into two fixed pairs once the host has
// chosen a partner. Team 0 always contains the host.
type Teams struct {
	Pairs [2][2]int `json:"pairs"`
}

func (t Teams) TeamOf(seat int) int {
	if seat == t.Pairs[1][0] || seat == t.Pairs[1][1] {
		return 1
	}
	return 0
}

// Auction tracks bidding until the contract settles, then is dropped.
type Auction struct {
	HighBid  int     `json:"highBid"`
	HighSeat int     `json:"highSeat"` // -1 until someone bids
	Passed   [4]bool `json:"passed"`
}

// Round holds everything that resets between deals. Fields that only exist
// in later phases stay nil until the phase is reached: Auction is non-nil
// exactly while status is BIDDING, Trump is non-nil from TRUMP_SELECTION
// completing onward.
type Round struct {
	Number       int          `json:"number"`
	Dealer       int          `json:"dealer"`
	Hands        [4][]Card    `json:"hands"`
	Kitty        []Card       `json:"kitty"`
	Discards     []Card       `json:"discards"`
	Auction      *Auction     `json:"auction,omitempty"`
	ContractSeat int          `json:"contractSeat"` // -1 until the auction settles
	ContractBid  int          `json:"contractBid"`
	Trump        *Suit        `json:"trump,omitempty"`
	Trick        []TrickPlay  `json:"trick"`
	TrickLeader  int          `json:"trickLeader"`
	Turn         int          `json:"turn"`
	TricksWon    [2]int       `json:"tricksWon"`
	Points       [2]int       `json:"points"`
}

// Game is the single mutable aggregate. All mutation goes through the
// operation methods below; the service layer persists the result with a
// compare-and-swap on Version.
type Game struct {
	Code      string    `json:"code"`
	HostName  string    `json:"hostName"`
	Players   []Player  `json:"players"`
	Status    Status    `json:"status"`
	Teams     *Teams    `json:"teams,omitempty"`
	Round     *Round    `json:"round,omitempty"`
	Scores    [2]int    `json:"scores"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewError(CodeValidation, "player name cannot be empty")
	}
	if len(name) > 20 {
		return NewError(CodeValidation, "player name too long (max 20 characters)")
	}
	return nil
}

func NewGame(code, hostName string) (*Game, error) {
	if err := validateName(hostName); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Game{
		Code:     code,
		HostName: hostName,
		Players: []Player{
			{Seat: HostSeat, Name: hostName},
		},
		Status:    StatusLobby,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (g *Game) PlayerBySeat(seat int) *Player {
	for i := range g.Players {
		if g.Players[i].Seat == seat {
			return &g.Players[i]
		}
	}
	return nil
}

// AddPlayer seats a human or bot in the next open seat. The fourth player
// moves the game out of the lobby.
func (g *Game) AddPlayer(name string, isBot bool) (int, error) {
	if g.Status != StatusLobby {
		if len(g.Players) >= NumSeats {
			return -1, NewError(CodeGameFull, "game %s already has %d players", g.Code, NumSeats)
		}
		return -1, NewError(CodeInvalidTransition, "cannot join a game in status %s", g.Status)
	}
	if err := validateName(name); err != nil {
		return -1, err
	}
	for _, p := range g.Players {
		if p.Name == name {
			return -1, NewError(CodeNameTaken, "name %q is already taken", name)
		}
	}

	seat := len(g.Players)
	g.Players = append(g.Players, Player{Seat: seat, Name: name, IsBot: isBot})
	if len(g.Players) == NumSeats {
		g.Status = StatusFull
	}
	g.touch()
	return seat, nil
}

// ChoosePartner is the host's call once the table is full. It fixes the
// teams, passes through PARTNER_SELECTION, and deals the first round.
func (g *Game) ChoosePartner(partnerSeat int) error {
	if g.Status != StatusFull {
		return NewError(CodeInvalidTransition, "cannot choose a partner in status %s", g.Status)
	}
	if partnerSeat <= HostSeat || partnerSeat >= NumSeats {
		return NewError(CodeValidation, "partner seat must be 1-3, got %d", partnerSeat)
	}

	var others [2]int
	n := 0
	for seat := 1; seat < NumSeats; seat++ {
		if seat != partnerSeat {
			others[n] = seat
			n++
		}
	}
	g.Teams = &Teams{Pairs: [2][2]int{{HostSeat, partnerSeat}, others}}
	g.Status = StatusPartnerSelection

	g.startRound(HostSeat)
	g.touch()
	return nil
}

// startRound shuffles and deals a fresh deck, then opens bidding with the
// dealer. 13 cards per seat, 5 to the kitty, nothing left over.
func (g *Game) startRound(dealer int) {
	deck := NewDeck()
	deck.Shuffle()

	round := &Round{
		Dealer:       dealer,
		Auction:      &Auction{HighSeat: -1},
		ContractSeat: -1,
		TrickLeader:  -1,
		Turn:         dealer,
	}
	if g.Round != nil {
		round.Number = g.Round.Number + 1
	} else {
		round.Number = 1
	}
	for seat := 0; seat < NumSeats; seat++ {
		round.Hands[seat] = deck.Draw(HandSize)
	}
	round.Kitty = deck.Draw(KittySize)

	g.Round = round
	g.Status = StatusBidding
}

func (g *Game) checkTurn(seat int) error {
	if seat < 0 || seat >= len(g.Players) {
		return NewError(CodeValidation, "no player in seat %d", seat)
	}
	if g.Round == nil || g.Round.Turn != seat {
		return NewError(CodeInvalidTurn, "it is not seat %d's turn", seat)
	}
	return nil
}

// PlaceBid raises the auction for the seat holding the turn.
func (g *Game) PlaceBid(seat, amount int) error {
	if g.Status != StatusBidding {
		return NewError(CodeInvalidTransition, "cannot bid in status %s", g.Status)
	}
	if err := g.checkTurn(seat); err != nil {
		return err
	}
	auction := g.Round.Auction
	if auction.Passed[seat] {
		return NewError(CodeInvalidTurn, "seat %d has already passed", seat)
	}
	if err := CheckBid(amount, auction.HighBid); err != nil {
		return err
	}

	auction.HighBid = amount
	auction.HighSeat = seat

	// The new high bidder may already be the only live seat.
	if remaining, last := auction.live(); remaining == 1 && last == seat {
		g.settleAuction(seat, amount)
	} else {
		g.Round.Turn = auction.nextBidder(seat)
	}
	g.touch()
	return nil
}

// PassBid drops the seat out of the auction. When one live bidder remains
// they win the contract: at their high bid if they made one, at the minimum
// if everyone else folded before a bid stood.
func (g *Game) PassBid(seat int) error {
	if g.Status != StatusBidding {
		return NewError(CodeInvalidTransition, "cannot pass in status %s", g.Status)
	}
	if err := g.checkTurn(seat); err != nil {
		return err
	}
	auction := g.Round.Auction
	if auction.Passed[seat] {
		return NewError(CodeInvalidTurn, "seat %d has already passed", seat)
	}

	auction.Passed[seat] = true

	if remaining, last := auction.live(); remaining == 1 {
		amount := MinBid
		if auction.HighSeat == last {
			amount = auction.HighBid
		}
		g.settleAuction(last, amount)
	} else {
		g.Round.Turn = auction.nextBidder(seat)
	}
	g.touch()
	return nil
}

// live reports how many seats are still bidding and the last of them.
func (a *Auction) live() (count, last int) {
	last = -1
	for seat, passed := range a.Passed {
		if !passed {
			count++
			last = seat
		}
	}
	return
}

func (a *Auction) nextBidder(from int) int {
	for i := 1; i <= NumSeats; i++ {
		seat := (from + i) % NumSeats
		if !a.Passed[seat] {
			return seat
		}
	}
	return from
}

// settleAuction hands the kitty to the contract winner and moves to trump
// selection. The winner now holds 18 cards and owes 5 back.
func (g *Game) settleAuction(seat, amount int) {
	round := g.Round
	round.ContractSeat = seat
	round.ContractBid = amount
	round.Hands[seat] = append(round.Hands[seat], round.Kitty...)
	round.Kitty = nil
	round.Auction = nil
	round.Turn = seat
	g.Status = StatusTrumpSelection
}

// ChooseTrump names the trump suit and returns five discards from the
// contract winner's enlarged hand. Discarded counters are captured by
// whichever team takes the last trick.
func (g *Game) ChooseTrump(seat int, trump Suit, discards []Card) error {
	if g.Status != StatusTrumpSelection {
		return NewError(CodeInvalidTransition, "cannot choose trump in status %s", g.Status)
	}
	round := g.Round
	if seat != round.ContractSeat {
		return NewError(CodeInvalidTurn, "only the contract winner (seat %d) chooses trump", round.ContractSeat)
	}
	if !trump.Valid() {
		return NewError(CodeValidation, "%s is not a biddable suit", trump)
	}
	if len(discards) != KittySize {
		return NewError(CodeValidation, "must discard exactly %d cards, got %d", KittySize, len(discards))
	}

	hand := round.Hands[seat]
	seen := make(map[Card]bool, len(discards))
	for _, c := range discards {
		if seen[c] {
			return NewError(CodeValidation, "duplicate discard %s", c)
		}
		seen[c] = true
		if !containsCard(hand, c) {
			return NewError(CodeIllegalPlay, "cannot discard %s: not in hand", c)
		}
	}

	round.Hands[seat] = removeCards(hand, discards)
	round.Discards = discards
	round.Trump = &trump
	round.TrickLeader = seat
	round.Turn = seat
	g.Status = StatusPlaying
	g.touch()
	return nil
}

// ledSuit is the suit the trick must follow, nil when nothing has been led.
// Leading the Rook leads trump.
func (r *Round) ledSuit() *Suit {
	if len(r.Trick) == 0 {
		return nil
	}
	led := r.Trick[0].Card.Suit
	if r.Trick[0].Card.IsRook() {
		led = *r.Trump
	}
	return &led
}

// PlayCard commits one legal card to the current trick. The fourth card
// resolves the trick; the last trick of the round settles the contract and
// either deals again or finishes the game.
func (g *Game) PlayCard(seat int, card Card) error {
	if g.Status != StatusPlaying {
		return NewError(CodeInvalidTransition, "cannot play a card in status %s", g.Status)
	}
	if err := g.checkTurn(seat); err != nil {
		return err
	}
	if !card.Valid() {
		return NewError(CodeValidation, "%v is not a card", card)
	}

	round := g.Round
	hand := round.Hands[seat]
	if !containsCard(hand, card) {
		return NewError(CodeIllegalPlay, "%s is not in seat %d's hand", card, seat)
	}
	if !containsCard(LegalPlays(hand, round.ledSuit(), *round.Trump), card) {
		return NewError(CodeIllegalPlay, "%s does not follow the led suit", card)
	}

	round.Hands[seat] = removeCards(hand, []Card{card})
	round.Trick = append(round.Trick, TrickPlay{Seat: seat, Card: card})

	if len(round.Trick) < NumSeats {
		round.Turn = (seat + 1) % NumSeats
		g.touch()
		return nil
	}

	winner, err := WinnerOf(round.Trick, *round.Trump, *round.ledSuit())
	if err != nil {
		return err
	}
	team := g.Teams.TeamOf(winner.Seat)
	round.TricksWon[team]++
	round.Points[team] += TrickPoints(round.Trick)

	if g.handsExhausted() {
		g.finishRound(team)
	} else {
		round.Trick = nil
		round.TrickLeader = winner.Seat
		round.Turn = winner.Seat
	}
	g.touch()
	return nil
}

func (g *Game) handsExhausted() bool {
	for seat := 0; seat < NumSeats; seat++ {
		if len(g.Round.Hands[seat]) > 0 {
			return false
		}
	}
	return true
}

// finishRound tallies the deal. The kitty discards go to the team that took
// the last trick; the contract team is set back by its bid if it came up
// short. A cumulative score at or past the threshold ends the game,
// otherwise the deal passes left.
func (g *Game) finishRound(lastTrickTeam int) {
	round := g.Round
	round.Trick = nil
	round.Points[lastTrickTeam] += HandPoints(round.Discards)

	contractTeam := g.Teams.TeamOf(round.ContractSeat)
	if round.Points[contractTeam] >= round.ContractBid {
		g.Scores[contractTeam] += round.Points[contractTeam]
	} else {
		g.Scores[contractTeam] -= round.ContractBid
	}
	otherTeam := 1 - contractTeam
	g.Scores[otherTeam] += round.Points[otherTeam]

	if g.Scores[0] >= WinningScore || g.Scores[1] >= WinningScore {
		round.Turn = -1
		g.Status = StatusFinished
		return
	}
	g.startRound((round.Dealer + 1) % NumSeats)
}

func (g *Game) touch() {
	g.UpdatedAt = time.Now()
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

func removeCards(cards []Card, remove []Card) []Card {
	kept := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !containsCard(remove, c) {
			kept = append(kept, c)
		}
	}
	return kept
}
