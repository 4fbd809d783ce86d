package rook

// PlayerView is the game as one seat is allowed to see it: their own hand,
// card counts for everyone else, and the kitty only while they are the
// contract winner picking it up.
type PlayerView struct {
	Code         string      `json:"code"`
	Status       Status      `json:"status"`
	Seat         int         `json:"seat"`
	Name         string      `json:"name"`
	Players      []SeatView  `json:"players"`
	Teams        *Teams      `json:"teams,omitempty"`
	Scores       [2]int      `json:"scores"`
	RoundNumber  int         `json:"roundNumber,omitempty"`
	Dealer       int         `json:"dealer"`
	Turn         int         `json:"turn"`
	Hand         []Card      `json:"hand,omitempty"`
	Kitty        []Card      `json:"kitty,omitempty"`
	HighBid      int         `json:"highBid,omitempty"`
	HighSeat     int         `json:"highSeat"`
	Passed       []int       `json:"passed,omitempty"`
	ContractSeat int         `json:"contractSeat"`
	ContractBid  int         `json:"contractBid,omitempty"`
	Trump        *Suit       `json:"trump,omitempty"`
	Trick        []TrickPlay `json:"trick,omitempty"`
	TrickLeader  int         `json:"trickLeader"`
	TricksWon    [2]int      `json:"tricksWon"`
	Points       [2]int      `json:"points"`
	Version      int64       `json:"version"`
}

type SeatView struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	IsBot     bool   `json:"isBot"`
	HandCount int    `json:"handCount"`
}

// ViewFor redacts the game for one seat. Seat -1 produces a spectator view
// with no hand at all.
func (g *Game) ViewFor(seat int) *PlayerView {
	view := &PlayerView{
		Code:         g.Code,
		Status:       g.Status,
		Seat:         seat,
		Players:      make([]SeatView, 0, len(g.Players)),
		Teams:        g.Teams,
		Scores:       g.Scores,
		Dealer:       -1,
		Turn:         -1,
		HighSeat:     -1,
		ContractSeat: -1,
		TrickLeader:  -1,
		Version:      g.Version,
	}
	if p := g.PlayerBySeat(seat); p != nil {
		view.Name = p.Name
	}

	round := g.Round
	for _, p := range g.Players {
		sv := SeatView{Seat: p.Seat, Name: p.Name, IsBot: p.IsBot}
		if round != nil {
			sv.HandCount = len(round.Hands[p.Seat])
		}
		view.Players = append(view.Players, sv)
	}

	if round == nil {
		return view
	}

	view.RoundNumber = round.Number
	view.Dealer = round.Dealer
	view.Turn = round.Turn
	view.ContractSeat = round.ContractSeat
	view.ContractBid = round.ContractBid
	view.Trump = round.Trump
	view.Trick = round.Trick
	view.TrickLeader = round.TrickLeader
	view.TricksWon = round.TricksWon
	view.Points = round.Points

	if seat >= 0 && seat < NumSeats {
		view.Hand = round.Hands[seat]
	}
	// The kitty is face down for everyone; the contract winner has already
	// absorbed it into their hand by the time trump selection starts.

	if round.Auction != nil {
		view.HighBid = round.Auction.HighBid
		view.HighSeat = round.Auction.HighSeat
		for s, passed := range round.Auction.Passed {
			if passed {
				view.Passed = append(view.Passed, s)
			}
		}
	}

	return view
}
