// Package bot plays the empty seats. Decisions are deterministic heuristics
// over the same document every player sees, and every action goes through
// the regular service operations — a bot is just another actor racing on the
// version number.
package bot

import (
	"sort"

	"rook-server/internal/rook"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// handStrength estimates what a hand is worth in the auction: its counter
// total plus a premium for trick-winning cards.
func handStrength(hand []rook.Card) int {
	strength := rook.HandPoints(hand)
	for _, c := range hand {
		if c.IsRook() || c.Rank == 1 || c.Rank >= 13 {
			strength += 5
		}
	}
	return strength
}

// ChooseBid raises minimally while the hand supports it, otherwise passes.
func (e *Engine) ChooseBid(g *rook.Game, seat int) (amount int, pass bool) {
	hand := g.Round.Hands[seat]
	ceiling := handStrength(hand) / rook.BidStep * rook.BidStep
	if ceiling > rook.MaxBid {
		ceiling = rook.MaxBid
	}

	next := rook.MinBid
	if high := g.Round.Auction.HighBid; high > 0 {
		next = high + rook.BidStep
	}
	if next > ceiling {
		return 0, true
	}
	return next, false
}

// ChooseTrump names the longest suit in the hand (counter total breaks
// ties) and returns the five cheapest discards that keep trump and counters.
func (e *Engine) ChooseTrump(g *rook.Game, seat int) (rook.Suit, []rook.Card) {
	hand := g.Round.Hands[seat]

	counts := make(map[rook.Suit]int)
	points := make(map[rook.Suit]int)
	for _, c := range hand {
		if c.IsRook() {
			continue
		}
		counts[c.Suit]++
		points[c.Suit] += c.PointValue()
	}

	trump := rook.Suits[0]
	for _, suit := range rook.Suits[1:] {
		if counts[suit] > counts[trump] ||
			(counts[suit] == counts[trump] && points[suit] > points[trump]) {
			trump = suit
		}
	}

	sorted := append([]rook.Card(nil), hand...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return keepScore(sorted[i], trump) < keepScore(sorted[j], trump)
	})
	return trump, sorted[:rook.KittySize]
}

// keepScore ranks how much a card is worth holding on to. Trump and the
// Rook are near-unkeepable to discard; otherwise counters outweigh face
// strength.
func keepScore(c rook.Card, trump rook.Suit) int {
	if c.IsRook() {
		return 1000
	}
	score := c.PointValue()*20 + faceStrength(c.Rank)
	if c.Suit == trump {
		score += 500
	}
	return score
}

func faceStrength(r rook.Rank) int {
	if r == 1 {
		return 15
	}
	return int(r)
}

// ChooseCard picks the play for the seat holding the turn. Leading: a
// non-trump sure winner if one exists, else the cheapest card. Following:
// the cheapest card that still takes the trick, else the cheapest legal
// discard so no counters are fed to the opponents.
func (e *Engine) ChooseCard(g *rook.Game, seat int) rook.Card {
	round := g.Round
	trump := *round.Trump
	hand := round.Hands[seat]
	legal := rook.LegalPlays(hand, ledSuitOf(round, trump), trump)

	if len(round.Trick) == 0 {
		for _, c := range legal {
			if !c.IsRook() && c.Suit != trump && c.Rank == 1 {
				return c
			}
		}
		return cheapest(legal, trump)
	}

	led := *ledSuitOf(round, trump)
	bestValue := -1
	for _, play := range round.Trick {
		if v := rook.PlayValue(play.Card, trump, led); v > bestValue {
			bestValue = v
		}
	}

	var winner *rook.Card
	for i, c := range legal {
		if rook.PlayValue(c, trump, led) <= bestValue {
			continue
		}
		if winner == nil || keepScore(c, trump) < keepScore(*winner, trump) {
			winner = &legal[i]
		}
	}
	if winner != nil {
		return *winner
	}
	return cheapest(legal, trump)
}

func cheapest(cards []rook.Card, trump rook.Suit) rook.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if keepScore(c, trump) < keepScore(best, trump) {
			best = c
		}
	}
	return best
}

func ledSuitOf(round *rook.Round, trump rook.Suit) *rook.Suit {
	if len(round.Trick) == 0 {
		return nil
	}
	led := round.Trick[0].Card.Suit
	if round.Trick[0].Card.IsRook() {
		led = trump
	}
	return &led
}
