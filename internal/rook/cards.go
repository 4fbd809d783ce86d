package rook

import (
	"fmt"
	"math/rand"
)

type Suit int

const (
	Red Suit = iota
	Green
	Yellow
	Black
	// BirdSuit is the Rook card's own suit. The Rook has no rank; it is
	// modeled as rank 0 in a one-card suit and plays as the lowest trump.
	BirdSuit
)

var suitString = map[Suit]string{
	Red:      "Red",
	Green:    "Green",
	Yellow:   "Yellow",
	Black:    "Black",
	BirdSuit: "Rook",
}

func (s Suit) String() string {
	return suitString[s]
}

// Suits lists the four biddable suits. The Rook's suit is never trump on
// its own; the Rook joins whichever suit is named trump.
var Suits = []Suit{Red, Green, Yellow, Black}

func (s Suit) Valid() bool {
	return s == Red || s == Green || s == Yellow || s == Black
}

type Rank int

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// RookCard is the single bird card.
var RookCard = Card{Suit: BirdSuit, Rank: 0}

func (c Card) IsRook() bool {
	return c.Suit == BirdSuit
}

// pointValues is the fixed counter table. Scoring everywhere goes through
// PointValue; nothing derives these by formula.
var pointValues = map[Rank]int{
	1:  15,
	5:  5,
	10: 10,
	14: 10,
}

func (c Card) PointValue() int {
	if c.IsRook() {
		return 20
	}
	return pointValues[c.Rank]
}

func (c Card) Valid() bool {
	if c.IsRook() {
		return c.Rank == 0
	}
	return c.Suit.Valid() && c.Rank >= 1 && c.Rank <= 14
}

func (c Card) String() string {
	if c.IsRook() {
		return "Rook"
	}
	return fmt.Sprintf("%s %d", c.Suit.String(), c.Rank)
}

// DeckSize is 4 suits of 14 ranks plus the Rook.
const DeckSize = 57

// DeckPoints is the total counter value of the full deck.
const DeckPoints = 180

type Deck struct {
	Cards []Card `json:"cards"`
}

func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := Rank(1); rank <= 14; rank++ {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	cards = append(cards, RookCard)
	return &Deck{Cards: cards}
}

func (d Deck) Count() int {
	return len(d.Cards)
}

func (d *Deck) Draw(n int) (cards []Card) {
	for range n {
		card := d.Cards[len(d.Cards)-1]
		cards = append(cards, card)
		d.Cards = d.Cards[:len(d.Cards)-1]
	}
	return
}

func (d *Deck) Shuffle() {
	rand.Shuffle(d.Count(), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// HandPoints sums the counter value of a set of cards.
func HandPoints(cards []Card) (total int) {
	for _, c := range cards {
		total += c.PointValue()
	}
	return
}
