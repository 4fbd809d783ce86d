package rook_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rook-server/internal/rook"
)

func card(suit rook.Suit, rank rook.Rank) rook.Card {
	return rook.Card{Suit: suit, Rank: rank}
}

func TestPlayValue(t *testing.T) {
	trump := rook.Green
	led := rook.Red

	var tests = []struct {
		card rook.Card
		want int
	}{
		{rook.RookCard, 100},                // floor of the trump band
		{card(rook.Green, 14), 114},         // trump plays at 100+face
		{card(rook.Green, 1), 115},          // trump ace is the top card
		{card(rook.Green, 2), 102},          // lowest suited trump still beats any led card
		{card(rook.Red, 1), 15},             // led ace
		{card(rook.Red, 14), 14},            // 14 plays under the ace
		{card(rook.Red, 7), 7},              // led suit at face value
		{card(rook.Yellow, 14), -1},         // off suit cannot win
		{card(rook.Black, 1), -1},           // even an off-suit ace cannot win
	}

	for _, tt := range tests {
		t.Run(tt.card.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, rook.PlayValue(tt.card, trump, led))
		})
	}
}

func TestWinnerOfHighestLedCardWinsWithoutTrump(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Red, 9)},
		{Seat: 1, Card: card(rook.Red, 13)},
		{Seat: 2, Card: card(rook.Yellow, 14)},
		{Seat: 3, Card: card(rook.Red, 4)},
	}
	winner, err := rook.WinnerOf(trick, rook.Green, rook.Red)
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Seat)
}

func TestWinnerOfAceBeatsFourteen(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Red, 14)},
		{Seat: 1, Card: card(rook.Red, 1)},
		{Seat: 2, Card: card(rook.Red, 13)},
		{Seat: 3, Card: card(rook.Red, 2)},
	}
	winner, err := rook.WinnerOf(trick, rook.Green, rook.Red)
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Seat)
}

func TestWinnerOfAnyTrumpBeatsLedSuit(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Red, 1)},
		{Seat: 1, Card: card(rook.Red, 14)},
		{Seat: 2, Card: card(rook.Green, 2)},
		{Seat: 3, Card: card(rook.Red, 13)},
	}
	winner, err := rook.WinnerOf(trick, rook.Green, rook.Red)
	require.NoError(t, err)
	assert.Equal(t, 2, winner.Seat)
}

func TestWinnerOfRookLosesToSuitedTrump(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Green, 5)},
		{Seat: 1, Card: rook.RookCard},
		{Seat: 2, Card: card(rook.Green, 2)},
		{Seat: 3, Card: card(rook.Yellow, 1)},
	}
	winner, err := rook.WinnerOf(trick, rook.Green, rook.Green)
	require.NoError(t, err)
	assert.Equal(t, 0, winner.Seat)
}

func TestWinnerOfRookBeatsEverythingElse(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Red, 1)},
		{Seat: 1, Card: rook.RookCard},
		{Seat: 2, Card: card(rook.Red, 14)},
		{Seat: 3, Card: card(rook.Yellow, 1)},
	}
	winner, err := rook.WinnerOf(trick, rook.Green, rook.Red)
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Seat)
}

func TestWinnerOfEmptyTrickIsAnInvariantViolation(t *testing.T) {
	_, err := rook.WinnerOf(nil, rook.Green, rook.Red)
	assert.ErrorIs(t, err, rook.ErrInvariantViolation)
}

func TestWinnerOfDuplicateCardIsAnInvariantViolation(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Red, 7)},
		{Seat: 1, Card: card(rook.Red, 7)},
	}
	_, err := rook.WinnerOf(trick, rook.Green, rook.Red)
	assert.ErrorIs(t, err, rook.ErrInvariantViolation)
}

func TestLegalPlaysNothingLed(t *testing.T) {
	hand := []rook.Card{card(rook.Red, 5), rook.RookCard, card(rook.Green, 10)}
	assert.Equal(t, hand, rook.LegalPlays(hand, nil, rook.Green))
}

func TestLegalPlaysMustFollowSuit(t *testing.T) {
	// Rook and Green 10 are trump-tier, but Red was led and the hand can
	// follow, so only the Red card is legal.
	hand := []rook.Card{card(rook.Red, 5), rook.RookCard, card(rook.Green, 10)}
	led := rook.Red
	assert.Equal(t, []rook.Card{card(rook.Red, 5)}, rook.LegalPlays(hand, &led, rook.Green))
}

func TestLegalPlaysRookFollowsTrumpLead(t *testing.T) {
	hand := []rook.Card{card(rook.Red, 5), rook.RookCard, card(rook.Green, 10)}
	led := rook.Green
	assert.Equal(t, []rook.Card{rook.RookCard, card(rook.Green, 10)},
		rook.LegalPlays(hand, &led, rook.Green))
}

func TestLegalPlaysVoidInLedSuitFreesTheHand(t *testing.T) {
	hand := []rook.Card{card(rook.Yellow, 3), rook.RookCard, card(rook.Green, 10)}
	led := rook.Red
	assert.Equal(t, hand, rook.LegalPlays(hand, &led, rook.Green))
}

func TestLegalPlaysRookDoesNotFollowNonTrumpLead(t *testing.T) {
	// The Rook belongs to the trump suit only; with Red led and Green trump
	// a hand of just the Rook may discard it, but a hand that can follow
	// Red must.
	hand := []rook.Card{rook.RookCard}
	led := rook.Red
	assert.Equal(t, hand, rook.LegalPlays(hand, &led, rook.Green))
}

func TestCheckBid(t *testing.T) {
	var tests = []struct {
		name    string
		amount  int
		high    int
		wantErr bool
	}{
		{"opening minimum", 50, 0, false},
		{"opening below minimum", 45, 0, true},
		{"raise", 75, 70, false},
		{"equal to high", 70, 70, true},
		{"below high", 65, 70, true},
		{"not a step multiple", 72, 70, true},
		{"ceiling", 180, 175, false},
		{"over ceiling", 185, 180, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d_over_%d", tt.name, tt.amount, tt.high), func(t *testing.T) {
			err := rook.CheckBid(tt.amount, tt.high)
			if tt.wantErr {
				assert.ErrorIs(t, err, rook.ErrIllegalBid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrickPoints(t *testing.T) {
	trick := []rook.TrickPlay{
		{Seat: 0, Card: card(rook.Red, 1)},
		{Seat: 1, Card: card(rook.Red, 10)},
		{Seat: 2, Card: rook.RookCard},
		{Seat: 3, Card: card(rook.Red, 3)},
	}
	assert.Equal(t, 45, rook.TrickPoints(trick))
}
