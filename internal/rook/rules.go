package rook

// Bidding bounds. Bids move in steps of BidStep between MinBid and MaxBid,
// which is also the total counter value of the deck.
const (
	MinBid  = 50
	MaxBid  = 180
	BidStep = 5
)

// TrickPlay is one card committed to the current trick by one seat.
type TrickPlay struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// faceValue orders cards within a suit: 1 plays high (above 14), everything
// else plays at its printed rank.
func faceValue(r Rank) int {
	if r == 1 {
		return 15
	}
	return int(r)
}

// PlayValue ranks a card within a single trick. Trump cards sit above
// everything at 100+face, with the Rook as the floor of the trump band.
// Led-suit cards rank by face value. Anything else cannot win the trick.
func PlayValue(c Card, trump Suit, ledSuit Suit) int {
	if c.IsRook() {
		return 100
	}
	if c.Suit == trump {
		return 100 + faceValue(c.Rank)
	}
	if c.Suit == ledSuit {
		return faceValue(c.Rank)
	}
	return -1
}

// WinnerOf resolves a complete trick to the winning play. Play values are
// distinct for distinct cards in one trick, so a tie means the deck was
// corrupted somewhere upstream.
func WinnerOf(trick []TrickPlay, trump Suit, ledSuit Suit) (TrickPlay, error) {
	if len(trick) == 0 {
		return TrickPlay{}, NewError(CodeInvariantViolation, "cannot resolve an empty trick")
	}

	best := trick[0]
	bestValue := PlayValue(best.Card, trump, ledSuit)
	for _, play := range trick[1:] {
		v := PlayValue(play.Card, trump, ledSuit)
		if v == bestValue && v >= 0 {
			return TrickPlay{}, NewError(CodeInvariantViolation,
				"tied play value %d between %s and %s", v, best.Card, play.Card)
		}
		if v > bestValue {
			best = play
			bestValue = v
		}
	}
	return best, nil
}

// LegalPlays filters a hand to the cards that may be played to the current
// trick. With nothing led the whole hand is legal. Otherwise the player must
// follow the led suit if able; the Rook counts as a trump-suit card. A hand
// with no led-suit card may discard or trump freely.
func LegalPlays(hand []Card, ledSuit *Suit, trump Suit) []Card {
	if ledSuit == nil {
		return hand
	}

	var follows []Card
	for _, c := range hand {
		if c.Suit == *ledSuit || (*ledSuit == trump && c.IsRook()) {
			follows = append(follows, c)
		}
	}
	if len(follows) > 0 {
		return follows
	}
	return hand
}

// CheckBid validates a bid amount against the standing high bid (0 when no
// bid has been made yet).
func CheckBid(amount, currentHigh int) error {
	if amount%BidStep != 0 {
		return NewError(CodeIllegalBid, "bid %d is not a multiple of %d", amount, BidStep)
	}
	if amount > MaxBid {
		return NewError(CodeIllegalBid, "bid %d exceeds the maximum of %d", amount, MaxBid)
	}
	if currentHigh == 0 {
		if amount < MinBid {
			return NewError(CodeIllegalBid, "opening bid must be at least %d", MinBid)
		}
		return nil
	}
	if amount <= currentHigh {
		return NewError(CodeIllegalBid, "bid %d does not beat the current bid of %d", amount, currentHigh)
	}
	return nil
}

// TrickPoints is the counter value captured by whoever wins the trick.
func TrickPoints(trick []TrickPlay) (total int) {
	for _, play := range trick {
		total += play.Card.PointValue()
	}
	return
}
