package advisor

import (
	"github.com/weedbox/blackjacktable/card"
)

type Play string

const (
	Play_Hit        Play = "hit"
	Play_Stay       Play = "stay"
	Play_DoubleDown Play = "double_down"
	Play_Split      Play = "split"
)

// Advisor recommends a play for a hand given the dealer up card.
type Advisor interface {
	Advise(hand *card.Hand, upCard card.Card) Play
}

// BasicStrategy plays the usual multi-deck basic strategy, dealer stands on
// soft 17. Doubles fall back to hitting, or staying on soft 18, when the hand
// has more than two cards.
type BasicStrategy struct{}

func NewBasicStrategy() *BasicStrategy {
	return &BasicStrategy{}
}

func (bs *BasicStrategy) Advise(hand *card.Hand, upCard card.Card) Play {
	up := upValue(upCard)

	if hand.IsPair() {
		if play, ok := pairPlay(hand.Card(0).Rank, up); ok {
			return play
		}
	}

	canDouble := hand.Size() == 2
	if hand.IsSoft() {
		return softPlay(hand.Value(), up, canDouble)
	}
	return hardPlay(hand.Value(), up, canDouble)
}

// upValue counts an ace as 11.
func upValue(c card.Card) int {
	if c.IsAce() {
		return 11
	}
	return c.Value()
}

func between(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// pairPlay returns false when the pair plays as a hard total.
func pairPlay(rank card.Rank, up int) (Play, bool) {
	switch {
	case rank == card.Ace, rank == card.Eight:
		return Play_Split, true
	case rank.Value() == 10:
		return Play_Stay, true
	case rank == card.Nine:
		if between(up, 2, 9) && up != 7 {
			return Play_Split, true
		}
		return Play_Stay, true
	case rank == card.Seven, rank == card.Three, rank == card.Two:
		if between(up, 2, 7) {
			return Play_Split, true
		}
		return Play_Hit, true
	case rank == card.Six:
		if between(up, 2, 6) {
			return Play_Split, true
		}
		return Play_Hit, true
	case rank == card.Four:
		if between(up, 5, 6) {
			return Play_Split, true
		}
		return Play_Hit, true
	}

	// fives
	return "", false
}

func softPlay(total, up int, canDouble bool) Play {
	double := func(fallback Play) Play {
		if canDouble {
			return Play_DoubleDown
		}
		return fallback
	}

	switch {
	case total >= 19:
		return Play_Stay
	case total == 18:
		if between(up, 3, 6) {
			return double(Play_Stay)
		}
		if up >= 9 {
			return Play_Hit
		}
		return Play_Stay
	case total == 17:
		if between(up, 3, 6) {
			return double(Play_Hit)
		}
	case total >= 15:
		if between(up, 4, 6) {
			return double(Play_Hit)
		}
	default:
		if between(up, 5, 6) {
			return double(Play_Hit)
		}
	}
	return Play_Hit
}

func hardPlay(total, up int, canDouble bool) Play {
	double := func() Play {
		if canDouble {
			return Play_DoubleDown
		}
		return Play_Hit
	}

	switch {
	case total >= 17:
		return Play_Stay
	case total >= 13:
		if between(up, 2, 6) {
			return Play_Stay
		}
	case total == 12:
		if between(up, 4, 6) {
			return Play_Stay
		}
	case total == 11:
		return double()
	case total == 10:
		if between(up, 2, 9) {
			return double()
		}
	case total == 9:
		if between(up, 3, 6) {
			return double()
		}
	}
	return Play_Hit
}
