package card

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCard = errors.New("card: invalid card")
)

type Rank int

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

var rankSymbols = map[Rank]string{
	Ace: "A", Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
	Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K",
}

// Value returns the blackjack value of the rank, counting Ace as 1.
func (r Rank) Value() int {
	if r >= Ten {
		return 10
	}
	return int(r)
}

func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

func (r Rank) String() string {
	if s, ok := rankSymbols[r]; ok {
		return s
	}
	return "?"
}

type Suit string

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Diamonds, Clubs:
		return true
	}
	return false
}

func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

// Card is an immutable playing card.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func New(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

func (c Card) Value() int {
	return c.Rank.Value()
}

func (c Card) IsAce() bool {
	return c.Rank == Ace
}

func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Code returns the compact suit-first form, e.g. "SA" or "HT".
func (c Card) Code() string {
	r := c.Rank.String()
	if c.Rank == Ten {
		r = "T"
	}
	return string(c.Suit) + r
}

// Parse reads a card code in either suit-first ("SA", "H10") or rank-first
// ("AS", "TD", "10C") form.
func Parse(code string) (Card, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}

	var suit Suit
	var rank string
	if first := Suit(s[:1]); first.Valid() {
		suit, rank = first, s[1:]
	} else if last := Suit(s[len(s)-1:]); last.Valid() {
		suit, rank = last, s[:len(s)-1]
	} else {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}

	r, err := parseRank(rank)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}

	return New(r, suit), nil
}

func MustParse(code string) Card {
	c, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return c
}

func parseRank(s string) (Rank, error) {
	switch s {
	case "A", "1":
		return Ace, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}

	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}

	return 0, ErrInvalidCard
}
