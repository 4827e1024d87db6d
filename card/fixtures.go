package card

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownShoe = errors.New("card: unknown shoe")
)

const (
	ShoeName_Standard        = "standard"
	ShoeName_Blackjack       = "blackjack"
	ShoeName_Hit             = "hit"
	ShoeName_DoubleDown      = "double"
	ShoeName_Split           = "split"
	ShoeName_DealerBlackjack = "dealer-blackjack"
	ShoeName_Charlie         = "charlie"
)

// Scripted decks for a single seat. Cards alternate seat, dealer, seat, dealer
// for the initial deal and continue with the draws.
var fixtures = map[string][]string{
	// seat A+K blackjack, dealer Q+6; second round seat 2+3 hits 10, dealer Q+6 draws 5
	ShoeName_Blackjack: {"SA", "HQ", "HK", "C6", "S2", "HQ", "H3", "C6", "HT", "H5"},
	// seat 6+9 hits 5 to 20, dealer 7+10 stands on 17
	ShoeName_Hit: {"H6", "D7", "C9", "HT", "S5"},
	// seat 5+6 doubles onto 10 for 21, dealer 10+7 stands
	ShoeName_DoubleDown: {"H5", "ST", "D6", "C7", "DT"},
	// seat 9+9 splits, hands draw 10 and J; dealer 10+7 stands
	ShoeName_Split: {"S9", "HT", "D9", "C7", "ST", "HJ"},
	// dealer A+K natural against seat 10+8
	ShoeName_DealerBlackjack: {"ST", "SA", "H8", "HK"},
	// seat 2+3 hits 2, 4, 3 for a five card 14, dealer 10+9
	ShoeName_Charlie: {"S2", "HT", "D3", "C9", "H2", "S4", "D3"},
}

func NewFixtureShoe(name string) (*FixedShoe, error) {
	codes, ok := fixtures[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShoe, name)
	}

	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := Parse(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	return NewFixedShoe(cards...), nil
}

// NewShoeByName builds the standard shoe or one of the scripted fixtures.
func NewShoeByName(name string, decks int, threshold float64, seed int64) (Shoe, error) {
	if name == "" || name == ShoeName_Standard {
		return NewStandardShoe(decks, threshold, seed), nil
	}

	return NewFixtureShoe(name)
}

func ShoeNames() []string {
	names := []string{ShoeName_Standard}
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}
