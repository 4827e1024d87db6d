package testcases

import (
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
)

const (
	DefaultBet = 10.0
)

func NewDefaultTableSetting(joinPlayers ...blackjacktable.JoinPlayer) blackjacktable.TableSetting {
	meta := blackjacktable.NewDefaultTableMeta()
	meta.Name = "table name"
	meta.MaxBet = 500

	return blackjacktable.TableSetting{
		TableID:     "table",
		Meta:        meta,
		JoinPlayers: joinPlayers,
	}
}

// NewShoe scripts a shoe from card codes such as "SA" or "HT".
func NewShoe(codes ...string) card.Shoe {
	cards := make([]card.Card, 0, len(codes))
	for _, code := range codes {
		cards = append(cards, card.MustParse(code))
	}
	return card.NewFixedShoe(cards...)
}

func FixtureShoe(name string) card.Shoe {
	shoe, err := card.NewFixtureShoe(name)
	if err != nil {
		panic(err)
	}
	return shoe
}
