package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weedbox/blackjacktable/card"
)

func hand(codes ...string) *card.Hand {
	h := card.NewHand(card.NewHid(1, 0, 0))
	for _, code := range codes {
		h.Hit(card.MustParse(code))
	}
	return h
}

func splitHand(codes ...string) *card.Hand {
	h := card.NewHand(card.SplitFrom(card.NewHid(1, 0, 0), 1))
	for _, code := range codes {
		h.Hit(card.MustParse(code))
	}
	return h
}

func TestBasicStrategy(t *testing.T) {
	bs := NewBasicStrategy()

	cases := []struct {
		name string
		hand *card.Hand
		up   string
		play Play
	}{
		{"hard 20 stays", hand("HT", "SK"), "SA", Play_Stay},
		{"hard 16 hits against 10", hand("HT", "S6"), "DT", Play_Hit},
		{"hard 16 stays against 6", hand("HT", "S6"), "D6", Play_Stay},
		{"hard 12 hits against 2", hand("HT", "S2"), "D2", Play_Hit},
		{"hard 11 doubles", hand("H5", "S6"), "DT", Play_DoubleDown},
		{"hard 11 with three cards hits", hand("H5", "S3", "C3"), "DT", Play_Hit},
		{"hard 9 doubles against 5", hand("H5", "S4"), "D5", Play_DoubleDown},
		{"hard 9 hits against 2", hand("H5", "S4"), "D2", Play_Hit},
		{"soft 18 stays against 7", hand("HA", "S7"), "D7", Play_Stay},
		{"soft 18 hits against 10", hand("HA", "S7"), "DT", Play_Hit},
		{"soft 18 doubles against 4", hand("HA", "S7"), "D4", Play_DoubleDown},
		{"soft 18 with three cards stays against 4", hand("HA", "S4", "C3"), "D4", Play_Stay},
		{"soft 13 hits against 2", hand("HA", "S2"), "D2", Play_Hit},
		{"aces split", hand("HA", "SA"), "DT", Play_Split},
		{"eights split", hand("H8", "S8"), "DA", Play_Split},
		{"tens stay", hand("HT", "SK"), "D6", Play_Stay},
		{"nines stay against 7", hand("H9", "S9"), "D7", Play_Stay},
		{"fives double as hard 10", hand("H5", "S5"), "D6", Play_DoubleDown},
		{"split eights play as hard 16", splitHand("H8", "S8"), "DT", Play_Hit},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.play, bs.Advise(c.hand, card.MustParse(c.up)))
		})
	}
}
