package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func handOf(hid Hid, codes ...string) *Hand {
	h := NewHand(hid)
	for _, code := range codes {
		h.Hit(MustParse(code))
	}
	return h
}

func TestHand_Values(t *testing.T) {
	hid := NewHid(1, 0, 0)

	h := handOf(hid, "SA", "H6")
	hard, soft := h.Values()
	assert.Equal(t, 7, hard)
	assert.Equal(t, 17, soft)
	assert.Equal(t, 17, h.Value())
	assert.True(t, h.IsSoft())

	// ace falls back to 1 once 11 would bust
	h.Hit(MustParse("DT"))
	hard, soft = h.Values()
	assert.Equal(t, 17, hard)
	assert.Equal(t, 17, soft)
	assert.False(t, h.IsSoft())

	h = handOf(hid, "SA", "HA")
	hard, soft = h.Values()
	assert.Equal(t, 2, hard)
	assert.Equal(t, 12, soft)

	h = handOf(hid, "SK", "HQ", "D5")
	assert.Equal(t, 25, h.Value())
	assert.True(t, h.IsBust())
}

func TestHand_Blackjack(t *testing.T) {
	h := handOf(NewHid(1, 0, 0), "SA", "HK")
	assert.True(t, h.IsBlackjack())
	assert.False(t, h.IsBust())

	// 21 with three cards is not a natural
	h = handOf(NewHid(1, 0, 0), "S7", "H7", "D7")
	assert.False(t, h.IsBlackjack())
	assert.Equal(t, 21, h.Value())

	// a split hand never counts as a natural
	h = handOf(SplitFrom(NewHid(1, 0, 0), 2), "SA", "HK")
	assert.False(t, h.IsBlackjack())
}

func TestHand_Pair(t *testing.T) {
	hid := NewHid(1, 0, 0)
	assert.True(t, handOf(hid, "S9", "D9").IsPair())
	assert.False(t, handOf(hid, "SK", "DQ").IsPair())
	assert.False(t, handOf(hid, "S9", "D9", "H2").IsPair())
	assert.False(t, handOf(SplitFrom(hid, 1), "S9", "D9").IsPair())
}

func TestHand_Charlie(t *testing.T) {
	h := handOf(NewHid(1, 0, 0), "S2", "D3", "H2", "S4")
	assert.False(t, h.IsCharlie())

	h.Hit(MustParse("D3"))
	assert.True(t, h.IsCharlie())
	assert.Equal(t, 5, h.Size())

	h = handOf(NewHid(1, 0, 0), "S2", "D3", "H2", "S4", "DK")
	assert.True(t, h.IsBust())
	assert.False(t, h.IsCharlie())
}

func TestHand_CardsCopy(t *testing.T) {
	h := handOf(NewHid(1, 0, 0), "S2", "D3")
	cards := h.Cards()
	cards[0] = MustParse("SK")
	assert.Equal(t, MustParse("S2"), h.Card(0))
}
