package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_Parse(t *testing.T) {
	cases := map[string]Card{
		"SA":  New(Ace, Spades),
		"HT":  New(Ten, Hearts),
		"D10": New(Ten, Diamonds),
		"7C":  New(Seven, Clubs),
		"kh":  New(King, Hearts),
		"TD":  New(Ten, Diamonds),
	}

	for code, expected := range cases {
		c, err := Parse(code)
		assert.NoError(t, err, code)
		assert.Equal(t, expected, c, code)
	}

	for _, code := range []string{"", "S", "X9", "S1X", "H11"} {
		_, err := Parse(code)
		assert.ErrorIs(t, err, ErrInvalidCard, code)
	}
}

func TestCard_Value(t *testing.T) {
	assert.Equal(t, 1, New(Ace, Spades).Value())
	assert.Equal(t, 7, New(Seven, Hearts).Value())
	assert.Equal(t, 10, New(Ten, Hearts).Value())
	assert.Equal(t, 10, New(Jack, Clubs).Value())
	assert.Equal(t, 10, New(King, Diamonds).Value())
	assert.Equal(t, "A♠", New(Ace, Spades).String())
	assert.Equal(t, "10♥", New(Ten, Hearts).String())
	assert.Equal(t, "HT", New(Ten, Hearts).Code())
}

func TestHid_Equal(t *testing.T) {
	a := NewHid(1, 0, 0)
	b := a
	b.Bet = 5
	b.Amt = 7.5
	assert.True(t, a.Equal(b))

	c := NewHid(2, 0, 0)
	assert.False(t, a.Equal(c))

	d := NewHid(1, 1, 0)
	assert.False(t, a.Equal(d))

	s1 := SplitFrom(a, 3)
	s2 := SplitFrom(a, 4)
	assert.False(t, s1.Equal(a))
	assert.False(t, s1.Equal(s2))
	assert.Equal(t, a.Origin, s1.Origin)
	assert.Equal(t, a.Origin, s2.Origin)
	assert.True(t, s1.Split)

	keys := map[HidKey]bool{a.Key(): true}
	assert.True(t, keys[b.Key()])
	assert.False(t, keys[s1.Key()])
}

func TestSeat_String(t *testing.T) {
	assert.Equal(t, "DEALER", SeatDealer.String())
	assert.Equal(t, "SEAT2", Seat(2).String())
	assert.True(t, SeatDealer.IsDealer())
	assert.False(t, Seat(0).IsDealer())
}

func TestFixtureShoe(t *testing.T) {
	shoe, err := NewFixtureShoe(ShoeName_Hit)
	require.NoError(t, err)
	assert.Equal(t, 5, shoe.Size())
	assert.False(t, shoe.ShuffleNeeded())

	expected := []Card{
		New(Six, Hearts), New(Seven, Diamonds), New(Nine, Clubs), New(Ten, Hearts), New(Five, Spades),
	}
	for _, e := range expected {
		c, err := shoe.Deal()
		require.NoError(t, err)
		assert.Equal(t, e, c)
	}

	_, err = shoe.Deal()
	assert.ErrorIs(t, err, ErrEmptyShoe)
	assert.False(t, shoe.ShuffleNeeded())

	shoe.Shuffle()
	assert.Equal(t, 5, shoe.Size())
	c, err := shoe.Deal()
	require.NoError(t, err)
	assert.Equal(t, New(Six, Hearts), c)

	_, err = NewFixtureShoe("nope")
	assert.ErrorIs(t, err, ErrUnknownShoe)
}

func TestStandardDeck(t *testing.T) {
	deck := standardDeck()
	require.Len(t, deck, 52)

	seen := make(map[Card]bool)
	for _, c := range deck {
		assert.True(t, c.Valid(), c.String())
		assert.False(t, seen[c], c.String())
		seen[c] = true
	}
	assert.Equal(t, MustParse("S2"), deck[0])
	assert.Equal(t, MustParse("CA"), deck[51])
}

func TestStandardShoe(t *testing.T) {
	shoe := NewStandardShoe(2, 0.25, 42)
	assert.Equal(t, 104, shoe.Size())
	assert.False(t, shoe.ShuffleNeeded())

	counts := make(map[Card]int)
	dealt := 0
	for !shoe.ShuffleNeeded() {
		c, err := shoe.Deal()
		require.NoError(t, err)
		assert.True(t, c.Valid())
		counts[c]++
		dealt++
	}

	// burn card sits inside the reserve
	assert.GreaterOrEqual(t, dealt, 104-26)
	assert.Less(t, dealt, 104)
	for c, n := range counts {
		assert.LessOrEqual(t, n, 2, c.String())
	}

	for shoe.Size() > 0 {
		_, err := shoe.Deal()
		require.NoError(t, err)
	}
	_, err := shoe.Deal()
	assert.ErrorIs(t, err, ErrEmptyShoe)

	shoe.Shuffle()
	assert.Equal(t, 104, shoe.Size())
	assert.False(t, shoe.ShuffleNeeded())
}

func TestNewShoeByName(t *testing.T) {
	shoe, err := NewShoeByName("", 1, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, 52, shoe.Size())

	shoe, err = NewShoeByName(ShoeName_Split, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, shoe.Size())

	assert.Contains(t, ShoeNames(), ShoeName_Charlie)
	assert.Equal(t, ShoeName_Standard, ShoeNames()[0])
}
