package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
)

func TestSplit(t *testing.T) {
	tt := StartTable(t, FixtureShoe(card.ShoeName_Split), NewDefaultTableSetting())

	you := tt.Arrive(t, "you")
	you.WaitFor(blackjacktable.EventType_Ready)
	require.NoError(t, you.Bet(DefaultBet))

	orig := you.WaitForTurn()
	require.NoError(t, you.SplitHand(orig))

	split, _ := you.WaitFor(blackjacktable.EventType_Split)
	require.Len(t, split.Hids, 2)
	first, second := split.Hids[0], split.Hids[1]

	assert.True(t, orig.Equal(*split.OrigHid))
	assert.True(t, second.Equal(*split.Hid))
	assert.False(t, first.Equal(orig))
	assert.False(t, second.Equal(orig))
	assert.False(t, first.Equal(second))
	assert.True(t, first.Split)
	assert.True(t, second.Split)

	turn, events := you.WaitFor(blackjacktable.EventType_Turn)
	assert.True(t, first.Equal(*turn.Hid))

	// each hand gets one card of the pair, then one more
	deals := FilterEvents(events, blackjacktable.EventType_Deal)
	require.Len(t, deals, 4)
	expected := []struct {
		hid  card.Hid
		code string
	}{
		{first, "S9"},
		{first, "ST"},
		{second, "D9"},
		{second, "HJ"},
	}
	for i, e := range expected {
		assert.True(t, e.hid.Equal(*deals[i].Hid))
		assert.Equal(t, card.MustParse(e.code), *deals[i].Card)
	}

	// the original hand is gone and split hands are not pairs
	assert.ErrorIs(t, you.SplitHand(orig), blackjacktable.ErrProtocolViolation)
	assert.ErrorIs(t, you.SplitHand(first), blackjacktable.ErrIllegalAction)

	require.NoError(t, you.Stay(first))
	next := you.WaitForTurn()
	assert.True(t, second.Equal(next))
	require.NoError(t, you.Stay(second))

	_, events = you.WaitFor(blackjacktable.EventType_Ending)

	outcomes := Outcomes(events, you.Seat)
	require.Len(t, outcomes, 2)
	total := 0.0
	for _, ev := range outcomes {
		assert.Equal(t, blackjacktable.EventType_Win, ev.Type)
		assert.Equal(t, DefaultBet, ev.Hid.Amt)
		total += ev.Hid.Amt
	}
	assert.Equal(t, 2*DefaultBet, total)

	assert.Equal(t, 1020.0, Bankroll(t, tt.Engine, you.PlayerID))
}
