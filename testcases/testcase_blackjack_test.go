package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
)

func TestPlayerBlackjack(t *testing.T) {
	tt := StartTable(t, FixtureShoe(card.ShoeName_Blackjack), NewDefaultTableSetting())

	you := tt.Arrive(t, "you")
	ready, _ := you.WaitFor(blackjacktable.EventType_Ready)
	assert.Equal(t, you.PlayerID, ready.To)

	// round 1: A+K against Q+6
	require.NoError(t, you.Bet(DefaultBet))

	bj, events := you.WaitFor(blackjacktable.EventType_Blackjack)
	assert.Equal(t, you.Seat, bj.Hid.Seat)
	assert.Equal(t, 15.0, bj.Hid.Amt)
	assert.Len(t, FilterEvents(events, blackjacktable.EventType_Deal), 4)
	assert.Empty(t, FilterEvents(events, blackjacktable.EventType_Turn))

	// no live hand is left so the dealer keeps 16
	lose, events := you.WaitFor(blackjacktable.EventType_Lose)
	assert.True(t, lose.Hid.Seat.IsDealer())
	assert.Equal(t, -15.0, lose.Hid.Amt)
	assert.Empty(t, FilterEvents(events, blackjacktable.EventType_Deal))

	you.WaitFor(blackjacktable.EventType_Ending)
	assert.Equal(t, 1015.0, Bankroll(t, tt.Engine, you.PlayerID))

	// round 2: 2+3 hits a ten, dealer Q+6 draws to 21
	require.NoError(t, you.Bet(DefaultBet))

	hid := you.WaitForTurn()
	require.NoError(t, you.Hit(hid))
	hid = you.WaitForTurn()
	require.NoError(t, you.Stay(hid))

	_, events = you.WaitFor(blackjacktable.EventType_Ending)

	outcomes := Outcomes(events, you.Seat)
	require.Len(t, outcomes, 1)
	assert.Equal(t, blackjacktable.EventType_Lose, outcomes[0].Type)
	assert.Equal(t, -10.0, outcomes[0].Hid.Amt)

	dealer := Outcomes(events, card.SeatDealer)
	require.Len(t, dealer, 1)
	assert.Equal(t, blackjacktable.EventType_Win, dealer[0].Type)
	assert.Equal(t, 10.0, dealer[0].Hid.Amt)

	last := FilterEvents(events, blackjacktable.EventType_Deal)
	require.NotEmpty(t, last)
	assert.True(t, last[len(last)-1].Hid.Seat.IsDealer())
	assert.Equal(t, []int{21, 21}, last[len(last)-1].Values)

	assert.Equal(t, 1005.0, Bankroll(t, tt.Engine, you.PlayerID))
	DebugPrintEvents("blackjack", you.Seen())
}
