package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/protocol"
)

func dialTestTable(t *testing.T, baseURL string, ui UI) *Courier {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, err := Dial(ctx, WebsocketURL(baseURL), ui)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func TestCourier_PlayRound(t *testing.T) {
	_, baseURL := newTestTable(t, card.ShoeName_Hit)

	ctx := context.Background()
	ui := newRecordingUI()
	c := dialTestTable(t, baseURL, ui)

	ticket, err := c.Authenticate(ctx, "you", "")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.Ticket)

	ack, err := c.Arrive(ctx, ticket.Ticket)
	require.NoError(t, err)
	assert.Equal(t, ticket.PlayerID, ack.PlayerID)
	assert.Equal(t, 0, ack.Seat)
	assert.Equal(t, float64(blackjacktable.DefaultInitialBankroll), ack.Bankroll)

	ready, _ := ui.waitFor(t, blackjacktable.EventType_Ready)
	assert.Equal(t, ticket.PlayerID, ready.To)

	require.NoError(t, c.Bet(ctx, 10, 0))

	turn, seen := ui.waitFor(t, blackjacktable.EventType_Turn)
	assert.Equal(t, 1, countEvents(seen, blackjacktable.EventType_Starting))
	assert.Equal(t, 4, countEvents(seen, blackjacktable.EventType_Deal))

	// 15 against a seven, then 20
	require.NoError(t, c.Hit(ctx, *turn.Hid))
	turn, _ = ui.waitFor(t, blackjacktable.EventType_Turn)
	require.NoError(t, c.Stay(ctx, *turn.Hid))

	win, _ := ui.waitFor(t, blackjacktable.EventType_Win)
	assert.Equal(t, card.Seat(0), win.Hid.Seat)
	assert.Equal(t, 10.0, win.Hid.Amt)

	ui.waitFor(t, blackjacktable.EventType_Ending)
}

func TestCourier_CommandErrors(t *testing.T) {
	_, baseURL := newTestTable(t, card.ShoeName_Hit)

	ctx := context.Background()
	ui := newRecordingUI()
	c := dialTestTable(t, baseURL, ui)

	// not arrived yet
	err := c.Bet(ctx, 10, 0)
	require.Error(t, err)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, protocol.ErrorCode_ProtocolViolation, cmdErr.Code)
	assert.ErrorIs(t, err, blackjacktable.ErrProtocolViolation)

	_, err = c.Arrive(ctx, "not a ticket")
	assert.ErrorIs(t, err, blackjacktable.ErrAuthenticationFailure)

	ticket, err := c.Authenticate(ctx, "you", "")
	require.NoError(t, err)
	_, err = c.Arrive(ctx, ticket.Ticket)
	require.NoError(t, err)
	ui.waitFor(t, blackjacktable.EventType_Ready)

	err = c.Bet(ctx, 0, 0)
	assert.ErrorIs(t, err, blackjacktable.ErrIllegalAction)

	err = c.Bet(ctx, 1000000, 0)
	assert.ErrorIs(t, err, blackjacktable.ErrIllegalAction)

	require.NoError(t, c.Bet(ctx, 10, 0))
	turn, _ := ui.waitFor(t, blackjacktable.EventType_Turn)

	err = c.Insure(ctx, *turn.Hid)
	assert.ErrorIs(t, err, blackjacktable.ErrUnsupported)

	err = c.Split(ctx, *turn.Hid)
	assert.ErrorIs(t, err, blackjacktable.ErrIllegalAction)
}

func TestCourier_Close(t *testing.T) {
	_, baseURL := newTestTable(t, card.ShoeName_Hit)

	c := dialTestTable(t, baseURL, nil)
	require.NoError(t, c.Close())

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		require.FailNow(t, "courier did not close")
	}

	select {
	case <-c.Drained():
	case <-time.After(time.Second):
		require.FailNow(t, "dispatch did not stop")
	}

	err := c.Bet(context.Background(), 10, 0)
	assert.ErrorIs(t, err, ErrCourierClosed)
	assert.ErrorIs(t, err, blackjacktable.ErrConnectivityLoss)
}

func TestCourier_ContextCancel(t *testing.T) {
	_, baseURL := newTestTable(t, card.ShoeName_Hit)

	c := dialTestTable(t, baseURL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Authenticate(ctx, "you", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuthenticate_HTTP(t *testing.T) {
	_, baseURL := newTestTable(t, card.ShoeName_Hit)

	ctx := context.Background()
	ticket, err := Authenticate(ctx, baseURL, "you", "")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.Ticket)
	assert.NotEmpty(t, ticket.PlayerID)

	_, err = Authenticate(ctx, baseURL, "  ", "")
	assert.ErrorIs(t, err, blackjacktable.ErrAuthenticationFailure)
}

func TestWebsocketURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/ws", WebsocketURL("http://localhost:8080/"))
	assert.Equal(t, "wss://table.example.com/ws", WebsocketURL("https://table.example.com"))
}
