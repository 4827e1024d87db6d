package testcases

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/actor"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/session"
)

type TestTable struct {
	Engine  blackjacktable.TableEngine
	BaseURL string
}

// StartTable serves a table over websocket with the given shoe.
func StartTable(t *testing.T, shoe card.Shoe, setting blackjacktable.TableSetting) *TestTable {
	t.Helper()

	engine := blackjacktable.NewTableEngine(&blackjacktable.TableEngineOptions{
		QueueSize: 64,
	}, blackjacktable.WithShoe(shoe))

	auth := session.NewAuthenticator(session.AuthenticatorOptions{
		Secret: []byte("testcases"),
		TTL:    time.Minute,
	})
	mgr := session.NewManager(engine, auth)
	engine.OnEvent(mgr.Dispatch)

	_, err := engine.CreateTable(setting)
	require.NoError(t, err)

	srv := httptest.NewServer(mgr.Router())
	t.Cleanup(func() {
		mgr.Close()
		srv.Close()
		_ = engine.CloseTable()
	})

	return &TestTable{
		Engine:  engine,
		BaseURL: srv.URL,
	}
}

// Player is a seated client recording every event it receives.
type Player struct {
	t        *testing.T
	Name     string
	PlayerID string
	Seat     card.Seat
	Courier  *actor.Courier
	events   chan *blackjacktable.Event
	seen     []*blackjacktable.Event
}

// Arrive authenticates over HTTP, connects and takes a seat.
func (tt *TestTable) Arrive(t *testing.T, name string) *Player {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ticket, err := actor.Authenticate(ctx, tt.BaseURL, name, "")
	require.NoError(t, err)

	p := &Player{
		t:      t,
		Name:   name,
		events: make(chan *blackjacktable.Event, 256),
	}

	c, err := actor.Dial(ctx, actor.WebsocketURL(tt.BaseURL), p)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	p.Courier = c

	ack, err := c.Arrive(ctx, ticket.Ticket)
	require.NoError(t, err)

	p.PlayerID = ack.PlayerID
	p.Seat = card.Seat(ack.Seat)
	return p
}

func (p *Player) record(ev *blackjacktable.Event) {
	p.events <- ev
}

func (p *Player) Ready(ev *blackjacktable.Event)     { p.record(ev) }
func (p *Player) Starting(ev *blackjacktable.Event)  { p.record(ev) }
func (p *Player) Deal(ev *blackjacktable.Event)      { p.record(ev) }
func (p *Player) Turn(ev *blackjacktable.Event)      { p.record(ev) }
func (p *Player) Split(ev *blackjacktable.Event)     { p.record(ev) }
func (p *Player) Bust(ev *blackjacktable.Event)      { p.record(ev) }
func (p *Player) Blackjack(ev *blackjacktable.Event) { p.record(ev) }
func (p *Player) Charlie(ev *blackjacktable.Event)   { p.record(ev) }
func (p *Player) Win(ev *blackjacktable.Event)       { p.record(ev) }
func (p *Player) Lose(ev *blackjacktable.Event)      { p.record(ev) }
func (p *Player) Push(ev *blackjacktable.Event)      { p.record(ev) }
func (p *Player) Shuffling(ev *blackjacktable.Event) { p.record(ev) }
func (p *Player) Ending(ev *blackjacktable.Event)    { p.record(ev) }
func (p *Player) Abort(ev *blackjacktable.Event)     { p.record(ev) }

// WaitFor returns the next event of the given type and the events received
// since the previous WaitFor.
func (p *Player) WaitFor(eventType blackjacktable.EventType) (*blackjacktable.Event, []*blackjacktable.Event) {
	p.t.Helper()

	since := make([]*blackjacktable.Event, 0)
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-p.events:
			p.seen = append(p.seen, ev)
			since = append(since, ev)
			if ev.Type == eventType {
				return ev, since
			}
		case <-timeout:
			DebugPrintEvents(p.Name+" timed out", p.seen)
			require.FailNow(p.t, "timed out waiting for event", "%s waiting for %s", p.Name, eventType)
			return nil, since
		}
	}
}

// WaitForTurn waits for the next TURN of one of the player's hands.
func (p *Player) WaitForTurn() card.Hid {
	p.t.Helper()

	for {
		ev, _ := p.WaitFor(blackjacktable.EventType_Turn)
		if ev.Hid.Seat == p.Seat {
			return *ev.Hid
		}
	}
}

// Seen returns every event received so far.
func (p *Player) Seen() []*blackjacktable.Event {
	return p.seen
}

func (p *Player) Bet(amount float64) error {
	return p.Courier.Bet(context.Background(), amount, 0)
}

func (p *Player) Hit(hid card.Hid) error {
	return p.Courier.Hit(context.Background(), hid)
}

func (p *Player) Stay(hid card.Hid) error {
	return p.Courier.Stay(context.Background(), hid)
}

func (p *Player) DoubleDown(hid card.Hid) error {
	return p.Courier.DoubleDown(context.Background(), hid)
}

func (p *Player) SplitHand(hid card.Hid) error {
	return p.Courier.Split(context.Background(), hid)
}

func FilterEvents(events []*blackjacktable.Event, eventType blackjacktable.EventType) []*blackjacktable.Event {
	filtered := make([]*blackjacktable.Event, 0)
	for _, ev := range events {
		if ev.Type == eventType {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// Outcomes returns the settlement events of one seat.
func Outcomes(events []*blackjacktable.Event, seat card.Seat) []*blackjacktable.Event {
	outcomes := make([]*blackjacktable.Event, 0)
	for _, ev := range events {
		if ev.Type.IsOutcome() && ev.Hid != nil && ev.Hid.Seat == seat {
			outcomes = append(outcomes, ev)
		}
	}
	return outcomes
}

func Bankroll(t *testing.T, engine blackjacktable.TableEngine, playerID string) float64 {
	t.Helper()

	table, err := engine.GetTable()
	require.NoError(t, err)

	player := table.FindPlayer(playerID)
	require.NotNil(t, player)
	return player.Bankroll
}
