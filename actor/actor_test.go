package actor

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/session"
)

// newTestTable runs a table server over a fixture shoe and returns its base URL.
func newTestTable(t *testing.T, shoeName string) (blackjacktable.TableEngine, string) {
	t.Helper()

	shoe, err := card.NewFixtureShoe(shoeName)
	require.NoError(t, err)

	engine := blackjacktable.NewTableEngine(&blackjacktable.TableEngineOptions{
		QueueSize: 64,
	}, blackjacktable.WithShoe(shoe))

	auth := session.NewAuthenticator(session.AuthenticatorOptions{
		Secret: []byte("test secret"),
		TTL:    time.Minute,
	})
	mgr := session.NewManager(engine, auth)
	engine.OnEvent(mgr.Dispatch)

	_, err = engine.CreateTable(blackjacktable.TableSetting{
		TableID: "table",
		Meta:    blackjacktable.NewDefaultTableMeta(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(mgr.Router())
	t.Cleanup(func() {
		mgr.Close()
		srv.Close()
		_ = engine.CloseTable()
	})

	return engine, srv.URL
}

type recordingUI struct {
	events chan *blackjacktable.Event
}

func newRecordingUI() *recordingUI {
	return &recordingUI{
		events: make(chan *blackjacktable.Event, 256),
	}
}

func (ui *recordingUI) record(ev *blackjacktable.Event) {
	ui.events <- ev
}

func (ui *recordingUI) Ready(ev *blackjacktable.Event)     { ui.record(ev) }
func (ui *recordingUI) Starting(ev *blackjacktable.Event)  { ui.record(ev) }
func (ui *recordingUI) Deal(ev *blackjacktable.Event)      { ui.record(ev) }
func (ui *recordingUI) Turn(ev *blackjacktable.Event)      { ui.record(ev) }
func (ui *recordingUI) Split(ev *blackjacktable.Event)     { ui.record(ev) }
func (ui *recordingUI) Bust(ev *blackjacktable.Event)      { ui.record(ev) }
func (ui *recordingUI) Blackjack(ev *blackjacktable.Event) { ui.record(ev) }
func (ui *recordingUI) Charlie(ev *blackjacktable.Event)   { ui.record(ev) }
func (ui *recordingUI) Win(ev *blackjacktable.Event)       { ui.record(ev) }
func (ui *recordingUI) Lose(ev *blackjacktable.Event)      { ui.record(ev) }
func (ui *recordingUI) Push(ev *blackjacktable.Event)      { ui.record(ev) }
func (ui *recordingUI) Shuffling(ev *blackjacktable.Event) { ui.record(ev) }
func (ui *recordingUI) Ending(ev *blackjacktable.Event)    { ui.record(ev) }
func (ui *recordingUI) Abort(ev *blackjacktable.Event)     { ui.record(ev) }

// waitFor returns the first event of the given type and every event seen
// up to it.
func (ui *recordingUI) waitFor(t *testing.T, eventType blackjacktable.EventType) (*blackjacktable.Event, []*blackjacktable.Event) {
	t.Helper()

	seen := make([]*blackjacktable.Event, 0)
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ui.events:
			seen = append(seen, ev)
			if ev.Type == eventType {
				return ev, seen
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for event", string(eventType))
			return nil, seen
		}
	}
}

func countEvents(events []*blackjacktable.Event, eventType blackjacktable.EventType) int {
	count := 0
	for _, ev := range events {
		if ev.Type == eventType {
			count++
		}
	}
	return count
}
