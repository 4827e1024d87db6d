package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/protocol"
)

type testServer struct {
	engine blackjacktable.TableEngine
	auth   *Authenticator
	mgr    *Manager
	srv    *httptest.Server
}

func newTestServer(t *testing.T, shoeName string) *testServer {
	t.Helper()

	shoe, err := card.NewFixtureShoe(shoeName)
	require.NoError(t, err)

	engine := blackjacktable.NewTableEngine(&blackjacktable.TableEngineOptions{
		QueueSize: 64,
	}, blackjacktable.WithShoe(shoe))

	auth := NewAuthenticator(AuthenticatorOptions{
		Secret: []byte("test secret"),
		TTL:    time.Minute,
	})
	mgr := NewManager(engine, auth)
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

	return &testServer{
		engine: engine,
		auth:   auth,
		mgr:    mgr,
		srv:    srv,
	}
}

func (s *testServer) ticket(t *testing.T, name string) *protocol.TicketPayload {
	t.Helper()

	body, _ := json.Marshal(protocol.AuthenticatePayload{Name: name})
	resp, err := http.Post(s.srv.URL+"/authenticate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ticket protocol.TicketPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ticket))
	return &ticket
}

type testClient struct {
	t       *testing.T
	ws      *websocket.Conn
	pending []*protocol.Envelope
	seq     int
}

func (s *testServer) dial(t *testing.T) *testClient {
	t.Helper()

	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ws.Close()
	})

	return &testClient{t: t, ws: ws}
}

func (c *testClient) send(t protocol.MessageType, payload interface{}) string {
	c.t.Helper()

	c.seq++
	reqID := strconv.Itoa(c.seq)
	data, err := protocol.Encode(t, reqID, payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.ws.WriteMessage(websocket.TextMessage, data))
	return reqID
}

func (c *testClient) read(timeout time.Duration) (*protocol.Envelope, error) {
	_ = c.ws.SetReadDeadline(time.Now().Add(timeout))
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	return protocol.Decode(data)
}

// waitFor returns the first message of the given type, messages of other
// types stay pending for later calls.
func (c *testClient) waitFor(t protocol.MessageType) *protocol.Envelope {
	c.t.Helper()

	for i, env := range c.pending {
		if env.Type == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return env
		}
	}

	for {
		env, err := c.read(3 * time.Second)
		require.NoError(c.t, err, "waiting for %s", t)
		if env.Type == t {
			return env
		}
		c.pending = append(c.pending, env)
	}
}

func (c *testClient) event(t blackjacktable.EventType) *blackjacktable.Event {
	c.t.Helper()

	env := c.waitFor(protocol.MessageType(t))
	assert.Empty(c.t, env.ReqID)

	var ev blackjacktable.Event
	require.NoError(c.t, env.Unmarshal(&ev))
	return &ev
}

func (c *testClient) expectError(reqID string, code protocol.ErrorCode) {
	c.t.Helper()

	env := c.waitFor(protocol.MessageType_Error)
	assert.Equal(c.t, reqID, env.ReqID)

	var payload protocol.ErrorPayload
	require.NoError(c.t, env.Unmarshal(&payload))
	assert.Equal(c.t, code, payload.Code)
}

func (c *testClient) arrive(ticket string) protocol.ArriveAck {
	c.t.Helper()

	reqID := c.send(protocol.MessageType_Arrive, protocol.ArrivePayload{Ticket: ticket})
	env := c.waitFor(protocol.MessageType_Ack)
	require.Equal(c.t, reqID, env.ReqID)

	var ack protocol.ArriveAck
	require.NoError(c.t, env.Unmarshal(&ack))
	return ack
}

func TestSession_RoundTrip(t *testing.T) {
	s := newTestServer(t, card.ShoeName_Hit)
	ticket := s.ticket(t, "alice")

	c := s.dial(t)
	ack := c.arrive(ticket.Ticket)
	assert.Equal(t, ticket.PlayerID, ack.PlayerID)
	assert.Equal(t, 0, ack.Seat)
	assert.Equal(t, blackjacktable.DefaultInitialBankroll, ack.Bankroll)

	ready := c.event(blackjacktable.EventType_Ready)
	assert.Equal(t, ticket.PlayerID, ready.To)

	reqID := c.send(protocol.MessageType_Bet, protocol.BetPayload{Amount: 10})
	assert.Equal(t, reqID, c.waitFor(protocol.MessageType_Ack).ReqID)

	c.event(blackjacktable.EventType_Starting)
	turn := c.event(blackjacktable.EventType_Turn)

	reqID = c.send(protocol.MessageType_Hit, protocol.HandPayload{Hid: *turn.Hid})
	assert.Equal(t, reqID, c.waitFor(protocol.MessageType_Ack).ReqID)

	turn = c.event(blackjacktable.EventType_Turn)
	assert.Equal(t, 5, len(filterDeals(t, c)))

	reqID = c.send(protocol.MessageType_Stay, protocol.HandPayload{Hid: *turn.Hid})
	assert.Equal(t, reqID, c.waitFor(protocol.MessageType_Ack).ReqID)

	win := c.event(blackjacktable.EventType_Win)
	assert.Equal(t, 10.0, win.Hid.Amt)
	c.event(blackjacktable.EventType_Ending)
}

// filterDeals pulls the DEAL events already received out of the pending list.
func filterDeals(t *testing.T, c *testClient) []*protocol.Envelope {
	deals := make([]*protocol.Envelope, 0)
	rest := make([]*protocol.Envelope, 0)
	for _, env := range c.pending {
		if env.Type == protocol.MessageType(blackjacktable.EventType_Deal) {
			deals = append(deals, env)
			continue
		}
		rest = append(rest, env)
	}
	c.pending = rest
	return deals
}

func TestSession_InSocketAuthenticate(t *testing.T) {
	s := newTestServer(t, card.ShoeName_Hit)
	c := s.dial(t)

	reqID := c.send(protocol.MessageType_Authenticate, protocol.AuthenticatePayload{Name: "bob"})
	env := c.waitFor(protocol.MessageType_Ticket)
	assert.Equal(t, reqID, env.ReqID)

	var ticket protocol.TicketPayload
	require.NoError(t, env.Unmarshal(&ticket))
	assert.Equal(t, PlayerID("bob"), ticket.PlayerID)

	ack := c.arrive(ticket.Ticket)
	assert.Equal(t, ticket.PlayerID, ack.PlayerID)
}

func TestSession_Rejections(t *testing.T) {
	s := newTestServer(t, card.ShoeName_Hit)
	c := s.dial(t)

	// commands before arrival
	reqID := c.send(protocol.MessageType_Bet, protocol.BetPayload{Amount: 10})
	c.expectError(reqID, protocol.ErrorCode_ProtocolViolation)

	reqID = c.send(protocol.MessageType_Arrive, protocol.ArrivePayload{Ticket: "forged"})
	c.expectError(reqID, protocol.ErrorCode_AuthenticationFailure)

	reqID = c.send(protocol.MessageType("DANCE"), nil)
	c.expectError(reqID, protocol.ErrorCode_ProtocolViolation)

	require.NoError(t, c.ws.WriteMessage(websocket.TextMessage, []byte("{")))
	c.expectError("", protocol.ErrorCode_ProtocolViolation)

	ticket := s.ticket(t, "alice")
	c.arrive(ticket.Ticket)
	c.event(blackjacktable.EventType_Ready)

	reqID = c.send(protocol.MessageType_Arrive, protocol.ArrivePayload{Ticket: ticket.Ticket})
	c.expectError(reqID, protocol.ErrorCode_ProtocolViolation)

	reqID = c.send(protocol.MessageType_Bet, protocol.BetPayload{Amount: 1})
	c.expectError(reqID, protocol.ErrorCode_IllegalAction)

	reqID = c.send(protocol.MessageType_Insure, protocol.HandPayload{})
	c.expectError(reqID, protocol.ErrorCode_Unsupported)

	// no hid at all is still answered as unsupported
	reqID = c.send(protocol.MessageType_Insure, nil)
	c.expectError(reqID, protocol.ErrorCode_Unsupported)

	reqID = c.send(protocol.MessageType_Stay, protocol.HandPayload{})
	c.expectError(reqID, protocol.ErrorCode_ProtocolViolation)

	// same player on a second connection
	other := s.dial(t)
	reqID = other.send(protocol.MessageType_Arrive, protocol.ArrivePayload{Ticket: ticket.Ticket})
	other.expectError(reqID, protocol.ErrorCode_ProtocolViolation)
}

func TestSession_PrivateEvents(t *testing.T) {
	s := newTestServer(t, card.ShoeName_Hit)

	alice := s.dial(t)
	alice.arrive(s.ticket(t, "alice").Ticket)
	alice.event(blackjacktable.EventType_Ready)

	bob := s.dial(t)
	bob.arrive(s.ticket(t, "bob").Ticket)
	ready := bob.event(blackjacktable.EventType_Ready)
	assert.Equal(t, PlayerID("bob"), ready.To)

	// bob's READY is not relayed to alice
	_, err := alice.read(200 * time.Millisecond)
	assert.Error(t, err)
}

func TestSession_DisconnectLeavesTable(t *testing.T) {
	s := newTestServer(t, card.ShoeName_Hit)

	c := s.dial(t)
	ack := c.arrive(s.ticket(t, "alice").Ticket)
	assert.Equal(t, 1, s.mgr.ConnectedPlayers())

	require.NoError(t, c.ws.Close())

	assert.Eventually(t, func() bool {
		table, err := s.engine.GetTable()
		return err == nil && table.FindPlayer(ack.PlayerID) == nil
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, 0, s.mgr.ConnectedPlayers())

	// the player can come back
	c = s.dial(t)
	ack = c.arrive(s.ticket(t, "alice").Ticket)
	assert.Equal(t, 0, ack.Seat)
}

func TestSession_HTTP(t *testing.T) {
	s := newTestServer(t, card.ShoeName_Hit)

	resp, err := http.Get(s.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.srv.URL + "/table")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var table blackjacktable.Table
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
	assert.Equal(t, "table", table.ID)

	resp, err = http.Post(s.srv.URL+"/authenticate", "application/json", strings.NewReader(`{"name":""}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(s.srv.URL+"/authenticate", "application/json", strings.NewReader(`nope`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, protocol.ErrorCode_IllegalAction, ErrorCode(blackjacktable.ErrTableBetBelowMinimum))
	assert.Equal(t, protocol.ErrorCode_ResourceExhaustion, ErrorCode(blackjacktable.ErrTableNoEmptySeats))
	assert.Equal(t, protocol.ErrorCode_ConnectivityLoss, ErrorCode(blackjacktable.ErrTableClosed))
	assert.Equal(t, protocol.ErrorCode_Unsupported, ErrorCode(blackjacktable.ErrTableInsuranceNotSupported))
	assert.Equal(t, protocol.ErrorCode_AuthenticationFailure, ErrorCode(ErrInvalidTicket))
	assert.Equal(t, protocol.ErrorCode_ProtocolViolation, ErrorCode(blackjacktable.ErrTableNotYourTurn))
	assert.Equal(t, protocol.ErrorCode_ProtocolViolation, ErrorCode(protocol.ErrMalformedMessage))
}
