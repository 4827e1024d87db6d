package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/protocol"
)

var (
	ErrCourierClosed = fmt.Errorf("actor: %w: courier is closed", blackjacktable.ErrConnectivityLoss)
)

// CommandError is an ERROR reply from the server.
type CommandError struct {
	Code    protocol.ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("actor: %s: %s", e.Code, e.Message)
}

// Unwrap maps the wire code back to the error category.
func (e *CommandError) Unwrap() error {
	switch e.Code {
	case protocol.ErrorCode_IllegalAction:
		return blackjacktable.ErrIllegalAction
	case protocol.ErrorCode_ResourceExhaustion:
		return blackjacktable.ErrResourceExhaustion
	case protocol.ErrorCode_ConnectivityLoss:
		return blackjacktable.ErrConnectivityLoss
	case protocol.ErrorCode_AuthenticationFailure:
		return blackjacktable.ErrAuthenticationFailure
	case protocol.ErrorCode_Unsupported:
		return blackjacktable.ErrUnsupported
	}
	return blackjacktable.ErrProtocolViolation
}

type CourierOpt func(*Courier)

func WithCourierLogger(logger *logrus.Entry) CourierOpt {
	return func(c *Courier) {
		c.logger = logger
	}
}

func WithWriteTimeout(timeout time.Duration) CourierOpt {
	return func(c *Courier) {
		c.writeTimeout = timeout
	}
}

/*
Courier is the client side message pump of a table connection
  - replies are matched to commands by req_id
  - events are queued without bound and handed to the UI in order on one goroutine
*/
type Courier struct {
	ws           *websocket.Conn
	ui           UI
	logger       *logrus.Entry
	writeTimeout time.Duration
	writeMu      sync.Mutex
	reqSeq       int64

	pendingMu sync.Mutex
	pending   map[string]chan *protocol.Envelope

	queueMu sync.Mutex
	queue   []*blackjacktable.Event
	signal  chan struct{}

	done      chan struct{}
	closeOnce sync.Once
	drained   chan struct{}
}

// Dial connects to the websocket endpoint of a table server, for example
// ws://localhost:8080/ws.
func Dial(ctx context.Context, url string, ui UI, opts ...CourierOpt) (*Courier, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCourierClosed, err)
	}

	return NewCourier(ws, ui, opts...), nil
}

// NewCourier runs a courier over an established connection.
func NewCourier(ws *websocket.Conn, ui UI, opts ...CourierOpt) *Courier {
	if ui == nil {
		ui = NopUI{}
	}

	c := &Courier{
		ws:           ws,
		ui:           ui,
		logger:       logrus.WithField("component", "courier"),
		writeTimeout: 10 * time.Second,
		pending:      make(map[string]chan *protocol.Envelope),
		signal:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		drained:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.readPump()
	go c.dispatchLoop()

	return c
}

// Done is closed once the connection is gone.
func (c *Courier) Done() <-chan struct{} {
	return c.done
}

// Drained is closed after the last queued event was handed to the UI.
func (c *Courier) Drained() <-chan struct{} {
	return c.drained
}

func (c *Courier) Close() error {
	c.shutdown()
	return nil
}

func (c *Courier) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		_ = c.ws.Close()
	})
}

func (c *Courier) Authenticate(ctx context.Context, name string, password string) (*protocol.TicketPayload, error) {
	reply, err := c.request(ctx, protocol.MessageType_Authenticate, protocol.AuthenticatePayload{
		Name:     name,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var ticket protocol.TicketPayload
	if err := reply.Unmarshal(&ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Arrive takes a seat with a ticket. READY may be delivered before Arrive
// returns.
func (c *Courier) Arrive(ctx context.Context, ticket string) (*protocol.ArriveAck, error) {
	reply, err := c.request(ctx, protocol.MessageType_Arrive, protocol.ArrivePayload{
		Ticket: ticket,
	})
	if err != nil {
		return nil, err
	}

	var ack protocol.ArriveAck
	if err := reply.Unmarshal(&ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *Courier) Bet(ctx context.Context, amount float64, side float64) error {
	_, err := c.request(ctx, protocol.MessageType_Bet, protocol.BetPayload{
		Amount: amount,
		Side:   side,
	})
	return err
}

func (c *Courier) Hit(ctx context.Context, hid card.Hid) error {
	return c.handCommand(ctx, protocol.MessageType_Hit, hid)
}

func (c *Courier) Stay(ctx context.Context, hid card.Hid) error {
	return c.handCommand(ctx, protocol.MessageType_Stay, hid)
}

func (c *Courier) DoubleDown(ctx context.Context, hid card.Hid) error {
	return c.handCommand(ctx, protocol.MessageType_DoubleDown, hid)
}

func (c *Courier) Split(ctx context.Context, hid card.Hid) error {
	return c.handCommand(ctx, protocol.MessageType_Split, hid)
}

func (c *Courier) Insure(ctx context.Context, hid card.Hid) error {
	return c.handCommand(ctx, protocol.MessageType_Insure, hid)
}

func (c *Courier) handCommand(ctx context.Context, t protocol.MessageType, hid card.Hid) error {
	_, err := c.request(ctx, t, protocol.HandPayload{Hid: hid})
	return err
}

func (c *Courier) request(ctx context.Context, t protocol.MessageType, payload interface{}) (*protocol.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqID := strconv.FormatInt(atomic.AddInt64(&c.reqSeq, 1), 10)

	data, err := protocol.Encode(t, reqID, payload)
	if err != nil {
		return nil, err
	}

	ch := make(chan *protocol.Envelope, 1)
	c.pendingMu.Lock()
	c.pending[reqID] = ch
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, reqID)
		c.pendingMu.Unlock()
	}()

	if err := c.write(data); err != nil {
		return nil, err
	}

	select {
	case reply := <-ch:
		if reply.Type == protocol.MessageType_Error {
			var p protocol.ErrorPayload
			if err := reply.Unmarshal(&p); err != nil {
				return nil, err
			}
			return nil, &CommandError{Code: p.Code, Message: p.Message}
		}
		return reply, nil
	case <-c.done:
		return nil, ErrCourierClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Courier) write(data []byte) error {
	select {
	case <-c.done:
		return ErrCourierClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("%w: %v", ErrCourierClosed, err)
	}
	return nil
}

func (c *Courier) readPump() {
	defer c.shutdown()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.WithError(err).Info("connection lost")
			}
			return
		}

		env, err := protocol.Decode(data)
		if err != nil {
			c.logger.WithError(err).Warn("dropping malformed message")
			continue
		}

		if env.Type.IsReply() {
			c.resolve(env)
			continue
		}

		var ev blackjacktable.Event
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			c.logger.WithError(err).WithField("type", env.Type).Warn("dropping malformed event")
			continue
		}
		c.push(&ev)
	}
}

func (c *Courier) resolve(env *protocol.Envelope) {
	c.pendingMu.Lock()
	ch, ok := c.pending[env.ReqID]
	c.pendingMu.Unlock()

	if !ok {
		// ERROR for a frame that could not be decoded carries no req_id
		c.logger.WithFields(logrus.Fields{
			"type":   env.Type,
			"req_id": env.ReqID,
		}).Debug("unmatched reply")
		return
	}

	select {
	case ch <- env:
	default:
	}
}

func (c *Courier) push(ev *blackjacktable.Event) {
	c.queueMu.Lock()
	c.queue = append(c.queue, ev)
	c.queueMu.Unlock()

	select {
	case c.signal <- struct{}{}:
	default:
	}
}

func (c *Courier) takeQueued() []*blackjacktable.Event {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()

	events := c.queue
	c.queue = nil
	return events
}

func (c *Courier) dispatchLoop() {
	defer close(c.drained)

	for {
		select {
		case <-c.signal:
		case <-c.done:
			// events read before the connection dropped are still delivered
			for _, ev := range c.takeQueued() {
				Deliver(c.ui, ev)
			}
			return
		}

		for _, ev := range c.takeQueued() {
			if !Deliver(c.ui, ev) {
				c.logger.WithField("type", ev.Type).Debug("ignoring unknown event")
			}
		}
	}
}
