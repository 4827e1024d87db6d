package session

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/protocol"
)

type conn struct {
	m         *Manager
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	pid       string // set once arrived
}

func newConn(m *Manager, ws *websocket.Conn) *conn {
	return &conn{
		m:    m,
		ws:   ws,
		send: make(chan []byte, m.options.SendQueueSize),
		done: make(chan struct{}),
	}
}

func (c *conn) playerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pid
}

// enqueue never blocks, false means the queue is full.
func (c *conn) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *conn) writePump() {
	ticker := time.NewTicker(c.m.options.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.m.options.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.m.options.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *conn) readPump() {
	defer func() {
		c.close()
		c.m.depart(c)

		// connectivity loss, held hands are auto-stayed
		if pid := c.playerID(); pid != "" {
			c.m.logger.WithField("player", pid).Info("player disconnected")
			if err := c.m.engine.PlayerLeave(pid); err != nil {
				c.m.logger.WithField("player", pid).WithError(err).Debug("leave rejected")
			}
		}
	}()

	c.ws.SetReadLimit(c.m.options.MaxMessage)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.m.options.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.m.options.PongTimeout))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.m.options.PongTimeout))

		env, err := protocol.Decode(data)
		if err != nil {
			c.replyError("", err)
			continue
		}

		c.handle(env)
	}
}

func (c *conn) handle(env *protocol.Envelope) {
	logger := c.m.logger.WithFields(logrus.Fields{
		"action": env.Type,
		"req_id": env.ReqID,
		"player": c.playerID(),
	})
	logger.Debug("command received")

	var err error
	switch {
	case env.Type == protocol.MessageType_Authenticate:
		err = c.handleAuthenticate(env)
	case env.Type == protocol.MessageType_Arrive:
		err = c.handleArrive(env)
	case env.Type == protocol.MessageType_Bet:
		err = c.handleBet(env)
	case env.Type.IsHandCommand():
		err = c.handleHandCommand(env)
	default:
		err = protocol.ErrUnknownType
	}

	if err != nil {
		logger.WithError(err).Debug("command rejected")
		c.replyError(env.ReqID, err)
	}
}

func (c *conn) handleAuthenticate(env *protocol.Envelope) error {
	var payload protocol.AuthenticatePayload
	if err := env.Unmarshal(&payload); err != nil {
		return err
	}

	ticket, err := c.m.auth.Authenticate(payload.Name, payload.Password)
	if err != nil {
		return err
	}

	return c.reply(protocol.MessageType_Ticket, env.ReqID, ticket)
}

func (c *conn) handleArrive(env *protocol.Envelope) error {
	if c.playerID() != "" {
		return ErrAlreadyArrived
	}

	var payload protocol.ArrivePayload
	if err := env.Unmarshal(&payload); err != nil {
		return err
	}

	claims, err := c.m.auth.Verify(payload.Ticket)
	if err != nil {
		return err
	}

	if err := c.m.arrive(c, claims.PlayerID); err != nil {
		return err
	}

	c.mu.Lock()
	c.pid = claims.PlayerID
	c.mu.Unlock()

	seat, err := c.m.engine.PlayerJoin(blackjacktable.JoinPlayer{PlayerID: claims.PlayerID})
	if err != nil {
		c.mu.Lock()
		c.pid = ""
		c.mu.Unlock()
		c.m.release(claims.PlayerID, c)
		return err
	}

	ack := protocol.ArriveAck{
		PlayerID: claims.PlayerID,
		Seat:     seat,
	}
	if table, err := c.m.engine.GetTable(); err == nil {
		if player := table.FindPlayer(claims.PlayerID); player != nil {
			ack.Bankroll = player.Bankroll
		}
	}

	c.m.logger.WithFields(logrus.Fields{
		"player": claims.PlayerID,
		"name":   claims.Name,
		"seat":   seat,
	}).Info("player arrived")

	return c.reply(protocol.MessageType_Ack, env.ReqID, ack)
}

func (c *conn) handleBet(env *protocol.Envelope) error {
	pid := c.playerID()
	if pid == "" {
		return ErrNotArrived
	}

	var payload protocol.BetPayload
	if err := env.Unmarshal(&payload); err != nil {
		return err
	}

	if err := c.m.engine.PlayerBet(pid, payload.Amount, payload.Side); err != nil {
		return err
	}

	return c.reply(protocol.MessageType_Ack, env.ReqID, nil)
}

func (c *conn) handleHandCommand(env *protocol.Envelope) error {
	pid := c.playerID()
	if pid == "" {
		return ErrNotArrived
	}

	var payload protocol.HandPayload

	// insurance is refused whatever the payload says
	if env.Type == protocol.MessageType_Insure {
		_ = env.Unmarshal(&payload)
		return c.m.engine.PlayerInsure(pid, payload.Hid)
	}

	if err := env.Unmarshal(&payload); err != nil {
		return err
	}

	actions := map[protocol.MessageType]func(string, card.Hid) error{
		protocol.MessageType_Hit:        c.m.engine.PlayerHit,
		protocol.MessageType_Stay:       c.m.engine.PlayerStay,
		protocol.MessageType_DoubleDown: c.m.engine.PlayerDoubleDown,
		protocol.MessageType_Split:      c.m.engine.PlayerSplit,
	}

	if err := actions[env.Type](pid, payload.Hid); err != nil {
		return err
	}

	return c.reply(protocol.MessageType_Ack, env.ReqID, nil)
}

func (c *conn) reply(t protocol.MessageType, reqID string, payload interface{}) error {
	data, err := protocol.Encode(t, reqID, payload)
	if err != nil {
		return err
	}

	if !c.enqueue(data) {
		c.close()
	}
	return nil
}

func (c *conn) replyError(reqID string, err error) {
	data, encodeErr := protocol.EncodeError(reqID, ErrorCode(err), err.Error())
	if encodeErr != nil {
		c.m.logger.WithError(encodeErr).Error("failed to encode error")
		return
	}

	if !c.enqueue(data) {
		c.close()
	}
}
