package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/weedbox/blackjacktable/card"
)

var (
	ErrMalformedMessage = errors.New("protocol: malformed message")
	ErrMalformedPayload = errors.New("protocol: malformed payload")
	ErrUnknownType      = errors.New("protocol: unknown message type")
)

type MessageType string

const (
	// Commands, client to server
	MessageType_Authenticate MessageType = "AUTHENTICATE"
	MessageType_Arrive       MessageType = "ARRIVE"
	MessageType_Bet          MessageType = "BET"
	MessageType_Hit          MessageType = "HIT"
	MessageType_Stay         MessageType = "STAY"
	MessageType_DoubleDown   MessageType = "DOUBLE_DOWN"
	MessageType_Split        MessageType = "SPLIT"
	MessageType_Insure       MessageType = "INSURE"

	// Replies, correlated by req_id
	MessageType_Ticket MessageType = "TICKET"
	MessageType_Ack    MessageType = "ACK"
	MessageType_Error  MessageType = "ERROR"
)

var commands = map[MessageType]bool{
	MessageType_Authenticate: true,
	MessageType_Arrive:       true,
	MessageType_Bet:          true,
	MessageType_Hit:          true,
	MessageType_Stay:         true,
	MessageType_DoubleDown:   true,
	MessageType_Split:        true,
	MessageType_Insure:       true,
}

// IsCommand reports whether the type is sent by clients.
func (t MessageType) IsCommand() bool {
	return commands[t]
}

// IsReply reports whether the type answers a command.
func (t MessageType) IsReply() bool {
	return t == MessageType_Ticket || t == MessageType_Ack || t == MessageType_Error
}

// IsHandCommand reports whether the command acts on a hand.
func (t MessageType) IsHandCommand() bool {
	switch t {
	case MessageType_Hit, MessageType_Stay, MessageType_DoubleDown, MessageType_Split, MessageType_Insure:
		return true
	}
	return false
}

type ErrorCode string

const (
	ErrorCode_ProtocolViolation     ErrorCode = "protocol_violation"
	ErrorCode_IllegalAction         ErrorCode = "illegal_action"
	ErrorCode_ResourceExhaustion    ErrorCode = "resource_exhaustion"
	ErrorCode_ConnectivityLoss      ErrorCode = "connectivity_loss"
	ErrorCode_AuthenticationFailure ErrorCode = "authentication_failure"
	ErrorCode_Unsupported           ErrorCode = "unsupported"
)

// Envelope is the frame of every message on the wire. Events carry no req_id.
type Envelope struct {
	Type    MessageType     `json:"type"`
	ReqID   string          `json:"req_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type AuthenticatePayload struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"` // table password, if the table has one
}

type TicketPayload struct {
	Ticket    string `json:"ticket"`
	PlayerID  string `json:"player_id"`
	ExpiresAt int64  `json:"expires_at"` // seconds
}

type ArrivePayload struct {
	Ticket string `json:"ticket"`
}

type ArriveAck struct {
	PlayerID string  `json:"player_id"`
	Seat     int     `json:"seat"`
	Bankroll float64 `json:"bankroll"`
}

type BetPayload struct {
	Amount float64 `json:"amount"`
	Side   float64 `json:"side,omitempty"` // super 7 side bet
}

type HandPayload struct {
	Hid card.Hid `json:"hid"`
}

type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func Encode(t MessageType, reqID string, payload interface{}) ([]byte, error) {
	env := Envelope{
		Type:  t,
		ReqID: reqID,
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}

	return json.Marshal(env)
}

func EncodeError(reqID string, code ErrorCode, message string) ([]byte, error) {
	return Encode(MessageType_Error, reqID, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	return &env, nil
}

// Unmarshal decodes the payload into v.
func (e *Envelope) Unmarshal(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrMalformedPayload, e.Type)
	}

	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
