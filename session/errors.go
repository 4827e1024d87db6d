package session

import (
	"errors"
	"fmt"

	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/protocol"
)

var (
	ErrNotArrived       = fmt.Errorf("session: %w: arrive first", blackjacktable.ErrProtocolViolation)
	ErrAlreadyArrived   = fmt.Errorf("session: %w: already arrived", blackjacktable.ErrProtocolViolation)
	ErrAlreadyConnected = fmt.Errorf("session: %w: player is connected elsewhere", blackjacktable.ErrProtocolViolation)
)

// ErrorCode maps an error to the code reported on the wire.
func ErrorCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, blackjacktable.ErrAuthenticationFailure):
		return protocol.ErrorCode_AuthenticationFailure
	case errors.Is(err, blackjacktable.ErrIllegalAction):
		return protocol.ErrorCode_IllegalAction
	case errors.Is(err, blackjacktable.ErrResourceExhaustion):
		return protocol.ErrorCode_ResourceExhaustion
	case errors.Is(err, blackjacktable.ErrConnectivityLoss):
		return protocol.ErrorCode_ConnectivityLoss
	case errors.Is(err, blackjacktable.ErrUnsupported):
		return protocol.ErrorCode_Unsupported
	}
	return protocol.ErrorCode_ProtocolViolation
}
