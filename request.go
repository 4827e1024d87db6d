package blackjacktable

import "github.com/weedbox/blackjacktable/card"

type RequestAction string

const (
	RequestAction_CreateTable      RequestAction = "CreateTable"
	RequestAction_CloseTable       RequestAction = "CloseTable"
	RequestAction_GetTable         RequestAction = "GetTable"
	RequestAction_PlayerJoin       RequestAction = "PlayerJoin"
	RequestAction_PlayerLeave      RequestAction = "PlayerLeave"
	RequestAction_PlayerBet        RequestAction = "PlayerBet"
	RequestAction_PlayerHit        RequestAction = "PlayerHit"
	RequestAction_PlayerStay       RequestAction = "PlayerStay"
	RequestAction_PlayerDoubleDown RequestAction = "PlayerDoubleDown"
	RequestAction_PlayerSplit      RequestAction = "PlayerSplit"
	RequestAction_PlayerInsure     RequestAction = "PlayerInsure"
	RequestAction_CloseBetting     RequestAction = "CloseBetting"
	RequestAction_TurnTimeout      RequestAction = "TurnTimeout"
)

type Request struct {
	Action  RequestAction
	Payload Payload
	reply   chan Response
}

type Payload struct {
	PlayerID string
	Hid      card.Hid
	Param    interface{}
}

type Response struct {
	Result interface{}
	Err    error
}

type PlayerBetParam struct {
	Main float64
	Side float64
}

type CloseBettingParam struct {
	GameCount int
}

type TurnTimeoutParam struct {
	TurnSerial int
}

func NewRequest(action RequestAction, payload Payload) *Request {
	return &Request{
		Action:  action,
		Payload: payload,
		reply:   make(chan Response, 1),
	}
}
