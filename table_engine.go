package blackjacktable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/open_game_manager"
	"github.com/weedbox/blackjacktable/seat_manager"
	"github.com/weedbox/timebank"
)

// Error categories. Concrete errors wrap one of them so callers can classify
// with errors.Is.
var (
	ErrProtocolViolation     = errors.New("protocol violation")
	ErrIllegalAction         = errors.New("illegal action")
	ErrResourceExhaustion    = errors.New("resource exhaustion")
	ErrConnectivityLoss      = errors.New("connectivity loss")
	ErrAuthenticationFailure = errors.New("authentication failure")
	ErrUnsupported           = errors.New("unsupported")
)

var (
	ErrTableNotFound              = errors.New("table: table not found")
	ErrTableInvalidCreateSetting  = errors.New("table: invalid create table setting")
	ErrHandAlreadySettled         = errors.New("table: hand already settled")
	ErrTableClosed                = fmt.Errorf("table: %w: table is closed", ErrConnectivityLoss)
	ErrTableNoEmptySeats          = fmt.Errorf("table: %w: no empty seats available", ErrResourceExhaustion)
	ErrTableEmptyShoe             = fmt.Errorf("table: %w: shoe ran out of cards", ErrResourceExhaustion)
	ErrTablePlayerNotFound        = fmt.Errorf("table: %w: player not found", ErrProtocolViolation)
	ErrTablePlayerAlreadySeated   = fmt.Errorf("table: %w: player is already seated", ErrProtocolViolation)
	ErrTableBettingClosed         = fmt.Errorf("table: %w: betting is closed", ErrProtocolViolation)
	ErrTableAlreadyBet            = fmt.Errorf("table: %w: bet already placed", ErrProtocolViolation)
	ErrTableNotYourTurn           = fmt.Errorf("table: %w: hand is not on turn", ErrProtocolViolation)
	ErrTableInvalidBet            = fmt.Errorf("table: %w: bet must be positive", ErrIllegalAction)
	ErrTableBetBelowMinimum       = fmt.Errorf("table: %w: bet below table minimum", ErrIllegalAction)
	ErrTableBetAboveMaximum       = fmt.Errorf("table: %w: bet above table maximum", ErrIllegalAction)
	ErrTableInsufficientBankroll  = fmt.Errorf("table: %w: insufficient bankroll", ErrIllegalAction)
	ErrTableDoubleDownNotAllowed  = fmt.Errorf("table: %w: double down needs a two card hand", ErrIllegalAction)
	ErrTableSplitNotAllowed       = fmt.Errorf("table: %w: only an unsplit pair can be split", ErrIllegalAction)
	ErrTableInsuranceNotSupported = fmt.Errorf("table: %w: insurance is not offered", ErrUnsupported)
)

type TableEngineOpt func(*tableEngine)

type TableEngine interface {
	// Events, set before CreateTable
	OnEvent(fn func(*Event))
	OnTableUpdated(fn func(*Table))
	OnTableErrorUpdated(fn func(*Table, error))

	// Table Actions
	CreateTable(tableSetting TableSetting) (*Table, error)
	GetTable() (*Table, error)
	CloseTable() error

	// Player Table Actions
	PlayerJoin(joinPlayer JoinPlayer) (int, error)
	PlayerLeave(playerID string) error

	// Player Game Actions
	PlayerBet(playerID string, main float64, side float64) error
	PlayerHit(playerID string, hid card.Hid) error
	PlayerStay(playerID string, hid card.Hid) error
	PlayerDoubleDown(playerID string, hid card.Hid) error
	PlayerSplit(playerID string, hid card.Hid) error
	PlayerInsure(playerID string, hid card.Hid) error
}

type tableEngine struct {
	options             *TableEngineOptions
	table               *Table
	shoe                card.Shoe
	sm                  seat_manager.SeatManager
	ogm                 open_game_manager.OpenGameManager
	turnTB              *timebank.TimeBank
	round               *round
	logger              *logrus.Entry
	incoming            chan *Request
	done                chan struct{}
	closeOnce           sync.Once
	onEvent             func(*Event)
	onTableUpdated      func(*Table)
	onTableErrorUpdated func(*Table, error)
}

func NewTableEngine(options *TableEngineOptions, opts ...TableEngineOpt) TableEngine {
	if options == nil {
		options = NewTableEngineOptions()
	}

	queueSize := options.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	callbacks := NewTableEngineCallbacks()
	te := &tableEngine{
		options:             options,
		turnTB:              timebank.NewTimeBank(),
		logger:              logrus.WithField("component", "table_engine"),
		incoming:            make(chan *Request, queueSize),
		done:                make(chan struct{}),
		onEvent:             callbacks.OnEvent,
		onTableUpdated:      callbacks.OnTableUpdated,
		onTableErrorUpdated: callbacks.OnTableErrorUpdated,
	}

	for _, opt := range opts {
		opt(te)
	}

	if te.shoe == nil {
		te.shoe = card.NewStandardShoe(card.DefaultDecks, card.DefaultThreshold, 0)
	}

	go te.run()

	return te
}

func WithShoe(shoe card.Shoe) TableEngineOpt {
	return func(te *tableEngine) {
		te.shoe = shoe
	}
}

func WithLogger(logger *logrus.Entry) TableEngineOpt {
	return func(te *tableEngine) {
		te.logger = logger
	}
}

func WithCallbacks(callbacks *TableEngineCallbacks) TableEngineOpt {
	return func(te *tableEngine) {
		if callbacks.OnEvent != nil {
			te.onEvent = callbacks.OnEvent
		}
		if callbacks.OnTableUpdated != nil {
			te.onTableUpdated = callbacks.OnTableUpdated
		}
		if callbacks.OnTableErrorUpdated != nil {
			te.onTableErrorUpdated = callbacks.OnTableErrorUpdated
		}
	}
}

func (te *tableEngine) OnEvent(fn func(*Event)) {
	te.onEvent = fn
}

func (te *tableEngine) OnTableUpdated(fn func(*Table)) {
	te.onTableUpdated = fn
}

func (te *tableEngine) OnTableErrorUpdated(fn func(*Table, error)) {
	te.onTableErrorUpdated = fn
}

func (te *tableEngine) CreateTable(tableSetting TableSetting) (*Table, error) {
	res, err := te.request(RequestAction_CreateTable, Payload{Param: tableSetting})
	if err != nil {
		return nil, err
	}
	return res.(*Table), nil
}

// GetTable returns a snapshot of the table including the hands of the
// current round.
func (te *tableEngine) GetTable() (*Table, error) {
	res, err := te.request(RequestAction_GetTable, Payload{})
	if err != nil {
		return nil, err
	}
	return res.(*Table), nil
}

/*
CloseTable stops the engine
  - pending hands are not settled
  - every later call returns ErrTableClosed
  - the engine stops also when the table was never created
*/
func (te *tableEngine) CloseTable() error {
	_, err := te.request(RequestAction_CloseTable, Payload{})

	te.closeOnce.Do(func() {
		close(te.done)
	})
	return err
}

/*
PlayerJoin seats a player and returns the seat
  - READY is sent once the table has enough players
*/
func (te *tableEngine) PlayerJoin(joinPlayer JoinPlayer) (int, error) {
	res, err := te.request(RequestAction_PlayerJoin, Payload{PlayerID: joinPlayer.PlayerID, Param: joinPlayer})
	if err != nil {
		return UnsetValue, err
	}
	return res.(int), nil
}

/*
PlayerLeave marks a player as disconnected
  - a hand on turn is stayed at once, later hands are stayed when reached
  - the seat is released when the round ends
*/
func (te *tableEngine) PlayerLeave(playerID string) error {
	_, err := te.request(RequestAction_PlayerLeave, Payload{PlayerID: playerID})
	return err
}

func (te *tableEngine) PlayerBet(playerID string, main float64, side float64) error {
	_, err := te.request(RequestAction_PlayerBet, Payload{
		PlayerID: playerID,
		Param: PlayerBetParam{
			Main: main,
			Side: side,
		},
	})
	return err
}

func (te *tableEngine) PlayerHit(playerID string, hid card.Hid) error {
	_, err := te.request(RequestAction_PlayerHit, Payload{PlayerID: playerID, Hid: hid})
	return err
}

func (te *tableEngine) PlayerStay(playerID string, hid card.Hid) error {
	_, err := te.request(RequestAction_PlayerStay, Payload{PlayerID: playerID, Hid: hid})
	return err
}

func (te *tableEngine) PlayerDoubleDown(playerID string, hid card.Hid) error {
	_, err := te.request(RequestAction_PlayerDoubleDown, Payload{PlayerID: playerID, Hid: hid})
	return err
}

func (te *tableEngine) PlayerSplit(playerID string, hid card.Hid) error {
	_, err := te.request(RequestAction_PlayerSplit, Payload{PlayerID: playerID, Hid: hid})
	return err
}

func (te *tableEngine) PlayerInsure(playerID string, hid card.Hid) error {
	_, err := te.request(RequestAction_PlayerInsure, Payload{PlayerID: playerID, Hid: hid})
	return err
}
