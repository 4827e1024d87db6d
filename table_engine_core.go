package blackjacktable

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable/open_game_manager"
	"github.com/weedbox/blackjacktable/seat_manager"
)

// request hands a request to the engine goroutine and waits for the reply.
func (te *tableEngine) request(action RequestAction, payload Payload) (interface{}, error) {
	req := NewRequest(action, payload)

	select {
	case te.incoming <- req:
	case <-te.done:
		return nil, ErrTableClosed
	}

	select {
	case res := <-req.reply:
		return res.Result, res.Err
	case <-te.done:
		select {
		case res := <-req.reply:
			return res.Result, res.Err
		default:
			return nil, ErrTableClosed
		}
	}
}

// enqueue hands an internal request to the engine goroutine without waiting.
func (te *tableEngine) enqueue(action RequestAction, payload Payload) {
	select {
	case te.incoming <- NewRequest(action, payload):
	case <-te.done:
	}
}

func (te *tableEngine) run() {
	for {
		select {
		case req := <-te.incoming:
			te.requestHandler(req)
		case <-te.done:
			return
		}
	}
}

func (te *tableEngine) requestHandler(req *Request) {
	handlers := map[RequestAction]func(Payload) (interface{}, error){
		RequestAction_CreateTable:      te.handleCreateTable,
		RequestAction_CloseTable:       te.handleCloseTable,
		RequestAction_GetTable:         te.handleGetTable,
		RequestAction_PlayerJoin:       te.handlePlayerJoin,
		RequestAction_PlayerLeave:      te.handlePlayerLeave,
		RequestAction_PlayerBet:        te.handlePlayerBet,
		RequestAction_PlayerHit:        te.handlePlayerHit,
		RequestAction_PlayerStay:       te.handlePlayerStay,
		RequestAction_PlayerDoubleDown: te.handlePlayerDoubleDown,
		RequestAction_PlayerSplit:      te.handlePlayerSplit,
		RequestAction_PlayerInsure:     te.handlePlayerInsure,
		RequestAction_CloseBetting:     te.handleCloseBetting,
		RequestAction_TurnTimeout:      te.handleTurnTimeout,
	}

	handler, ok := handlers[req.Action]
	if !ok {
		req.reply <- Response{Err: ErrUnsupported}
		return
	}

	if req.Action != RequestAction_CreateTable && te.table == nil {
		req.reply <- Response{Err: ErrTableNotFound}
		return
	}

	if te.table != nil && te.table.IsClose() && req.Action != RequestAction_GetTable {
		req.reply <- Response{Err: ErrTableClosed}
		return
	}

	result, err := handler(req.Payload)
	if err != nil {
		te.emitErrorEvent(req.Action, req.Payload.PlayerID, err)
	}
	req.reply <- Response{Result: result, Err: err}
}

func (te *tableEngine) handleCreateTable(payload Payload) (interface{}, error) {
	setting := payload.Param.(TableSetting)

	// validate tableSetting
	if te.table != nil {
		return nil, ErrTableInvalidCreateSetting
	}

	if setting.Meta.MinBet <= 0 || setting.Meta.TableMaxSeatCount <= 0 {
		return nil, ErrTableInvalidCreateSetting
	}

	if len(setting.JoinPlayers) > setting.Meta.TableMaxSeatCount {
		return nil, ErrTableInvalidCreateSetting
	}

	if setting.Meta.MaxBet > 0 && setting.Meta.MaxBet < setting.Meta.MinBet {
		return nil, ErrTableInvalidCreateSetting
	}

	if setting.TableID == "" {
		setting.TableID = uuid.New().String()
	}

	if setting.Meta.TableMinPlayerCount <= 0 {
		setting.Meta.TableMinPlayerCount = 1
	}

	// create table instance
	te.table = &Table{
		ID:   setting.TableID,
		Meta: setting.Meta,
		State: &TableState{
			Status:       TableStateStatus_TableWaiting,
			StartAt:      time.Now().Unix(),
			GameCount:    0,
			ShoeSize:     te.shoe.Size(),
			PlayerStates: make([]*TablePlayerState, 0),
			Hands:        make([]*TableHandState, 0),
		},
	}
	te.table.RefreshUpdateAt()
	te.logger = te.logger.WithField("table", te.table.ID)
	te.sm = seat_manager.NewSeatManager(setting.Meta.TableMaxSeatCount)
	te.ogm = open_game_manager.NewOpenGameManager(open_game_manager.OpenGameOption{
		Timeout: te.options.BetTimeout,
		OnOpenGameReady: func(state open_game_manager.OpenGameState) {
			// called from the ready group, hop back onto the engine goroutine
			go te.enqueue(RequestAction_CloseBetting, Payload{
				Param: CloseBettingParam{GameCount: state.GameCount},
			})
		},
	})

	te.logger.WithFields(logrus.Fields{
		"min_bet":   setting.Meta.MinBet,
		"max_seats": setting.Meta.TableMaxSeatCount,
	}).Info("table created")

	// handle auto join players
	for _, joinPlayer := range setting.JoinPlayers {
		if _, err := te.join(joinPlayer); err != nil {
			return nil, err
		}
	}

	te.onTableUpdated(te.table)

	return te.table.Clone()
}

func (te *tableEngine) handleCloseTable(payload Payload) (interface{}, error) {
	te.table.State.Status = TableStateStatus_TableClosed
	te.table.State.CurrentHid = nil
	te.turnTB.Cancel()
	te.ogm.Close()

	te.logger.Info("table closed")
	te.onTableUpdated(te.table)
	return nil, nil
}

func (te *tableEngine) handleGetTable(payload Payload) (interface{}, error) {
	t, err := te.table.Clone()
	if err != nil {
		return nil, err
	}

	t.State.Hands = make([]*TableHandState, 0)
	if te.round != nil {
		t.State.Hands = te.round.handStates()
	}
	return t, nil
}

func (te *tableEngine) handlePlayerJoin(payload Payload) (interface{}, error) {
	return te.join(payload.Param.(JoinPlayer))
}

func (te *tableEngine) handlePlayerLeave(payload Payload) (interface{}, error) {
	player := te.table.FindPlayer(payload.PlayerID)
	if player == nil {
		return nil, ErrTablePlayerNotFound
	}

	if !player.IsIn {
		return nil, nil
	}

	player.IsIn = false
	_ = te.sm.UpdatePlayerIsIn(player.PlayerID, false)

	te.logger.WithField("player", player.PlayerID).Info("player left")

	switch {
	case te.table.State.Status == TableStateStatus_TableBetting:
		player.Bet = 0
		player.SideBet = 0
		te.removePlayer(player.PlayerID)

		// sit out of the betting window
		if err := te.ogm.Ready(payload.PlayerID); err != nil && !errors.Is(err, open_game_manager.ErrParticipantNotFound) {
			return nil, err
		}
	case te.table.IsRoundInProgress():
		// seat is released when the round ends
		if cur := te.currentHand(); cur != nil && cur.playerID == player.PlayerID {
			te.autoStay(cur, "disconnected")
		}
	default:
		te.removePlayer(player.PlayerID)
	}

	te.onTableUpdated(te.table)
	return nil, nil
}

func (te *tableEngine) handlePlayerBet(payload Payload) (interface{}, error) {
	param := payload.Param.(PlayerBetParam)

	player := te.table.FindPlayer(payload.PlayerID)
	if player == nil || !player.IsIn {
		return nil, ErrTablePlayerNotFound
	}

	if err := te.validateBet(player, param); err != nil {
		return nil, err
	}

	player.Bet = param.Main
	player.SideBet = param.Side

	te.logger.WithFields(logrus.Fields{
		"player": player.PlayerID,
		"bet":    param.Main,
		"side":   param.Side,
	}).Debug("bet placed")

	err := te.ogm.Ready(player.PlayerID)
	if errors.Is(err, open_game_manager.ErrParticipantNotFound) {
		te.ogm.Join(player.PlayerID, player.Seat)
		err = te.ogm.Ready(player.PlayerID)
	}
	if err != nil {
		return nil, err
	}

	te.onTableUpdated(te.table)
	return nil, nil
}

func (te *tableEngine) handlePlayerHit(payload Payload) (interface{}, error) {
	rec, err := te.validateTurn(payload)
	if err != nil {
		return nil, err
	}

	te.hit(rec)
	return nil, nil
}

func (te *tableEngine) handlePlayerStay(payload Payload) (interface{}, error) {
	rec, err := te.validateTurn(payload)
	if err != nil {
		return nil, err
	}

	te.stay(rec)
	return nil, nil
}

func (te *tableEngine) handlePlayerDoubleDown(payload Payload) (interface{}, error) {
	rec, err := te.validateTurn(payload)
	if err != nil {
		return nil, err
	}

	if rec.hand.Size() != 2 {
		return nil, ErrTableDoubleDownNotAllowed
	}

	if err := te.checkExposure(rec.playerID, rec.hid.Bet); err != nil {
		return nil, err
	}

	te.doubleDown(rec)
	return nil, nil
}

func (te *tableEngine) handlePlayerSplit(payload Payload) (interface{}, error) {
	rec, err := te.validateTurn(payload)
	if err != nil {
		return nil, err
	}

	if !rec.hand.IsPair() {
		return nil, ErrTableSplitNotAllowed
	}

	if err := te.checkExposure(rec.playerID, rec.hid.Bet); err != nil {
		return nil, err
	}

	te.split(rec)
	return nil, nil
}

func (te *tableEngine) handlePlayerInsure(payload Payload) (interface{}, error) {
	if te.table.FindPlayer(payload.PlayerID) == nil {
		return nil, ErrTablePlayerNotFound
	}
	return nil, ErrTableInsuranceNotSupported
}

func (te *tableEngine) handleCloseBetting(payload Payload) (interface{}, error) {
	param := payload.Param.(CloseBettingParam)

	// stale window
	if te.table.State.Status != TableStateStatus_TableBetting || param.GameCount != te.table.State.GameCount+1 {
		return nil, nil
	}

	bettors := te.bettors()
	if len(bettors) == 0 {
		te.logger.Debug("no bets placed, reopen betting")
		te.openBetting()
		return nil, nil
	}

	te.startRound(bettors)
	return nil, nil
}

func (te *tableEngine) handleTurnTimeout(payload Payload) (interface{}, error) {
	param := payload.Param.(TurnTimeoutParam)

	// timer of an earlier TURN that fired behind the player's action
	cur := te.currentHand()
	if cur == nil || !cur.hid.Equal(payload.Hid) || param.TurnSerial != te.round.turnSerial {
		return nil, nil
	}

	te.autoStay(cur, "turn timeout")
	return nil, nil
}
