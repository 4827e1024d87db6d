package blackjacktable

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable/seat_manager"
)

func (te *tableEngine) join(joinPlayer JoinPlayer) (int, error) {
	player := te.table.FindPlayer(joinPlayer.PlayerID)
	if player != nil {
		if player.IsIn {
			return UnsetValue, ErrTablePlayerAlreadySeated
		}

		// reconnect while the seat is still held
		player.IsIn = true
		_ = te.sm.UpdatePlayerIsIn(player.PlayerID, true)
		te.logger.WithField("player", player.PlayerID).Info("player reconnected")
		te.admitPlayers()
		return player.Seat, nil
	}

	seat, err := te.sm.TakeSeat(joinPlayer.PlayerID)
	if err != nil {
		if errors.Is(err, seat_manager.ErrNotEnoughSeats) {
			return UnsetValue, ErrTableNoEmptySeats
		}
		return UnsetValue, err
	}

	bankroll := joinPlayer.Bankroll
	if bankroll <= 0 {
		bankroll = te.table.Meta.InitialBankroll
	}
	_ = te.sm.UpdatePlayerHasChips(joinPlayer.PlayerID, bankroll >= te.table.Meta.MinBet)

	player = &TablePlayerState{
		PlayerID:       joinPlayer.PlayerID,
		Seat:           seat,
		Bankroll:       bankroll,
		IsIn:           true,
		GameStatistics: NewPlayerGameStatistics(),
	}
	te.table.State.PlayerStates = append(te.table.State.PlayerStates, player)

	te.logger.WithFields(logrus.Fields{
		"player":   player.PlayerID,
		"seat":     seat,
		"bankroll": bankroll,
	}).Info("player joined")

	te.admitPlayers()

	return seat, nil
}

// admitPlayers sends READY to every connected player not yet admitted once
// the table has enough players, and opens betting if the table was waiting.
func (te *tableEngine) admitPlayers() {
	if te.table.SeatedCount() < te.table.Meta.TableMinPlayerCount {
		te.onTableUpdated(te.table)
		return
	}

	for _, player := range te.sortedPlayers() {
		if !player.IsIn || player.IsReady {
			continue
		}

		player.IsReady = true
		ev := te.newEvent(EventType_Ready)
		ev.To = player.PlayerID
		ev.Seat = player.Seat
		te.emit(ev)

		if te.table.State.Status == TableStateStatus_TableBetting {
			te.ogm.Join(player.PlayerID, player.Seat)
		}
	}

	if te.table.State.Status == TableStateStatus_TableWaiting {
		te.openBetting()
	}
}

func (te *tableEngine) removePlayer(playerID string) {
	idx := te.table.FindPlayerIdx(playerID)
	if idx == UnsetValue {
		return
	}

	_ = te.sm.RemoveSeats([]string{playerID})
	te.table.State.PlayerStates = append(te.table.State.PlayerStates[:idx], te.table.State.PlayerStates[idx+1:]...)

	te.logger.WithField("player", playerID).Debug("seat released")
}

// sortedPlayers returns players in seat order.
func (te *tableEngine) sortedPlayers() []*TablePlayerState {
	players := make([]*TablePlayerState, 0, len(te.table.State.PlayerStates))
	for _, seatPlayer := range te.sm.ListPlayerSeats() {
		if player := te.table.FindPlayer(seatPlayer.ID); player != nil {
			players = append(players, player)
		}
	}
	return players
}

// bettors returns connected players holding a bet, in seat order.
func (te *tableEngine) bettors() []*TablePlayerState {
	bettors := make([]*TablePlayerState, 0)
	for _, seatPlayer := range te.sm.ListPlayerSeats() {
		if !seatPlayer.IsIn {
			continue
		}

		player := te.table.FindPlayer(seatPlayer.ID)
		if player != nil && player.Bet > 0 {
			bettors = append(bettors, player)
		}
	}
	return bettors
}

func (te *tableEngine) validateBet(player *TablePlayerState, param PlayerBetParam) error {
	if te.table.State.Status != TableStateStatus_TableBetting || !player.IsReady {
		return ErrTableBettingClosed
	}

	if player.Bet > 0 {
		return ErrTableAlreadyBet
	}

	if param.Main <= 0 || param.Side < 0 {
		return ErrTableInvalidBet
	}

	if param.Main < te.table.Meta.MinBet {
		return ErrTableBetBelowMinimum
	}

	if te.table.Meta.MaxBet > 0 && param.Main > te.table.Meta.MaxBet {
		return ErrTableBetAboveMaximum
	}

	if param.Main+param.Side > player.Bankroll {
		return ErrTableInsufficientBankroll
	}

	return nil
}

// validateTurn resolves the hand named by the request and checks that it is
// the hand on turn and belongs to the player.
func (te *tableEngine) validateTurn(payload Payload) (*handRecord, error) {
	if te.table.FindPlayer(payload.PlayerID) == nil {
		return nil, ErrTablePlayerNotFound
	}

	if te.table.State.Status != TableStateStatus_TablePlayerTurns || te.round == nil {
		return nil, ErrTableNotYourTurn
	}

	rec := te.round.lookup(payload.Hid)
	if rec == nil || rec != te.round.current() || rec.playerID != payload.PlayerID {
		return nil, ErrTableNotYourTurn
	}

	return rec, nil
}

// checkExposure verifies the player can cover an extra wager this round.
func (te *tableEngine) checkExposure(playerID string, extra float64) error {
	player := te.table.FindPlayer(playerID)
	if player == nil {
		return ErrTablePlayerNotFound
	}

	if te.round.exposure(playerID)+extra > player.Bankroll {
		return ErrTableInsufficientBankroll
	}
	return nil
}

func (te *tableEngine) currentHand() *handRecord {
	if te.round == nil || te.table.State.Status != TableStateStatus_TablePlayerTurns {
		return nil
	}
	return te.round.current()
}

func (te *tableEngine) isPlayerIn(playerID string) bool {
	player := te.table.FindPlayer(playerID)
	return player != nil && player.IsIn
}
