package blackjacktable

import (
	"encoding/json"
	"time"

	"github.com/weedbox/blackjacktable/card"
)

type TableStateStatus string

const (
	TableStateStatus_TableCreated     TableStateStatus = "table_created"      // table is created
	TableStateStatus_TableWaiting     TableStateStatus = "table_waiting"      // waiting for enough players
	TableStateStatus_TableBetting     TableStateStatus = "table_betting"      // betting window is open
	TableStateStatus_TableDealing     TableStateStatus = "table_dealing"      // initial deal and naturals
	TableStateStatus_TablePlayerTurns TableStateStatus = "table_player_turns" // players act in seat order
	TableStateStatus_TableDealerTurn  TableStateStatus = "table_dealer_turn"  // dealer draws
	TableStateStatus_TableSettlement  TableStateStatus = "table_settlement"   // hands are paid
	TableStateStatus_TableEnding      TableStateStatus = "table_ending"       // round is over
	TableStateStatus_TableShuffling   TableStateStatus = "table_shuffling"    // shoe is reshuffled
	TableStateStatus_TableClosed      TableStateStatus = "table_closed"       // table is closed
)

type Table struct {
	ID           string      `json:"id"`
	Meta         TableMeta   `json:"meta"`
	State        *TableState `json:"state"`
	UpdateAt     int64       `json:"update_at"`     // seconds
	UpdateSerial int64       `json:"update_serial"` // grows with every emitted event
}

type TableMeta struct {
	Name                string  `json:"name"`
	MinBet              float64 `json:"min_bet"`                // minimum main bet
	MaxBet              float64 `json:"max_bet"`                // 0 means no maximum
	TableMinPlayerCount int     `json:"table_min_player_count"` // players needed before betting opens
	TableMaxSeatCount   int     `json:"table_max_seat_count"`
	InitialBankroll     float64 `json:"initial_bankroll"`
	BlackjackPayout     float64 `json:"blackjack_payout"` // natural pays this multiple of the bet
	CharliePayout       float64 `json:"charlie_payout"`   // five card Charlie pays this multiple of the bet
	SideBetPayout       float64 `json:"side_bet_payout"`  // a seven as first card pays this multiple of the side bet
	DealerHitsSoft17    bool    `json:"dealer_hits_soft_17"`
}

type TableState struct {
	Status       TableStateStatus    `json:"status"`
	StartAt      int64               `json:"start_at"`   // seconds
	GameCount    int                 `json:"game_count"` // rounds started so far
	ShoeSize     int                 `json:"shoe_size"`
	PlayerStates []*TablePlayerState `json:"player_states"`
	Hands        []*TableHandState   `json:"hands"`       // current round in turn order, dealer last
	CurrentHid   *card.Hid           `json:"current_hid"` // hand on turn
}

type TablePlayerState struct {
	PlayerID       string                    `json:"player_id"`
	Seat           int                       `json:"seat"`
	Bankroll       float64                   `json:"bankroll"`
	IsIn           bool                      `json:"is_in"`    // connected
	IsReady        bool                      `json:"is_ready"` // admitted, READY was sent
	Bet            float64                   `json:"bet"`      // main bet for the coming or current round
	SideBet        float64                   `json:"side_bet"`
	GameStatistics TablePlayerGameStatistics `json:"game_statistics"`
}

type TableHandState struct {
	Hid      card.Hid    `json:"hid"`
	PlayerID string      `json:"player_id"`
	Cards    []card.Card `json:"cards"`
	Values   [2]int      `json:"values"` // hard, soft
	Doubled  bool        `json:"doubled"`
	Resolved bool        `json:"resolved"`
	Settled  bool        `json:"settled"`
	Outcome  Outcome     `json:"outcome"`
}

func (t *Table) RefreshUpdateAt() {
	t.UpdateAt = time.Now().Unix()
	t.UpdateSerial++
}

func (t Table) GetJSON() (string, error) {
	encoded, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() (*Table, error) {
	encoded, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}

	var cloned Table
	if err := json.Unmarshal(encoded, &cloned); err != nil {
		return nil, err
	}
	return &cloned, nil
}

func (t Table) FindPlayerIdx(playerID string) int {
	for idx, player := range t.State.PlayerStates {
		if player.PlayerID == playerID {
			return idx
		}
	}
	return UnsetValue
}

func (t Table) FindPlayer(playerID string) *TablePlayerState {
	idx := t.FindPlayerIdx(playerID)
	if idx == UnsetValue {
		return nil
	}
	return t.State.PlayerStates[idx]
}

func (t Table) FindPlayerBySeat(seat int) *TablePlayerState {
	for _, player := range t.State.PlayerStates {
		if player.Seat == seat {
			return player
		}
	}
	return nil
}

// SeatedCount returns the number of connected players holding a seat.
func (t Table) SeatedCount() int {
	count := 0
	for _, player := range t.State.PlayerStates {
		if player.IsIn {
			count++
		}
	}
	return count
}

func (t Table) IsClose() bool {
	return t.State.Status == TableStateStatus_TableClosed
}

// IsRoundInProgress reports whether hands are currently being played.
func (t Table) IsRoundInProgress() bool {
	switch t.State.Status {
	case TableStateStatus_TableDealing,
		TableStateStatus_TablePlayerTurns,
		TableStateStatus_TableDealerTurn,
		TableStateStatus_TableSettlement:
		return true
	}
	return false
}
