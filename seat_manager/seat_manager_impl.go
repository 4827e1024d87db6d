package seat_manager

import (
	"sync"

	"github.com/thoas/go-funk"
)

type seatManager struct {
	maxSeat int
	seats   map[int]*SeatPlayer // key: seat_id (from 0 to MaxSeat - 1), value: seat (nil by default)
	mu      sync.RWMutex
}

func (sm *seatManager) GetSeatID(playerID string) (int, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	_, seatID, err := sm.getSeatPlayer(playerID)
	return seatID, err
}

/*
TakeSeat seats the player at the lowest empty seat
  - returns ErrNotEnoughSeats when the table is full
*/
func (sm *seatManager) TakeSeat(playerID string) (int, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, _, err := sm.getSeatPlayer(playerID); err == nil {
		return UnsetSeatID, ErrPlayerIsAlreadyExist
	}

	emptySeatIDs := sm.getEmptySeatIDs()
	if len(emptySeatIDs) == 0 {
		return UnsetSeatID, ErrNotEnoughSeats
	}

	seatID := emptySeatIDs[0]
	sm.seats[seatID] = sm.newSeatPlayer(playerID, seatID)
	return seatID, nil
}

func (sm *seatManager) AssignSeat(playerID string, seatID int) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if seatID < 0 || seatID >= sm.maxSeat {
		return ErrInvalidSeat
	}

	if _, _, err := sm.getSeatPlayer(playerID); err == nil {
		return ErrPlayerIsAlreadyExist
	}

	if sm.seats[seatID] != nil {
		return ErrSeatAlreadyIsTaken
	}

	sm.seats[seatID] = sm.newSeatPlayer(playerID, seatID)
	return nil
}

func (sm *seatManager) RemoveSeats(playerIDs []string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	occupiedSeatIDs := sm.getOccupiedPlayerSeatIDs()
	targetSeatIDs := make([]int, 0)
	for _, playerID := range funk.UniqString(playerIDs) {
		seatID, exist := occupiedSeatIDs[playerID]
		if !exist {
			return ErrPlayerNotFound
		}
		targetSeatIDs = append(targetSeatIDs, seatID)
	}

	for _, seatID := range targetSeatIDs {
		sm.seats[seatID] = nil
	}

	return nil
}

func (sm *seatManager) UpdatePlayerIsIn(playerID string, isIn bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	seatPlayer, _, err := sm.getSeatPlayer(playerID)
	if err != nil {
		return err
	}

	seatPlayer.IsIn = isIn
	return nil
}

func (sm *seatManager) UpdatePlayerHasChips(playerID string, hasChips bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	seatPlayer, _, err := sm.getSeatPlayer(playerID)
	if err != nil {
		return err
	}

	seatPlayer.HasChips = hasChips
	return nil
}

func (sm *seatManager) Seats() map[int]*SeatPlayer {
	return sm.seats
}

func (sm *seatManager) MaxSeat() int {
	return sm.maxSeat
}

func (sm *seatManager) IsPlayerActive(playerID string) (bool, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	seatPlayer, _, err := sm.getSeatPlayer(playerID)
	if err != nil {
		return false, err
	}

	return seatPlayer.Active(), nil
}

// ListPlayerSeats returns occupied seats in seat order.
func (sm *seatManager) ListPlayerSeats() []*SeatPlayer {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	seatPlayers := make([]*SeatPlayer, 0)
	for _, seatID := range sm.getOccupiedSeatIDs() {
		seatPlayers = append(seatPlayers, sm.seats[seatID])
	}

	return seatPlayers
}
