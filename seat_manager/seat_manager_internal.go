package seat_manager

import (
	"sort"
)

func (sm *seatManager) getEmptySeatIDs() []int {
	emptySeatIDs := make([]int, 0)
	for seatID, seatPlayer := range sm.seats {
		if seatPlayer == nil {
			emptySeatIDs = append(emptySeatIDs, seatID)
		}
	}
	sort.Ints(emptySeatIDs)
	return emptySeatIDs
}

func (sm *seatManager) getOccupiedSeatIDs() []int {
	seatIDs := make([]int, 0)
	for seatID, seatPlayer := range sm.seats {
		if seatPlayer != nil {
			seatIDs = append(seatIDs, seatID)
		}
	}
	sort.Ints(seatIDs)
	return seatIDs
}

func (sm *seatManager) getOccupiedPlayerSeatIDs() map[string]int {
	seats := make(map[string]int)
	for seatID, seatPlayer := range sm.seats {
		if seatPlayer != nil {
			seats[seatPlayer.ID] = seatID
		}
	}
	return seats
}

func (sm *seatManager) getSeatPlayer(playerID string) (*SeatPlayer, int, error) {
	for seat, seatPlayer := range sm.seats {
		if seatPlayer != nil && seatPlayer.ID == playerID {
			return seatPlayer, seat, nil
		}
	}
	return nil, UnsetSeatID, ErrPlayerNotFound
}

func (sm *seatManager) newSeatPlayer(playerID string, seatID int) *SeatPlayer {
	return &SeatPlayer{
		ID:       playerID,
		Seat:     seatID,
		IsIn:     true,
		HasChips: true,
	}
}
