package seat_manager

import (
	"errors"
)

var (
	ErrNotEnoughSeats       = errors.New("seat manager: no enough seats")
	ErrPlayerNotFound       = errors.New("seat manager: player not found")
	ErrPlayerIsAlreadyExist = errors.New("seat manager: player is already exist")
	ErrInvalidSeat          = errors.New("seat manager: invalid seat")
	ErrSeatAlreadyIsTaken   = errors.New("seat manager: seat is already taken")
)

type SeatManager interface {
	GetSeatID(playerID string) (int, error)
	TakeSeat(playerID string) (int, error)
	AssignSeat(playerID string, seatID int) error
	RemoveSeats(playerIDs []string) error
	UpdatePlayerIsIn(playerID string, isIn bool) error
	UpdatePlayerHasChips(playerID string, hasChips bool) error

	Seats() map[int]*SeatPlayer
	MaxSeat() int
	IsPlayerActive(playerID string) (bool, error)
	ListPlayerSeats() []*SeatPlayer
}

type SeatPlayer struct {
	ID       string `json:"id"`
	Seat     int    `json:"seat"`
	IsIn     bool   `json:"is_in"`
	HasChips bool   `json:"has_chips"`
}

// Active reports whether the player can take part in the next round.
func (sp *SeatPlayer) Active() bool {
	return sp.IsIn && sp.HasChips
}

func NewSeatManager(maxSeats int) SeatManager {
	seats := make(map[int]*SeatPlayer)
	for i := 0; i < maxSeats; i++ {
		seats[i] = nil
	}

	return &seatManager{
		maxSeat: maxSeats,
		seats:   seats,
	}
}
