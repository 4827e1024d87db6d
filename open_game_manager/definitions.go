package open_game_manager

import (
	"errors"
	"sync"

	"github.com/weedbox/syncsaga"
)

var (
	ErrParticipantNotFound = errors.New("open_game_manager: participant not found")
)

// OpenGameManager tracks who still has to commit before the next game can
// start. Participants not ready at the timeout are readied automatically.
type OpenGameManager interface {
	Ready(participantID string) error
	Join(participantID string, index int)
	Setup(gameCount int, participants map[string]int)
	Close()
	GetState() OpenGameState
	PrintState()
}

type openGameManager struct {
	onOpenGameReady func(state OpenGameState)
	rg              *syncsaga.ReadyGroup
	state           *OpenGameState
	mu              sync.RWMutex
}

type OpenGameOption struct {
	Timeout         int // seconds, zero waits forever
	OnOpenGameReady func(state OpenGameState)
}

type OpenGameState struct {
	Timeout      int                             `json:"timeout"`
	GameCount    int                             `json:"game_count"`
	Participants map[string]*OpenGameParticipant `json:"participants"` // key: participant_id, value: participant
}

type OpenGameParticipant struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	IsReady bool   `json:"is_ready"`
}
