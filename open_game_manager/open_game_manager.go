package open_game_manager

import (
	"encoding/json"
	"fmt"

	"github.com/weedbox/syncsaga"
)

func NewOpenGameManager(options OpenGameOption) OpenGameManager {
	rg := syncsaga.NewReadyGroup()
	if options.Timeout > 0 {
		rg = syncsaga.NewReadyGroup(syncsaga.WithTimeout(options.Timeout, func(rg *syncsaga.ReadyGroup) {
			// Auto Ready By Default
			for idx, isReady := range rg.GetParticipantStates() {
				if !isReady {
					rg.Ready(idx)
				}
			}
		}))
	}

	onOpenGameReady := options.OnOpenGameReady
	if onOpenGameReady == nil {
		onOpenGameReady = func(state OpenGameState) {}
	}

	m := &openGameManager{
		onOpenGameReady: onOpenGameReady,
		rg:              rg,
	}
	m.state = &OpenGameState{
		Timeout:      options.Timeout,
		GameCount:    0,
		Participants: make(map[string]*OpenGameParticipant),
	}

	return m
}

func (m *openGameManager) Ready(participantID string) error {
	return m.readyGroupReady(participantID)
}

/*
Join adds a participant to the running game window
  - joining twice is a no-op
*/
func (m *openGameManager) Join(participantID string, index int) {
	m.mu.Lock()
	if _, exist := m.state.Participants[participantID]; exist {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.readyGroupAddParticipant(OpenGameParticipant{
		ID:    participantID,
		Index: index,
	}, false)
}

func (m *openGameManager) Setup(gameCount int, participants map[string]int) {
	m.rg.Stop()

	m.mu.Lock()
	m.state.GameCount = gameCount
	m.mu.Unlock()

	m.rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		m.readyGroupOnCompleted()
	})
	m.readyGroupResetParticipants()
	for id, idx := range participants {
		participant := OpenGameParticipant{
			ID:      id,
			Index:   idx,
			IsReady: false,
		}
		m.readyGroupAddParticipant(participant, false)
	}

	m.rg.Start()
}

// Close stops the running game window without firing the ready callback.
func (m *openGameManager) Close() {
	m.rg.Stop()
}

func (m *openGameManager) GetState() OpenGameState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	participants := make(map[string]*OpenGameParticipant, len(m.state.Participants))
	for id, p := range m.state.Participants {
		cp := *p
		participants[id] = &cp
	}

	return OpenGameState{
		Timeout:      m.state.Timeout,
		GameCount:    m.state.GameCount,
		Participants: participants,
	}
}

func (m *openGameManager) PrintState() {
	encoded, err := json.Marshal(m.GetState())
	if err != nil {
		fmt.Println("state: nil")
	} else {
		fmt.Println("state:", string(encoded))
	}
}
