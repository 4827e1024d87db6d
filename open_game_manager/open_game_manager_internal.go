package open_game_manager

func (m *openGameManager) readyGroupResetParticipants() {
	m.rg.ResetParticipants()

	m.mu.Lock()
	m.state.Participants = map[string]*OpenGameParticipant{}
	m.mu.Unlock()
}

func (m *openGameManager) readyGroupAddParticipant(participant OpenGameParticipant, isReady bool) {
	m.mu.Lock()
	m.state.Participants[participant.ID] = &OpenGameParticipant{
		ID:      participant.ID,
		Index:   participant.Index,
		IsReady: isReady,
	}
	m.mu.Unlock()

	m.rg.Add(int64(participant.Index), isReady)
}

func (m *openGameManager) readyGroupOnCompleted() {
	m.mu.Lock()
	for participantID := range m.state.Participants {
		m.state.Participants[participantID].IsReady = true
	}
	m.mu.Unlock()

	m.onOpenGameReady(m.GetState())
}

// readyGroupReady must not hold the lock while readying, the ready group may
// complete synchronously.
func (m *openGameManager) readyGroupReady(participantID string) error {
	m.mu.Lock()
	participant, exist := m.state.Participants[participantID]
	if !exist {
		m.mu.Unlock()
		return ErrParticipantNotFound
	}
	participant.IsReady = true
	index := participant.Index
	m.mu.Unlock()

	m.rg.Ready(int64(index))
	return nil
}
