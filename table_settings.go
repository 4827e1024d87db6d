package blackjacktable

type TableSetting struct {
	TableID     string       `json:"table_id"`
	Meta        TableMeta    `json:"table_meta"`
	JoinPlayers []JoinPlayer `json:"join_players"`
}

type JoinPlayer struct {
	PlayerID string  `json:"player_id"`
	Bankroll float64 `json:"bankroll"` // 0 means the table's initial bankroll
}

func NewDefaultTableMeta() TableMeta {
	return TableMeta{
		MinBet:              DefaultMinBet,
		TableMinPlayerCount: 1,
		TableMaxSeatCount:   DefaultMaxSeatCount,
		InitialBankroll:     DefaultInitialBankroll,
		BlackjackPayout:     DefaultBlackjackPayout,
		CharliePayout:       DefaultCharliePayout,
		SideBetPayout:       DefaultSideBetPayout,
	}
}
