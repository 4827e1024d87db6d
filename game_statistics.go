package blackjacktable

import (
	"github.com/thoas/go-funk"
)

type TablePlayerGameStatistics struct {
	HandsPlayed int     `json:"hands_played"` // rounds entered with a bet
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	Blackjacks  int     `json:"blackjacks"`
	Charlies    int     `json:"charlies"`
	Busts       int     `json:"busts"`
	DoubleDowns int     `json:"double_downs"`
	Splits      int     `json:"splits"`
	SideWins    int     `json:"side_wins"` // super 7 hits
	Net         float64 `json:"net"`       // main and side results combined
}

func NewPlayerGameStatistics() TablePlayerGameStatistics {
	return TablePlayerGameStatistics{
		HandsPlayed: 0,
		Wins:        0,
		Losses:      0,
		Pushes:      0,
		Blackjacks:  0,
		Charlies:    0,
		Busts:       0,
		DoubleDowns: 0,
		Splits:      0,
		SideWins:    0,
		Net:         0,
	}
}

// updateGameStatistics folds the settled hands of one player into the
// player's running statistics.
func (te *tableEngine) updateGameStatistics(player *TablePlayerState, hands []*handRecord) {
	stats := &player.GameStatistics

	for _, rec := range hands {
		switch rec.outcome {
		case Outcome_Win:
			stats.Wins++
		case Outcome_Lose:
			stats.Losses++
		case Outcome_Push:
			stats.Pushes++
		case Outcome_Blackjack:
			stats.Blackjacks++
			stats.Wins++
		case Outcome_Charlie:
			stats.Charlies++
			stats.Wins++
		case Outcome_Bust:
			stats.Busts++
			stats.Losses++
		}

		if rec.hid.SideAmt > 0 {
			stats.SideWins++
		}
	}

	stats.Net += funk.SumFloat64(funk.Map(hands, func(rec *handRecord) float64 {
		return rec.hid.Amt + rec.hid.SideAmt
	}).([]float64))
}
