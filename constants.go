package blackjacktable

const (
	// General
	UnsetValue = -1

	// Defaults
	DefaultMinBet          = 5
	DefaultInitialBankroll = 1000
	DefaultMaxSeatCount    = 7
	DefaultBlackjackPayout = 1.5
	DefaultCharliePayout   = 1.0
	DefaultSideBetPayout   = 3.0

	// Dealer
	DealerStandValue = 17
)

type Outcome string

const (
	Outcome_None      Outcome = ""
	Outcome_Win       Outcome = "win"
	Outcome_Lose      Outcome = "lose"
	Outcome_Push      Outcome = "push"
	Outcome_Blackjack Outcome = "blackjack"
	Outcome_Charlie   Outcome = "charlie"
	Outcome_Bust      Outcome = "bust"
)
