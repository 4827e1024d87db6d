package blackjacktable

import (
	"fmt"
	"time"
)

// DebugPrintTable dumps a table snapshot to stdout.
func DebugPrintTable(message string, table *Table) {
	timeString := func(timestamp int64) string {
		return time.Unix(timestamp, 0).Format("2006-01-02 15:04:05")
	}

	boolToString := func(value bool) string {
		if value {
			return "O"
		}
		return "X"
	}

	fmt.Printf("---------- [%s] ----------\n", message)
	fmt.Println("[Table ID] ", table.ID)
	fmt.Println("[Table StartAt] ", timeString(table.State.StartAt))
	fmt.Println("[Table Status] ", table.State.Status)
	fmt.Println("[Table Game Count] ", table.State.GameCount)
	fmt.Println("[Table Shoe Size] ", table.State.ShoeSize)

	fmt.Println("[Table Players]")
	for _, player := range table.State.PlayerStates {
		fmt.Printf("seat: %d, in: %s, ready: %s, player: %s, bankroll: %.2f, bet: %.2f/%.2f\n",
			player.Seat,
			boolToString(player.IsIn),
			boolToString(player.IsReady),
			player.PlayerID,
			player.Bankroll,
			player.Bet,
			player.SideBet,
		)
	}

	if table.State.CurrentHid != nil {
		fmt.Println("[Table Current Hand] ", table.State.CurrentHid.String())
	} else {
		fmt.Println("[Table Current Hand] X")
	}

	fmt.Println("[Table Hands]")
	for _, h := range table.State.Hands {
		fmt.Printf("%s, player: %s, cards: %v, values: %v, settled: %s, outcome: %s, amt: %.2f, side: %.2f\n",
			h.Hid.String(),
			h.PlayerID,
			h.Cards,
			h.Values,
			boolToString(h.Settled),
			h.Outcome,
			h.Hid.Amt,
			h.Hid.SideAmt,
		)
	}
	fmt.Println()
}
