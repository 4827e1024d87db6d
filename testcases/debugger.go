package testcases

import (
	"fmt"
	"strings"

	"github.com/weedbox/blackjacktable"
)

// DebugPrintEvents prints a round as the client saw it.
func DebugPrintEvents(title string, events []*blackjacktable.Event) {
	fmt.Printf("---------- %s ----------\n", title)
	for _, ev := range events {
		line := []string{fmt.Sprintf("[%03d] %-9s", ev.Serial, ev.Type)}

		if ev.To != "" {
			line = append(line, "to="+ev.To)
		}
		if ev.Hid != nil {
			line = append(line, ev.Hid.String())
		}
		if ev.Card != nil {
			line = append(line, ev.Card.String())
		}
		if len(ev.Values) == 2 {
			line = append(line, fmt.Sprintf("%d/%d", ev.Values[0], ev.Values[1]))
		}
		if ev.Type.IsOutcome() && ev.Hid != nil {
			line = append(line, fmt.Sprintf("amt=%+.2f side=%+.2f", ev.Hid.Amt, ev.Hid.SideAmt))
		}
		if ev.Reason != "" {
			line = append(line, "reason="+ev.Reason)
		}
		if ev.Type == blackjacktable.EventType_Ending {
			line = append(line, fmt.Sprintf("shoe=%d", ev.ShoeSize))
		}

		fmt.Println(strings.Join(line, " "))
	}
	fmt.Println("-------------------------------")
}
