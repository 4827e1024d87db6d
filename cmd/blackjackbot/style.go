package main

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
)

// tableView prints the table as the bot sees it.
type tableView struct {
	playerID string
	hands    map[card.HidKey][]string
}

func newTableView(playerID string) *tableView {
	return &tableView{
		playerID: playerID,
		hands:    make(map[card.HidKey][]string),
	}
}

func (v *tableView) render(ev *blackjacktable.Event) {
	switch ev.Type {
	case blackjacktable.EventType_Ready:
		pterm.Success.Printfln("admitted at seat %d", ev.Seat)
	case blackjacktable.EventType_Starting:
		v.hands = make(map[card.HidKey][]string)
		pterm.DefaultSection.Printfln("Round %d", ev.Round)
	case blackjacktable.EventType_Deal:
		key := ev.Hid.Key()
		v.hands[key] = append(v.hands[key], ev.Card.String())
		pterm.Printfln("%-24s %s  %s", ev.Hid, strings.Join(v.hands[key], " "), values(ev.Values))
	case blackjacktable.EventType_Split:
		pterm.Info.Printfln("%s split", ev.OrigHid)
	case blackjacktable.EventType_Win, blackjacktable.EventType_Blackjack, blackjacktable.EventType_Charlie:
		pterm.Println(outcomePanel(ev, pterm.LightGreen))
	case blackjacktable.EventType_Lose, blackjacktable.EventType_Bust:
		pterm.Println(outcomePanel(ev, pterm.LightRed))
	case blackjacktable.EventType_Push:
		pterm.Println(outcomePanel(ev, pterm.LightYellow))
	case blackjacktable.EventType_Shuffling:
		pterm.Info.Println("shuffling")
	case blackjacktable.EventType_Abort:
		pterm.Warning.Printfln("round aborted: %s", ev.Reason)
	case blackjacktable.EventType_Ending:
		pterm.Printfln("%d cards left in the shoe", ev.ShoeSize)
	}
}

func values(v []int) string {
	if len(v) != 2 || v[0] == v[1] {
		if len(v) > 0 {
			return pterm.Gray(v[0])
		}
		return ""
	}
	return pterm.Gray(pterm.Sprintf("%d/%d", v[0], v[1]))
}

func outcomePanel(ev *blackjacktable.Event, color func(a ...interface{}) string) string {
	if ev.Hid == nil {
		return color(string(ev.Type))
	}

	amount := ev.Hid.Amt + ev.Hid.SideAmt
	return pterm.DefaultBox.
		WithTitle(color("|" + string(ev.Type) + "|")).
		WithTitleTopCenter().
		Sprintf("%s  %+.2f", ev.Hid, amount)
}
