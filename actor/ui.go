package actor

import (
	"github.com/weedbox/blackjacktable"
)

// UI receives table events in emission order. Callbacks run on a single
// goroutine owned by the Courier and may issue commands.
type UI interface {
	Ready(ev *blackjacktable.Event)
	Starting(ev *blackjacktable.Event)
	Deal(ev *blackjacktable.Event)
	Turn(ev *blackjacktable.Event)
	Split(ev *blackjacktable.Event)
	Bust(ev *blackjacktable.Event)
	Blackjack(ev *blackjacktable.Event)
	Charlie(ev *blackjacktable.Event)
	Win(ev *blackjacktable.Event)
	Lose(ev *blackjacktable.Event)
	Push(ev *blackjacktable.Event)
	Shuffling(ev *blackjacktable.Event)
	Ending(ev *blackjacktable.Event)
	Abort(ev *blackjacktable.Event)
}

// NopUI ignores every event. Embed it to implement part of UI.
type NopUI struct{}

func (NopUI) Ready(*blackjacktable.Event)     {}
func (NopUI) Starting(*blackjacktable.Event)  {}
func (NopUI) Deal(*blackjacktable.Event)      {}
func (NopUI) Turn(*blackjacktable.Event)      {}
func (NopUI) Split(*blackjacktable.Event)     {}
func (NopUI) Bust(*blackjacktable.Event)      {}
func (NopUI) Blackjack(*blackjacktable.Event) {}
func (NopUI) Charlie(*blackjacktable.Event)   {}
func (NopUI) Win(*blackjacktable.Event)       {}
func (NopUI) Lose(*blackjacktable.Event)      {}
func (NopUI) Push(*blackjacktable.Event)      {}
func (NopUI) Shuffling(*blackjacktable.Event) {}
func (NopUI) Ending(*blackjacktable.Event)    {}
func (NopUI) Abort(*blackjacktable.Event)     {}

// Deliver calls the UI method matching the event type. Unknown types are
// ignored and reported as false.
func Deliver(ui UI, ev *blackjacktable.Event) bool {
	handlers := map[blackjacktable.EventType]func(*blackjacktable.Event){
		blackjacktable.EventType_Ready:     ui.Ready,
		blackjacktable.EventType_Starting:  ui.Starting,
		blackjacktable.EventType_Deal:      ui.Deal,
		blackjacktable.EventType_Turn:      ui.Turn,
		blackjacktable.EventType_Split:     ui.Split,
		blackjacktable.EventType_Bust:      ui.Bust,
		blackjacktable.EventType_Blackjack: ui.Blackjack,
		blackjacktable.EventType_Charlie:   ui.Charlie,
		blackjacktable.EventType_Win:       ui.Win,
		blackjacktable.EventType_Lose:      ui.Lose,
		blackjacktable.EventType_Push:      ui.Push,
		blackjacktable.EventType_Shuffling: ui.Shuffling,
		blackjacktable.EventType_Ending:    ui.Ending,
		blackjacktable.EventType_Abort:     ui.Abort,
	}

	fn, ok := handlers[ev.Type]
	if !ok {
		return false
	}

	fn(ev)
	return true
}
