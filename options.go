package blackjacktable

import "time"

type TableEngineCallbacks struct {
	OnEvent             func(ev *Event)
	OnTableUpdated      func(t *Table)
	OnTableErrorUpdated func(t *Table, err error)
}

func NewTableEngineCallbacks() *TableEngineCallbacks {
	return &TableEngineCallbacks{
		OnEvent:             func(*Event) {},
		OnTableUpdated:      func(*Table) {},
		OnTableErrorUpdated: func(*Table, error) {},
	}
}

type TableEngineOptions struct {
	TurnTimeout time.Duration // idle hand on turn is auto-stayed, 0 disables
	BetTimeout  int           // seconds before absent players sit the round out, 0 waits forever
	QueueSize   int
}

func NewTableEngineOptions() *TableEngineOptions {
	return &TableEngineOptions{
		TurnTimeout: 30 * time.Second,
		BetTimeout:  60,
		QueueSize:   256,
	}
}
