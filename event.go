package blackjacktable

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable/card"
)

type EventType string

const (
	EventType_Ready     EventType = "READY"
	EventType_Starting  EventType = "STARTING"
	EventType_Deal      EventType = "DEAL"
	EventType_Turn      EventType = "TURN"
	EventType_Split     EventType = "SPLIT"
	EventType_Bust      EventType = "BUST"
	EventType_Blackjack EventType = "BLACKJACK"
	EventType_Charlie   EventType = "CHARLIE"
	EventType_Win       EventType = "WIN"
	EventType_Lose      EventType = "LOSE"
	EventType_Push      EventType = "PUSH"
	EventType_Shuffling EventType = "SHUFFLING"
	EventType_Ending    EventType = "ENDING"
	EventType_Abort     EventType = "ABORT"
)

/*
IsOutcome reports whether the event settles a hand
  - player hands get exactly one outcome event
  - the dealer hand may first get BLACKJACK or BUST with Amt 0, its last
    outcome event (WIN, LOSE or PUSH) carries the house result in Hid.Amt
*/
func (t EventType) IsOutcome() bool {
	switch t {
	case EventType_Win, EventType_Lose, EventType_Push, EventType_Blackjack, EventType_Charlie, EventType_Bust:
		return true
	}
	return false
}

// Event is one table happening, delivered to listeners in emission order.
// Fields not relevant to the type are left empty.
type Event struct {
	Type     EventType  `json:"type"`
	TableID  string     `json:"table_id"`
	Round    int        `json:"round"`
	Serial   int64      `json:"serial"`
	At       int64      `json:"at"`                 // seconds
	To       string     `json:"to,omitempty"`       // player id for private events
	Hid      *card.Hid  `json:"hid,omitempty"`      // subject hand
	OrigHid  *card.Hid  `json:"orig_hid,omitempty"` // split: hand that was split
	Hids     []card.Hid `json:"hids,omitempty"`     // starting: all hands, split: the two new hands
	Card     *card.Card `json:"card,omitempty"`
	Values   []int      `json:"values,omitempty"` // hard, soft
	ShoeSize int        `json:"shoe_size"`
	Seat     int        `json:"seat,omitempty"` // ready: seat of the admitted player
	Reason   string     `json:"reason,omitempty"`
}

func (te *tableEngine) newEvent(t EventType) *Event {
	return &Event{
		Type:     t,
		ShoeSize: te.shoe.Size(),
	}
}

func (te *tableEngine) emit(ev *Event) {
	te.table.RefreshUpdateAt()
	te.table.State.ShoeSize = te.shoe.Size()

	ev.TableID = te.table.ID
	ev.Round = te.table.State.GameCount
	ev.Serial = te.table.UpdateSerial
	ev.At = time.Now().Unix()

	fields := logrus.Fields{
		"round":  ev.Round,
		"serial": ev.Serial,
		"event":  ev.Type,
	}
	if ev.Hid != nil {
		fields["hid"] = ev.Hid.String()
	}
	if ev.Card != nil {
		fields["card"] = ev.Card.String()
	}
	if ev.To != "" {
		fields["player"] = ev.To
	}
	te.logger.WithFields(fields).Debug("emit event")

	te.onEvent(ev)
	te.onTableUpdated(te.table)
}

func (te *tableEngine) emitErrorEvent(action RequestAction, playerID string, err error) {
	te.logger.WithFields(logrus.Fields{
		"action": action,
		"player": playerID,
	}).WithError(err).Info("action rejected")
	te.onTableErrorUpdated(te.table, err)
}

func (te *tableEngine) emitHandEvent(t EventType, hid card.Hid) {
	ev := te.newEvent(t)
	ev.Hid = &hid
	te.emit(ev)
}

func (te *tableEngine) emitDeal(hid card.Hid, c card.Card, hard, soft int) {
	ev := te.newEvent(EventType_Deal)
	ev.Hid = &hid
	ev.Card = &c
	ev.Values = []int{hard, soft}
	te.emit(ev)
}
