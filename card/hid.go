package card

import "fmt"

type Seat int

const (
	SeatDealer Seat = -1
)

func (s Seat) IsDealer() bool {
	return s == SeatDealer
}

func (s Seat) String() string {
	if s.IsDealer() {
		return "DEALER"
	}
	return fmt.Sprintf("SEAT%d", int(s))
}

// Hid identifies one hand in one round. Identity is the round, seat, sequence,
// lineage and split flag; wager and settlement amounts travel with it.
type Hid struct {
	Round   int     `json:"round"`
	Seat    Seat    `json:"seat"`
	Seq     int     `json:"seq"`
	Origin  int     `json:"origin"` // seq of the hand that carried the original bet
	Split   bool    `json:"split"`
	Bet     float64 `json:"bet"`
	SideBet float64 `json:"side_bet"`
	Amt     float64 `json:"amt"`      // signed P&L from the owner's point of view
	SideAmt float64 `json:"side_amt"` // signed side bet P&L
}

// HidKey is the comparable identity of a Hid, usable as a map key.
type HidKey struct {
	Round  int
	Seat   Seat
	Seq    int
	Origin int
	Split  bool
}

func NewHid(round int, seat Seat, seq int) Hid {
	return Hid{
		Round:  round,
		Seat:   seat,
		Seq:    seq,
		Origin: seq,
	}
}

// SplitFrom returns a hand id created by splitting h.
func SplitFrom(h Hid, seq int) Hid {
	return Hid{
		Round:  h.Round,
		Seat:   h.Seat,
		Seq:    seq,
		Origin: h.Origin,
		Split:  true,
		Bet:    h.Bet,
	}
}

func (h Hid) Key() HidKey {
	return HidKey{
		Round:  h.Round,
		Seat:   h.Seat,
		Seq:    h.Seq,
		Origin: h.Origin,
		Split:  h.Split,
	}
}

func (h Hid) Equal(other Hid) bool {
	return h.Key() == other.Key()
}

func (h Hid) String() string {
	s := fmt.Sprintf("%s#%d.%d", h.Seat, h.Round, h.Seq)
	if h.Split {
		s += fmt.Sprintf("(split of %d)", h.Origin)
	}
	return s
}
