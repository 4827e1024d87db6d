package blackjacktable

import (
	"github.com/weedbox/blackjacktable/card"
)

// handRecord is one slot of the round arena. Hid.Seq indexes the arena.
type handRecord struct {
	hid      card.Hid
	hand     *card.Hand
	playerID string
	doubled  bool
	resolved bool // no further player action
	retired  bool // replaced by a split
	settled  bool
	outcome  Outcome
}

func (r *handRecord) settle(outcome Outcome, amt float64) error {
	if r.settled {
		return ErrHandAlreadySettled
	}
	r.settled = true
	r.resolved = true
	r.outcome = outcome
	r.hid.Amt = amt
	return nil
}

func (r *handRecord) state() *TableHandState {
	hard, soft := r.hand.Values()
	return &TableHandState{
		Hid:      r.hid,
		PlayerID: r.playerID,
		Cards:    r.hand.Cards(),
		Values:   [2]int{hard, soft},
		Doubled:  r.doubled,
		Resolved: r.resolved,
		Settled:  r.settled,
		Outcome:  r.outcome,
	}
}

type round struct {
	id         int
	arena      []*handRecord
	order      []int // arena indexes of player hands in turn order
	turn       int   // position in order, UnsetValue before turns start
	turnSerial int   // bumped on every TURN, a hit re-issues the same hid
	dealer     int   // arena index of the dealer hand
	shuffling  bool  // burn card announced during this round
}

func newRound(id int) *round {
	return &round{
		id:     id,
		arena:  make([]*handRecord, 0),
		order:  make([]int, 0),
		turn:   UnsetValue,
		dealer: UnsetValue,
	}
}

func (r *round) newHand(seat card.Seat, playerID string) *handRecord {
	hid := card.NewHid(r.id, seat, len(r.arena))
	rec := &handRecord{
		hid:      hid,
		hand:     card.NewHand(hid),
		playerID: playerID,
	}
	r.arena = append(r.arena, rec)
	return rec
}

func (r *round) newSplitHand(orig *handRecord) *handRecord {
	hid := card.SplitFrom(orig.hid, len(r.arena))
	rec := &handRecord{
		hid:      hid,
		hand:     card.NewHand(hid),
		playerID: orig.playerID,
	}
	r.arena = append(r.arena, rec)
	return rec
}

// lookup resolves a client supplied hid. Retired and unknown hands are not
// addressable.
func (r *round) lookup(hid card.Hid) *handRecord {
	if hid.Seq < 0 || hid.Seq >= len(r.arena) {
		return nil
	}

	rec := r.arena[hid.Seq]
	if rec.retired || !rec.hid.Equal(hid) {
		return nil
	}
	return rec
}

func (r *round) dealerHand() *handRecord {
	if r.dealer == UnsetValue {
		return nil
	}
	return r.arena[r.dealer]
}

func (r *round) current() *handRecord {
	if r.turn < 0 || r.turn >= len(r.order) {
		return nil
	}
	return r.arena[r.order[r.turn]]
}

// playerHands returns live player hands in turn order.
func (r *round) playerHands() []*handRecord {
	hands := make([]*handRecord, 0, len(r.order))
	for _, idx := range r.order {
		hands = append(hands, r.arena[idx])
	}
	return hands
}

func (r *round) hasUnsettledPlayerHands() bool {
	for _, rec := range r.playerHands() {
		if !rec.settled {
			return true
		}
	}
	return false
}

// replace swaps the hand on turn for the two split hands.
func (r *round) replace(orig *handRecord, first *handRecord, second *handRecord) {
	orig.retired = true
	orig.resolved = true

	order := make([]int, 0, len(r.order)+1)
	for i, idx := range r.order {
		if i == r.turn {
			order = append(order, first.hid.Seq, second.hid.Seq)
			continue
		}
		order = append(order, idx)
	}
	r.order = order
}

// exposure returns what the player has at risk in this round.
func (r *round) exposure(playerID string) float64 {
	total := 0.0
	for _, rec := range r.arena {
		if rec.retired || rec.playerID != playerID {
			continue
		}
		total += rec.hid.Bet + rec.hid.SideBet
	}
	return total
}

func (r *round) handStates() []*TableHandState {
	states := make([]*TableHandState, 0, len(r.order)+1)
	for _, rec := range r.playerHands() {
		states = append(states, rec.state())
	}
	if d := r.dealerHand(); d != nil {
		states = append(states, d.state())
	}
	return states
}
