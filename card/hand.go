package card

const (
	Blackjack    = 21
	CharlieCards = 5
)

// Hand is an ordered sequence of cards owned by one Hid. Values are derived
// from the cards on every call.
type Hand struct {
	hid   Hid
	cards []Card
}

func NewHand(hid Hid) *Hand {
	return &Hand{
		hid:   hid,
		cards: make([]Card, 0, CharlieCards),
	}
}

func (h *Hand) Hid() Hid {
	return h.hid
}

func (h *Hand) Hit(c Card) {
	h.cards = append(h.cards, c)
}

func (h *Hand) Size() int {
	return len(h.cards)
}

func (h *Hand) Card(idx int) Card {
	return h.cards[idx]
}

func (h *Hand) Cards() []Card {
	cards := make([]Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Values returns the hard value (every Ace counted as 1) and the soft value
// (one Ace counted as 11 where that does not bust, otherwise the hard value).
func (h *Hand) Values() (hard int, soft int) {
	hasAce := false
	for _, c := range h.cards {
		hard += c.Value()
		if c.IsAce() {
			hasAce = true
		}
	}

	soft = hard
	if hasAce && hard+10 <= Blackjack {
		soft = hard + 10
	}

	return hard, soft
}

// Value returns the best value of the hand.
func (h *Hand) Value() int {
	_, soft := h.Values()
	return soft
}

func (h *Hand) IsSoft() bool {
	hard, soft := h.Values()
	return soft != hard
}

func (h *Hand) IsBust() bool {
	hard, _ := h.Values()
	return hard > Blackjack
}

func (h *Hand) IsPair() bool {
	return !h.hid.Split && len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

func (h *Hand) IsBlackjack() bool {
	return !h.hid.Split && len(h.cards) == 2 && h.Value() == Blackjack
}

func (h *Hand) IsCharlie() bool {
	return len(h.cards) >= CharlieCards && !h.IsBust()
}
