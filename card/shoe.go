package card

import (
	"errors"
	"math/rand"
	"time"

	"github.com/weedbox/pokerface"
)

var (
	ErrEmptyShoe = errors.New("card: shoe is empty")
)

const (
	DefaultDecks     = 6
	DefaultThreshold = 0.25
)

type Shoe interface {
	Init()
	Deal() (Card, error)
	ShuffleNeeded() bool
	Shuffle()
	Size() int
}

// StandardShoe holds a number of 52 card decks and places a burn card inside
// the reserve fraction. Once the burn card is reached the shoe needs a shuffle.
type StandardShoe struct {
	decks     int
	threshold float64
	rnd       *rand.Rand
	cards     []Card
	pos       int
	burnAt    int
}

func NewStandardShoe(decks int, threshold float64, seed int64) *StandardShoe {
	if decks <= 0 {
		decks = DefaultDecks
	}

	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &StandardShoe{
		decks:     decks,
		threshold: threshold,
		rnd:       rand.New(rand.NewSource(seed)),
	}
	s.Shuffle()

	return s
}

func (s *StandardShoe) Init() {
	deck := standardDeck()
	s.cards = make([]Card, 0, s.decks*len(deck))
	for i := 0; i < s.decks; i++ {
		s.cards = append(s.cards, deck...)
	}
	s.pos = 0
	s.burnAt = len(s.cards)
}

// standardDeck converts the pokerface deck, codes "S2" through "CA".
func standardDeck() []Card {
	codes := pokerface.NewStandardDeckCards()
	deck := make([]Card, 0, len(codes))
	for _, code := range codes {
		deck = append(deck, MustParse(code))
	}
	return deck
}

func (s *StandardShoe) Shuffle() {
	s.Init()
	s.rnd.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})

	// burn card lands somewhere in the first half of the reserve
	reserve := int(float64(len(s.cards)) * s.threshold)
	jitter := 0
	if reserve > 1 {
		jitter = s.rnd.Intn(reserve / 2)
	}
	s.burnAt = len(s.cards) - reserve + jitter
}

func (s *StandardShoe) Deal() (Card, error) {
	if s.pos >= len(s.cards) {
		return Card{}, ErrEmptyShoe
	}

	c := s.cards[s.pos]
	s.pos++
	return c, nil
}

func (s *StandardShoe) ShuffleNeeded() bool {
	return s.pos >= s.burnAt
}

func (s *StandardShoe) Size() int {
	return len(s.cards) - s.pos
}

// FixedShoe deals a scripted sequence of cards. It never asks for a shuffle
// and Shuffle only reloads the script.
type FixedShoe struct {
	script []Card
	cards  []Card
}

func NewFixedShoe(cards ...Card) *FixedShoe {
	s := &FixedShoe{
		script: append([]Card(nil), cards...),
	}
	s.Init()
	return s
}

func (s *FixedShoe) Init() {
	s.cards = append([]Card(nil), s.script...)
}

func (s *FixedShoe) Shuffle() {
	s.Init()
}

func (s *FixedShoe) Deal() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}

	c := s.cards[0]
	s.cards = s.cards[1:]
	return c, nil
}

func (s *FixedShoe) ShuffleNeeded() bool {
	return false
}

func (s *FixedShoe) Size() int {
	return len(s.cards)
}
