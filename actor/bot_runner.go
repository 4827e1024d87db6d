package actor

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/advisor"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/timebank"
)

// Commander issues player commands. Courier implements it.
type Commander interface {
	Bet(ctx context.Context, amount float64, side float64) error
	Hit(ctx context.Context, hid card.Hid) error
	Stay(ctx context.Context, hid card.Hid) error
	DoubleDown(ctx context.Context, hid card.Hid) error
	Split(ctx context.Context, hid card.Hid) error
}

type BotActionFunc func(hid card.Hid, play advisor.Play)

type BotOptions struct {
	Bet          float64
	SideBet      float64
	ThinkingTime time.Duration // upper bound of the humanized delay
	RetryBet     time.Duration // retry interval while betting is closed
	MaxRounds    int           // 0 plays until the bankroll runs out
}

func NewBotOptions() *BotOptions {
	return &BotOptions{
		Bet:          10,
		ThinkingTime: 2 * time.Second,
		RetryBet:     time.Second,
	}
}

/*
BotRunner plays a seat through a Commander
  - bets when admitted and after every round
  - plays its hands with an advisor against the dealer up card
*/
type BotRunner struct {
	commander   Commander
	advisor     advisor.Advisor
	options     *BotOptions
	logger      *logrus.Entry
	isHumanized bool
	betTB       *timebank.TimeBank
	actionTB    *timebank.TimeBank

	mu          sync.Mutex
	hasSeat     bool
	seat        card.Seat
	admitted    bool
	funded      bool // bankroll known
	bankroll    float64
	rounds      int
	awaitingBet bool
	betInFlight bool
	hands       map[card.HidKey]*card.Hand
	dealer      *card.Hand
	finished    chan struct{}
	finishOnce  sync.Once

	onEvent  func(*blackjacktable.Event)
	onAction BotActionFunc
	onError  func(error)
}

func NewBotRunner(a advisor.Advisor, options *BotOptions) *BotRunner {
	if a == nil {
		a = advisor.NewBasicStrategy()
	}
	if options == nil {
		options = NewBotOptions()
	}

	return &BotRunner{
		advisor:  a,
		options:  options,
		logger:   logrus.WithField("component", "bot"),
		betTB:    timebank.NewTimeBank(),
		actionTB: timebank.NewTimeBank(),
		hands:    make(map[card.HidKey]*card.Hand),
		finished: make(chan struct{}),
		onEvent:  func(*blackjacktable.Event) {},
		onAction: func(card.Hid, advisor.Play) {},
		onError:  func(error) {},
	}
}

func (br *BotRunner) SetCommander(c Commander) {
	br.commander = c
}

func (br *BotRunner) SetLogger(logger *logrus.Entry) {
	br.logger = logger
}

func (br *BotRunner) Humanized(enabled bool) {
	br.isHumanized = enabled
}

// SetSeat records the seat and bankroll reported when arriving. READY may
// be delivered before, in which case betting starts here.
func (br *BotRunner) SetSeat(seat int, bankroll float64) {
	br.mu.Lock()
	br.hasSeat = true
	br.seat = card.Seat(seat)
	br.bankroll = bankroll
	br.funded = true
	admitted := br.admitted
	br.mu.Unlock()

	if admitted {
		br.requestBet()
	}
}

func (br *BotRunner) OnEvent(fn func(*blackjacktable.Event)) {
	br.onEvent = fn
}

func (br *BotRunner) OnAction(fn BotActionFunc) {
	br.onAction = fn
}

func (br *BotRunner) OnError(fn func(error)) {
	br.onError = fn
}

func (br *BotRunner) Bankroll() float64 {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.bankroll
}

func (br *BotRunner) Rounds() int {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.rounds
}

// Finished is closed once the bot stops betting.
func (br *BotRunner) Finished() <-chan struct{} {
	return br.finished
}

func (br *BotRunner) Ready(ev *blackjacktable.Event) {
	br.onEvent(ev)

	br.mu.Lock()
	br.hasSeat = true
	br.seat = card.Seat(ev.Seat)
	br.admitted = true
	funded := br.funded
	br.mu.Unlock()

	if funded {
		br.requestBet()
	}
}

func (br *BotRunner) Starting(ev *blackjacktable.Event) {
	br.onEvent(ev)

	br.mu.Lock()
	defer br.mu.Unlock()

	br.awaitingBet = false
	br.hands = make(map[card.HidKey]*card.Hand)
	br.dealer = nil
}

func (br *BotRunner) Deal(ev *blackjacktable.Event) {
	br.onEvent(ev)

	if ev.Hid == nil || ev.Card == nil {
		return
	}

	br.mu.Lock()
	defer br.mu.Unlock()

	if ev.Hid.Seat.IsDealer() {
		if br.dealer == nil {
			br.dealer = card.NewHand(*ev.Hid)
		}
		br.dealer.Hit(*ev.Card)
		return
	}

	if !br.isMine(*ev.Hid) {
		return
	}

	h, ok := br.hands[ev.Hid.Key()]
	if !ok {
		h = card.NewHand(*ev.Hid)
		br.hands[ev.Hid.Key()] = h
	}
	h.Hit(*ev.Card)
}

func (br *BotRunner) Turn(ev *blackjacktable.Event) {
	br.onEvent(ev)

	if ev.Hid == nil {
		return
	}

	br.mu.Lock()
	mine := br.isMine(*ev.Hid)
	br.mu.Unlock()

	if !mine {
		return
	}

	hid := *ev.Hid
	if !br.isHumanized || br.options.ThinkingTime <= 0 {
		br.play(hid)
		return
	}

	// simulating human-like behavior
	thinkingTime := time.Duration(rand.Int63n(int64(br.options.ThinkingTime)))
	err := br.actionTB.NewTask(thinkingTime, func(isCancelled bool) {
		if isCancelled {
			return
		}
		br.play(hid)
	})
	if err != nil {
		br.onError(err)
	}
}

func (br *BotRunner) Split(ev *blackjacktable.Event) {
	br.onEvent(ev)

	if ev.OrigHid == nil {
		return
	}

	br.mu.Lock()
	defer br.mu.Unlock()

	// the new hands are rebuilt from the DEAL events that follow
	delete(br.hands, ev.OrigHid.Key())
}

func (br *BotRunner) Bust(ev *blackjacktable.Event)      { br.settle(ev) }
func (br *BotRunner) Blackjack(ev *blackjacktable.Event) { br.settle(ev) }
func (br *BotRunner) Charlie(ev *blackjacktable.Event)   { br.settle(ev) }
func (br *BotRunner) Win(ev *blackjacktable.Event)       { br.settle(ev) }
func (br *BotRunner) Lose(ev *blackjacktable.Event)      { br.settle(ev) }
func (br *BotRunner) Push(ev *blackjacktable.Event)      { br.settle(ev) }

func (br *BotRunner) Shuffling(ev *blackjacktable.Event) {
	br.onEvent(ev)
}

func (br *BotRunner) Ending(ev *blackjacktable.Event) {
	br.onEvent(ev)

	br.mu.Lock()
	br.rounds++
	br.mu.Unlock()

	br.requestBet()
}

func (br *BotRunner) Abort(ev *blackjacktable.Event) {
	br.onEvent(ev)
	br.logger.WithField("reason", ev.Reason).Warn("round aborted")
}

func (br *BotRunner) isMine(hid card.Hid) bool {
	return br.hasSeat && hid.Seat == br.seat
}

func (br *BotRunner) settle(ev *blackjacktable.Event) {
	br.onEvent(ev)

	if ev.Hid == nil {
		return
	}

	br.mu.Lock()
	defer br.mu.Unlock()

	if !br.isMine(*ev.Hid) {
		return
	}

	br.bankroll += ev.Hid.Amt + ev.Hid.SideAmt
	delete(br.hands, ev.Hid.Key())
}

func (br *BotRunner) finish() {
	br.finishOnce.Do(func() {
		br.betTB.Cancel()
		br.actionTB.Cancel()
		close(br.finished)
	})
}

func (br *BotRunner) requestBet() {
	br.mu.Lock()
	if br.options.MaxRounds > 0 && br.rounds >= br.options.MaxRounds {
		br.mu.Unlock()
		br.finish()
		return
	}

	if br.bankroll < br.options.Bet+br.options.SideBet {
		br.mu.Unlock()
		br.logger.WithField("bankroll", br.bankroll).Info("bankroll exhausted")
		br.finish()
		return
	}

	br.awaitingBet = true
	br.mu.Unlock()

	go br.placeBet()
}

func (br *BotRunner) placeBet() {
	br.mu.Lock()
	if !br.awaitingBet || br.betInFlight {
		br.mu.Unlock()
		return
	}
	br.betInFlight = true
	br.mu.Unlock()

	err := br.commander.Bet(context.Background(), br.options.Bet, br.options.SideBet)

	br.mu.Lock()
	br.betInFlight = false
	if err == nil {
		br.awaitingBet = false
		br.mu.Unlock()
		return
	}

	// betting may be closed while the table waits for players
	retry := br.awaitingBet && errors.Is(err, blackjacktable.ErrProtocolViolation) && br.options.RetryBet > 0
	if !retry {
		br.awaitingBet = false
	}
	br.mu.Unlock()

	if !retry {
		br.onError(err)
		return
	}

	br.logger.WithError(err).Debug("bet rejected, retrying")
	err = br.betTB.NewTask(br.options.RetryBet, func(isCancelled bool) {
		if isCancelled {
			return
		}
		br.placeBet()
	})
	if err != nil {
		br.onError(err)
	}
}

// decide returns the advised play for the hand, if it is known.
func (br *BotRunner) decide(hid card.Hid) (advisor.Play, bool) {
	br.mu.Lock()
	defer br.mu.Unlock()

	h, ok := br.hands[hid.Key()]
	if !ok || br.dealer == nil || br.dealer.Size() == 0 {
		return "", false
	}

	return br.advisor.Advise(h, br.dealer.Card(0)), true
}

func (br *BotRunner) play(hid card.Hid) {
	play, ok := br.decide(hid)
	if !ok {
		br.logger.WithField("hid", hid.String()).Warn("unknown hand on turn, staying")
		play = advisor.Play_Stay
	}

	err := br.act(hid, play)
	if err == nil || !errors.Is(err, blackjacktable.ErrIllegalAction) {
		if err != nil {
			br.onError(err)
		}
		return
	}

	// double down or split over the bankroll
	fallback := advisor.Play_Hit
	br.mu.Lock()
	if h, ok := br.hands[hid.Key()]; ok && h.Value() >= 17 {
		fallback = advisor.Play_Stay
	}
	br.mu.Unlock()

	if fallback == play {
		br.onError(err)
		return
	}

	if err := br.act(hid, fallback); err != nil {
		br.onError(err)
	}
}

func (br *BotRunner) act(hid card.Hid, play advisor.Play) error {
	br.logger.WithFields(logrus.Fields{
		"hid":  hid.String(),
		"play": play,
	}).Debug("playing hand")

	ctx := context.Background()

	var err error
	switch play {
	case advisor.Play_Hit:
		err = br.commander.Hit(ctx, hid)
	case advisor.Play_DoubleDown:
		err = br.commander.DoubleDown(ctx, hid)
	case advisor.Play_Split:
		err = br.commander.Split(ctx, hid)
	default:
		err = br.commander.Stay(ctx, hid)
	}

	if err == nil {
		br.onAction(hid, play)
	}
	return err
}
