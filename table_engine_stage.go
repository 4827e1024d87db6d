package blackjacktable

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable/card"
)

// openBetting opens the betting window for the next round, or parks the
// table in waiting when nobody can bet.
func (te *tableEngine) openBetting() {
	te.table.State.CurrentHid = nil
	for _, player := range te.table.State.PlayerStates {
		player.Bet = 0
		player.SideBet = 0
	}

	// connected, admitted and able to cover the minimum bet
	participants := make(map[string]int)
	for _, player := range te.sortedPlayers() {
		active, err := te.sm.IsPlayerActive(player.PlayerID)
		if err == nil && active && player.IsReady {
			participants[player.PlayerID] = player.Seat
		}
	}

	if len(participants) == 0 || te.table.SeatedCount() < te.table.Meta.TableMinPlayerCount {
		te.table.State.Status = TableStateStatus_TableWaiting
		te.ogm.Close()
		te.logger.Debug("waiting for players")
		te.onTableUpdated(te.table)
		return
	}

	te.table.State.Status = TableStateStatus_TableBetting
	te.ogm.Setup(te.table.State.GameCount+1, participants)

	te.logger.WithField("participants", len(participants)).Debug("betting opened")
	te.onTableUpdated(te.table)
}

func (te *tableEngine) startRound(bettors []*TablePlayerState) {
	te.ogm.Close()

	te.table.State.GameCount++
	te.table.State.Status = TableStateStatus_TableDealing
	r := newRound(te.table.State.GameCount)
	te.round = r

	hids := make([]card.Hid, 0, len(bettors)+1)
	for _, player := range bettors {
		rec := r.newHand(card.Seat(player.Seat), player.PlayerID)
		rec.hid.Bet = player.Bet
		rec.hid.SideBet = player.SideBet
		r.order = append(r.order, rec.hid.Seq)
		hids = append(hids, rec.hid)
		player.GameStatistics.HandsPlayed++
	}
	dealer := r.newHand(card.SeatDealer, "")
	r.dealer = dealer.hid.Seq
	hids = append(hids, dealer.hid)

	te.logger.WithFields(logrus.Fields{
		"round": r.id,
		"hands": len(bettors),
	}).Info("round started")

	// Step 1: announce hands
	ev := te.newEvent(EventType_Starting)
	ev.Hids = hids
	te.emit(ev)

	// Step 2: two passes, players in seat order then dealer
	for pass := 0; pass < 2; pass++ {
		for _, rec := range r.playerHands() {
			if err := te.deal(rec); err != nil {
				te.abortRound(err)
				return
			}
		}
		if err := te.deal(dealer); err != nil {
			te.abortRound(err)
			return
		}
	}

	// Step 3: side bets pay on a seven as first card
	for _, rec := range r.playerHands() {
		if rec.hid.SideBet <= 0 {
			continue
		}
		if rec.hand.Card(0).Rank == card.Seven {
			rec.hid.SideAmt = rec.hid.SideBet * te.table.Meta.SideBetPayout
		} else {
			rec.hid.SideAmt = -rec.hid.SideBet
		}
	}

	// Step 4: naturals
	if dealer.hand.IsBlackjack() {
		te.emitHandEvent(EventType_Blackjack, dealer.hid)
		for _, rec := range r.playerHands() {
			if rec.hand.IsBlackjack() {
				te.settleHand(rec, Outcome_Push, 0)
			} else {
				te.settleHand(rec, Outcome_Lose, -rec.hid.Bet)
			}
		}
		te.finishRound()
		return
	}

	for _, rec := range r.playerHands() {
		if rec.hand.IsBlackjack() {
			te.settleHand(rec, Outcome_Blackjack, rec.hid.Bet*te.table.Meta.BlackjackPayout)
		}
	}

	// Step 5: player turns
	te.table.State.Status = TableStateStatus_TablePlayerTurns
	r.turn = 0
	te.advance()
}

// deal draws one card from the shoe onto the hand and announces it.
func (te *tableEngine) deal(rec *handRecord) error {
	c, err := te.shoe.Deal()
	if err != nil {
		return err
	}

	rec.hand.Hit(c)
	hard, soft := rec.hand.Values()
	te.emitDeal(rec.hid, c, hard, soft)

	// burn card reached
	if !te.round.shuffling && te.shoe.ShuffleNeeded() {
		te.round.shuffling = true
		te.emit(te.newEvent(EventType_Shuffling))
	}

	return nil
}

// advance gives the turn to the next hand that still needs a decision, or
// moves on to the dealer when none is left.
func (te *tableEngine) advance() {
	r := te.round
	for ; r.turn < len(r.order); r.turn++ {
		rec := r.arena[r.order[r.turn]]
		if rec.resolved {
			continue
		}

		if !te.isPlayerIn(rec.playerID) {
			te.logger.WithField("hid", rec.hid.String()).Warn("owner disconnected, auto stay")
			rec.resolved = true
			continue
		}

		te.giveTurn(rec)
		return
	}

	te.table.State.CurrentHid = nil
	te.turnTB.Cancel()
	te.finishRound()
}

func (te *tableEngine) giveTurn(rec *handRecord) {
	te.round.turnSerial++
	hid := rec.hid
	te.table.State.CurrentHid = &hid
	te.emitHandEvent(EventType_Turn, hid)
	te.startTurnTimer(hid, te.round.turnSerial)
}

func (te *tableEngine) startTurnTimer(hid card.Hid, serial int) {
	te.turnTB.Cancel()
	if te.options.TurnTimeout <= 0 {
		return
	}

	err := te.turnTB.NewTask(te.options.TurnTimeout, func(isCancelled bool) {
		if isCancelled {
			return
		}
		te.enqueue(RequestAction_TurnTimeout, Payload{
			Hid:   hid,
			Param: TurnTimeoutParam{TurnSerial: serial},
		})
	})
	if err != nil {
		te.logger.WithError(err).Error("failed to start turn timer")
	}
}

func (te *tableEngine) nextTurn() {
	te.turnTB.Cancel()
	te.round.turn++
	te.advance()
}

func (te *tableEngine) hit(rec *handRecord) {
	if err := te.deal(rec); err != nil {
		te.abortRound(err)
		return
	}

	switch {
	case rec.hand.IsBust():
		te.settleHand(rec, Outcome_Bust, -rec.hid.Bet)
		te.nextTurn()
	case rec.hand.IsCharlie():
		te.settleHand(rec, Outcome_Charlie, rec.hid.Bet*te.table.Meta.CharliePayout)
		te.nextTurn()
	default:
		te.giveTurn(rec)
	}
}

func (te *tableEngine) stay(rec *handRecord) {
	rec.resolved = true
	te.nextTurn()
}

func (te *tableEngine) autoStay(rec *handRecord, reason string) {
	te.logger.WithFields(logrus.Fields{
		"hid":    rec.hid.String(),
		"player": rec.playerID,
		"reason": reason,
	}).Warn("auto stay")
	te.stay(rec)
}

func (te *tableEngine) doubleDown(rec *handRecord) {
	rec.doubled = true
	rec.hid.Bet *= 2
	if player := te.table.FindPlayer(rec.playerID); player != nil {
		player.GameStatistics.DoubleDowns++
	}

	if err := te.deal(rec); err != nil {
		te.abortRound(err)
		return
	}

	if rec.hand.IsBust() {
		te.settleHand(rec, Outcome_Bust, -rec.hid.Bet)
	}
	rec.resolved = true
	te.nextTurn()
}

func (te *tableEngine) split(rec *handRecord) {
	r := te.round
	te.turnTB.Cancel()

	first := r.newSplitHand(rec)
	second := r.newSplitHand(rec)

	// side bet stays with the first hand
	first.hid.SideBet = rec.hid.SideBet
	first.hid.SideAmt = rec.hid.SideAmt

	r.replace(rec, first, second)
	if player := te.table.FindPlayer(rec.playerID); player != nil {
		player.GameStatistics.Splits++
	}

	newHid := second.hid
	origHid := rec.hid
	ev := te.newEvent(EventType_Split)
	ev.Hid = &newHid
	ev.OrigHid = &origHid
	ev.Hids = []card.Hid{first.hid, second.hid}
	te.emit(ev)

	// each split hand takes one card of the pair, then draws its second card
	pair := rec.hand.Cards()
	for i, h := range []*handRecord{first, second} {
		h.hand.Hit(pair[i])
		hard, soft := h.hand.Values()
		te.emitDeal(h.hid, pair[i], hard, soft)

		if err := te.deal(h); err != nil {
			te.abortRound(err)
			return
		}
	}

	te.advance()
}

func (te *tableEngine) dealerShouldHit(h *card.Hand) bool {
	v := h.Value()
	if v < DealerStandValue {
		return true
	}
	return v == DealerStandValue && h.IsSoft() && te.table.Meta.DealerHitsSoft17
}

// finishRound plays the dealer hand, settles every hand and ends the round.
func (te *tableEngine) finishRound() {
	r := te.round
	dealer := r.dealerHand()

	// dealer only draws while some player hand is still live
	te.table.State.Status = TableStateStatus_TableDealerTurn
	if r.hasUnsettledPlayerHands() {
		for te.dealerShouldHit(dealer.hand) {
			if err := te.deal(dealer); err != nil {
				te.abortRound(err)
				return
			}
		}

		if dealer.hand.IsBust() {
			te.emitHandEvent(EventType_Bust, dealer.hid)
		}
	}

	te.table.State.Status = TableStateStatus_TableSettlement
	te.settleRound()
	te.endRound()
}

func (te *tableEngine) settleHand(rec *handRecord, outcome Outcome, amt float64) {
	if err := rec.settle(outcome, amt); err != nil {
		te.logger.WithField("hid", rec.hid.String()).WithError(err).Error("settlement rejected")
		return
	}

	te.emitHandEvent(outcomeEvents[outcome], rec.hid)
}

var outcomeEvents = map[Outcome]EventType{
	Outcome_Win:       EventType_Win,
	Outcome_Lose:      EventType_Lose,
	Outcome_Push:      EventType_Push,
	Outcome_Blackjack: EventType_Blackjack,
	Outcome_Charlie:   EventType_Charlie,
	Outcome_Bust:      EventType_Bust,
}

// settleRound compares live hands against the dealer, pays bankrolls and
// reports the house result on the dealer hand.
func (te *tableEngine) settleRound() {
	r := te.round
	dealer := r.dealerHand()
	dealerValue := dealer.hand.Value()

	for _, rec := range r.playerHands() {
		if rec.settled {
			continue
		}

		value := rec.hand.Value()
		switch {
		case dealer.hand.IsBust(), value > dealerValue:
			te.settleHand(rec, Outcome_Win, rec.hid.Bet)
		case value < dealerValue:
			te.settleHand(rec, Outcome_Lose, -rec.hid.Bet)
		default:
			te.settleHand(rec, Outcome_Push, 0)
		}
	}

	house := 0.0
	results := make(map[string][]*handRecord)
	for _, rec := range r.playerHands() {
		house -= rec.hid.Amt + rec.hid.SideAmt
		results[rec.playerID] = append(results[rec.playerID], rec)
	}

	for playerID, hands := range results {
		player := te.table.FindPlayer(playerID)
		if player == nil {
			continue
		}
		for _, rec := range hands {
			player.Bankroll += rec.hid.Amt + rec.hid.SideAmt
		}
		te.updateGameStatistics(player, hands)
		_ = te.sm.UpdatePlayerHasChips(playerID, player.Bankroll >= te.table.Meta.MinBet)
	}

	outcome := Outcome_Push
	if house > 0 {
		outcome = Outcome_Win
	} else if house < 0 {
		outcome = Outcome_Lose
	}
	te.settleHand(dealer, outcome, house)

	te.logger.WithFields(logrus.Fields{
		"round": r.id,
		"house": house,
	}).Info("round settled")
}

func (te *tableEngine) endRound() {
	te.table.State.Status = TableStateStatus_TableEnding
	te.table.State.CurrentHid = nil
	te.turnTB.Cancel()

	te.emit(te.newEvent(EventType_Ending))

	if te.shoe.ShuffleNeeded() {
		te.reshuffle()
	}

	te.releaseDepartedPlayers()
	te.openBetting()
}

// abortRound voids the round, bankrolls are left untouched.
func (te *tableEngine) abortRound(err error) {
	if errors.Is(err, card.ErrEmptyShoe) {
		err = ErrTableEmptyShoe
	}

	te.logger.WithField("round", te.table.State.GameCount).WithError(err).Error("round aborted")
	te.table.State.CurrentHid = nil
	te.turnTB.Cancel()

	ev := te.newEvent(EventType_Abort)
	ev.Reason = err.Error()
	te.emit(ev)

	te.table.State.Status = TableStateStatus_TableEnding
	ending := te.newEvent(EventType_Ending)
	ending.Reason = err.Error()
	te.emit(ending)

	te.reshuffle()
	te.releaseDepartedPlayers()
	te.openBetting()
}

func (te *tableEngine) reshuffle() {
	te.table.State.Status = TableStateStatus_TableShuffling
	if te.round == nil || !te.round.shuffling {
		te.emit(te.newEvent(EventType_Shuffling))
	}

	te.shoe.Shuffle()
	te.table.State.ShoeSize = te.shoe.Size()
	te.logger.WithField("shoe_size", te.shoe.Size()).Info("shoe reshuffled")
}

func (te *tableEngine) releaseDepartedPlayers() {
	departed := make([]string, 0)
	for _, player := range te.table.State.PlayerStates {
		if !player.IsIn {
			departed = append(departed, player.PlayerID)
		}
	}

	for _, playerID := range departed {
		te.removePlayer(playerID)
	}
}
