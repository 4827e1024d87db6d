package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable/actor"
	"github.com/weedbox/blackjacktable/advisor"
	"github.com/weedbox/blackjacktable/card"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "table server base url")
	name := flag.String("name", "bot", "player name")
	password := flag.String("password", "", "table password")
	bet := flag.Float64("bet", 10, "main bet per round")
	side := flag.Float64("side", 0, "super 7 side bet per round")
	rounds := flag.Int("rounds", 0, "rounds to play, 0 plays until broke")
	humanized := flag.Bool("humanized", false, "think before acting")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *server, *name, *password, *bet, *side, *rounds, *humanized); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server, name, password string, bet, side float64, rounds int, humanized bool) error {
	authCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ticket, err := actor.Authenticate(authCtx, server, name, password)
	if err != nil {
		return err
	}

	options := actor.NewBotOptions()
	options.Bet = bet
	options.SideBet = side
	options.MaxRounds = rounds

	bot := actor.NewBotRunner(advisor.NewBasicStrategy(), options)
	bot.Humanized(humanized)

	view := newTableView(ticket.PlayerID)
	bot.OnEvent(view.render)
	bot.OnAction(func(hid card.Hid, play advisor.Play) {
		pterm.Info.Printfln("%s plays %s", hid, play)
	})
	bot.OnError(func(err error) {
		pterm.Warning.Println(err)
	})

	c, err := actor.Dial(authCtx, actor.WebsocketURL(server), bot)
	if err != nil {
		return err
	}
	defer c.Close()
	bot.SetCommander(c)

	ack, err := c.Arrive(authCtx, ticket.Ticket)
	if err != nil {
		return err
	}
	bot.SetSeat(ack.Seat, ack.Bankroll)

	pterm.Success.Printfln("%s seated at %d with %.2f", name, ack.Seat, ack.Bankroll)

	select {
	case <-bot.Finished():
	case <-c.Done():
		pterm.Warning.Println("connection lost")
	case <-ctx.Done():
	}

	pterm.DefaultSection.Println("Summary")
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Player", "Rounds", "Bankroll"},
		{name, pterm.Sprint(bot.Rounds()), pterm.Sprintf("%.2f", bot.Bankroll())},
	}).Render()
}
