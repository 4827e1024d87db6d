package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/card"
	"github.com/weedbox/blackjacktable/session"
)

type Config struct {
	ListenAddr string `env:"BLACKJACK_LISTEN_ADDR" envDefault:":8080"`
	LogLevel   string `env:"BLACKJACK_LOG_LEVEL" envDefault:"info"`

	// Table
	TableID          string  `env:"BLACKJACK_TABLE_ID"`
	TableName        string  `env:"BLACKJACK_TABLE_NAME" envDefault:"Blackjack"`
	MinBet           float64 `env:"BLACKJACK_MIN_BET" envDefault:"5"`
	MaxBet           float64 `env:"BLACKJACK_MAX_BET" envDefault:"0"`
	InitialBankroll  float64 `env:"BLACKJACK_INITIAL_BANKROLL" envDefault:"1000"`
	MinPlayers       int     `env:"BLACKJACK_MIN_PLAYERS" envDefault:"1"`
	MaxSeats         int     `env:"BLACKJACK_MAX_SEATS" envDefault:"7"`
	DealerHitsSoft17 bool    `env:"BLACKJACK_DEALER_HITS_SOFT_17" envDefault:"false"`
	BlackjackPayout  float64 `env:"BLACKJACK_BLACKJACK_PAYOUT" envDefault:"1.5"`
	CharliePayout    float64 `env:"BLACKJACK_CHARLIE_PAYOUT" envDefault:"1"`
	SideBetPayout    float64 `env:"BLACKJACK_SIDE_BET_PAYOUT" envDefault:"3"`

	// Shoe
	Shoe      string  `env:"BLACKJACK_SHOE" envDefault:"standard"`
	Decks     int     `env:"BLACKJACK_DECKS" envDefault:"6"`
	Threshold float64 `env:"BLACKJACK_RESHUFFLE_THRESHOLD" envDefault:"0.25"`
	Seed      int64   `env:"BLACKJACK_SEED" envDefault:"0"` // 0 seeds from the clock

	// Engine
	TurnTimeout time.Duration `env:"BLACKJACK_TURN_TIMEOUT" envDefault:"30s"`
	BetTimeout  time.Duration `env:"BLACKJACK_BET_TIMEOUT" envDefault:"60s"`
	QueueSize   int           `env:"BLACKJACK_QUEUE_SIZE" envDefault:"256"`

	// Session
	TicketSecret  string        `env:"BLACKJACK_TICKET_SECRET,required"`
	TicketTTL     time.Duration `env:"BLACKJACK_TICKET_TTL" envDefault:"1h"`
	TablePassword string        `env:"BLACKJACK_TABLE_PASSWORD"`
	SendQueueSize int           `env:"BLACKJACK_SEND_QUEUE_SIZE" envDefault:"256"`

	// Event mirror, disabled without a url
	NatsURL     string `env:"BLACKJACK_NATS_URL"`
	NatsSubject string `env:"BLACKJACK_NATS_SUBJECT" envDefault:"blackjack"`
}

// Load reads optional .env files, then the environment. Variables already set
// in the environment take precedence over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func (c *Config) TableMeta() blackjacktable.TableMeta {
	return blackjacktable.TableMeta{
		Name:                c.TableName,
		MinBet:              c.MinBet,
		MaxBet:              c.MaxBet,
		TableMinPlayerCount: c.MinPlayers,
		TableMaxSeatCount:   c.MaxSeats,
		InitialBankroll:     c.InitialBankroll,
		BlackjackPayout:     c.BlackjackPayout,
		CharliePayout:       c.CharliePayout,
		SideBetPayout:       c.SideBetPayout,
		DealerHitsSoft17:    c.DealerHitsSoft17,
	}
}

func (c *Config) TableSetting() blackjacktable.TableSetting {
	return blackjacktable.TableSetting{
		TableID: c.TableID,
		Meta:    c.TableMeta(),
	}
}

func (c *Config) EngineOptions() *blackjacktable.TableEngineOptions {
	return &blackjacktable.TableEngineOptions{
		TurnTimeout: c.TurnTimeout,
		BetTimeout:  int(c.BetTimeout / time.Second),
		QueueSize:   c.QueueSize,
	}
}

func (c *Config) AuthenticatorOptions() session.AuthenticatorOptions {
	return session.AuthenticatorOptions{
		Secret:   []byte(c.TicketSecret),
		TTL:      c.TicketTTL,
		Password: c.TablePassword,
	}
}

func (c *Config) ManagerOptions() *session.ManagerOptions {
	options := session.NewManagerOptions()
	if c.SendQueueSize > 0 {
		options.SendQueueSize = c.SendQueueSize
	}
	return options
}

func (c *Config) NewShoe() (card.Shoe, error) {
	return card.NewShoeByName(c.Shoe, c.Decks, c.Threshold, c.Seed)
}
