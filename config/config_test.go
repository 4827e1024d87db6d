package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/blackjacktable/card"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BLACKJACK_TICKET_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5.0, cfg.MinBet)
	assert.Equal(t, 7, cfg.MaxSeats)
	assert.Equal(t, 30*time.Second, cfg.TurnTimeout)
	assert.Equal(t, "blackjack", cfg.NatsSubject)
	assert.Empty(t, cfg.NatsURL)

	meta := cfg.TableMeta()
	assert.Equal(t, 1.5, meta.BlackjackPayout)
	assert.Equal(t, 1, meta.TableMinPlayerCount)
	assert.False(t, meta.DealerHitsSoft17)

	options := cfg.EngineOptions()
	assert.Equal(t, 60, options.BetTimeout)
	assert.Equal(t, 256, options.QueueSize)

	auth := cfg.AuthenticatorOptions()
	assert.Equal(t, []byte("secret"), auth.Secret)
	assert.Equal(t, time.Hour, auth.TTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("BLACKJACK_TICKET_SECRET", "")
	os.Unsetenv("BLACKJACK_TICKET_SECRET")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("BLACKJACK_TICKET_SECRET", "secret")

	t.Setenv("BLACKJACK_MIN_BET", "five")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("BLACKJACK_MIN_BET", "5")
	t.Setenv("BLACKJACK_LOG_LEVEL", "loud")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.env")
	content := "BLACKJACK_TICKET_SECRET=from-file\nBLACKJACK_SHOE=hit\nBLACKJACK_DEALER_HITS_SOFT_17=true\nBLACKJACK_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("BLACKJACK_TICKET_SECRET")
		os.Unsetenv("BLACKJACK_SHOE")
		os.Unsetenv("BLACKJACK_DEALER_HITS_SOFT_17")
		os.Unsetenv("BLACKJACK_LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.TicketSecret)
	assert.True(t, cfg.TableMeta().DealerHitsSoft17)
	assert.Equal(t, "debug", cfg.Level().String())

	shoe, err := cfg.NewShoe()
	require.NoError(t, err)
	assert.IsType(t, &card.FixedShoe{}, shoe)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
