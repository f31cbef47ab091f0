package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigurationIsValid(t *testing.T) {
	cfg := DefaultConfiguration("org")

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.PercentagesSumTo100())
	assert.Equal(t, "Queen of Hearts", cfg.JackpotCard())
}

func TestValidateRequiresExactlyOneJackpotCard(t *testing.T) {
	cfg := DefaultConfiguration("org")
	cfg.CardPayouts["Joker"] = CardPayout{IsJackpot: true}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)

	cfg = DefaultConfiguration("org")
	cfg.CardPayouts["Queen of Hearts"] = CardPayout{Amount: 500}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
}

func TestValidateFieldRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"missing org", func(c *Configuration) { c.OrganizationID = "" }},
		{"zero ticket price", func(c *Configuration) { c.TicketPrice = 0 }},
		{"negative minimum", func(c *Configuration) { c.MinimumStartingJackpot = -1 }},
		{"penalty over 100", func(c *Configuration) { c.PenaltyPercentage = 101 }},
		{"org pct over 100", func(c *Configuration) { c.OrganizationPercentage = 150 }},
		{"negative card payout", func(c *Configuration) { c.CardPayouts["Joker"] = CardPayout{Amount: -5} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfiguration("org")
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
		})
	}
}

func TestGameLookupCardPayoutFallsBackToOther(t *testing.T) {
	game := NewGameFromConfiguration(DefaultConfiguration("org"), 1, DateOnly(mustDay("2026-01-05")))

	payout, ok := game.LookupCardPayout("Queen of Diamonds")
	require.True(t, ok)
	assert.Equal(t, 50.0, payout.Amount)

	payout, ok = game.LookupCardPayout("Seven of Clubs")
	require.True(t, ok)
	assert.Equal(t, 25.0, payout.Amount)

	delete(game.CardPayouts, "Other")
	_, ok = game.LookupCardPayout("Seven of Clubs")
	assert.False(t, ok)
}
