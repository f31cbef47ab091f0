package models

import "errors"

// Error taxonomy for the ledger engine. Callers classify failures with
// errors.Is; the wrapping sites attach game/date/field context via %w.
var (
	// ErrInvalidInput covers malformed ticket counts, negative amounts and
	// empty required strings.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDateRange is returned when an entry date falls outside any
	// week of its game, or week date ranges would overlap.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrGameClosed is returned for any mutation against a completed game.
	ErrGameClosed = errors.New("game is closed")

	// ErrInvalidJackpotAmount is returned when a distribution is requested
	// for a non-positive jackpot.
	ErrInvalidJackpotAmount = errors.New("invalid jackpot amount")

	// ErrMissingWinnerInfo is returned when a winner is recorded without a name.
	ErrMissingWinnerInfo = errors.New("missing winner info")

	// ErrDuplicateGameNumber is returned when a game number is reused within
	// an organization.
	ErrDuplicateGameNumber = errors.New("duplicate game number")

	// ErrConsistencyViolation means stored aggregates could not be reconciled
	// from source rows. Always surfaced, never patched over.
	ErrConsistencyViolation = errors.New("consistency violation")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)
