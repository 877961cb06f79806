package model

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ── Port Interfaces ──
// These interfaces decouple the accounting core and desk service from
// concrete storage and messaging implementations (SQLite, Redis).

// PortfolioRepository persists the authoritative position collection and the
// user's base capital. Writers follow read-modify-write: load the full
// collection, mutate, save the full collection back.
type PortfolioRepository interface {
	// LoadPositions returns the full position collection. Missing or
	// malformed persisted state yields an empty collection, not an error.
	LoadPositions() ([]Position, error)

	// SavePositions replaces the full position collection.
	SavePositions(positions []Position) error

	// LoadCapital returns the persisted base capital, or the provided
	// default when none has been saved yet.
	LoadCapital(fallback decimal.Decimal) (decimal.Decimal, error)

	// SaveCapital persists the base capital value.
	SaveCapital(capital decimal.Decimal) error

	// Reset clears all persisted state (positions and capital).
	Reset() error

	// Close releases underlying resources.
	Close() error
}

// EventPortfolioUpdated fires after every write to the position collection
// or base capital so observers reload.
const EventPortfolioUpdated = "portfolioUpdated"

// Event is a broadcast notification on the desk event bus.
type Event struct {
	Type string    `json:"type"`
	TS   time.Time `json:"ts"`
}

// EventBus broadcasts desk events to observers (WebSocket hub, summary
// views). Publishing is best-effort; a failed publish must not fail the
// write that triggered it.
type EventBus interface {
	Publish(ctx context.Context, ev Event) error
}

// QuoteSource supplies the latest mock price per symbol. Quotes are
// transient: they are merged into positions at read time, never persisted.
type QuoteSource interface {
	// Quote returns the latest quote for symbol, if one exists.
	Quote(symbol string) (Quote, bool)
}
