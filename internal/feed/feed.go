// Package feed simulates the live-price service: every refresh it jitters
// each symbol's price within ±1% of its base price, the way the production
// feed would tick. Quotes are transient; nothing here writes to the
// portfolio store.
package feed

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

// DefaultInterval matches the dashboard's 5-second price poll.
const DefaultInterval = 5 * time.Second

// Feed holds the latest mock quote per symbol and refreshes them on a fixed
// interval. It implements model.QuoteSource.
type Feed struct {
	symbols  []string
	base     func(symbol string) decimal.Decimal
	interval time.Duration

	// OnQuote, when set, is invoked for every refreshed quote. Used by the
	// server to fan quotes out over the event bus. Fire-and-forget.
	OnQuote func(q model.Quote)

	mu     sync.RWMutex
	quotes map[string]model.Quote
	rnd    *rand.Rand
}

// New creates a feed over the given symbols. base supplies the per-symbol
// reference price the jitter oscillates around.
func New(symbols []string, base func(string) decimal.Decimal) *Feed {
	return &Feed{
		symbols:  symbols,
		base:     base,
		interval: DefaultInterval,
		quotes:   make(map[string]model.Quote, len(symbols)),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetInterval overrides the refresh interval. Call before Run.
func (f *Feed) SetInterval(d time.Duration) {
	if d > 0 {
		f.interval = d
	}
}

// Quote returns the latest quote for symbol, if one has been generated.
func (f *Feed) Quote(symbol string) (model.Quote, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	q, ok := f.quotes[symbol]
	return q, ok
}

// RefreshAll regenerates every symbol's quote and returns the new set.
func (f *Feed) RefreshAll(now time.Time) []model.Quote {
	f.mu.Lock()
	refreshed := make([]model.Quote, 0, len(f.symbols))
	for _, sym := range f.symbols {
		q := f.jitter(sym, now)
		f.quotes[sym] = q
		refreshed = append(refreshed, q)
	}
	f.mu.Unlock()

	if f.OnQuote != nil {
		for _, q := range refreshed {
			f.OnQuote(q)
		}
	}
	return refreshed
}

// jitter produces a price within ±1% of the symbol's base price.
// Caller holds f.mu.
func (f *Feed) jitter(symbol string, now time.Time) model.Quote {
	base := f.base(symbol)
	variation := (f.rnd.Float64() - 0.5) * 0.02
	price := base.Mul(decimal.NewFromFloat(1 + variation)).Round(2)
	return model.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        price.Sub(base),
		ChangePercent: decimal.NewFromFloat(variation * 100).Round(4),
		Timestamp:     now,
	}
}

// Run refreshes quotes every interval until ctx is cancelled. The loop is
// fire-and-forget: it is deliberately not synchronized with portfolio
// mutations.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.RefreshAll(time.Now())
	log.Printf("[feed] polling %d symbols every %v", len(f.symbols), f.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			f.RefreshAll(t)
		}
	}
}
