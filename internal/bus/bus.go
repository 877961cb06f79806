// Package bus broadcasts portfolio and price events. The server publishes
// over Redis PubSub so the gateway (and any other listener) can fan changes
// out to dashboards; the CLI and tests use the in-process Local bus.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	goredis "github.com/go-redis/redis/v8"

	"papertradev1/internal/model"
)

// ChannelPortfolioUpdated carries portfolio change notifications.
const ChannelPortfolioUpdated = "pub:portfolio:updated"

// PriceChannel returns the PubSub channel for a symbol's quotes,
// e.g. "pub:price:RELIANCE".
func PriceChannel(symbol string) string {
	return "pub:price:" + symbol
}

// Redis publishes events over Redis PubSub. Implements model.EventBus.
type Redis struct {
	rdb *goredis.Client
}

// NewRedis creates a Redis-backed event bus.
func NewRedis(rdb *goredis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Publish broadcasts a portfolio event. Delivery is best-effort: PubSub has
// no persistence, listeners that are down simply miss the event.
func (b *Redis) Publish(ctx context.Context, ev model.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, ChannelPortfolioUpdated, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelPortfolioUpdated, err)
	}
	return nil
}

// PublishQuote broadcasts a refreshed quote on its symbol channel.
func (b *Redis) PublishQuote(ctx context.Context, q model.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	channel := PriceChannel(q.Symbol)
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// Local is an in-process bus for the CLI and tests. Implements
// model.EventBus.
type Local struct {
	mu   sync.RWMutex
	subs []func(channel string, payload []byte)
}

// NewLocal creates an in-process bus.
func NewLocal() *Local {
	return &Local{}
}

// Subscribe registers a handler for every published message. Handlers run
// synchronously on the publisher's goroutine.
func (b *Local) Subscribe(fn func(channel string, payload []byte)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

func (b *Local) deliver(channel string, payload []byte) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(channel, payload)
	}
}

// Publish delivers a portfolio event to all local subscribers.
func (b *Local) Publish(_ context.Context, ev model.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	b.deliver(ChannelPortfolioUpdated, payload)
	return nil
}

// PublishQuote delivers a quote to all local subscribers.
func (b *Local) PublishQuote(_ context.Context, q model.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	b.deliver(PriceChannel(q.Symbol), payload)
	return nil
}

// Nop discards all events. Used when no broadcast target is wired.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(context.Context, model.Event) error { return nil }
