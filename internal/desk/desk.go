// Package desk is the paper trading desk service: it orchestrates the
// strategy catalog, the accounting core, persistence, and event broadcast.
// All portfolio writes go through here under a single mutex, following
// read-modify-write against the repository.
package desk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"papertradev1/internal/catalog"
	"papertradev1/internal/metrics"
	"papertradev1/internal/model"
	"papertradev1/internal/portfolio"
)

var (
	// ErrStrategyNotFound is returned when a strategy ID is not in the catalog.
	ErrStrategyNotFound = errors.New("strategy not found")

	// ErrPositionNotFound is returned when a position ID is not in the portfolio.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPositionClosed is returned when closing an already closed position.
	// The active to closed transition is one-way.
	ErrPositionClosed = errors.New("position already closed")

	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidAmount is returned for zero or negative capital amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// ExecutionAck confirms a simulated order. There is no real broker behind
// it; the fill is immediate and always succeeds.
type ExecutionAck struct {
	OrderID    string          `json:"orderId"`
	Status     string          `json:"status"`
	Position   model.Position  `json:"position"`
	FillPrice  decimal.Decimal `json:"fillPrice"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// Service is the desk orchestrator. Safe for concurrent use.
type Service struct {
	mu sync.Mutex

	repo        model.PortfolioRepository
	bus         model.EventBus
	catalog     *catalog.Catalog
	quotes      model.QuoteSource // optional; nil means no live marks
	baseDefault decimal.Decimal
	metrics     *metrics.Metrics // optional

	now func() time.Time
}

// New creates a desk service. quotes and m may be nil.
func New(repo model.PortfolioRepository, eventBus model.EventBus, cat *catalog.Catalog, quotes model.QuoteSource, defaultCapital decimal.Decimal, m *metrics.Metrics) *Service {
	return &Service{
		repo:        repo,
		bus:         eventBus,
		catalog:     cat,
		quotes:      quotes,
		baseDefault: defaultCapital,
		metrics:     m,
		now:         time.Now,
	}
}

// ── Catalog passthrough ──

// Segments returns the selectable trading segments.
func (s *Service) Segments() []model.SegmentInfo {
	return s.catalog.Segments()
}

// Strategies returns the catalog entries for a segment with live quote
// marks merged in.
func (s *Service) Strategies(seg model.Segment) []model.Strategy {
	list := s.catalog.Strategies(seg)
	out := make([]model.Strategy, len(list))
	copy(out, list)
	for i := range out {
		if q, ok := s.quote(out[i].Symbol); ok {
			out[i].CurrentPrice = q.Price
		}
	}
	return out
}

// Strategy looks a strategy up by ID with the live quote mark merged in.
func (s *Service) Strategy(id string) (model.Strategy, error) {
	st, ok := s.catalog.Strategy(id)
	if !ok {
		return model.Strategy{}, fmt.Errorf("%w: %s", ErrStrategyNotFound, id)
	}
	if q, ok := s.quote(st.Symbol); ok {
		st.CurrentPrice = q.Price
	}
	return st, nil
}

// MarketOverview returns the dashboard's index snapshot.
func (s *Service) MarketOverview() model.MarketOverview {
	return s.catalog.MarketOverview()
}

// RiskAnalysis returns the mock risk report for a strategy.
func (s *Service) RiskAnalysis(id string) (model.RiskAnalysis, error) {
	if _, ok := s.catalog.Strategy(id); !ok {
		return model.RiskAnalysis{}, fmt.Errorf("%w: %s", ErrStrategyNotFound, id)
	}
	return s.catalog.RiskAnalysis(id), nil
}

func (s *Service) quote(symbol string) (model.Quote, bool) {
	if s.quotes == nil || symbol == "" {
		return model.Quote{}, false
	}
	return s.quotes.Quote(symbol)
}

// ── Portfolio reads ──

// Positions returns the full position collection with live marks merged
// into active positions. Marks are transient and never written back.
func (s *Service) Positions() ([]model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	positions, err := s.repo.LoadPositions()
	if err != nil {
		return nil, err
	}
	s.markPositions(positions)
	return positions, nil
}

// Summary recomputes the capital ledger over the marked portfolio.
func (s *Service) Summary() (portfolio.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Service) summaryLocked() (portfolio.Summary, error) {
	start := time.Now()

	base, err := s.repo.LoadCapital(s.baseDefault)
	if err != nil {
		return portfolio.Summary{}, err
	}
	positions, err := s.repo.LoadPositions()
	if err != nil {
		return portfolio.Summary{}, err
	}
	s.markPositions(positions)
	sum := portfolio.Recompute(base, positions)

	if s.metrics != nil {
		s.metrics.SummaryComputeDur.Observe(time.Since(start).Seconds())
		s.metrics.CapitalBase.Set(sum.BaseCapital.InexactFloat64())
		s.metrics.CapitalAvailable.Set(sum.AvailableCapital.InexactFloat64())
		s.metrics.CapitalAllocated.Set(sum.AllocatedCapital.InexactFloat64())
		s.metrics.OpenPositions.Set(float64(sum.OpenPositions))
	}
	return sum, nil
}

// markPositions overlays the latest quotes onto active positions and their
// legs. Closed positions keep their frozen prices.
func (s *Service) markPositions(positions []model.Position) {
	if s.quotes == nil {
		return
	}
	for i := range positions {
		p := &positions[i]
		if !p.IsActive() {
			continue
		}
		if q, ok := s.quote(p.Symbol); ok {
			p.CurrentPrice = q.Price
		}
		for j := range p.Legs {
			if q, ok := s.quote(p.Legs[j].Symbol); ok {
				p.Legs[j].CurrentPrice = q.Price
			}
		}
	}
}

// ── Portfolio writes ──

// Suggest runs the position sizing advisor for a strategy against the
// current available capital.
func (s *Service) Suggest(strategyID string) (portfolio.SizeAdvice, error) {
	st, err := s.Strategy(strategyID)
	if err != nil {
		return portfolio.SizeAdvice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sum, err := s.summaryLocked()
	if err != nil {
		return portfolio.SizeAdvice{}, err
	}
	return portfolio.SuggestQuantity(sum.AvailableCapital, st.PerUnitCost(), st.RiskLevel), nil
}

// Add opens a paper position for a catalog strategy. The fill is simulated:
// the entry is the strategy's entry basis (live mark for equity) and the
// allocated capital is per-unit cost times quantity, frozen at add time.
// Oversubscription is allowed; a negative available balance only logs.
func (s *Service) Add(ctx context.Context, strategyID string, quantity int64) (ExecutionAck, error) {
	if quantity <= 0 {
		return ExecutionAck{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	st, err := s.Strategy(strategyID)
	if err != nil {
		return ExecutionAck{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	positions, err := s.repo.LoadPositions()
	if err != nil {
		return ExecutionAck{}, err
	}

	now := s.now()
	qty := decimal.NewFromInt(quantity)
	entry := st.EntryBasis()

	pos := model.Position{
		ID:                   fmt.Sprintf("%s_%d", st.ID, now.UnixMilli()),
		Symbol:               st.Symbol,
		Name:                 st.Name,
		StrategyName:         st.StrategyName,
		Segment:              st.Segment,
		Status:               model.StatusActive,
		Quantity:             quantity,
		RiskLevel:            st.RiskLevel,
		Confidence:           st.Confidence,
		Reasoning:            st.Reasoning,
		EntryPrice:           entry,
		CurrentPrice:         st.CurrentPrice,
		TotalCapitalRequired: st.PerUnitCost().Mul(qty),
		Legs:                 cloneLegs(st.Legs),
		AddedAt:              now,
	}

	positions = append(positions, pos)
	if err := s.repo.SavePositions(positions); err != nil {
		return ExecutionAck{}, err
	}
	if s.metrics != nil {
		s.metrics.PositionsOpened.Inc()
	}

	if sum, err := s.summaryLocked(); err == nil && sum.AvailableCapital.IsNegative() {
		log.Printf("[desk] portfolio oversubscribed: available capital %s after adding %s",
			sum.AvailableCapital, pos.ID)
	}
	s.publish(ctx)

	return ExecutionAck{
		OrderID:    pos.ID,
		Status:     "filled",
		Position:   pos,
		FillPrice:  entry,
		ExecutedAt: now,
	}, nil
}

func cloneLegs(legs []model.Leg) []model.Leg {
	if len(legs) == 0 {
		return nil
	}
	out := make([]model.Leg, len(legs))
	copy(out, legs)
	return out
}

// Close books a position. The exit price is frozen from the latest mark at
// close time, for the position and each leg, so booked P&L never moves again.
func (s *Service) Close(ctx context.Context, positionID string) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions, err := s.repo.LoadPositions()
	if err != nil {
		return model.Position{}, err
	}

	idx := -1
	for i := range positions {
		if positions[i].ID == positionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Position{}, fmt.Errorf("%w: %s", ErrPositionNotFound, positionID)
	}

	p := &positions[idx]
	if !p.IsActive() {
		return model.Position{}, fmt.Errorf("%w: %s", ErrPositionClosed, positionID)
	}

	if q, ok := s.quote(p.Symbol); ok {
		p.CurrentPrice = q.Price
	}
	p.Status = model.StatusClosed
	p.ClosedAt = s.now()
	p.ExitPrice = p.EffectiveCurrentPrice()
	for j := range p.Legs {
		l := &p.Legs[j]
		if q, ok := s.quote(l.Symbol); ok {
			l.CurrentPrice = q.Price
		}
		l.ExitPrice = l.EffectiveCurrentPrice()
	}

	if err := s.repo.SavePositions(positions); err != nil {
		return model.Position{}, err
	}
	if s.metrics != nil {
		s.metrics.PositionsClosed.Inc()
	}
	s.publish(ctx)
	return *p, nil
}

// AddCapital increases the base capital and returns the new value.
func (s *Service) AddCapital(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := s.repo.LoadCapital(s.baseDefault)
	if err != nil {
		return decimal.Zero, err
	}
	base = base.Add(amount)
	if err := s.repo.SaveCapital(base); err != nil {
		return decimal.Zero, err
	}
	if s.metrics != nil {
		s.metrics.CapitalTopUps.Inc()
	}
	s.publish(ctx)
	return base, nil
}

// SetCapital replaces the base capital outright.
func (s *Service) SetCapital(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveCapital(amount); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Reset wipes all positions and capital back to defaults.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Reset(); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.PortfolioResets.Inc()
	}
	s.publish(ctx)
	return nil
}

// publish broadcasts a portfolioUpdated event. Best-effort: the write
// already succeeded, a failed broadcast only logs.
func (s *Service) publish(ctx context.Context) {
	ev := model.Event{Type: model.EventPortfolioUpdated, TS: s.now()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		log.Printf("[desk] event publish failed: %v", err)
	}
}
