package trading

import (
	"context"
	"fmt"
	"sync"
	"time"

	"novatrade/internal/config"
	"novatrade/internal/market"
	"novatrade/internal/oracle"
	"novatrade/internal/store"

	"go.uber.org/zap"
)

// Engine drives the simulated market: one goroutine owns the tick loop that
// advances prices, sweeps every user's resting conditional orders against the
// fresh quotes and persists one merged update per user per tick. Manual
// trading actions share the same mutex as the sweep, so no action ever
// observes a half-applied tick.
type Engine struct {
	mu     sync.Mutex
	logger *zap.Logger
	cfg    *config.Config
	sim    *market.Simulator
	clock  *market.Clock
	store  *store.Store
	oracle oracle.PriceSource // nil when the external overlay is disabled

	StartTime time.Time
}

// NewEngine creates the trading engine. src may be nil to run fully offline.
func NewEngine(logger *zap.Logger, cfg *config.Config, sim *market.Simulator, clock *market.Clock, st *store.Store, src oracle.PriceSource) *Engine {
	return &Engine{
		logger:    logger,
		cfg:       cfg,
		sim:       sim,
		clock:     clock,
		store:     st,
		oracle:    src,
		StartTime: time.Now(),
	}
}

// Market returns the read-only market view.
func (e *Engine) Market() *market.Simulator { return e.sim }

// Clock returns the session clock.
func (e *Engine) Clock() *market.Clock { return e.clock }

// Run starts the tick loop and blocks until ctx is cancelled. Cancellation
// takes effect no later than the next scheduled tick; in-flight ticks finish.
func (e *Engine) Run(ctx context.Context) {
	interval := time.Duration(e.cfg.Market.TickInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var syncC <-chan time.Time
	if e.oracle != nil && e.cfg.Oracle.SyncInterval > 0 {
		syncTicker := time.NewTicker(time.Duration(e.cfg.Oracle.SyncInterval) * time.Second)
		defer syncTicker.Stop()
		syncC = syncTicker.C
	}

	e.logger.Info("Starting tick loop", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping trading engine...")
			return
		case now := <-ticker.C:
			e.tick(now)
		case <-syncC:
			// Best-effort overlay; must never stall the tick scheduler.
			go e.SyncPrices(ctx)
		}
	}
}

// tick is one scheduler turn: simulate all instruments, then evaluate all
// orders against exactly those prices, then persist the merged deltas.
// Nothing happens while the session is closed.
func (e *Engine) tick(now time.Time) {
	if !e.clock.IsOpen() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sim.Tick(now)
	quotes := e.sim.Quotes()

	users, err := e.store.GetAllUsers()
	if err != nil {
		e.logger.Error("Skipping order sweep, could not load users", zap.Error(err))
		return
	}

	for i := range users {
		u := &users[i]
		if len(u.Orders) == 0 {
			continue
		}

		results := EvaluateOrders(u, quotes, now)
		if len(results) == 0 {
			continue
		}

		if err := e.store.SaveUser(u); err != nil {
			// In-memory settlement already happened; stay on the current
			// state and surface the persistence failure in the logs.
			e.logger.Error("Failed to persist triggered executions",
				zap.String("username", u.Username), zap.Error(err))
		}

		for _, r := range results {
			e.auditTrigger(u.ID, r)
		}
	}
}

// auditTrigger writes one audit entry per triggered order, executed or stale.
func (e *Engine) auditTrigger(userID uint, r TriggerResult) {
	var action, detail string
	if r.Trade != nil {
		action = r.Trade.Kind
		detail = fmt.Sprintf("Auto execution @ %.2f", r.Trade.Price)
		e.logger.Info("Conditional order executed",
			zap.String("symbol", r.Order.Symbol),
			zap.String("kind", r.Trade.Kind),
			zap.Int64("quantity", r.Trade.Quantity),
			zap.Float64("price", r.Trade.Price))
	} else {
		action = r.Order.Kind
		detail = "Stale order dropped: position no longer covers quantity"
		e.logger.Warn("Stale conditional order dropped",
			zap.String("symbol", r.Order.Symbol),
			zap.String("order_id", r.Order.OrderID))
	}

	if err := e.store.AppendAudit(action, userID, r.Order.Symbol, detail); err != nil {
		e.logger.Error("Failed to write audit entry", zap.Error(err))
	}
}

// SyncPrices runs one best-effort oracle round over the whole catalog and
// applies whatever quotes came back as flat candles. Failures degrade to "no
// update".
func (e *Engine) SyncPrices(ctx context.Context) {
	if e.oracle == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := e.oracle.FetchPrices(ctx, e.sim.Symbols())
	if err != nil {
		e.logger.Warn("Oracle sync degraded to no-op", zap.Error(err))
	}
	if res == nil {
		return
	}

	now := time.Now()
	applied := 0
	for _, q := range res.Quotes {
		if e.sim.ApplyPrice(q.Symbol, q.Price, now) {
			applied++
		}
	}

	if applied > 0 {
		e.logger.Info("Applied oracle prices",
			zap.Int("applied", applied),
			zap.Int("sources", len(res.Sources)))
	}
}
