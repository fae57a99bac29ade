package market

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"novatrade/internal/config"

	"go.uber.org/zap"
)

// priceFloor is the lowest price the walk can reach. Clamping here keeps the
// multiplicative walk from ever producing a non-positive price.
const priceFloor = 0.01

// wickDivisor scales the random wick noise relative to the walk volatility:
// at the default tick volatility of 0.0015 the wick extends up to
// 0.0005 x prevClose beyond the candle body.
const wickDivisor = 3

// Simulator owns all instrument state and advances it one tick at a time
// with a bounded random walk. It is a single-writer store: the engine
// goroutine calls Tick and ApplyPrice, everyone else reads deep-copied
// snapshots.
type Simulator struct {
	mu     sync.RWMutex
	logger *zap.Logger
	rng    *rand.Rand

	historyLimit   int
	seedLength     int
	tickVolatility float64
	seedVolatility float64

	instruments []*Instrument
	index       map[string]*Instrument
}

// NewSimulator seeds an instrument per listing with a warm-up history so
// charts are non-trivial at first render. A fixed rngSeed makes the whole
// price series reproducible, which the tests rely on.
func NewSimulator(logger *zap.Logger, cfg config.Market, listings []Listing, rngSeed int64) *Simulator {
	s := &Simulator{
		logger:         logger,
		rng:            rand.New(rand.NewSource(rngSeed)),
		historyLimit:   cfg.HistoryLimit,
		seedLength:     cfg.SeedLength,
		tickVolatility: cfg.TickVolatility,
		seedVolatility: cfg.SeedVolatility,
		index:          make(map[string]*Instrument, len(listings)),
	}

	start := time.Now().Add(-time.Duration(cfg.SeedLength) * time.Second)
	for _, l := range listings {
		in := s.seedInstrument(l, start)
		s.instruments = append(s.instruments, in)
		s.index[in.Symbol] = in
	}

	logger.Info("Market seeded",
		zap.Int("instruments", len(s.instruments)),
		zap.Int("seed_length", cfg.SeedLength))
	return s
}

// seedInstrument generates the warm-up history for one listing. The walk
// starts slightly below the nominal price and uses the larger seed-phase
// volatility.
func (s *Simulator) seedInstrument(l Listing, start time.Time) *Instrument {
	in := &Instrument{
		Symbol: l.Symbol,
		Name:   l.Name,
		Sector: l.Sector,
	}

	price := l.Price * 0.95
	for i := 0; i < s.seedLength; i++ {
		c := s.walk(price, s.seedVolatility, start.Add(time.Duration(i)*time.Second))
		in.History = append(in.History, c)
		price = c.Close
	}

	in.Price = in.History[len(in.History)-1].Close
	in.rebase()
	return in
}

// walk produces the next candle of a price series: a uniform percentage move
// around prevClose plus non-negative wick noise on both sides, so the
// high/low invariant holds by construction.
func (s *Simulator) walk(prevClose, volatility float64, now time.Time) Candle {
	changePercent := (s.rng.Float64() * volatility * 2) - volatility
	newClose := math.Max(priceFloor, prevClose*(1+changePercent))

	open := prevClose
	wick := volatility / wickDivisor
	high := math.Max(open, newClose) + s.rng.Float64()*prevClose*wick
	low := math.Min(open, newClose) - s.rng.Float64()*prevClose*wick

	return Candle{Time: now, Open: open, High: high, Low: low, Close: newClose}
}

// Tick advances every instrument by one candle and trims history to the
// configured window. The caller is responsible for gating on the session
// clock; Tick itself always simulates.
func (s *Simulator) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, in := range s.instruments {
		c := s.walk(in.Price, s.tickVolatility, now)
		s.append(in, c)
	}
}

// append adds one candle, evicts the oldest beyond the window and recomputes
// the change fields against the new oldest point.
func (s *Simulator) append(in *Instrument, c Candle) {
	in.History = append(in.History, c)
	if len(in.History) > s.historyLimit {
		in.History = in.History[1:]
	}
	in.Price = c.Close
	in.rebase()
}

// ApplyPrice overrides an instrument's price with an externally sourced
// quote, appended as a flat candle so chart continuity is preserved. Used by
// the oracle overlay and by admin price edits. Returns false for unknown
// symbols.
func (s *Simulator) ApplyPrice(symbol string, price float64, now time.Time) bool {
	if price <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.index[symbol]
	if !ok {
		return false
	}
	s.append(in, Candle{Time: now, Open: price, High: price, Low: price, Close: price})
	return true
}

// Quotes returns the latest close per symbol. The map is a fresh copy.
func (s *Simulator) Quotes() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quotes := make(map[string]float64, len(s.instruments))
	for _, in := range s.instruments {
		quotes[in.Symbol] = in.Price
	}
	return quotes
}

// Quote returns the latest close for one symbol.
func (s *Simulator) Quote(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.index[symbol]
	if !ok {
		return 0, false
	}
	return in.Price, true
}

// Snapshot returns deep copies of every instrument in catalog order.
func (s *Simulator) Snapshot() []Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Instrument, 0, len(s.instruments))
	for _, in := range s.instruments {
		out = append(out, in.clone())
	}
	return out
}

// Symbols returns every known symbol in catalog order.
func (s *Simulator) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.instruments))
	for _, in := range s.instruments {
		out = append(out, in.Symbol)
	}
	return out
}
