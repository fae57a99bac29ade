package market

import "time"

// Candle is one OHLC point in an instrument's price history. Candles are
// immutable once appended; the wick invariant High >= max(Open, Close) and
// Low <= min(Open, Close) holds for every candle the simulator produces.
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Instrument is a tradable symbol with its simulated price series. History is
// a bounded window: once it reaches the configured limit the oldest candle is
// evicted on every append. PercentChange and ChangeAmount are computed
// against the oldest retained candle, so the baseline slides with the window.
type Instrument struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Price         float64  `json:"price"`
	PercentChange float64  `json:"percent_change"`
	ChangeAmount  float64  `json:"change_amount"`
	History       []Candle `json:"history"`
}

// clone returns a deep copy safe to hand outside the simulator.
func (in *Instrument) clone() Instrument {
	out := *in
	out.History = make([]Candle, len(in.History))
	copy(out.History, in.History)
	return out
}

// rebase recomputes the change fields against the oldest retained candle.
func (in *Instrument) rebase() {
	if len(in.History) == 0 {
		return
	}
	base := in.History[0].Close
	in.ChangeAmount = in.Price - base
	in.PercentChange = (in.Price - base) / base * 100
}
