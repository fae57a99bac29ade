package models

import "gorm.io/gorm"

// Trade kinds. SL/TP trigger trades are sells executed automatically by the
// order evaluator rather than requested by the user.
const (
	TradeBuy       = "BUY"
	TradeSell      = "SELL"
	TradeSLTrigger = "SL_TRIGGER"
	TradeTPTrigger = "TP_TRIGGER"
)

// Trade is an immutable ledger entry for one fill. RealizedPL is set only on
// closing trades (SELL, SL_TRIGGER, TP_TRIGGER) and is nil on buys.
type Trade struct {
	gorm.Model
	TradeID    string   `gorm:"uniqueIndex;not null" json:"trade_id"`
	UserID     uint     `gorm:"index" json:"-"`
	Symbol     string   `gorm:"not null" json:"symbol"`
	Kind       string   `gorm:"not null" json:"kind"`
	Quantity   int64    `gorm:"not null" json:"quantity"`
	Price      float64  `gorm:"not null" json:"price"`
	TotalValue float64  `gorm:"not null" json:"total_value"`
	RealizedPL *float64 `json:"realized_pl,omitempty"`
	Timestamp  int64    `gorm:"index" json:"timestamp"`
}

// Closing reports whether the trade reduced a position.
func (t *Trade) Closing() bool {
	return t.Kind != TradeBuy
}
