package models

import "gorm.io/gorm"

// Conditional order kinds.
const (
	OrderStopLoss   = "STOP_LOSS"
	OrderTakeProfit = "TAKE_PROFIT"
)

// Order is a resting conditional instruction: sell Quantity of Symbol once
// the price crosses TriggerPrice. Orders are never edited in place; changing
// one means cancelling it and placing a new one.
type Order struct {
	gorm.Model
	OrderID      string  `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID       uint    `gorm:"index" json:"-"`
	Symbol       string  `gorm:"not null" json:"symbol"`
	Kind         string  `gorm:"not null" json:"kind"`
	TriggerPrice float64 `gorm:"not null" json:"trigger_price"`
	Quantity     int64   `gorm:"not null" json:"quantity"`
}

// Triggered reports whether price satisfies the order's condition.
func (o *Order) Triggered(price float64) bool {
	switch o.Kind {
	case OrderStopLoss:
		return price <= o.TriggerPrice
	case OrderTakeProfit:
		return price >= o.TriggerPrice
	}
	return false
}
