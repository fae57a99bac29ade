package models

import "gorm.io/gorm"

// Position is a user's holding in a single symbol. Quantity is always
// positive; a position whose quantity reaches zero is deleted, never kept
// around as an empty row.
type Position struct {
	gorm.Model
	UserID      uint    `gorm:"index;uniqueIndex:idx_user_symbol" json:"-"`
	Symbol      string  `gorm:"uniqueIndex:idx_user_symbol;not null" json:"symbol"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
	AvgBuyPrice float64 `gorm:"not null" json:"avg_buy_price"`
}
