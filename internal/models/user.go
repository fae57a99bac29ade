package models

import "gorm.io/gorm"

// User roles and account statuses.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	StatusActive  = "ACTIVE"
	StatusPending = "PENDING"
	StatusBanned  = "BANNED"
)

// User is the aggregate root for a trading account. Balance, positions,
// active orders and trade history always change together: one trading action
// produces exactly one saved snapshot of all of them.
type User struct {
	gorm.Model
	Username string   `gorm:"uniqueIndex;not null" json:"username"`
	Email    string   `json:"email"`
	Balance  float64  `gorm:"not null" json:"balance"`
	Role     string   `gorm:"default:USER" json:"role"`
	Status   string   `gorm:"default:ACTIVE" json:"status"`
	Wishlist []string `gorm:"serializer:json" json:"wishlist"`

	Positions []Position `gorm:"constraint:OnDelete:CASCADE" json:"positions"`
	Orders    []Order    `gorm:"constraint:OnDelete:CASCADE" json:"orders"`
	Trades    []Trade    `gorm:"constraint:OnDelete:CASCADE" json:"trades"`
}

// IsAdmin reports whether the user may perform privileged operations,
// including trading while the market session is closed.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Position returns the user's position in symbol, or nil if none is held.
func (u *User) Position(symbol string) *Position {
	for i := range u.Positions {
		if u.Positions[i].Symbol == symbol {
			return &u.Positions[i]
		}
	}
	return nil
}
