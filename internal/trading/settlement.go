package trading

import (
	"time"

	"novatrade/internal/models"

	"github.com/google/uuid"
)

// ExecuteBuy fills a buy of qty units at price against the user aggregate:
// balance decreases by the cost, the position's weighted-average cost is
// updated, a BUY trade is appended, and optional stop-loss / take-profit
// orders are created for the bought quantity. On error the user is left
// untouched.
func ExecuteBuy(u *models.User, symbol string, qty int64, price float64, stopLoss, takeProfit *float64, now time.Time) (*models.Trade, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	cost := price * float64(qty)
	if u.Balance < cost {
		return nil, ErrInsufficientFunds
	}

	if pos := u.Position(symbol); pos != nil {
		total := float64(pos.Quantity)*pos.AvgBuyPrice + cost
		pos.Quantity += qty
		pos.AvgBuyPrice = total / float64(pos.Quantity)
	} else {
		u.Positions = append(u.Positions, models.Position{
			UserID:      u.ID,
			Symbol:      symbol,
			Quantity:    qty,
			AvgBuyPrice: price,
		})
	}

	u.Balance -= cost
	u.Trades = append(u.Trades, models.Trade{
		TradeID:    uuid.NewString(),
		UserID:     u.ID,
		Symbol:     symbol,
		Kind:       models.TradeBuy,
		Quantity:   qty,
		Price:      price,
		TotalValue: cost,
		Timestamp:  now.Unix(),
	})

	if stopLoss != nil {
		u.Orders = append(u.Orders, models.Order{
			OrderID:      uuid.NewString(),
			UserID:       u.ID,
			Symbol:       symbol,
			Kind:         models.OrderStopLoss,
			TriggerPrice: *stopLoss,
			Quantity:     qty,
		})
	}
	if takeProfit != nil {
		u.Orders = append(u.Orders, models.Order{
			OrderID:      uuid.NewString(),
			UserID:       u.ID,
			Symbol:       symbol,
			Kind:         models.OrderTakeProfit,
			TriggerPrice: *takeProfit,
			Quantity:     qty,
		})
	}

	return &u.Trades[len(u.Trades)-1], nil
}

// ExecuteSell fills a sell of qty units at price: balance increases by the
// revenue, the position shrinks (and is removed at zero), and a trade of the
// given kind is appended with realized P/L against the weighted-average cost.
// A manual sell that fully closes the position also purges every resting
// conditional order for the symbol; triggered sells leave other orders alone.
// On error the user is left untouched.
func ExecuteSell(u *models.User, symbol string, qty int64, price float64, kind string, now time.Time) (*models.Trade, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	pos := u.Position(symbol)
	if pos == nil || pos.Quantity < qty {
		return nil, ErrInsufficientPosition
	}

	revenue := price * float64(qty)
	realized := revenue - pos.AvgBuyPrice*float64(qty)

	u.Balance += revenue
	pos.Quantity -= qty
	closed := pos.Quantity == 0
	if closed {
		removePosition(u, symbol)
	}

	u.Trades = append(u.Trades, models.Trade{
		TradeID:    uuid.NewString(),
		UserID:     u.ID,
		Symbol:     symbol,
		Kind:       kind,
		Quantity:   qty,
		Price:      price,
		TotalValue: revenue,
		RealizedPL: &realized,
		Timestamp:  now.Unix(),
	})

	if closed && kind == models.TradeSell {
		purgeOrders(u, symbol)
	}

	return &u.Trades[len(u.Trades)-1], nil
}

func removePosition(u *models.User, symbol string) {
	for i := range u.Positions {
		if u.Positions[i].Symbol == symbol {
			u.Positions = append(u.Positions[:i], u.Positions[i+1:]...)
			return
		}
	}
}

func purgeOrders(u *models.User, symbol string) {
	kept := u.Orders[:0]
	for _, o := range u.Orders {
		if o.Symbol != symbol {
			kept = append(kept, o)
		}
	}
	u.Orders = kept
}
