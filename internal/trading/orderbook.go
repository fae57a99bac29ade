package trading

import (
	"time"

	"novatrade/internal/models"
)

// TriggerResult records the outcome of one triggered conditional order.
// Trade is nil when the order was stale: its condition fired but the covered
// position had shrunk below the order quantity, so the order was dropped
// without executing.
type TriggerResult struct {
	Order models.Order
	Trade *models.Trade
}

// EvaluateOrders runs one trigger sweep over the user's resting orders
// against the given quotes. A STOP_LOSS fires when price <= trigger, a
// TAKE_PROFIT when price >= trigger. Triggered orders are removed from the
// active set whether or not they executed; orders whose symbol has no quote
// are kept untouched. Every settlement delta lands on the same user
// aggregate, so the caller persists one merged update per sweep.
func EvaluateOrders(u *models.User, quotes map[string]float64, now time.Time) []TriggerResult {
	if len(u.Orders) == 0 {
		return nil
	}

	var results []TriggerResult
	var kept []models.Order

	for _, o := range u.Orders {
		price, ok := quotes[o.Symbol]
		if !ok || !o.Triggered(price) {
			kept = append(kept, o)
			continue
		}

		kind := models.TradeSLTrigger
		if o.Kind == models.OrderTakeProfit {
			kind = models.TradeTPTrigger
		}

		trade, err := ExecuteSell(u, o.Symbol, o.Quantity, price, kind, now)
		if err != nil {
			// Stale order: position no longer covers it. Drop without a trade.
			results = append(results, TriggerResult{Order: o})
			continue
		}
		results = append(results, TriggerResult{Order: o, Trade: trade})
	}

	u.Orders = kept
	return results
}
