package trading

import "errors"

// Trading errors are local to the single action that caused them; none of
// them ever aborts the tick scheduler.
var (
	// ErrInsufficientFunds rejects a buy whose cost exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientPosition rejects a manual sell exceeding the held
	// quantity. Triggered sells failing the same check are dropped silently.
	ErrInsufficientPosition = errors.New("insufficient position")

	// ErrInvalidQuantity rejects zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrMarketClosed rejects manual orders outside the session for
	// non-admin users.
	ErrMarketClosed = errors.New("market session is closed")

	// ErrUnknownSymbol rejects orders for symbols not in the catalog.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrOrderNotFound rejects cancellation of a missing order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUserNotFound is returned when the named account does not exist.
	ErrUserNotFound = errors.New("user not found")
)
