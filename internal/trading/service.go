package trading

import (
	"fmt"
	"time"

	"novatrade/internal/models"

	"go.uber.org/zap"
)

// Login loads the account for username, creating it with the configured
// starting balance on first use.
func (e *Engine) Login(username, email string, admin bool) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.store.GetUser(username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}
	if email == "" {
		email = fmt.Sprintf("%s@novatrade.test", username)
	}

	user = &models.User{
		Username: username,
		Email:    email,
		Balance:  e.cfg.Trading.StartingBalance,
		Role:     role,
		Status:   models.StatusActive,
	}
	if err := e.store.SaveUser(user); err != nil {
		return nil, err
	}

	e.logger.Info("Created account",
		zap.String("username", username),
		zap.String("role", role))
	return user, nil
}

// Buy fills a manual buy at the current simulated price, with optional
// stop-loss / take-profit orders attached. Rejected while the session is
// closed unless the user is an admin.
func (e *Engine) Buy(username, symbol string, qty int64, stopLoss, takeProfit *float64) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadTrader(username)
	if err != nil {
		return nil, err
	}

	price, ok := e.sim.Quote(symbol)
	if !ok {
		return nil, ErrUnknownSymbol
	}

	if _, err := ExecuteBuy(user, symbol, qty, price, stopLoss, takeProfit, time.Now()); err != nil {
		return nil, err
	}

	if err := e.store.SaveUser(user); err != nil {
		e.logger.Error("Failed to persist buy", zap.String("username", username), zap.Error(err))
	}
	return user, nil
}

// Sell fills a manual sell at the current simulated price. Fully closing a
// position purges every resting conditional order for the symbol.
func (e *Engine) Sell(username, symbol string, qty int64) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadTrader(username)
	if err != nil {
		return nil, err
	}

	price, ok := e.sim.Quote(symbol)
	if !ok {
		return nil, ErrUnknownSymbol
	}

	if _, err := ExecuteSell(user, symbol, qty, price, models.TradeSell, time.Now()); err != nil {
		return nil, err
	}

	if err := e.store.SaveUser(user); err != nil {
		e.logger.Error("Failed to persist sell", zap.String("username", username), zap.Error(err))
	}
	return user, nil
}

// CancelOrder removes one resting conditional order by its public ID.
func (e *Engine) CancelOrder(username, orderID string) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}

	found := false
	kept := user.Orders[:0]
	for _, o := range user.Orders {
		if o.OrderID == orderID {
			found = true
			continue
		}
		kept = append(kept, o)
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	user.Orders = kept

	if err := e.store.SaveUser(user); err != nil {
		e.logger.Error("Failed to persist order cancellation", zap.Error(err))
	}
	return user, nil
}

// ToggleWishlist adds the symbol to the user's wishlist, or removes it if
// already present.
func (e *Engine) ToggleWishlist(username, symbol string) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}
	if _, ok := e.sim.Quote(symbol); !ok {
		return nil, ErrUnknownSymbol
	}

	removed := false
	kept := user.Wishlist[:0]
	for _, s := range user.Wishlist {
		if s == symbol {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		kept = append(kept, symbol)
	}
	user.Wishlist = kept

	if err := e.store.SaveUser(user); err != nil {
		e.logger.Error("Failed to persist wishlist", zap.Error(err))
	}
	return user, nil
}

// ResetAccount restores the starting balance and clears positions and
// resting orders. The trade ledger is append-only and stays intact.
func (e *Engine) ResetAccount(username string) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}

	user.Balance = e.cfg.Trading.StartingBalance
	user.Positions = nil
	user.Orders = nil

	if err := e.store.SaveUser(user); err != nil {
		e.logger.Error("Failed to persist account reset", zap.Error(err))
	}

	e.logger.Info("Account reset", zap.String("username", username))
	return user, nil
}

// SetOverride toggles the session override on behalf of an admin and returns
// the resulting open state, effective immediately.
func (e *Engine) SetOverride(adminUsername string, on bool) (bool, error) {
	admin, err := e.requireAdmin(adminUsername)
	if err != nil {
		return e.clock.IsOpen(), err
	}

	open := e.clock.SetOverride(on)
	detail := "Session override disabled"
	if on {
		detail = "Session override enabled"
	}
	if err := e.store.AppendAudit("SESSION_OVERRIDE", admin.ID, "", detail); err != nil {
		e.logger.Error("Failed to write audit entry", zap.Error(err))
	}

	e.logger.Info("Session override toggled",
		zap.Bool("active", on), zap.Bool("open", open))
	return open, nil
}

// SetPrice lets an admin pin an instrument's price directly. The price is
// applied as a flat candle like an oracle update.
func (e *Engine) SetPrice(adminUsername, symbol string, price float64) error {
	admin, err := e.requireAdmin(adminUsername)
	if err != nil {
		return err
	}

	if !e.sim.ApplyPrice(symbol, price, time.Now()) {
		return ErrUnknownSymbol
	}

	detail := fmt.Sprintf("Price pinned @ %.2f", price)
	if err := e.store.AppendAudit("SET_PRICE", admin.ID, symbol, detail); err != nil {
		e.logger.Error("Failed to write audit entry", zap.Error(err))
	}
	return nil
}

// UpdateUserStatus lets an admin change another account's status.
func (e *Engine) UpdateUserStatus(adminUsername, username, status string) error {
	admin, err := e.requireAdmin(adminUsername)
	if err != nil {
		return err
	}

	switch status {
	case models.StatusActive, models.StatusPending, models.StatusBanned:
	default:
		return fmt.Errorf("invalid status %q", status)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadUser(username)
	if err != nil {
		return err
	}
	user.Status = status
	if err := e.store.SaveUser(user); err != nil {
		return err
	}

	if err := e.store.AppendAudit("UPDATE_STATUS", admin.ID, username, status); err != nil {
		e.logger.Error("Failed to write audit entry", zap.Error(err))
	}
	return nil
}

// DeleteAccount lets an admin remove an account and all its data.
func (e *Engine) DeleteAccount(adminUsername, username string) error {
	admin, err := e.requireAdmin(adminUsername)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.loadUser(username)
	if err != nil {
		return err
	}
	if err := e.store.DeleteUser(user.ID); err != nil {
		return err
	}

	if err := e.store.AppendAudit("DELETE_USER", admin.ID, username, ""); err != nil {
		e.logger.Error("Failed to write audit entry", zap.Error(err))
	}
	return nil
}

// FileTicket opens a support ticket for the user.
func (e *Engine) FileTicket(username, subject, message string) (*models.SupportTicket, error) {
	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}
	return e.store.CreateTicket(user.ID, subject, message)
}

// Tickets returns the user's support tickets, newest first.
func (e *Engine) Tickets(username string) ([]models.SupportTicket, error) {
	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}
	return e.store.TicketsByUser(user.ID)
}

// ResolveTicket marks a ticket resolved on behalf of an admin.
func (e *Engine) ResolveTicket(adminUsername, ticketID string) error {
	admin, err := e.requireAdmin(adminUsername)
	if err != nil {
		return err
	}
	if err := e.store.ResolveTicket(ticketID); err != nil {
		return err
	}
	if err := e.store.AppendAudit("RESOLVE_TICKET", admin.ID, ticketID, ""); err != nil {
		e.logger.Error("Failed to write audit entry", zap.Error(err))
	}
	return nil
}

// PostChat appends one community chat message from the user.
func (e *Engine) PostChat(username, text string) (*models.ChatMessage, error) {
	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}
	return e.store.AppendChat(user.ID, user.Username, user.Role, text)
}

// ChatSince returns chat messages at or after ts, oldest first.
func (e *Engine) ChatSince(ts int64) ([]models.ChatMessage, error) {
	return e.store.ChatSince(ts)
}

// RecentAudit returns the latest audit entries for an admin.
func (e *Engine) RecentAudit(adminUsername string, limit int) ([]models.AuditLog, error) {
	if _, err := e.requireAdmin(adminUsername); err != nil {
		return nil, err
	}
	return e.store.RecentAudit(limit)
}

// Users returns every account for an admin.
func (e *Engine) Users(adminUsername string) ([]models.User, error) {
	if _, err := e.requireAdmin(adminUsername); err != nil {
		return nil, err
	}
	return e.store.GetAllUsers()
}

// loadUser fetches an existing account or fails with ErrUserNotFound.
func (e *Engine) loadUser(username string) (*models.User, error) {
	user, err := e.store.GetUser(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// loadTrader is loadUser plus the session gate: non-admin accounts may only
// trade while the market is open.
func (e *Engine) loadTrader(username string) (*models.User, error) {
	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}
	if !e.clock.IsOpen() && !user.IsAdmin() {
		return nil, ErrMarketClosed
	}
	return user, nil
}

// requireAdmin fetches the account and checks the admin role.
func (e *Engine) requireAdmin(username string) (*models.User, error) {
	user, err := e.loadUser(username)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("user %q is not an admin", username)
	}
	return user, nil
}
