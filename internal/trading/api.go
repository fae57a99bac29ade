package trading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// APIServer provides an HTTP interface for the trading engine.
type APIServer struct {
	server *http.Server
	engine *Engine
	logger *zap.Logger
}

// NewAPIServer creates a new APIServer listening on the configured port.
func NewAPIServer(engine *Engine, logger *zap.Logger) *APIServer {
	s := &APIServer{
		engine: engine,
		logger: logger.Named("api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/instruments", s.instrumentsHandler)
	mux.HandleFunc("/quotes", s.quotesHandler)
	mux.HandleFunc("/session", s.sessionHandler)
	mux.HandleFunc("/session/override", s.overrideHandler)
	mux.HandleFunc("/login", s.loginHandler)
	mux.HandleFunc("/buy", s.buyHandler)
	mux.HandleFunc("/sell", s.sellHandler)
	mux.HandleFunc("/orders/cancel", s.cancelOrderHandler)
	mux.HandleFunc("/wishlist", s.wishlistHandler)
	mux.HandleFunc("/reset", s.resetHandler)
	mux.HandleFunc("/tickets", s.ticketsHandler)
	mux.HandleFunc("/tickets/resolve", s.resolveTicketHandler)
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/audit", s.auditHandler)
	mux.HandleFunc("/admin/users", s.adminUsersHandler)
	mux.HandleFunc("/admin/users/status", s.adminStatusHandler)
	mux.HandleFunc("/admin/users/delete", s.adminDeleteHandler)
	mux.HandleFunc("/admin/price", s.adminPriceHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", engine.cfg.Server.Port),
		Handler: mux,
	}
	return s
}

// Start runs the HTTP server in a new goroutine.
func (s *APIServer) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps engine errors onto HTTP statuses.
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientPosition),
		errors.Is(err, ErrInvalidQuantity):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrMarketClosed):
		status = http.StatusForbidden
	case errors.Is(err, ErrUnknownSymbol),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrUserNotFound):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *APIServer) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (s *APIServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *APIServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		StartTime   string `json:"start_time"`
		Uptime      string `json:"uptime"`
		Instruments int    `json:"instruments"`
		SessionOpen bool   `json:"session_open"`
	}{
		StartTime:   s.engine.StartTime.Format(time.RFC3339),
		Uptime:      time.Since(s.engine.StartTime).String(),
		Instruments: len(s.engine.Market().Symbols()),
		SessionOpen: s.engine.Clock().IsOpen(),
	})
}

func (s *APIServer) instrumentsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Market().Snapshot())
}

func (s *APIServer) quotesHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Market().Quotes())
}

func (s *APIServer) sessionHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{
		"open":     s.engine.Clock().IsOpen(),
		"override": s.engine.Clock().Override(),
	})
}

func (s *APIServer) overrideHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Active   bool   `json:"active"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	open, err := s.engine.SetOverride(req.Username, req.Active)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"open": open, "override": req.Active})
}

func (s *APIServer) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Admin    bool   `json:"admin"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.engine.Login(req.Username, req.Email, req.Admin)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) buyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username   string   `json:"username"`
		Symbol     string   `json:"symbol"`
		Quantity   int64    `json:"quantity"`
		StopLoss   *float64 `json:"stop_loss,omitempty"`
		TakeProfit *float64 `json:"take_profit,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.engine.Buy(req.Username, req.Symbol, req.Quantity, req.StopLoss, req.TakeProfit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) sellHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Symbol   string `json:"symbol"`
		Quantity int64  `json:"quantity"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.engine.Sell(req.Username, req.Symbol, req.Quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) cancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		OrderID  string `json:"order_id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.engine.CancelOrder(req.Username, req.OrderID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) wishlistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Symbol   string `json:"symbol"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.engine.ToggleWishlist(req.Username, req.Symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) resetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.engine.ResetAccount(req.Username)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) ticketsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		tickets, err := s.engine.Tickets(r.URL.Query().Get("username"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, tickets)
		return
	}

	var req struct {
		Username string `json:"username"`
		Subject  string `json:"subject"`
		Message  string `json:"message"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ticket, err := s.engine.FileTicket(req.Username, req.Subject, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ticket)
}

func (s *APIServer) resolveTicketHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		TicketID string `json:"ticket_id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.engine.ResolveTicket(req.Username, req.TicketID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		msgs, err := s.engine.ChatSince(since)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, msgs)
		return
	}

	var req struct {
		Username string `json:"username"`
		Text     string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	msg, err := s.engine.PostChat(req.Username, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, msg)
}

func (s *APIServer) auditHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	entries, err := s.engine.RecentAudit(r.URL.Query().Get("username"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *APIServer) adminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.engine.Users(r.URL.Query().Get("username"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *APIServer) adminStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Target   string `json:"target"`
		Status   string `json:"status"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.engine.UpdateUserStatus(req.Username, req.Target, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) adminDeleteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Target   string `json:"target"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.engine.DeleteAccount(req.Username, req.Target); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) adminPriceHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string  `json:"username"`
		Symbol   string  `json:"symbol"`
		Price    float64 `json:"price"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.engine.SetPrice(req.Username, req.Symbol, req.Price); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
