package trading

import (
	"context"
	"errors"
	"testing"
	"time"

	"novatrade/internal/config"
	"novatrade/internal/database"
	"novatrade/internal/market"
	"novatrade/internal/models"
	"novatrade/internal/oracle"
	"novatrade/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockPriceSource is a mock implementation of the oracle.PriceSource
// interface.
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) FetchPrices(ctx context.Context, symbols []string) (*oracle.Result, error) {
	args := m.Called(ctx, symbols)
	var res *oracle.Result
	if v := args.Get(0); v != nil {
		res = v.(*oracle.Result)
	}
	return res, args.Error(1)
}

// setupEngine creates a full test environment with an in-memory database and
// an always-open session clock.
func setupEngine(t *testing.T, src oracle.PriceSource) (*Engine, *store.Store) {
	t.Helper()

	// Use a new, non-shared in-memory database for each test to ensure isolation.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	st := store.New(db, zap.NewNop())
	cfg := &config.Config{
		Market: config.Market{
			TickInterval:   1,
			HistoryLimit:   50,
			SeedLength:     30,
			TickVolatility: 0.0015,
			SeedVolatility: 0.005,
			OpenHour:       9,
			CloseHour:      15,
		},
		Trading: config.Trading{StartingBalance: 100000},
		Oracle:  config.Oracle{SyncInterval: 0},
	}

	listings := []market.Listing{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: 3480, Sector: "IT"},
		{Symbol: "INFY", Name: "Infosys Ltd", Price: 1425.80, Sector: "IT"},
	}
	sim := market.NewSimulator(zap.NewNop(), cfg.Market, listings, 7)
	clock := market.NewClock(0, 24)

	return NewEngine(zap.NewNop(), cfg, sim, clock, st, src), st
}

func TestLoginCreatesAccountOnce(t *testing.T) {
	e, _ := setupEngine(t, nil)

	u, err := e.Login("alice", "", false)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, u.Balance)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.StatusActive, u.Status)

	again, err := e.Login("alice", "", true)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	// Existing accounts keep their role; the admin flag only matters at creation.
	assert.Equal(t, models.RoleUser, again.Role)
}

func TestManualTradeRoundTripPersists(t *testing.T) {
	e, st := setupEngine(t, nil)
	_, err := e.Login("alice", "", false)
	require.NoError(t, err)

	price, ok := e.Market().Quote("TCS")
	require.True(t, ok)

	u, err := e.Buy("alice", "TCS", 3, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 100000-3*price, u.Balance, 1e-9)

	// No tick in between, so the sell fills at the same price.
	u, err = e.Sell("alice", "TCS", 3)
	require.NoError(t, err)
	assert.InDelta(t, 100000.0, u.Balance, 1e-9)

	saved, err := st.GetUser("alice")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.InDelta(t, 100000.0, saved.Balance, 1e-9)
	assert.Empty(t, saved.Positions)
	require.Len(t, saved.Trades, 2)
	assert.Equal(t, models.TradeBuy, saved.Trades[0].Kind)
	assert.Equal(t, models.TradeSell, saved.Trades[1].Kind)
}

func TestTickExecutesTriggersAndAudits(t *testing.T) {
	e, st := setupEngine(t, nil)
	_, err := e.Login("alice", "", false)
	require.NoError(t, err)

	// A stop at an absurdly high trigger fires on the very next tick.
	_, err = e.Buy("alice", "TCS", 2, f(1e9), nil)
	require.NoError(t, err)

	e.tick(time.Now())

	saved, err := st.GetUser("alice")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Empty(t, saved.Orders)
	assert.Nil(t, saved.Position("TCS"))

	last := saved.Trades[len(saved.Trades)-1]
	assert.Equal(t, models.TradeSLTrigger, last.Kind)
	assert.NotNil(t, last.RealizedPL)

	entries, err := st.RecentAudit(10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, models.TradeSLTrigger, entries[0].Action)
	assert.Equal(t, "TCS", entries[0].Target)
	assert.Equal(t, saved.ID, entries[0].ActorID)
}

func TestTickSweepsAllUsers(t *testing.T) {
	e, st := setupEngine(t, nil)

	for _, name := range []string{"alice", "bob"} {
		_, err := e.Login(name, "", false)
		require.NoError(t, err)
		_, err = e.Buy(name, "INFY", 1, f(1e9), nil)
		require.NoError(t, err)
	}

	e.tick(time.Now())

	for _, name := range []string{"alice", "bob"} {
		saved, err := st.GetUser(name)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Empty(t, saved.Orders, name)
		assert.Equal(t, models.TradeSLTrigger, saved.Trades[len(saved.Trades)-1].Kind, name)
	}
}

func TestClosedSessionGatesTickAndManualOrders(t *testing.T) {
	e, _ := setupEngine(t, nil)
	// Replace the always-open clock with one that can never be open.
	e.clock = market.NewClock(0, 0)

	_, err := e.Login("alice", "", false)
	require.NoError(t, err)
	_, err = e.Login("root", "", true)
	require.NoError(t, err)

	before := e.Market().Snapshot()
	e.tick(time.Now())
	after := e.Market().Snapshot()
	for i := range after {
		assert.Equal(t, before[i].History, after[i].History)
	}

	_, err = e.Buy("alice", "TCS", 1, nil, nil)
	assert.ErrorIs(t, err, ErrMarketClosed)

	// Admins may always trade.
	_, err = e.Buy("root", "TCS", 1, nil, nil)
	assert.NoError(t, err)

	// Toggling the override opens the session for everyone immediately.
	open, err := e.SetOverride("root", true)
	require.NoError(t, err)
	assert.True(t, open)
	_, err = e.Buy("alice", "TCS", 1, nil, nil)
	assert.NoError(t, err)
}

func TestOverrideRequiresAdmin(t *testing.T) {
	e, _ := setupEngine(t, nil)
	_, err := e.Login("alice", "", false)
	require.NoError(t, err)

	_, err = e.SetOverride("alice", true)
	assert.Error(t, err)
	assert.False(t, e.Clock().Override())
}

func TestCancelOrder(t *testing.T) {
	e, st := setupEngine(t, nil)
	_, err := e.Login("alice", "", false)
	require.NoError(t, err)

	u, err := e.Buy("alice", "TCS", 1, f(1), nil)
	require.NoError(t, err)
	require.Len(t, u.Orders, 1)
	orderID := u.Orders[0].OrderID

	u, err = e.CancelOrder("alice", orderID)
	require.NoError(t, err)
	assert.Empty(t, u.Orders)

	saved, err := st.GetUser("alice")
	require.NoError(t, err)
	assert.Empty(t, saved.Orders)

	_, err = e.CancelOrder("alice", orderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestToggleWishlist(t *testing.T) {
	e, _ := setupEngine(t, nil)
	_, err := e.Login("alice", "", false)
	require.NoError(t, err)

	u, err := e.ToggleWishlist("alice", "TCS")
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS"}, u.Wishlist)

	u, err = e.ToggleWishlist("alice", "TCS")
	require.NoError(t, err)
	assert.Empty(t, u.Wishlist)

	_, err = e.ToggleWishlist("alice", "NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestResetAccountKeepsLedger(t *testing.T) {
	e, _ := setupEngine(t, nil)
	_, err := e.Login("alice", "", false)
	require.NoError(t, err)
	_, err = e.Buy("alice", "TCS", 2, f(1), nil)
	require.NoError(t, err)

	u, err := e.ResetAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, u.Balance)
	assert.Empty(t, u.Positions)
	assert.Empty(t, u.Orders)
	assert.NotEmpty(t, u.Trades)
}

func TestSyncPricesAppliesOracleQuotes(t *testing.T) {
	src := new(MockPriceSource)
	e, _ := setupEngine(t, src)

	src.On("FetchPrices", mock.Anything, e.Market().Symbols()).Return(&oracle.Result{
		Quotes:  []oracle.Quote{{Symbol: "TCS", Price: 5000}, {Symbol: "GHOST", Price: 1}},
		Sources: []oracle.Source{{Title: "NSE", URI: "https://example.com"}},
	}, nil)

	e.SyncPrices(context.Background())

	price, ok := e.Market().Quote("TCS")
	require.True(t, ok)
	assert.Equal(t, 5000.0, price)
	src.AssertExpectations(t)
}

func TestSyncPricesDegradesToNoOp(t *testing.T) {
	src := new(MockPriceSource)
	e, _ := setupEngine(t, src)

	before := e.Market().Quotes()
	src.On("FetchPrices", mock.Anything, mock.Anything).Return(nil, errors.New("oracle down"))

	e.SyncPrices(context.Background())

	assert.Equal(t, before, e.Market().Quotes())
	src.AssertExpectations(t)
}
