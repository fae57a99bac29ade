package store

import (
	"testing"

	"novatrade/internal/database"
	"novatrade/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	// Use a new, non-shared in-memory database for each test to ensure isolation.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return New(db, zap.NewNop())
}

func sampleUser() *models.User {
	pl := 50.0
	return &models.User{
		Username: "alice",
		Email:    "alice@novatrade.test",
		Balance:  98000,
		Role:     models.RoleUser,
		Status:   models.StatusActive,
		Wishlist: []string{"TCS", "INFY"},
		Positions: []models.Position{
			{Symbol: "TCS", Quantity: 10, AvgBuyPrice: 100},
		},
		Orders: []models.Order{
			{OrderID: "ord-1", Symbol: "TCS", Kind: models.OrderStopLoss, TriggerPrice: 90, Quantity: 10},
		},
		Trades: []models.Trade{
			{TradeID: "tr-1", Symbol: "TCS", Kind: models.TradeBuy, Quantity: 10, Price: 100, TotalValue: 1000, Timestamp: 1700000000},
			{TradeID: "tr-2", Symbol: "TCS", Kind: models.TradeSell, Quantity: 5, Price: 110, TotalValue: 550, RealizedPL: &pl, Timestamp: 1700000100},
		},
	}
}

func TestUserAggregateRoundTrip(t *testing.T) {
	s := setupStore(t)

	missing, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Nil(t, missing)

	u := sampleUser()
	require.NoError(t, s.SaveUser(u))
	require.NotZero(t, u.ID)

	loaded, err := s.GetUser("alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, u.Balance, loaded.Balance)
	assert.Equal(t, []string{"TCS", "INFY"}, loaded.Wishlist)
	require.Len(t, loaded.Positions, 1)
	assert.Equal(t, int64(10), loaded.Positions[0].Quantity)
	require.Len(t, loaded.Orders, 1)
	assert.Equal(t, "ord-1", loaded.Orders[0].OrderID)
	require.Len(t, loaded.Trades, 2)
	require.NotNil(t, loaded.Trades[1].RealizedPL)
	assert.Equal(t, 50.0, *loaded.Trades[1].RealizedPL)
}

func TestSaveUserReplacesPositionsAndOrders(t *testing.T) {
	s := setupStore(t)

	u := sampleUser()
	require.NoError(t, s.SaveUser(u))

	loaded, err := s.GetUser("alice")
	require.NoError(t, err)

	// Position closed, order consumed.
	loaded.Positions = nil
	loaded.Orders = nil
	loaded.Balance = 99100
	require.NoError(t, s.SaveUser(loaded))

	reloaded, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Empty(t, reloaded.Positions)
	assert.Empty(t, reloaded.Orders)
	assert.Equal(t, 99100.0, reloaded.Balance)
}

func TestSaveUserAppendsTradesExactlyOnce(t *testing.T) {
	s := setupStore(t)

	u := sampleUser()
	require.NoError(t, s.SaveUser(u))

	// Saving the same aggregate again must not duplicate ledger entries.
	require.NoError(t, s.SaveUser(u))

	loaded, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Len(t, loaded.Trades, 2)

	loaded.Trades = append(loaded.Trades, models.Trade{
		TradeID: "tr-3", Symbol: "INFY", Kind: models.TradeBuy,
		Quantity: 1, Price: 1400, TotalValue: 1400, Timestamp: 1700000200,
	})
	require.NoError(t, s.SaveUser(loaded))

	reloaded, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Len(t, reloaded.Trades, 3)
}

func TestGetAllUsersAndDelete(t *testing.T) {
	s := setupStore(t)

	u := sampleUser()
	require.NoError(t, s.SaveUser(u))
	require.NoError(t, s.SaveUser(&models.User{Username: "bob", Balance: 100000}))

	users, err := s.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, s.DeleteUser(u.ID))

	users, err = s.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	gone, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTicketLifecycle(t *testing.T) {
	s := setupStore(t)

	ticket, err := s.CreateTicket(1, "Cannot sell", "Sell button does nothing")
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)

	_, err = s.CreateTicket(2, "Other user", "Unrelated")
	require.NoError(t, err)

	tickets, err := s.TicketsByUser(1)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	require.NoError(t, s.ResolveTicket(ticket.TicketID))
	tickets, err = s.TicketsByUser(1)
	require.NoError(t, err)
	assert.Equal(t, models.TicketResolved, tickets[0].Status)

	assert.Error(t, s.ResolveTicket("missing"))
}

func TestAuditLogIsAppendOnlyNewestFirst(t *testing.T) {
	s := setupStore(t)

	require.NoError(t, s.AppendAudit("SL_TRIGGER", 1, "TCS", "Auto execution @ 90.00"))
	require.NoError(t, s.AppendAudit("SET_PRICE", 2, "INFY", "Price pinned @ 1400.00"))

	entries, err := s.RecentAudit(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	actions := []string{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []string{"SL_TRIGGER", "SET_PRICE"}, actions)

	limited, err := s.RecentAudit(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestChatSince(t *testing.T) {
	s := setupStore(t)

	first, err := s.AppendChat(1, "alice", models.RoleUser, "anyone holding TCS?")
	require.NoError(t, err)
	_, err = s.AppendChat(2, "bob", models.RoleAdmin, "market opens at 9")
	require.NoError(t, err)

	msgs, err := s.ChatSince(0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice", msgs[0].Sender)

	msgs, err = s.ChatSince(first.Timestamp)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}
