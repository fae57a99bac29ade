package store

import (
	"errors"
	"fmt"
	"time"

	"novatrade/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store wraps the database with the persistence contract the engine needs:
// whole-aggregate user saves, plus append-only stores for support tickets,
// audit log entries and chat messages. A failed save means "state not durably
// saved"; callers log it and keep the in-memory state authoritative.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a Store on top of an already-migrated database.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// GetUser loads a user aggregate by username with positions, orders and
// trade history attached. Returns (nil, nil) when the user does not exist.
func (s *Store) GetUser(username string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Positions").Preload("Orders").Preload("Trades").
		First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	return &user, nil
}

// GetAllUsers loads every user aggregate. Used by the trigger sweep and the
// admin panel.
func (s *Store) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Positions").Preload("Orders").Preload("Trades").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// SaveUser persists the whole aggregate in one transaction: user fields are
// upserted, positions and orders are replaced to mirror the in-memory set,
// and new trades are appended. Either everything lands or nothing does.
func (s *Store) SaveUser(u *models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Positions", "Orders", "Trades").Save(u).Error; err != nil {
			return fmt.Errorf("failed to save user %q: %w", u.Username, err)
		}

		if err := tx.Unscoped().Where("user_id = ?", u.ID).Delete(&models.Position{}).Error; err != nil {
			return fmt.Errorf("failed to clear positions: %w", err)
		}
		for i := range u.Positions {
			u.Positions[i].UserID = u.ID
		}
		if len(u.Positions) > 0 {
			if err := tx.Create(&u.Positions).Error; err != nil {
				return fmt.Errorf("failed to save positions: %w", err)
			}
		}

		if err := tx.Unscoped().Where("user_id = ?", u.ID).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to clear orders: %w", err)
		}
		for i := range u.Orders {
			u.Orders[i].UserID = u.ID
		}
		if len(u.Orders) > 0 {
			if err := tx.Create(&u.Orders).Error; err != nil {
				return fmt.Errorf("failed to save orders: %w", err)
			}
		}

		// The ledger is append-only: only trades gorm has not yet assigned a
		// primary key to are inserted.
		for i := range u.Trades {
			if u.Trades[i].ID != 0 {
				continue
			}
			u.Trades[i].UserID = u.ID
			if err := tx.Create(&u.Trades[i]).Error; err != nil {
				return fmt.Errorf("failed to append trade: %w", err)
			}
		}

		return nil
	})
}

// DeleteUser removes a user and everything attached to it.
func (s *Store) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.Position{}, &models.Order{}, &models.Trade{},
		} {
			if err := tx.Unscoped().Where("user_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete user data: %w", err)
			}
		}
		if err := tx.Unscoped().Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// CreateTicket files a new support ticket in OPEN state.
func (s *Store) CreateTicket(userID uint, subject, message string) (*models.SupportTicket, error) {
	ticket := models.SupportTicket{
		TicketID: uuid.NewString(),
		UserID:   userID,
		Subject:  subject,
		Message:  message,
		Status:   models.TicketOpen,
	}
	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return &ticket, nil
}

// ResolveTicket marks a ticket RESOLVED.
func (s *Store) ResolveTicket(ticketID string) error {
	res := s.db.Model(&models.SupportTicket{}).
		Where("ticket_id = ?", ticketID).
		Update("status", models.TicketResolved)
	if res.Error != nil {
		return fmt.Errorf("failed to resolve ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ticket %q not found", ticketID)
	}
	return nil
}

// TicketsByUser returns a user's tickets, newest first.
func (s *Store) TicketsByUser(userID uint) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	return tickets, nil
}

// AppendAudit writes one audit-log entry. The engine emits one per triggered
// order execution; admin operations land here too.
func (s *Store) AppendAudit(action string, actorID uint, target, detail string) error {
	entry := models.AuditLog{
		EntryID:   uuid.NewString(),
		Action:    action,
		ActorID:   actorID,
		Target:    target,
		Detail:    detail,
		Timestamp: time.Now().Unix(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// RecentAudit returns the latest audit entries, newest first.
func (s *Store) RecentAudit(limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.Order("timestamp desc").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	return entries, nil
}

// AppendChat adds one message to the community chat stream.
func (s *Store) AppendChat(userID uint, sender, role, text string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		MessageID: uuid.NewString(),
		UserID:    userID,
		Sender:    sender,
		Role:      role,
		Text:      text,
		Timestamp: time.Now().Unix(),
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append chat message: %w", err)
	}
	return &msg, nil
}

// ChatSince returns messages at or after the given unix timestamp, oldest
// first.
func (s *Store) ChatSince(ts int64) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.db.Where("timestamp >= ?", ts).Order("timestamp asc").Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chat messages: %w", err)
	}
	return msgs, nil
}
