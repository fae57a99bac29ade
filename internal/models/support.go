package models

import "gorm.io/gorm"

// Ticket statuses.
const (
	TicketOpen     = "OPEN"
	TicketResolved = "RESOLVED"
)

// SupportTicket is a user-filed support request.
type SupportTicket struct {
	gorm.Model
	TicketID string `gorm:"uniqueIndex;not null" json:"ticket_id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Status   string `gorm:"default:OPEN" json:"status"`
}

// AuditLog records one system action: a triggered order execution, an admin
// operation, or anything else worth a paper trail. Append-only.
type AuditLog struct {
	gorm.Model
	EntryID   string `gorm:"uniqueIndex;not null" json:"entry_id"`
	Action    string `gorm:"not null" json:"action"`
	ActorID   uint   `gorm:"index" json:"actor_id"`
	Target    string `json:"target"`
	Detail    string `json:"detail"`
	Timestamp int64  `gorm:"index" json:"timestamp"`
}

// ChatMessage is one entry in the community chat stream.
type ChatMessage struct {
	gorm.Model
	MessageID string `gorm:"uniqueIndex;not null" json:"message_id"`
	UserID    uint   `gorm:"index" json:"user_id"`
	Sender    string `json:"sender"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `gorm:"index" json:"timestamp"`
}
