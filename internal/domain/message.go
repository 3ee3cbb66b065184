package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageStatus moderation state of a chat message
type MessageStatus string

const (
	MessagePending  MessageStatus = "pending"
	MessageApproved MessageStatus = "approved"
	MessageRejected MessageStatus = "rejected"
	MessageFlagged  MessageStatus = "flagged"
)

// Message belongs to exactly one channel. Once rejected it is immutable.
type Message struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	ChannelID  string        `gorm:"size:36;not null;index:idx_channel_msg" json:"channel_id"`
	SenderID   string        `gorm:"size:36;not null;index" json:"sender_id"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	Status     MessageStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	ReviewerID *string       `gorm:"size:36" json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `gorm:"index:idx_channel_msg" json:"created_at"`
}

// TableName returns the table name
func (Message) TableName() string {
	return "chat_messages"
}

// BeforeCreate generates a UUID when ID is not set
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// Severity classifies how serious a moderation violation is
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FlaggedMessage is produced exactly once per flagged message and
// adjudicated through the admin workflow. Resolving it does not
// retroactively change the message's own status; the reviewer decision
// sets that independently.
type FlaggedMessage struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	MessageID    string     `gorm:"size:36;not null;uniqueIndex" json:"message_id"`
	ChannelID    string     `gorm:"size:36;not null;index" json:"channel_id"`
	SenderID     string     `gorm:"size:36;not null;index" json:"sender_id"`
	MatchedTerms string     `gorm:"type:text;not null" json:"matched_terms"` // comma-joined
	TermCount    int        `gorm:"not null" json:"term_count"`
	Severity     Severity   `gorm:"size:16;not null" json:"severity"`
	Status       CaseStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	AssigneeID   *string    `gorm:"size:36" json:"assignee_id,omitempty"`
	Resolution   string     `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName returns the table name
func (FlaggedMessage) TableName() string {
	return "flagged_messages"
}

// BeforeCreate generates a UUID when ID is not set
func (f *FlaggedMessage) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// Terms splits the stored matched terms
func (f *FlaggedMessage) Terms() []string {
	if f.MatchedTerms == "" {
		return nil
	}
	return splitTerms(f.MatchedTerms)
}
