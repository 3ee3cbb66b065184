package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChannelStatus chat channel lifecycle state
type ChannelStatus string

const (
	ChannelActive  ChannelStatus = "active"
	ChannelExpired ChannelStatus = "expired"
	ChannelClosed  ChannelStatus = "closed"
)

// ChatChannel is the moderated conversation spawned when a marriage
// request is accepted. Exactly one channel exists per accepted request.
type ChatChannel struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	RequestID string        `gorm:"size:36;not null;uniqueIndex" json:"request_id"`
	UserAID   string        `gorm:"size:36;not null;index" json:"user_a_id"`
	UserBID   string        `gorm:"size:36;not null;index" json:"user_b_id"`
	Status    ChannelStatus `gorm:"size:16;not null;default:active;index" json:"status"`
	ExpiresAt time.Time     `gorm:"not null;index" json:"expires_at"`
	ClosedBy  *string       `gorm:"size:36" json:"closed_by,omitempty"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the table name
func (ChatChannel) TableName() string {
	return "chat_channels"
}

// BeforeCreate generates a UUID when ID is not set
func (c *ChatChannel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// HasParticipant reports whether the given profile belongs to the channel
func (c *ChatChannel) HasParticipant(profileID string) bool {
	return c.UserAID == profileID || c.UserBID == profileID
}

// Peer returns the other participant's profile id
func (c *ChatChannel) Peer(profileID string) string {
	if c.UserAID == profileID {
		return c.UserBID
	}
	return c.UserAID
}
