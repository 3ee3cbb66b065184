package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus marriage request lifecycle state
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
	RequestExpired  RequestStatus = "expired"
)

// Terminal reports whether no further transition may leave this state
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected || s == RequestExpired
}

// MarriageRequest is one directional contact attempt from sender to
// receiver. Active is true only while pending and NULL afterwards, so the
// composite unique index admits at most one active request per ordered
// pair while keeping resolved history.
type MarriageRequest struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string        `gorm:"size:36;not null;index;uniqueIndex:uniq_active_pair,priority:1" json:"sender_id"`
	ReceiverID string        `gorm:"size:36;not null;index;uniqueIndex:uniq_active_pair,priority:2" json:"receiver_id"`
	Active     *bool         `gorm:"uniqueIndex:uniq_active_pair,priority:3" json:"-"`
	Message    string        `gorm:"type:text" json:"message"`
	Status     RequestStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	ExpiresAt  time.Time     `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// TableName returns the table name
func (MarriageRequest) TableName() string {
	return "marriage_requests"
}

// BeforeCreate generates a UUID when ID is not set
func (r *MarriageRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// CanTransition reports whether moving to the target state is legal.
// Only pending requests transition; accepted, rejected and expired are
// terminal.
func (r *MarriageRequest) CanTransition(to RequestStatus) bool {
	if r.Status != RequestPending {
		return false
	}
	return to == RequestAccepted || to == RequestRejected || to == RequestExpired
}

// Between reports whether the request connects the two given profiles in
// either direction.
func (r *MarriageRequest) Between(a, b string) bool {
	return (r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a)
}
