package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuardianApproval records out-of-band guardian consent admitting one
// counterpart to a guarded profile. One row per (profile, counterpart).
type GuardianApproval struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileID     string    `gorm:"size:36;not null;uniqueIndex:uniq_approval_pair,priority:1" json:"profile_id"`
	CounterpartID string    `gorm:"size:36;not null;uniqueIndex:uniq_approval_pair,priority:2" json:"counterpart_id"`
	GrantedBy     string    `gorm:"size:128" json:"granted_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the table name
func (GuardianApproval) TableName() string {
	return "guardian_approvals"
}

// BeforeCreate generates a UUID when ID is not set
func (a *GuardianApproval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
