package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is binary by product rule and immutable after profile creation
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Opposite returns the other gender
func (g Gender) Opposite() Gender {
	if g == GenderFemale {
		return GenderMale
	}
	return GenderFemale
}

// Valid reports whether g is a known gender value
func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

// ProfileStatus soft lifecycle status. Profiles referenced by an active
// request or chat are never hard-deleted, only transitioned.
type ProfileStatus string

const (
	ProfileActive    ProfileStatus = "active"
	ProfileSuspended ProfileStatus = "suspended"
	ProfileRemoved   ProfileStatus = "removed"
)

// MembershipTier is the viewer-side tier used by the privacy evaluator.
// Premium members are always verified, so ranks form a strict ladder.
type MembershipTier string

const (
	TierBasic    MembershipTier = "basic"
	TierVerified MembershipTier = "verified"
	TierPremium  MembershipTier = "premium"
)

// Rank orders membership tiers for minimum-tier checks
func (t MembershipTier) Rank() int {
	switch t {
	case TierVerified:
		return 1
	case TierPremium:
		return 2
	default:
		return 0
	}
}

// Profile represents a person's matchmaking record
type Profile struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	AccountID     string         `gorm:"size:36;not null;index" json:"account_id"`
	Gender        Gender         `gorm:"size:16;not null" json:"gender"`
	Age           int            `gorm:"not null" json:"age"`
	City          string         `gorm:"size:64" json:"city"`
	Country       string         `gorm:"size:64" json:"country"`
	Occupation    string         `gorm:"size:64" json:"occupation"`
	MaritalStatus string         `gorm:"size:32" json:"marital_status"`
	Religiosity   string         `gorm:"size:32" json:"religiosity"`
	Bio           string         `gorm:"type:text" json:"bio"`
	Membership    MembershipTier `gorm:"size:16;not null;default:basic" json:"membership"`
	Status        ProfileStatus  `gorm:"size:16;not null;default:active;index" json:"status"`
	LastActiveAt  *time.Time     `json:"last_active_at,omitempty"`

	Privacy  PrivacyConfiguration `gorm:"foreignKey:ProfileID" json:"privacy"`
	Guardian *GuardianDetails     `gorm:"foreignKey:ProfileID" json:"guardian,omitempty"`
	Groom    *GroomDetails        `gorm:"foreignKey:ProfileID" json:"groom,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate generates a UUID when ID is not set
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// ValidateVariant enforces the gender-variant invariant: female profiles
// carry guardian details, male profiles carry groom details, never both.
func (p *Profile) ValidateVariant() bool {
	switch p.Gender {
	case GenderFemale:
		return p.Guardian != nil && p.Groom == nil
	case GenderMale:
		return p.Groom != nil && p.Guardian == nil
	default:
		return false
	}
}

// GuardianDetails is the female-side variant: contact data for the
// designated guardian who mediates requests.
type GuardianDetails struct {
	ProfileID    string `gorm:"primaryKey;size:36" json:"profile_id"`
	Name         string `gorm:"size:128;not null" json:"name"`
	Phone        string `gorm:"size:32" json:"phone"`
	Relationship string `gorm:"size:32" json:"relationship"`
}

// TableName returns the table name
func (GuardianDetails) TableName() string {
	return "guardian_details"
}

// GroomDetails is the male-side variant
type GroomDetails struct {
	ProfileID        string `gorm:"primaryKey;size:36" json:"profile_id"`
	Beard            bool   `json:"beard"`
	MosqueAttendance string `gorm:"size:32" json:"mosque_attendance"` // none, fridays, daily
}

// TableName returns the table name
func (GroomDetails) TableName() string {
	return "groom_details"
}
