package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseStatus adjudication state shared by reports and flagged messages.
// investigating is optional: resolved and dismissed are reachable
// directly from pending.
type CaseStatus string

const (
	CasePending       CaseStatus = "pending"
	CaseInvestigating CaseStatus = "investigating"
	CaseResolved      CaseStatus = "resolved"
	CaseDismissed     CaseStatus = "dismissed"
)

// Terminal reports whether the case is settled
func (s CaseStatus) Terminal() bool {
	return s == CaseResolved || s == CaseDismissed
}

// Assignable reports whether an admin may still be assigned
func (s CaseStatus) Assignable() bool {
	return s == CasePending || s == CaseInvestigating
}

// TargetType what a report points at
type TargetType string

const (
	TargetProfile TargetType = "profile"
	TargetMessage TargetType = "message"
)

// ReportPriority adjudication priority
type ReportPriority string

const (
	PriorityLow    ReportPriority = "low"
	PriorityMedium ReportPriority = "medium"
	PriorityHigh   ReportPriority = "high"
)

// Report is a user-initiated complaint against a profile or message.
// Created by any authenticated profile, mutated only by admin roles.
type Report struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	ReporterID  string         `gorm:"size:36;not null;index" json:"reporter_id"`
	TargetType  TargetType     `gorm:"size:16;not null" json:"target_type"`
	TargetID    string         `gorm:"size:36;not null;index" json:"target_id"`
	Category    string         `gorm:"size:64;not null" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Priority    ReportPriority `gorm:"size:16;not null;default:medium" json:"priority"`
	Status      CaseStatus     `gorm:"size:16;not null;default:pending;index" json:"status"`
	AssigneeID  *string        `gorm:"size:36" json:"assignee_id,omitempty"`
	Resolution  string         `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName returns the table name
func (Report) TableName() string {
	return "reports"
}

// BeforeCreate generates a UUID when ID is not set
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func splitTerms(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTerms is the inverse of FlaggedMessage.Terms
func JoinTerms(terms []string) string {
	return strings.Join(terms, ",")
}
