package domain

import "time"

// ModerationSetting key-value moderation configuration row. The engine
// reads these at evaluation time; banned words, rate limits, severity
// thresholds and expiry windows are never hard-coded.
type ModerationSetting struct {
	Key       string    `gorm:"column:key;primaryKey;size:64" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedBy string    `gorm:"column:updated_by;size:36" json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name
func (ModerationSetting) TableName() string {
	return "moderation_settings"
}
