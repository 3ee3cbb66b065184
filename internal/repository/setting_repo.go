package repository

import (
	"errors"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository moderation settings data access
type SettingRepository interface {
	Get(key string) (string, error)
	Set(key, value, updatedBy string) error
	All() ([]domain.ModerationSetting, error)
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(key string) (string, error) {
	var s domain.ModerationSetting
	err := r.db.Where("`key` = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

// Set upserts a setting, recording who changed it
func (r *settingRepository) Set(key, value, updatedBy string) error {
	s := domain.ModerationSetting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&s).Error
}

func (r *settingRepository) All() ([]domain.ModerationSetting, error) {
	var settings []domain.ModerationSetting
	err := r.db.Order("`key` ASC").Find(&settings).Error
	return settings, err
}
