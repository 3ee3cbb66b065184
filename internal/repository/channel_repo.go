package repository

import (
	"errors"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
)

// ChannelRepository chat channel data access
type ChannelRepository interface {
	WithTx(tx *gorm.DB) ChannelRepository
	Create(ch *domain.ChatChannel) error
	FindByID(id string) (*domain.ChatChannel, error)
	FindByRequestID(requestID string) (*domain.ChatChannel, error)
	ListForProfile(profileID string) ([]domain.ChatChannel, error)
	UpdateExpiry(id string, newExpiry time.Time) error
	Close(id, actor string, at time.Time) error
	ExpireDue(now time.Time) ([]string, error)
	CloseActiveForProfile(profileID, actor string, at time.Time) ([]string, error)
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) WithTx(tx *gorm.DB) ChannelRepository {
	if tx == nil {
		return r
	}
	return &channelRepository{db: tx}
}

func (r *channelRepository) Create(ch *domain.ChatChannel) error {
	return r.db.Create(ch).Error
}

func (r *channelRepository) FindByID(id string) (*domain.ChatChannel, error) {
	var ch domain.ChatChannel
	err := r.db.Where("id = ?", id).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *channelRepository) FindByRequestID(requestID string) (*domain.ChatChannel, error) {
	var ch domain.ChatChannel
	err := r.db.Where("request_id = ?", requestID).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *channelRepository) ListForProfile(profileID string) ([]domain.ChatChannel, error) {
	var channels []domain.ChatChannel
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", profileID, profileID).
		Order("created_at DESC").
		Find(&channels).Error
	return channels, err
}

// UpdateExpiry extends an active channel. The guard clauses enforce that
// expiry only moves forward and only while active.
func (r *channelRepository) UpdateExpiry(id string, newExpiry time.Time) error {
	res := r.db.Model(&domain.ChatChannel{}).
		Where("id = ? AND status = ? AND expires_at < ?", id, domain.ChannelActive, newExpiry).
		Update("expires_at", newExpiry)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidState
	}
	return nil
}

// Close terminates an active channel regardless of expiry
func (r *channelRepository) Close(id, actor string, at time.Time) error {
	res := r.db.Model(&domain.ChatChannel{}).
		Where("id = ? AND status = ?", id, domain.ChannelActive).
		Updates(map[string]interface{}{
			"status":    domain.ChannelClosed,
			"closed_by": actor,
			"closed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidState
	}
	return nil
}

// ExpireDue transitions active channels past expiry to expired and
// returns the affected ids. Idempotent under repeated runs.
func (r *channelRepository) ExpireDue(now time.Time) ([]string, error) {
	var ids []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.ChatChannel{}).
			Where("status = ? AND expires_at <= ?", domain.ChannelActive, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&domain.ChatChannel{}).
			Where("id IN ? AND status = ?", ids, domain.ChannelActive).
			Update("status", domain.ChannelExpired).Error
	})
	return ids, err
}

// CloseActiveForProfile closes every active channel the profile
// participates in. Used when adjudication suspends a profile.
func (r *channelRepository) CloseActiveForProfile(profileID, actor string, at time.Time) ([]string, error) {
	var ids []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.ChatChannel{}).
			Where("status = ? AND (user_a_id = ? OR user_b_id = ?)", domain.ChannelActive, profileID, profileID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&domain.ChatChannel{}).
			Where("id IN ? AND status = ?", ids, domain.ChannelActive).
			Updates(map[string]interface{}{
				"status":    domain.ChannelClosed,
				"closed_by": actor,
				"closed_at": at,
			}).Error
	})
	return ids, err
}
