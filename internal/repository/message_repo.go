package repository

import (
	"errors"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository chat message and flagged record data access
type MessageRepository interface {
	Create(m *domain.Message) error
	CreateWithFlag(m *domain.Message, f *domain.FlaggedMessage) error
	FindByID(id string) (*domain.Message, error)
	ListByChannel(channelID string, page, limit int) ([]domain.Message, int64, error)
	UpdateStatus(id string, status domain.MessageStatus, reviewerID string, at time.Time) error

	FindFlaggedByID(id string) (*domain.FlaggedMessage, error)
	ListFlagged(status domain.CaseStatus, page, limit int) ([]domain.FlaggedMessage, int64, error)
	UpdateFlagged(f *domain.FlaggedMessage) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(m *domain.Message) error {
	return r.db.Create(m).Error
}

// CreateWithFlag persists a flagged message and its record as a unit:
// exactly one FlaggedMessage per flagged message, or neither.
func (r *messageRepository) CreateWithFlag(m *domain.Message, f *domain.FlaggedMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		f.MessageID = m.ID
		return tx.Create(f).Error
	})
}

func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var m domain.Message
	err := r.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) ListByChannel(channelID string, page, limit int) ([]domain.Message, int64, error) {
	var messages []domain.Message
	var total int64

	query := r.db.Model(&domain.Message{}).Where("channel_id = ?", channelID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	if err := query.Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// UpdateStatus records a reviewer decision. Rejected messages are
// immutable, enforced by the status guard.
func (r *messageRepository) UpdateStatus(id string, status domain.MessageStatus, reviewerID string, at time.Time) error {
	res := r.db.Model(&domain.Message{}).
		Where("id = ? AND status <> ?", id, domain.MessageRejected).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewer_id": reviewerID,
			"reviewed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidState
	}
	return nil
}

func (r *messageRepository) FindFlaggedByID(id string) (*domain.FlaggedMessage, error) {
	var f domain.FlaggedMessage
	err := r.db.Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *messageRepository) ListFlagged(status domain.CaseStatus, page, limit int) ([]domain.FlaggedMessage, int64, error) {
	var flagged []domain.FlaggedMessage
	var total int64

	query := r.db.Model(&domain.FlaggedMessage{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	// High severity first within equal age
	if err := query.Order("FIELD(severity, 'high', 'medium', 'low'), created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&flagged).Error; err != nil {
		return nil, 0, err
	}

	return flagged, total, nil
}

func (r *messageRepository) UpdateFlagged(f *domain.FlaggedMessage) error {
	return r.db.Save(f).Error
}
