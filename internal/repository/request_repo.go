package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
)

// RequestRepository marriage request data access
type RequestRepository interface {
	WithTx(tx *gorm.DB) RequestRepository
	CreateActive(req *domain.MarriageRequest) error
	FindByID(id string) (*domain.MarriageRequest, error)
	Resolve(id string, to domain.RequestStatus, at time.Time) error
	HasAcceptedBetween(a, b string) (bool, error)
	ListForProfile(profileID, box string, page, limit int) ([]domain.MarriageRequest, int64, error)
	ExpireDue(now time.Time) ([]string, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) WithTx(tx *gorm.DB) RequestRepository {
	if tx == nil {
		return r
	}
	return &requestRepository{db: tx}
}

// CreateActive inserts a pending request. The uniq_active_pair index makes
// the duplicate check transactional: a concurrent insert for the same
// ordered pair loses with a duplicate-key error, never a silent duplicate.
func (r *requestRepository) CreateActive(req *domain.MarriageRequest) error {
	active := true
	req.Active = &active
	req.Status = domain.RequestPending

	err := r.db.Create(req).Error
	if err != nil && isDuplicateKey(err) {
		return common.ErrDuplicateActiveRequest
	}
	return err
}

func (r *requestRepository) FindByID(id string) (*domain.MarriageRequest, error) {
	var req domain.MarriageRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Resolve transitions a pending request to a terminal state. The status
// guard in the WHERE clause makes concurrent resolutions lose cleanly.
func (r *requestRepository) Resolve(id string, to domain.RequestStatus, at time.Time) error {
	res := r.db.Model(&domain.MarriageRequest{}).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Updates(map[string]interface{}{
			"status":     to,
			"active":     nil,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidState
	}
	return nil
}

func (r *requestRepository) HasAcceptedBetween(a, b string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.MarriageRequest{}).
		Where("status = ?", domain.RequestAccepted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// ListForProfile returns requests where the profile is sender ("sent"),
// receiver ("received") or either (anything else).
func (r *requestRepository) ListForProfile(profileID, box string, page, limit int) ([]domain.MarriageRequest, int64, error) {
	var requests []domain.MarriageRequest
	var total int64

	query := r.db.Model(&domain.MarriageRequest{})
	switch box {
	case "sent":
		query = query.Where("sender_id = ?", profileID)
	case "received":
		query = query.Where("receiver_id = ?", profileID)
	default:
		query = query.Where("sender_id = ? OR receiver_id = ?", profileID, profileID)
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

	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ExpireDue transitions every pending request past its expiry to expired
// and returns the affected ids. The time comparison makes repeated runs
// idempotent.
func (r *requestRepository) ExpireDue(now time.Time) ([]string, error) {
	var ids []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.MarriageRequest{}).
			Where("status = ? AND expires_at <= ?", domain.RequestPending, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&domain.MarriageRequest{}).
			Where("id IN ? AND status = ?", ids, domain.RequestPending).
			Updates(map[string]interface{}{
				"status":     domain.RequestExpired,
				"active":     nil,
				"updated_at": now,
			}).Error
	})
	return ids, err
}

// isDuplicateKey detects unique constraint violations across drivers
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
