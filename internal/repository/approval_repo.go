package repository

import (
	"errors"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
)

// GuardianApprovalRepository guardian consent data access
type GuardianApprovalRepository interface {
	Grant(a *domain.GuardianApproval) error
	Revoke(profileID, counterpartID string) error
	Exists(profileID, counterpartID string) (bool, error)
	ListForProfile(profileID string) ([]domain.GuardianApproval, error)
}

type guardianApprovalRepository struct {
	db *gorm.DB
}

// NewGuardianApprovalRepository creates a new GuardianApprovalRepository
func NewGuardianApprovalRepository(db *gorm.DB) GuardianApprovalRepository {
	return &guardianApprovalRepository{db: db}
}

// Grant is idempotent: re-granting an existing pair is not an error
func (r *guardianApprovalRepository) Grant(a *domain.GuardianApproval) error {
	err := r.db.Create(a).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *guardianApprovalRepository) Revoke(profileID, counterpartID string) error {
	res := r.db.Where("profile_id = ? AND counterpart_id = ?", profileID, counterpartID).
		Delete(&domain.GuardianApproval{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *guardianApprovalRepository) Exists(profileID, counterpartID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.GuardianApproval{}).
		Where("profile_id = ? AND counterpart_id = ?", profileID, counterpartID).
		Count(&count).Error
	return count > 0, err
}

func (r *guardianApprovalRepository) ListForProfile(profileID string) ([]domain.GuardianApproval, error) {
	var approvals []domain.GuardianApproval
	err := r.db.Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&approvals).Error
	return approvals, err
}
