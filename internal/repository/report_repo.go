package repository

import (
	"errors"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
)

// ReportRepository report data access
type ReportRepository interface {
	Create(rep *domain.Report) error
	FindByID(id string) (*domain.Report, error)
	Update(rep *domain.Report) error
	List(status domain.CaseStatus, page, limit int) ([]domain.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(rep *domain.Report) error {
	return r.db.Create(rep).Error
}

func (r *reportRepository) FindByID(id string) (*domain.Report, error) {
	var rep domain.Report
	err := r.db.Where("id = ?", id).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *reportRepository) Update(rep *domain.Report) error {
	return r.db.Save(rep).Error
}

// List retrieves paginated reports with optional status filter, highest
// priority first
func (r *reportRepository) List(status domain.CaseStatus, page, limit int) ([]domain.Report, int64, error) {
	var reports []domain.Report
	var total int64

	query := r.db.Model(&domain.Report{})
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

	if err := query.Order("FIELD(priority, 'high', 'medium', 'low'), created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
