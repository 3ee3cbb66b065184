package repository

import (
	"errors"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"gorm.io/gorm"
)

// CandidateFilters narrows the search pool before privacy evaluation
type CandidateFilters struct {
	AgeMin        int
	AgeMax        int
	City          string
	Country       string
	MaritalStatus string
	Religiosity   string
	Page          int
	Limit         int
}

// ProfileRepository profile data access
type ProfileRepository interface {
	Create(p *domain.Profile) error
	FindByID(id string) (*domain.Profile, error)
	FindByAccountID(accountID string) (*domain.Profile, error)
	Update(p *domain.Profile) error
	UpdateStatus(id string, status domain.ProfileStatus) error
	SavePrivacy(cfg *domain.PrivacyConfiguration) error
	ListCandidates(gender domain.Gender, f CandidateFilters) ([]domain.Profile, int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(p *domain.Profile) error {
	return r.db.Create(p).Error
}

// FindByID loads the profile with its privacy configuration and gender
// variant. Privacy is read fresh on every call, never cached.
func (r *profileRepository) FindByID(id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.Preload("Privacy").Preload("Guardian").Preload("Groom").
		Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) FindByAccountID(accountID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.Preload("Privacy").Preload("Guardian").Preload("Groom").
		Where("account_id = ?", accountID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Update(p *domain.Profile) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

func (r *profileRepository) UpdateStatus(id string, status domain.ProfileStatus) error {
	res := r.db.Model(&domain.Profile{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *profileRepository) SavePrivacy(cfg *domain.PrivacyConfiguration) error {
	return r.db.Save(cfg).Error
}

// ListCandidates returns active profiles of the given gender matching the
// filters, with pagination.
func (r *profileRepository) ListCandidates(gender domain.Gender, f CandidateFilters) ([]domain.Profile, int64, error) {
	var profiles []domain.Profile
	var total int64

	query := r.db.Model(&domain.Profile{}).
		Where("gender = ? AND status = ?", gender, domain.ProfileActive)

	if f.AgeMin > 0 {
		query = query.Where("age >= ?", f.AgeMin)
	}
	if f.AgeMax > 0 {
		query = query.Where("age <= ?", f.AgeMax)
	}
	if f.City != "" {
		query = query.Where("city = ?", f.City)
	}
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	if f.MaritalStatus != "" {
		query = query.Where("marital_status = ?", f.MaritalStatus)
	}
	if f.Religiosity != "" {
		query = query.Where("religiosity = ?", f.Religiosity)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	if err := query.Preload("Privacy").
		Order("last_active_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
