package service

import (
	"fmt"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// ProfileService owns profile CRUD at the engine boundary
type ProfileService struct {
	profiles  repository.ProfileRepository
	approvals repository.GuardianApprovalRepository
	now       func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repository.ProfileRepository, approvals repository.GuardianApprovalRepository) *ProfileService {
	return &ProfileService{profiles: profiles, approvals: approvals, now: time.Now}
}

// Create registers a profile at registration wizard completion. The
// gender variant must be consistent and gender is immutable afterwards.
func (s *ProfileService) Create(p *domain.Profile) (*domain.Profile, error) {
	if !p.Gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender", common.ErrInvalidInput)
	}
	if p.Age < 18 {
		return nil, fmt.Errorf("%w: age must be at least 18", common.ErrInvalidInput)
	}
	if !p.ValidateVariant() {
		return nil, fmt.Errorf("%w: gender details do not match profile gender", common.ErrInvalidInput)
	}

	p.Status = domain.ProfileActive
	now := s.now()
	p.LastActiveAt = &now
	if err := s.profiles.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get loads a profile with its privacy configuration
func (s *ProfileService) Get(id string) (*domain.Profile, error) {
	return s.profiles.FindByID(id)
}

// Update mutates a profile. Only the owner or an admin may mutate, and
// gender never changes after creation.
func (s *ProfileService) Update(id, callerProfileID string, isAdmin bool, updated *domain.Profile) (*domain.Profile, error) {
	existing, err := s.profiles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && existing.ID != callerProfileID {
		return nil, fmt.Errorf("%w: only the owner or an admin may edit a profile", common.ErrNotAuthorized)
	}
	if updated.Gender != "" && updated.Gender != existing.Gender {
		return nil, fmt.Errorf("%w: gender is immutable", common.ErrInvalidInput)
	}

	existing.Age = updated.Age
	existing.City = updated.City
	existing.Country = updated.Country
	existing.Occupation = updated.Occupation
	existing.MaritalStatus = updated.MaritalStatus
	existing.Religiosity = updated.Religiosity
	existing.Bio = updated.Bio
	if updated.Guardian != nil {
		updated.Guardian.ProfileID = existing.ID
		existing.Guardian = updated.Guardian
	}
	if updated.Groom != nil {
		updated.Groom.ProfileID = existing.ID
		existing.Groom = updated.Groom
	}
	if !existing.ValidateVariant() {
		return nil, fmt.Errorf("%w: gender details do not match profile gender", common.ErrInvalidInput)
	}

	if err := s.profiles.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// UpdatePrivacy replaces the profile's privacy configuration
func (s *ProfileService) UpdatePrivacy(id, callerProfileID string, isAdmin bool, cfg *domain.PrivacyConfiguration) error {
	existing, err := s.profiles.FindByID(id)
	if err != nil {
		return err
	}
	if !isAdmin && existing.ID != callerProfileID {
		return fmt.Errorf("%w: only the owner or an admin may edit privacy settings", common.ErrNotAuthorized)
	}
	cfg.ProfileID = existing.ID
	return s.profiles.SavePrivacy(cfg)
}

// Remove soft-deletes a profile. Referenced profiles transition status
// instead of being hard-deleted.
func (s *ProfileService) Remove(id, callerProfileID string, isAdmin bool) error {
	existing, err := s.profiles.FindByID(id)
	if err != nil {
		return err
	}
	if !isAdmin && existing.ID != callerProfileID {
		return fmt.Errorf("%w: only the owner or an admin may remove a profile", common.ErrNotAuthorized)
	}
	return s.profiles.UpdateStatus(id, domain.ProfileRemoved)
}

// GrantApproval records guardian consent admitting a counterpart
func (s *ProfileService) GrantApproval(profileID, callerProfileID string, isAdmin bool, counterpartID, grantedBy string) error {
	if profileID == counterpartID {
		return fmt.Errorf("%w: cannot approve a profile for itself", common.ErrInvalidInput)
	}
	if !isAdmin && profileID != callerProfileID {
		return fmt.Errorf("%w: only the guarded profile's owner may manage approvals", common.ErrNotAuthorized)
	}
	if _, err := s.profiles.FindByID(counterpartID); err != nil {
		return err
	}
	return s.approvals.Grant(&domain.GuardianApproval{
		ProfileID:     profileID,
		CounterpartID: counterpartID,
		GrantedBy:     grantedBy,
	})
}

// RevokeApproval withdraws guardian consent
func (s *ProfileService) RevokeApproval(profileID, callerProfileID string, isAdmin bool, counterpartID string) error {
	if !isAdmin && profileID != callerProfileID {
		return fmt.Errorf("%w: only the guarded profile's owner may manage approvals", common.ErrNotAuthorized)
	}
	return s.approvals.Revoke(profileID, counterpartID)
}

// Touch updates the last-active timestamp
func (s *ProfileService) Touch(id string) {
	if p, err := s.profiles.FindByID(id); err == nil {
		now := s.now()
		p.LastActiveAt = &now
		_ = s.profiles.Update(p)
	}
}
