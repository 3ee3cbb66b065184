package service

import (
	"time"

	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// FilterByGender restricts the candidate pool to the opposite gender of
// the viewer. This is an unconditional precondition: no privacy tier can
// re-expose same-gender profiles to each other. Pure, no side effects.
func FilterByGender(viewer domain.Gender, pool []domain.Profile) []domain.Profile {
	opposite := viewer.Opposite()
	out := make([]domain.Profile, 0, len(pool))
	for _, p := range pool {
		if p.Gender == opposite {
			out = append(out, p)
		}
	}
	return out
}

// PrivacyService evaluates visibility, contact and message permission
// between a viewer and a subject. Subject privacy is read fresh by the
// caller on every check; nothing here caches across calls.
type PrivacyService struct {
	requests  repository.RequestRepository
	approvals repository.GuardianApprovalRepository
}

// NewPrivacyService creates a new PrivacyService
func NewPrivacyService(requests repository.RequestRepository, approvals repository.GuardianApprovalRepository) *PrivacyService {
	return &PrivacyService{requests: requests, approvals: approvals}
}

// CanView decides whether viewer may see subject's profile
func (s *PrivacyService) CanView(viewer, subject *domain.Profile) (bool, error) {
	if viewer.Gender == subject.Gender {
		return false, nil
	}
	if subject.Status != domain.ProfileActive || viewer.Status != domain.ProfileActive {
		return false, nil
	}

	tier := subject.Privacy.Visibility
	switch tier {
	case domain.VisibilityClosed:
		// Closed admits nobody, previously-matched viewers included
		return false, nil
	case domain.VisibilityMatched:
		return s.requests.HasAcceptedBetween(viewer.ID, subject.ID)
	case domain.VisibilityGuardian:
		if viewer.Membership.Rank() < tier.MinViewerRank() {
			return false, nil
		}
		// Without explicit guardian consent the tier match is irrelevant
		return s.approvals.Exists(subject.ID, viewer.ID)
	default:
		return viewer.Membership.Rank() >= tier.MinViewerRank(), nil
	}
}

// CanContact decides whether viewer may send a marriage request to
// subject. Evaluated separately from CanView, never implied by it.
func (s *PrivacyService) CanContact(viewer, subject *domain.Profile) (bool, error) {
	if viewer.Gender == subject.Gender {
		return false, nil
	}
	if subject.Status != domain.ProfileActive || viewer.Status != domain.ProfileActive {
		return false, nil
	}

	switch subject.Privacy.AllowContact {
	case domain.ContactNone:
		return false, nil
	case domain.ContactVerified:
		return viewer.Membership.Rank() >= domain.TierVerified.Rank(), nil
	case domain.ContactPremium:
		return viewer.Membership.Rank() >= domain.TierPremium.Rank(), nil
	default:
		return true, nil
	}
}

// CanMessage decides whether viewer may message subject: the pair must
// hold an accepted marriage request. Channel liveness is enforced by the
// moderation pipeline, not here.
func (s *PrivacyService) CanMessage(viewer, subject *domain.Profile) (bool, error) {
	if viewer.Gender == subject.Gender {
		return false, nil
	}
	if subject.Status != domain.ProfileActive || viewer.Status != domain.ProfileActive {
		return false, nil
	}
	return s.requests.HasAcceptedBetween(viewer.ID, subject.ID)
}

// ProfileView is a subject profile with undisclosed fields stripped
type ProfileView struct {
	ID            string     `json:"id"`
	Gender        domain.Gender `json:"gender"`
	Bio           string     `json:"bio"`
	MaritalStatus string     `json:"marital_status"`
	Religiosity   string     `json:"religiosity"`
	Membership    domain.MembershipTier `json:"membership"`
	Age           *int       `json:"age,omitempty"`
	City          *string    `json:"city,omitempty"`
	Country       *string    `json:"country,omitempty"`
	Occupation    *string    `json:"occupation,omitempty"`
	PhotoVisible  bool       `json:"photo_visible"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
}

// BuildView applies per-field disclosure after view permission has been
// granted. Field rules never gate the boolean permission checks.
func (s *PrivacyService) BuildView(viewer, subject *domain.Profile) (*ProfileView, error) {
	view := &ProfileView{
		ID:            subject.ID,
		Gender:        subject.Gender,
		Bio:           subject.Bio,
		MaritalStatus: subject.MaritalStatus,
		Religiosity:   subject.Religiosity,
		Membership:    subject.Membership,
	}

	cfg := subject.Privacy
	if cfg.ShowAge {
		age := subject.Age
		view.Age = &age
	}
	if cfg.ShowLocation {
		city, country := subject.City, subject.Country
		view.City = &city
		view.Country = &country
	}
	if cfg.ShowOccupation {
		occupation := subject.Occupation
		view.Occupation = &occupation
	}
	if cfg.ShowLastSeen {
		view.LastActiveAt = subject.LastActiveAt
	}

	switch cfg.PhotoVisibility {
	case domain.PhotoOpen:
		view.PhotoVisible = true
	case domain.PhotoMatched:
		matched, err := s.requests.HasAcceptedBetween(viewer.ID, subject.ID)
		if err != nil {
			return nil, err
		}
		view.PhotoVisible = matched
	default:
		view.PhotoVisible = false
	}

	return view, nil
}
