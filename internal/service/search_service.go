package service

import (
	"fmt"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// SearchService is the searchProfiles boundary: gender segregation first,
// then per-candidate privacy evaluation, then field disclosure.
type SearchService struct {
	profiles repository.ProfileRepository
	privacy  *PrivacyService
}

// NewSearchService creates a new SearchService
func NewSearchService(profiles repository.ProfileRepository, privacy *PrivacyService) *SearchService {
	return &SearchService{profiles: profiles, privacy: privacy}
}

// Search returns the candidates the viewer is permitted to see. The total
// counts the gender-filtered pool before privacy evaluation, so pages are
// stable while per-viewer visibility still applies.
func (s *SearchService) Search(viewerID string, f repository.CandidateFilters) ([]ProfileView, int64, error) {
	viewer, err := s.profiles.FindByID(viewerID)
	if err != nil {
		return nil, 0, err
	}

	// The pool query only ever sees the opposite gender
	pool, total, err := s.profiles.ListCandidates(viewer.Gender.Opposite(), f)
	if err != nil {
		return nil, 0, err
	}

	views := make([]ProfileView, 0, len(pool))
	for i := range pool {
		subject := &pool[i]
		if subject.ID == viewerID {
			continue
		}
		ok, err := s.privacy.CanView(viewer, subject)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			continue
		}
		view, err := s.privacy.BuildView(viewer, subject)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}

	return views, total, nil
}

// View evaluates a single subject for the viewer
func (s *SearchService) View(viewerID, subjectID string) (*ProfileView, error) {
	viewer, err := s.profiles.FindByID(viewerID)
	if err != nil {
		return nil, err
	}
	subject, err := s.profiles.FindByID(subjectID)
	if err != nil {
		return nil, err
	}

	ok, err := s.privacy.CanView(viewer, subject)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: profile is not visible to this viewer", common.ErrPermissionDenied)
	}
	return s.privacy.BuildView(viewer, subject)
}
