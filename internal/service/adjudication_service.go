package service

import (
	"fmt"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/event"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// FileReportInput is the payload for a user-initiated report
type FileReportInput struct {
	TargetType  domain.TargetType
	TargetID    string
	Category    string
	Description string
	Priority    domain.ReportPriority
}

// AdjudicationService drives the admin workflow over reports and flagged
// messages. Resolving a case never retroactively changes a message's own
// status; the reviewer decision sets that independently.
type AdjudicationService struct {
	reports  repository.ReportRepository
	messages repository.MessageRepository
	profiles repository.ProfileRepository
	channels *ChannelService
	bus      *event.Bus
	now      func() time.Time
}

// NewAdjudicationService creates a new AdjudicationService
func NewAdjudicationService(
	reports repository.ReportRepository,
	messages repository.MessageRepository,
	profiles repository.ProfileRepository,
	channels *ChannelService,
	bus *event.Bus,
) *AdjudicationService {
	return &AdjudicationService{
		reports:  reports,
		messages: messages,
		profiles: profiles,
		channels: channels,
		bus:      bus,
		now:      time.Now,
	}
}

// FileReport creates a pending report from any authenticated profile
func (s *AdjudicationService) FileReport(reporterID string, in FileReportInput) (*domain.Report, error) {
	if in.TargetType != domain.TargetProfile && in.TargetType != domain.TargetMessage {
		return nil, fmt.Errorf("%w: unknown target type %q", common.ErrInvalidInput, in.TargetType)
	}
	if in.TargetID == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: target and category are required", common.ErrInvalidInput)
	}

	// Reject dangling references up front
	switch in.TargetType {
	case domain.TargetProfile:
		if _, err := s.profiles.FindByID(in.TargetID); err != nil {
			return nil, err
		}
	case domain.TargetMessage:
		if _, err := s.messages.FindByID(in.TargetID); err != nil {
			return nil, err
		}
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	rep := &domain.Report{
		ReporterID:  reporterID,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		Category:    in.Category,
		Description: in.Description,
		Priority:    priority,
		Status:      domain.CasePending,
	}
	if err := s.reports.Create(rep); err != nil {
		return nil, err
	}

	s.bus.Publish(event.ReportFiled, rep.ID, map[string]interface{}{
		"target_type": string(in.TargetType),
		"target_id":   in.TargetID,
		"priority":    string(priority),
	})
	return rep, nil
}

// ListReports returns paginated reports for the admin console
func (s *AdjudicationService) ListReports(status domain.CaseStatus, page, limit int) ([]domain.Report, int64, error) {
	return s.reports.List(status, page, limit)
}

// AssignReport assigns an admin and moves a pending report to
// investigating. Assignment is only legal while the case is open.
func (s *AdjudicationService) AssignReport(reportID, adminID string) (*domain.Report, error) {
	rep, err := s.reports.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if !rep.Status.Assignable() {
		return nil, fmt.Errorf("%w: report is %s", common.ErrInvalidState, rep.Status)
	}

	rep.AssigneeID = &adminID
	if rep.Status == domain.CasePending {
		rep.Status = domain.CaseInvestigating
	}
	if err := s.reports.Update(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ResolveReport settles a report. With suspendTarget set on a profile
// report, the subject is suspended and their active channels closed.
func (s *AdjudicationService) ResolveReport(reportID, adminID, resolution string, suspendTarget bool) (*domain.Report, error) {
	rep, err := s.reports.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if rep.Status.Terminal() {
		return nil, fmt.Errorf("%w: report is %s", common.ErrInvalidState, rep.Status)
	}

	now := s.now()
	rep.Status = domain.CaseResolved
	rep.AssigneeID = &adminID
	rep.Resolution = resolution
	rep.ResolvedAt = &now
	if err := s.reports.Update(rep); err != nil {
		return nil, err
	}

	if suspendTarget && rep.TargetType == domain.TargetProfile {
		if err := s.profiles.UpdateStatus(rep.TargetID, domain.ProfileSuspended); err != nil {
			return nil, err
		}
		if _, err := s.channels.CloseAllForProfile(rep.TargetID, adminID); err != nil {
			return nil, err
		}
		s.bus.Publish(event.ProfileSuspended, rep.TargetID, map[string]interface{}{
			"report_id": rep.ID,
		})
	}

	s.bus.Publish(event.ReportResolved, rep.ID, map[string]interface{}{
		"assignee_id": adminID,
	})
	return rep, nil
}

// DismissReport settles a report without action
func (s *AdjudicationService) DismissReport(reportID, adminID string) (*domain.Report, error) {
	rep, err := s.reports.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if rep.Status.Terminal() {
		return nil, fmt.Errorf("%w: report is %s", common.ErrInvalidState, rep.Status)
	}

	now := s.now()
	rep.Status = domain.CaseDismissed
	rep.AssigneeID = &adminID
	rep.ResolvedAt = &now
	if err := s.reports.Update(rep); err != nil {
		return nil, err
	}

	s.bus.Publish(event.ReportDismissed, rep.ID, nil)
	return rep, nil
}

// ListFlagged returns paginated flagged message records
func (s *AdjudicationService) ListFlagged(status domain.CaseStatus, page, limit int) ([]domain.FlaggedMessage, int64, error) {
	return s.messages.ListFlagged(status, page, limit)
}

// AssignFlagged assigns an admin to a flagged message record
func (s *AdjudicationService) AssignFlagged(flagID, adminID string) (*domain.FlaggedMessage, error) {
	flag, err := s.messages.FindFlaggedByID(flagID)
	if err != nil {
		return nil, err
	}
	if !flag.Status.Assignable() {
		return nil, fmt.Errorf("%w: record is %s", common.ErrInvalidState, flag.Status)
	}

	flag.AssigneeID = &adminID
	if flag.Status == domain.CasePending {
		flag.Status = domain.CaseInvestigating
	}
	if err := s.messages.UpdateFlagged(flag); err != nil {
		return nil, err
	}
	return flag, nil
}

// ReviewFlagged resolves a flagged record with a reviewer decision on the
// underlying message: approve releases it, reject makes it immutable.
func (s *AdjudicationService) ReviewFlagged(flagID, adminID string, approve bool, resolution string) (*domain.FlaggedMessage, error) {
	flag, err := s.messages.FindFlaggedByID(flagID)
	if err != nil {
		return nil, err
	}
	if flag.Status.Terminal() {
		return nil, fmt.Errorf("%w: record is %s", common.ErrInvalidState, flag.Status)
	}

	now := s.now()
	target := domain.MessageRejected
	eventType := event.MessageRejected
	if approve {
		target = domain.MessageApproved
		eventType = event.MessageApproved
	}
	if err := s.messages.UpdateStatus(flag.MessageID, target, adminID, now); err != nil {
		return nil, err
	}

	flag.Status = domain.CaseResolved
	flag.AssigneeID = &adminID
	flag.Resolution = resolution
	flag.ResolvedAt = &now
	if err := s.messages.UpdateFlagged(flag); err != nil {
		return nil, err
	}

	s.bus.Publish(eventType, flag.MessageID, map[string]interface{}{
		"flag_id":     flag.ID,
		"reviewer_id": adminID,
	})
	return flag, nil
}

// DismissFlagged settles a flagged record without touching the message
func (s *AdjudicationService) DismissFlagged(flagID, adminID string) (*domain.FlaggedMessage, error) {
	flag, err := s.messages.FindFlaggedByID(flagID)
	if err != nil {
		return nil, err
	}
	if flag.Status.Terminal() {
		return nil, fmt.Errorf("%w: record is %s", common.ErrInvalidState, flag.Status)
	}

	now := s.now()
	flag.Status = domain.CaseDismissed
	flag.AssigneeID = &adminID
	flag.ResolvedAt = &now
	if err := s.messages.UpdateFlagged(flag); err != nil {
		return nil, err
	}
	return flag, nil
}
