package service

import (
	"fmt"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/event"
	"github.com/zawajapp/zawaj-backend/internal/repository"
	"gorm.io/gorm"
)

// RequestService owns the marriage request lifecycle
type RequestService struct {
	requests  repository.RequestRepository
	channels  repository.ChannelRepository
	profiles  repository.ProfileRepository
	approvals repository.GuardianApprovalRepository
	privacy   *PrivacyService
	settings  *SettingsService
	tx        repository.TxManager
	bus       *event.Bus
	now       func() time.Time
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requests repository.RequestRepository,
	channels repository.ChannelRepository,
	profiles repository.ProfileRepository,
	approvals repository.GuardianApprovalRepository,
	privacy *PrivacyService,
	settings *SettingsService,
	tx repository.TxManager,
	bus *event.Bus,
) *RequestService {
	return &RequestService{
		requests:  requests,
		channels:  channels,
		profiles:  profiles,
		approvals: approvals,
		privacy:   privacy,
		settings:  settings,
		tx:        tx,
		bus:       bus,
		now:       time.Now,
	}
}

// Submit creates a pending request from sender to receiver after the
// privacy evaluator admits the contact attempt. A still-unresolved
// request for the same ordered pair fails with DuplicateActiveRequest.
func (s *RequestService) Submit(senderID, receiverID, message string) (*domain.MarriageRequest, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: sender and receiver must differ", common.ErrInvalidInput)
	}

	sender, err := s.profiles.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.profiles.FindByID(receiverID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.privacy.CanContact(sender, receiver)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: receiver does not accept contact requests from this sender", common.ErrPermissionDenied)
	}

	now := s.now()
	req := &domain.MarriageRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		ExpiresAt:  now.Add(time.Duration(s.settings.RequestExpiryDays()) * 24 * time.Hour),
	}
	if err := s.requests.CreateActive(req); err != nil {
		return nil, err
	}

	requestsSubmittedTotal.Inc()
	s.bus.Publish(event.RequestSubmitted, req.ID, map[string]interface{}{
		"sender_id":   senderID,
		"receiver_id": receiverID,
	})
	return req, nil
}

// Respond lets the receiver accept or reject a pending request. Accepting
// atomically creates the chat channel: both happen or neither does.
func (s *RequestService) Respond(requestID, callerID string, accept bool) (*domain.MarriageRequest, *domain.ChatChannel, error) {
	req, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.ReceiverID != callerID {
		return nil, nil, fmt.Errorf("%w: only the receiver may respond", common.ErrNotAuthorized)
	}
	if req.Status != domain.RequestPending {
		return nil, nil, fmt.Errorf("%w: request already %s", common.ErrInvalidState, req.Status)
	}

	if accept {
		receiver, err := s.profiles.FindByID(req.ReceiverID)
		if err != nil {
			return nil, nil, err
		}
		if receiver.Privacy.RequireGuardianApproval {
			approved, err := s.approvals.Exists(req.ReceiverID, req.SenderID)
			if err != nil {
				return nil, nil, err
			}
			if !approved {
				return nil, nil, fmt.Errorf("%w: guardian approval is required before acceptance", common.ErrPermissionDenied)
			}
		}
	}

	now := s.now()
	target := domain.RequestRejected
	if accept {
		target = domain.RequestAccepted
	}

	var channel *domain.ChatChannel
	err = s.tx.Do(func(tx *gorm.DB) error {
		if err := s.requests.WithTx(tx).Resolve(req.ID, target, now); err != nil {
			return err
		}
		if !accept {
			return nil
		}
		channel = &domain.ChatChannel{
			RequestID: req.ID,
			UserAID:   req.SenderID,
			UserBID:   req.ReceiverID,
			Status:    domain.ChannelActive,
			ExpiresAt: now.Add(time.Duration(s.settings.ChannelExpiryDays()) * 24 * time.Hour),
		}
		return s.channels.WithTx(tx).Create(channel)
	})
	if err != nil {
		return nil, nil, err
	}

	req.Status = target
	req.Active = nil

	if accept {
		requestsResolvedTotal.WithLabelValues("accepted").Inc()
		s.bus.Publish(event.RequestAccepted, req.ID, map[string]interface{}{
			"sender_id":   req.SenderID,
			"receiver_id": req.ReceiverID,
			"channel_id":  channel.ID,
		})
		s.bus.Publish(event.ChannelCreated, channel.ID, map[string]interface{}{
			"request_id": req.ID,
			"expires_at": channel.ExpiresAt,
		})
	} else {
		requestsResolvedTotal.WithLabelValues("rejected").Inc()
		s.bus.Publish(event.RequestRejected, req.ID, map[string]interface{}{
			"sender_id":   req.SenderID,
			"receiver_id": req.ReceiverID,
		})
	}

	return req, channel, nil
}

// ListForProfile returns the caller's requests
func (s *RequestService) ListForProfile(profileID, box string, page, limit int) ([]domain.MarriageRequest, int64, error) {
	return s.requests.ListForProfile(profileID, box, page, limit)
}

// SweepExpirations transitions every pending request past its expiry to
// expired. Idempotent and safe under concurrent runs.
func (s *RequestService) SweepExpirations(now time.Time) (int, error) {
	ids, err := s.requests.ExpireDue(now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		requestsResolvedTotal.WithLabelValues("expired").Inc()
		s.bus.Publish(event.RequestExpired, id, nil)
	}
	return len(ids), nil
}
