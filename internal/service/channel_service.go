package service

import (
	"fmt"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/event"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// ChannelService owns the chat channel lifecycle after creation. Creation
// itself happens inside the request accept transaction.
type ChannelService struct {
	channels repository.ChannelRepository
	bus      *event.Bus
	now      func() time.Time
}

// NewChannelService creates a new ChannelService
func NewChannelService(channels repository.ChannelRepository, bus *event.Bus) *ChannelService {
	return &ChannelService{channels: channels, bus: bus, now: time.Now}
}

// Get returns a channel the caller is allowed to see
func (s *ChannelService) Get(channelID, callerID string, isAdmin bool) (*domain.ChatChannel, error) {
	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !ch.HasParticipant(callerID) {
		return nil, fmt.Errorf("%w: caller is not a channel participant", common.ErrNotAuthorized)
	}
	return ch, nil
}

// ListForProfile returns the channels the profile participates in
func (s *ChannelService) ListForProfile(profileID string) ([]domain.ChatChannel, error) {
	return s.channels.ListForProfile(profileID)
}

// Extend pushes the expiry of an active channel forward by the given
// number of days. Expiry only ever moves forward.
func (s *ChannelService) Extend(channelID, callerID string, isAdmin bool, days int) (*domain.ChatChannel, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: extension must be positive", common.ErrInvalidInput)
	}

	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !ch.HasParticipant(callerID) {
		return nil, fmt.Errorf("%w: caller is not a channel participant", common.ErrNotAuthorized)
	}
	if ch.Status != domain.ChannelActive {
		return nil, fmt.Errorf("%w: channel is %s", common.ErrInvalidState, ch.Status)
	}

	newExpiry := ch.ExpiresAt.Add(time.Duration(days) * 24 * time.Hour)
	if err := s.channels.UpdateExpiry(channelID, newExpiry); err != nil {
		return nil, err
	}
	ch.ExpiresAt = newExpiry

	s.bus.Publish(event.ChannelExtended, ch.ID, map[string]interface{}{
		"expires_at": newExpiry,
	})
	return ch, nil
}

// Close terminates an active channel. Either participant or an admin may
// close; terminal regardless of remaining expiry.
func (s *ChannelService) Close(channelID, actorID string, isAdmin bool) (*domain.ChatChannel, error) {
	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !ch.HasParticipant(actorID) {
		return nil, fmt.Errorf("%w: caller is not a channel participant", common.ErrNotAuthorized)
	}
	if ch.Status != domain.ChannelActive {
		return nil, fmt.Errorf("%w: channel is %s", common.ErrInvalidState, ch.Status)
	}

	now := s.now()
	if err := s.channels.Close(channelID, actorID, now); err != nil {
		return nil, err
	}
	ch.Status = domain.ChannelClosed
	ch.ClosedBy = &actorID
	ch.ClosedAt = &now

	s.bus.Publish(event.ChannelClosed, ch.ID, map[string]interface{}{
		"closed_by": actorID,
	})
	return ch, nil
}

// SweepExpirations transitions active channels past expiry to expired.
// Idempotent and safe under concurrent runs.
func (s *ChannelService) SweepExpirations(now time.Time) (int, error) {
	ids, err := s.channels.ExpireDue(now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.bus.Publish(event.ChannelExpired, id, nil)
	}
	return len(ids), nil
}

// CloseAllForProfile closes every active channel of a suspended profile
func (s *ChannelService) CloseAllForProfile(profileID, actorID string) ([]string, error) {
	ids, err := s.channels.CloseActiveForProfile(profileID, actorID, s.now())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.bus.Publish(event.ChannelClosed, id, map[string]interface{}{
			"closed_by": actorID,
			"reason":    "profile_suspended",
		})
	}
	return ids, nil
}
