package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/event"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// ModerationService screens every outgoing message: channel liveness,
// rate limiting, banned-term scanning, severity grading.
type ModerationService struct {
	channels repository.ChannelRepository
	messages repository.MessageRepository
	settings *SettingsService
	quota    MessageQuota
	bus      *event.Bus
	now      func() time.Time
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	channels repository.ChannelRepository,
	messages repository.MessageRepository,
	settings *SettingsService,
	quota MessageQuota,
	bus *event.Bus,
) *ModerationService {
	return &ModerationService{
		channels: channels,
		messages: messages,
		settings: settings,
		quota:    quota,
		bus:      bus,
		now:      time.Now,
	}
}

// SendMessage runs the full pipeline and persists the message. A flagged
// message is persisted in flagged status pending review, never silently
// dropped; a rate-limited submission creates no record at all.
func (s *ModerationService) SendMessage(ctx context.Context, channelID, senderID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty message", common.ErrInvalidInput)
	}

	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if !ch.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: sender is not a channel participant", common.ErrNotAuthorized)
	}
	now := s.now()
	// A channel past expiry refuses messages even before the sweep runs
	if ch.Status != domain.ChannelActive || !now.Before(ch.ExpiresAt) {
		return nil, fmt.Errorf("%w: channel is %s", common.ErrChannelNotActive, ch.Status)
	}

	allowed, err := s.quota.Allow(ctx, senderID, s.settings.HourlyLimit(), s.settings.DailyLimit())
	if err != nil {
		return nil, err
	}
	if !allowed {
		messagesRateLimitedTotal.Inc()
		return nil, common.ErrRateLimitExceeded
	}

	matched := scanBannedTerms(content, s.settings.BannedWords())

	msg := &domain.Message{
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now,
	}

	if len(matched) == 0 {
		msg.Status = domain.MessagePending
		if s.settings.AutoApprove() {
			msg.Status = domain.MessageApproved
		}
		if err := s.messages.Create(msg); err != nil {
			return nil, err
		}
		messagesSubmittedTotal.WithLabelValues(string(msg.Status)).Inc()
		return msg, nil
	}

	msg.Status = domain.MessageFlagged
	medium, high := s.settings.SeverityThresholds()
	flag := &domain.FlaggedMessage{
		ChannelID:    channelID,
		SenderID:     senderID,
		MatchedTerms: domain.JoinTerms(matched),
		TermCount:    len(matched),
		Severity:     gradeSeverity(matched, s.settings.HighRiskWords(), medium, high),
		Status:       domain.CasePending,
	}
	if err := s.messages.CreateWithFlag(msg, flag); err != nil {
		return nil, err
	}

	messagesSubmittedTotal.WithLabelValues(string(domain.MessageFlagged)).Inc()
	s.bus.Publish(event.MessageFlagged, msg.ID, map[string]interface{}{
		"channel_id": channelID,
		"sender_id":  senderID,
		"severity":   string(flag.Severity),
		"flag_id":    flag.ID,
	})
	return msg, nil
}

// History lists a channel's messages for a participant or admin
func (s *ModerationService) History(channelID, callerID string, isAdmin bool, page, limit int) ([]domain.Message, int64, error) {
	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, 0, err
	}
	if !isAdmin && !ch.HasParticipant(callerID) {
		return nil, 0, fmt.Errorf("%w: caller is not a channel participant", common.ErrNotAuthorized)
	}
	return s.messages.ListByChannel(channelID, page, limit)
}

// scanBannedTerms returns the distinct banned terms found in content,
// case-insensitive
func scanBannedTerms(content string, banned []string) []string {
	if len(banned) == 0 {
		return nil
	}
	lower := strings.ToLower(content)
	var matched []string
	seen := make(map[string]bool, len(banned))
	for _, term := range banned {
		if term == "" || seen[term] {
			continue
		}
		if strings.Contains(lower, term) {
			matched = append(matched, term)
			seen[term] = true
		}
	}
	return matched
}

// gradeSeverity derives severity from term count and category. Any
// high-risk term grades high regardless of count.
func gradeSeverity(matched, highRisk []string, mediumAt, highAt int) domain.Severity {
	risk := make(map[string]bool, len(highRisk))
	for _, t := range highRisk {
		risk[t] = true
	}
	for _, t := range matched {
		if risk[t] {
			return domain.SeverityHigh
		}
	}
	switch {
	case len(matched) >= highAt:
		return domain.SeverityHigh
	case len(matched) >= mediumAt:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
