package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
)

// settingsWith seeds specific keys and leaves the rest at defaults
func settingsWith(values map[string]string) *SettingsService {
	repo := new(MockSettingRepository)
	for k, v := range values {
		repo.On("Get", k).Return(v, nil)
	}
	repo.On("Get", mock.Anything).Return("", common.ErrNotFound)
	return NewSettingsService(repo, 0, 0)
}

func allowAllQuota() *MockMessageQuota {
	q := new(MockMessageQuota)
	q.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	return q
}

func newModerationService(channels *MockChannelRepository, messages *MockMessageRepository, settings *SettingsService, quota *MockMessageQuota) *ModerationService {
	svc := NewModerationService(channels, messages, settings, quota, testBus())
	svc.now = fixedClock(time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC))
	return svc
}

func TestSendMessage_CleanContent(t *testing.T) {
	t.Run("auto-approve on writes an approved message", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		messages.On("Create", mock.AnythingOfType("*domain.Message")).Return(nil)

		svc := newModerationService(channels, messages, settingsWith(nil), allowAllQuota())

		msg, err := svc.SendMessage(context.Background(), "ch1", "alice", "assalamu alaikum")
		assert.NoError(t, err)
		assert.Equal(t, domain.MessageApproved, msg.Status)
		messages.AssertNotCalled(t, "CreateWithFlag")
	})

	t.Run("auto-approve off leaves the message pending", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		messages.On("Create", mock.AnythingOfType("*domain.Message")).Return(nil)

		settings := settingsWith(map[string]string{KeyAutoApprove: "false"})
		svc := newModerationService(channels, messages, settings, allowAllQuota())

		msg, err := svc.SendMessage(context.Background(), "ch1", "alice", "hello")
		assert.NoError(t, err)
		assert.Equal(t, domain.MessagePending, msg.Status)
	})

	t.Run("empty content is rejected before any lookup", func(t *testing.T) {
		channels := new(MockChannelRepository)
		svc := newModerationService(channels, new(MockMessageRepository), settingsWith(nil), allowAllQuota())

		_, err := svc.SendMessage(context.Background(), "ch1", "alice", "   ")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		channels.AssertNotCalled(t, "FindByID")
	})
}

func TestSendMessage_ChannelLiveness(t *testing.T) {
	t.Run("closed channel refuses messages", func(t *testing.T) {
		ch := activeChannel()
		ch.Status = domain.ChannelClosed
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(ch, nil)

		svc := newModerationService(channels, new(MockMessageRepository), settingsWith(nil), allowAllQuota())

		_, err := svc.SendMessage(context.Background(), "ch1", "alice", "hello")
		assert.ErrorIs(t, err, common.ErrChannelNotActive)
	})

	t.Run("channel past expiry refuses before the sweep runs", func(t *testing.T) {
		ch := activeChannel()
		ch.ExpiresAt = time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC) // one hour ago
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(ch, nil)

		svc := newModerationService(channels, new(MockMessageRepository), settingsWith(nil), allowAllQuota())

		_, err := svc.SendMessage(context.Background(), "ch1", "alice", "hello")
		assert.ErrorIs(t, err, common.ErrChannelNotActive)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)

		svc := newModerationService(channels, new(MockMessageRepository), settingsWith(nil), allowAllQuota())

		_, err := svc.SendMessage(context.Background(), "ch1", "mallory", "hello")
		assert.ErrorIs(t, err, common.ErrNotAuthorized)
	})
}

func TestSendMessage_RateLimit(t *testing.T) {
	t.Run("over quota creates no record at all", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)

		quota := new(MockMessageQuota)
		quota.On("Allow", mock.Anything, "alice", 20, 100).Return(false, nil)

		svc := newModerationService(channels, messages, settingsWith(nil), quota)

		_, err := svc.SendMessage(context.Background(), "ch1", "alice", "hello")
		assert.ErrorIs(t, err, common.ErrRateLimitExceeded)
		messages.AssertNotCalled(t, "Create")
		messages.AssertNotCalled(t, "CreateWithFlag")
	})

	t.Run("quota uses the configured limits", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		messages.On("Create", mock.Anything).Return(nil)

		quota := new(MockMessageQuota)
		quota.On("Allow", mock.Anything, "alice", 5, 40).Return(true, nil)

		settings := settingsWith(map[string]string{KeyHourlyLimit: "5", KeyDailyLimit: "40"})
		svc := newModerationService(channels, messages, settings, quota)

		_, err := svc.SendMessage(context.Background(), "ch1", "alice", "hello")
		assert.NoError(t, err)
		quota.AssertExpectations(t)
	})
}

func TestSendMessage_Flagging(t *testing.T) {
	t.Run("banned term flags the message with exactly one record", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)

		var captured *domain.FlaggedMessage
		messages.On("CreateWithFlag", mock.AnythingOfType("*domain.Message"), mock.AnythingOfType("*domain.FlaggedMessage")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*domain.FlaggedMessage)
			}).Return(nil)

		settings := settingsWith(map[string]string{KeyBannedWords: "whatsapp,instagram"})
		svc := newModerationService(channels, messages, settings, allowAllQuota())

		msg, err := svc.SendMessage(context.Background(), "ch1", "alice", "add me on WhatsApp")
		assert.NoError(t, err)
		assert.Equal(t, domain.MessageFlagged, msg.Status)
		assert.NotNil(t, captured)
		assert.Equal(t, []string{"whatsapp"}, captured.Terms())
		assert.Equal(t, 1, captured.TermCount)
		assert.Equal(t, domain.CasePending, captured.Status)
		messages.AssertNotCalled(t, "Create")
	})

	t.Run("matching is case-insensitive and counts distinct terms once", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)

		var captured *domain.FlaggedMessage
		messages.On("CreateWithFlag", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*domain.FlaggedMessage)
			}).Return(nil)

		settings := settingsWith(map[string]string{KeyBannedWords: "phone,meet"})
		svc := newModerationService(channels, messages, settings, allowAllQuota())

		_, err := svc.SendMessage(context.Background(), "ch1", "alice", "PHONE phone Phone, let's MEET")
		assert.NoError(t, err)
		assert.Equal(t, 2, captured.TermCount)
	})
}

func TestGradeSeverity(t *testing.T) {
	cases := []struct {
		name     string
		matched  []string
		highRisk []string
		want     domain.Severity
	}{
		{"one ordinary term grades low", []string{"phone"}, nil, domain.SeverityLow},
		{"two terms grade medium", []string{"phone", "meet"}, nil, domain.SeverityMedium},
		{"four terms grade high", []string{"a", "b", "c", "d"}, nil, domain.SeverityHigh},
		{"single high-risk term grades high", []string{"abuse"}, []string{"abuse"}, domain.SeverityHigh},
		{"high-risk wins over low count", []string{"phone", "abuse"}, []string{"abuse"}, domain.SeverityHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gradeSeverity(tc.matched, tc.highRisk, 2, 4))
		})
	}
}

func TestSendMessage_SeverityThresholdsFromSettings(t *testing.T) {
	channels := new(MockChannelRepository)
	messages := new(MockMessageRepository)
	channels.On("FindByID", "ch1").Return(activeChannel(), nil)

	var captured *domain.FlaggedMessage
	messages.On("CreateWithFlag", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.FlaggedMessage)
		}).Return(nil)

	// Lowering the medium threshold to 1 makes a single match medium
	settings := settingsWith(map[string]string{
		KeyBannedWords:         "phone",
		KeySeverityMediumTerms: "1",
	})
	svc := newModerationService(channels, messages, settings, allowAllQuota())

	_, err := svc.SendMessage(context.Background(), "ch1", "alice", "my phone")
	assert.NoError(t, err)
	assert.Equal(t, domain.SeverityMedium, captured.Severity)
}

func TestHistory(t *testing.T) {
	t.Run("participant reads history", func(t *testing.T) {
		channels := new(MockChannelRepository)
		messages := new(MockMessageRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		messages.On("ListByChannel", "ch1", 1, 50).Return([]domain.Message{{ID: "m1"}}, int64(1), nil)

		svc := newModerationService(channels, messages, settingsWith(nil), allowAllQuota())

		msgs, total, err := svc.History("ch1", "bob", false, 1, 50)
		assert.NoError(t, err)
		assert.Len(t, msgs, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("outsider may not read history", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)

		svc := newModerationService(channels, new(MockMessageRepository), settingsWith(nil), allowAllQuota())

		_, _, err := svc.History("ch1", "mallory", false, 1, 50)
		assert.ErrorIs(t, err, common.ErrNotAuthorized)
	})
}
