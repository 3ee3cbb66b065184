package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
)

func activeChannel() *domain.ChatChannel {
	return &domain.ChatChannel{
		ID:        "ch1",
		RequestID: "req1",
		UserAID:   "alice",
		UserBID:   "bob",
		Status:    domain.ChannelActive,
		ExpiresAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestChannelGet(t *testing.T) {
	t.Run("participant may read", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		svc := NewChannelService(channels, testBus())

		ch, err := svc.Get("ch1", "alice", false)
		assert.NoError(t, err)
		assert.Equal(t, "ch1", ch.ID)
	})

	t.Run("outsider is rejected, admin is not", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		svc := NewChannelService(channels, testBus())

		_, err := svc.Get("ch1", "mallory", false)
		assert.ErrorIs(t, err, common.ErrNotAuthorized)

		_, err = svc.Get("ch1", "mallory", true)
		assert.NoError(t, err)
	})
}

func TestChannelExtend(t *testing.T) {
	t.Run("pushes expiry forward by whole days", func(t *testing.T) {
		ch := activeChannel()
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(ch, nil)
		channels.On("UpdateExpiry", "ch1", ch.ExpiresAt.Add(3*24*time.Hour)).Return(nil)
		svc := NewChannelService(channels, testBus())

		out, err := svc.Extend("ch1", "bob", false, 3)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), out.ExpiresAt)
		channels.AssertExpectations(t)
	})

	t.Run("rejects non-positive extension", func(t *testing.T) {
		svc := NewChannelService(new(MockChannelRepository), testBus())

		_, err := svc.Extend("ch1", "bob", false, 0)
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = svc.Extend("ch1", "bob", false, -2)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("closed channel cannot be extended", func(t *testing.T) {
		ch := activeChannel()
		ch.Status = domain.ChannelClosed
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(ch, nil)
		svc := NewChannelService(channels, testBus())

		_, err := svc.Extend("ch1", "bob", false, 3)
		assert.ErrorIs(t, err, common.ErrInvalidState)
		channels.AssertNotCalled(t, "UpdateExpiry")
	})

	t.Run("expired channel cannot be extended", func(t *testing.T) {
		ch := activeChannel()
		ch.Status = domain.ChannelExpired
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(ch, nil)
		svc := NewChannelService(channels, testBus())

		_, err := svc.Extend("ch1", "bob", false, 3)
		assert.ErrorIs(t, err, common.ErrInvalidState)
	})
}

func TestChannelClose(t *testing.T) {
	t.Run("participant closes an active channel", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		channels.On("Close", "ch1", "alice", mock.AnythingOfType("time.Time")).Return(nil)
		svc := NewChannelService(channels, testBus())

		ch, err := svc.Close("ch1", "alice", false)
		assert.NoError(t, err)
		assert.Equal(t, domain.ChannelClosed, ch.Status)
		assert.NotNil(t, ch.ClosedBy)
		assert.Equal(t, "alice", *ch.ClosedBy)
	})

	t.Run("close is terminal", func(t *testing.T) {
		ch := activeChannel()
		ch.Status = domain.ChannelClosed
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(ch, nil)
		svc := NewChannelService(channels, testBus())

		_, err := svc.Close("ch1", "alice", false)
		assert.ErrorIs(t, err, common.ErrInvalidState)
	})

	t.Run("outsider may not close", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("FindByID", "ch1").Return(activeChannel(), nil)
		svc := NewChannelService(channels, testBus())

		_, err := svc.Close("ch1", "mallory", false)
		assert.ErrorIs(t, err, common.ErrNotAuthorized)
	})
}

func TestChannelSweepAndSuspension(t *testing.T) {
	t.Run("sweep counts expired channels", func(t *testing.T) {
		channels := new(MockChannelRepository)
		now := time.Now()
		channels.On("ExpireDue", now).Return([]string{"ch1", "ch2", "ch3"}, nil)
		svc := NewChannelService(channels, testBus())

		n, err := svc.SweepExpirations(now)
		assert.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("suspension closes every active channel", func(t *testing.T) {
		channels := new(MockChannelRepository)
		channels.On("CloseActiveForProfile", "target", "admin", mock.AnythingOfType("time.Time")).
			Return([]string{"ch1", "ch2"}, nil)
		svc := NewChannelService(channels, testBus())

		ids, err := svc.CloseAllForProfile("target", "admin")
		assert.NoError(t, err)
		assert.Len(t, ids, 2)
	})
}
