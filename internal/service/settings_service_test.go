package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
)

func TestSettingsDefaults(t *testing.T) {
	svc, _ := settingsWithDefaults()

	assert.True(t, svc.AutoApprove())
	assert.Equal(t, 20, svc.HourlyLimit())
	assert.Equal(t, 100, svc.DailyLimit())
	assert.Equal(t, 30, svc.RequestExpiryDays())
	assert.Equal(t, 7, svc.ChannelExpiryDays())
	assert.Nil(t, svc.BannedWords())
	assert.Nil(t, svc.HighRiskWords())

	medium, high := svc.SeverityThresholds()
	assert.Equal(t, 2, medium)
	assert.Equal(t, 4, high)
}

func TestSettingsStoredValuesWin(t *testing.T) {
	svc := settingsWith(map[string]string{
		KeyAutoApprove:       "false",
		KeyHourlyLimit:       "5",
		KeyBannedWords:       "WhatsApp, instagram ,, phone",
		KeyRequestExpiryDays: "14",
	})

	assert.False(t, svc.AutoApprove())
	assert.Equal(t, 5, svc.HourlyLimit())
	assert.Equal(t, 14, svc.RequestExpiryDays())
	// word lists are lowercased, trimmed, empty entries dropped
	assert.Equal(t, []string{"whatsapp", "instagram", "phone"}, svc.BannedWords())
	// keys not stored keep their defaults
	assert.Equal(t, 100, svc.DailyLimit())
}

func TestSettingsInvalidValuesFallBack(t *testing.T) {
	svc := settingsWith(map[string]string{
		KeyHourlyLimit:       "not-a-number",
		KeyDailyLimit:        "-3",
		KeyChannelExpiryDays: "0",
	})

	assert.Equal(t, 20, svc.HourlyLimit())
	assert.Equal(t, 100, svc.DailyLimit())
	assert.Equal(t, 7, svc.ChannelExpiryDays())
}

func TestSettingsConfiguredWindows(t *testing.T) {
	t.Run("config windows replace the built-in defaults", func(t *testing.T) {
		repo := new(MockSettingRepository)
		repo.On("Get", mock.Anything).Return("", common.ErrNotFound)

		svc := NewSettingsService(repo, 10, 3)
		assert.Equal(t, 10, svc.RequestExpiryDays())
		assert.Equal(t, 3, svc.ChannelExpiryDays())
	})

	t.Run("a stored setting wins over the config window", func(t *testing.T) {
		svc := settingsWith(map[string]string{KeyRequestExpiryDays: "14"})
		assert.Equal(t, 14, svc.RequestExpiryDays())
	})

	t.Run("non-positive config windows fall back to built-ins", func(t *testing.T) {
		repo := new(MockSettingRepository)
		repo.On("Get", mock.Anything).Return("", common.ErrNotFound)

		svc := NewSettingsService(repo, 0, -1)
		assert.Equal(t, 30, svc.RequestExpiryDays())
		assert.Equal(t, 7, svc.ChannelExpiryDays())
	})
}

func TestSettingsAutoApproveForms(t *testing.T) {
	assert.True(t, settingsWith(map[string]string{KeyAutoApprove: "1"}).AutoApprove())
	assert.True(t, settingsWith(map[string]string{KeyAutoApprove: "TRUE"}).AutoApprove())
	assert.False(t, settingsWith(map[string]string{KeyAutoApprove: "0"}).AutoApprove())
	assert.False(t, settingsWith(map[string]string{KeyAutoApprove: "banana"}).AutoApprove())
}

func TestSettingsUpdate(t *testing.T) {
	t.Run("known key writes with audit", func(t *testing.T) {
		repo := new(MockSettingRepository)
		repo.On("Set", KeyHourlyLimit, "10", "admin1").Return(nil)

		svc := NewSettingsService(repo, 0, 0)
		assert.NoError(t, svc.Update(KeyHourlyLimit, "10", "admin1"))
		repo.AssertExpectations(t)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		repo := new(MockSettingRepository)
		svc := NewSettingsService(repo, 0, 0)

		err := svc.Update("moderation.nonexistent", "1", "admin1")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		repo.AssertNotCalled(t, "Set")
	})
}

func TestSettingsAll(t *testing.T) {
	repo := new(MockSettingRepository)
	repo.On("All").Return([]domain.ModerationSetting{
		{Key: KeyAutoApprove, Value: "false", UpdatedBy: "admin1"},
	}, nil)

	svc := NewSettingsService(repo, 0, 0)
	rows, err := svc.All()
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, KeyAutoApprove, rows[0].Key)
}
