package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// Setting keys. Values live in the moderation_settings table and are read
// at evaluation time; the constants here are only fallback defaults.
const (
	KeyBannedWords         = "moderation.banned_words"
	KeyHighRiskWords       = "moderation.high_risk_words"
	KeyAutoApprove         = "moderation.auto_approve"
	KeyHourlyLimit         = "moderation.hourly_limit"
	KeyDailyLimit          = "moderation.daily_limit"
	KeySeverityMediumTerms = "moderation.severity_medium_terms"
	KeySeverityHighTerms   = "moderation.severity_high_terms"
	KeyRequestExpiryDays   = "engine.request_expiry_days"
	KeyChannelExpiryDays   = "engine.channel_expiry_days"
)

const (
	defaultAutoApprove         = true
	defaultHourlyLimit         = 20
	defaultDailyLimit          = 100
	defaultSeverityMediumTerms = 2
	defaultSeverityHighTerms   = 4
	defaultRequestExpiryDays   = 30
	defaultChannelExpiryDays   = 7
)

var knownSettingKeys = map[string]bool{
	KeyBannedWords:         true,
	KeyHighRiskWords:       true,
	KeyAutoApprove:         true,
	KeyHourlyLimit:         true,
	KeyDailyLimit:          true,
	KeySeverityMediumTerms: true,
	KeySeverityHighTerms:   true,
	KeyRequestExpiryDays:   true,
	KeyChannelExpiryDays:   true,
}

// SettingsService reads moderation configuration from the settings store.
// Every accessor hits the store so admin changes apply to the next
// evaluation without a restart. The deployment config supplies the
// fallback windows used when the store has no row.
type SettingsService struct {
	repo              repository.SettingRepository
	requestExpiryDays int
	channelExpiryDays int
}

// NewSettingsService creates a new SettingsService. Non-positive window
// arguments fall back to the built-in defaults.
func NewSettingsService(repo repository.SettingRepository, requestExpiryDays, channelExpiryDays int) *SettingsService {
	if requestExpiryDays <= 0 {
		requestExpiryDays = defaultRequestExpiryDays
	}
	if channelExpiryDays <= 0 {
		channelExpiryDays = defaultChannelExpiryDays
	}
	return &SettingsService{
		repo:              repo,
		requestExpiryDays: requestExpiryDays,
		channelExpiryDays: channelExpiryDays,
	}
}

// BannedWords returns the configured banned-term list, lowercased
func (s *SettingsService) BannedWords() []string {
	return s.words(KeyBannedWords)
}

// HighRiskWords returns terms that always grade high severity
func (s *SettingsService) HighRiskWords() []string {
	return s.words(KeyHighRiskWords)
}

// AutoApprove reports whether clean messages skip the pending state
func (s *SettingsService) AutoApprove() bool {
	v, err := s.repo.Get(KeyAutoApprove)
	if err != nil {
		return defaultAutoApprove
	}
	return v == "1" || strings.EqualFold(v, "true")
}

// HourlyLimit returns the per-sender hourly message cap
func (s *SettingsService) HourlyLimit() int {
	return s.intOr(KeyHourlyLimit, defaultHourlyLimit)
}

// DailyLimit returns the per-sender daily message cap
func (s *SettingsService) DailyLimit() int {
	return s.intOr(KeyDailyLimit, defaultDailyLimit)
}

// SeverityThresholds returns the term counts at which a violation grades
// medium and high
func (s *SettingsService) SeverityThresholds() (medium, high int) {
	return s.intOr(KeySeverityMediumTerms, defaultSeverityMediumTerms),
		s.intOr(KeySeverityHighTerms, defaultSeverityHighTerms)
}

// RequestExpiryDays returns the marriage request expiry window. A stored
// setting wins over the deployment config default.
func (s *SettingsService) RequestExpiryDays() int {
	return s.intOr(KeyRequestExpiryDays, s.requestExpiryDays)
}

// ChannelExpiryDays returns the chat channel expiry window
func (s *SettingsService) ChannelExpiryDays() int {
	return s.intOr(KeyChannelExpiryDays, s.channelExpiryDays)
}

// Update validates the key and writes the setting with an audit trail
func (s *SettingsService) Update(key, value, updatedBy string) error {
	if !knownSettingKeys[key] {
		return common.ErrInvalidInput
	}
	return s.repo.Set(key, value, updatedBy)
}

// All returns every stored setting row
func (s *SettingsService) All() ([]domain.ModerationSetting, error) {
	return s.repo.All()
}

func (s *SettingsService) words(key string) []string {
	v, err := s.repo.Get(key)
	if err != nil || v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.ToLower(strings.TrimSpace(p)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (s *SettingsService) intOr(key string, def int) int {
	v, err := s.repo.Get(key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return def
		}
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
