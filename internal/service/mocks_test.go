package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/event"
	"github.com/zawajapp/zawaj-backend/internal/repository"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(p *domain.Profile) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(id string) (*domain.Profile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByAccountID(accountID string) (*domain.Profile, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(p *domain.Profile) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateStatus(id string, status domain.ProfileStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockProfileRepository) SavePrivacy(cfg *domain.PrivacyConfiguration) error {
	args := m.Called(cfg)
	return args.Error(0)
}

func (m *MockProfileRepository) ListCandidates(gender domain.Gender, f repository.CandidateFilters) ([]domain.Profile, int64, error) {
	args := m.Called(gender, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Profile), args.Get(1).(int64), args.Error(2)
}

// MockApprovalRepository is a mock implementation of GuardianApprovalRepository
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) Grant(a *domain.GuardianApproval) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *MockApprovalRepository) Revoke(profileID, counterpartID string) error {
	args := m.Called(profileID, counterpartID)
	return args.Error(0)
}

func (m *MockApprovalRepository) Exists(profileID, counterpartID string) (bool, error) {
	args := m.Called(profileID, counterpartID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApprovalRepository) ListForProfile(profileID string) ([]domain.GuardianApproval, error) {
	args := m.Called(profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuardianApproval), args.Error(1)
}

// MockRequestRepository is a mock implementation of RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) WithTx(tx *gorm.DB) repository.RequestRepository {
	return m
}

func (m *MockRequestRepository) CreateActive(req *domain.MarriageRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockRequestRepository) FindByID(id string) (*domain.MarriageRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarriageRequest), args.Error(1)
}

func (m *MockRequestRepository) Resolve(id string, to domain.RequestStatus, at time.Time) error {
	args := m.Called(id, to, at)
	return args.Error(0)
}

func (m *MockRequestRepository) HasAcceptedBetween(a, b string) (bool, error) {
	args := m.Called(a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) ListForProfile(profileID, box string, page, limit int) ([]domain.MarriageRequest, int64, error) {
	args := m.Called(profileID, box, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.MarriageRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockRequestRepository) ExpireDue(now time.Time) ([]string, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockChannelRepository is a mock implementation of ChannelRepository
type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) WithTx(tx *gorm.DB) repository.ChannelRepository {
	return m
}

func (m *MockChannelRepository) Create(ch *domain.ChatChannel) error {
	args := m.Called(ch)
	return args.Error(0)
}

func (m *MockChannelRepository) FindByID(id string) (*domain.ChatChannel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatChannel), args.Error(1)
}

func (m *MockChannelRepository) FindByRequestID(requestID string) (*domain.ChatChannel, error) {
	args := m.Called(requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatChannel), args.Error(1)
}

func (m *MockChannelRepository) ListForProfile(profileID string) ([]domain.ChatChannel, error) {
	args := m.Called(profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatChannel), args.Error(1)
}

func (m *MockChannelRepository) UpdateExpiry(id string, newExpiry time.Time) error {
	args := m.Called(id, newExpiry)
	return args.Error(0)
}

func (m *MockChannelRepository) Close(id, actor string, at time.Time) error {
	args := m.Called(id, actor, at)
	return args.Error(0)
}

func (m *MockChannelRepository) ExpireDue(now time.Time) ([]string, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChannelRepository) CloseActiveForProfile(profileID, actor string, at time.Time) ([]string, error) {
	args := m.Called(profileID, actor, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockMessageRepository is a mock implementation of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(msg *domain.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockMessageRepository) CreateWithFlag(msg *domain.Message, f *domain.FlaggedMessage) error {
	args := m.Called(msg, f)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByID(id string) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByChannel(channelID string, page, limit int) ([]domain.Message, int64, error) {
	args := m.Called(channelID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) UpdateStatus(id string, status domain.MessageStatus, reviewerID string, at time.Time) error {
	args := m.Called(id, status, reviewerID, at)
	return args.Error(0)
}

func (m *MockMessageRepository) FindFlaggedByID(id string) (*domain.FlaggedMessage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlaggedMessage), args.Error(1)
}

func (m *MockMessageRepository) ListFlagged(status domain.CaseStatus, page, limit int) ([]domain.FlaggedMessage, int64, error) {
	args := m.Called(status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.FlaggedMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) UpdateFlagged(f *domain.FlaggedMessage) error {
	args := m.Called(f)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(rep *domain.Report) error {
	args := m.Called(rep)
	return args.Error(0)
}

func (m *MockReportRepository) FindByID(id string) (*domain.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) Update(rep *domain.Report) error {
	args := m.Called(rep)
	return args.Error(0)
}

func (m *MockReportRepository) List(status domain.CaseStatus, page, limit int) ([]domain.Report, int64, error) {
	args := m.Called(status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Report), args.Get(1).(int64), args.Error(2)
}

// MockSettingRepository is a mock implementation of SettingRepository
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingRepository) Set(key, value, updatedBy string) error {
	args := m.Called(key, value, updatedBy)
	return args.Error(0)
}

func (m *MockSettingRepository) All() ([]domain.ModerationSetting, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModerationSetting), args.Error(1)
}

// mockTxManager runs the transaction body with a nil tx so WithTx mocks
// return themselves
type mockTxManager struct {
	err error
}

func (m *mockTxManager) Do(fn func(tx *gorm.DB) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

// MockMessageQuota is a mock implementation of MessageQuota
type MockMessageQuota struct {
	mock.Mock
}

func (m *MockMessageQuota) Allow(ctx context.Context, senderID string, hourly, daily int) (bool, error) {
	args := m.Called(ctx, senderID, hourly, daily)
	return args.Bool(0), args.Error(1)
}

func testBus() *event.Bus {
	return event.NewBus(zerolog.Nop())
}

func boolPtr(b bool) *bool {
	return &b
}

// fixedClock pins service time for deterministic expiry assertions
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// settingsWithDefaults returns a SettingsService whose store is empty, so
// every accessor falls back to the built-in defaults.
func settingsWithDefaults() (*SettingsService, *MockSettingRepository) {
	repo := new(MockSettingRepository)
	repo.On("Get", mock.Anything).Return("", common.ErrNotFound)
	return NewSettingsService(repo, 0, 0), repo
}

// activeProfile builds a minimal active profile for permission tests
func activeProfile(id string, gender domain.Gender, tier domain.MembershipTier) *domain.Profile {
	p := &domain.Profile{
		ID:         id,
		AccountID:  "acct-" + id,
		Gender:     gender,
		Age:        30,
		Membership: tier,
		Status:     domain.ProfileActive,
		Privacy: domain.PrivacyConfiguration{
			ProfileID:       id,
			Visibility:      domain.VisibilityOpen,
			PhotoVisibility: domain.PhotoMatched,
			ShowAge:         true,
			ShowLocation:    true,
			ShowOccupation:  true,
			AllowContact:    domain.ContactOpen,
		},
	}
	if gender == domain.GenderFemale {
		p.Guardian = &domain.GuardianDetails{ProfileID: id, Name: "Guardian", Relationship: "father"}
	} else {
		p.Groom = &domain.GroomDetails{ProfileID: id}
	}
	return p
}
