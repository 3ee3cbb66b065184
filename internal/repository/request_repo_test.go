package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.MarriageRequest{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func createPending(t *testing.T, repo RequestRepository, sender, receiver string, expiresAt time.Time) *domain.MarriageRequest {
	t.Helper()
	req := &domain.MarriageRequest{
		SenderID:   sender,
		ReceiverID: receiver,
		ExpiresAt:  expiresAt,
	}
	if err := repo.CreateActive(req); err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return req
}

func TestExpireDueBoundary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req := createPending(t, repo, "alice", "bob", t0.Add(30*24*time.Hour))

	// One day before the window closes nothing is due
	ids, err := repo.ExpireDue(t0.Add(29 * 24 * time.Hour))
	assert.NoError(t, err)
	assert.Empty(t, ids)

	got, err := repo.FindByID(req.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RequestPending, got.Status)
	assert.NotNil(t, got.Active)

	// One day past the window the request expires
	ids, err = repo.ExpireDue(t0.Add(31 * 24 * time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, []string{req.ID}, ids)

	got, err = repo.FindByID(req.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RequestExpired, got.Status)
	assert.Nil(t, got.Active)

	// A second sweep over the same boundary transitions nothing
	ids, err = repo.ExpireDue(t0.Add(31 * 24 * time.Hour))
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestExpireDueAtExactExpiry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	deadline := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	req := createPending(t, repo, "alice", "bob", deadline)

	// expires_at <= now: the deadline instant itself is already expired
	ids, err := repo.ExpireDue(deadline)
	assert.NoError(t, err)
	assert.Equal(t, []string{req.ID}, ids)
}

func TestExpireDueSkipsResolved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	accepted := createPending(t, repo, "alice", "bob", t0)
	due := createPending(t, repo, "carol", "dave", t0)

	err := repo.Resolve(accepted.ID, domain.RequestAccepted, t0)
	assert.NoError(t, err)

	ids, err := repo.ExpireDue(t0.Add(24 * time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, []string{due.ID}, ids)

	got, err := repo.FindByID(accepted.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, got.Status)
}

func TestCreateActiveDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := createPending(t, repo, "alice", "bob", t0.Add(30*24*time.Hour))

	// The unique index refuses a second active request for the pair
	dup := &domain.MarriageRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		ExpiresAt:  t0.Add(30 * 24 * time.Hour),
	}
	err := repo.CreateActive(dup)
	assert.ErrorIs(t, err, common.ErrDuplicateActiveRequest)

	// Resolving clears the active flag, so the pair may try again
	err = repo.Resolve(first.ID, domain.RequestRejected, t0)
	assert.NoError(t, err)

	retry := &domain.MarriageRequest{
		SenderID:   "alice",
		ReceiverID: "bob",
		ExpiresAt:  t0.Add(60 * 24 * time.Hour),
	}
	assert.NoError(t, repo.CreateActive(retry))
}
