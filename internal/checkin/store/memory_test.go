package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"brigade/internal/checkin/models"
	"brigade/pkg/domain"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	now   time.Time
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.now = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
}

func (s *InMemorySuite) newCredential(code, location string) *models.CheckinCode {
	return models.New(domain.NewCodeID(), code, s.now.Add(time.Hour), location, s.now)
}

func (s *InMemorySuite) TestInsertAndFind() {
	c := s.newCredential("code-1", "terrace")
	require.NoError(s.T(), s.store.Insert(context.Background(), c))

	byCode, err := s.store.FindByCode(context.Background(), "code-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), c, byCode)

	byID, err := s.store.FindByID(context.Background(), c.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), c, byID)
}

func (s *InMemorySuite) TestInsertDuplicateCode() {
	require.NoError(s.T(), s.store.Insert(context.Background(), s.newCredential("dup", "")))

	err := s.store.Insert(context.Background(), s.newCredential("dup", ""))
	assert.ErrorIs(s.T(), err, ErrConflict)
}

func (s *InMemorySuite) TestFindNotFound() {
	_, err := s.store.FindByCode(context.Background(), "missing")
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.store.FindByID(context.Background(), domain.NewCodeID())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *InMemorySuite) TestUpdateStatus() {
	c := s.newCredential("code-2", "")
	require.NoError(s.T(), s.store.Insert(context.Background(), c))

	later := s.now.Add(time.Minute)
	updated, err := s.store.UpdateStatus(context.Background(), c.ID, 0, models.StatusRedeemed, later)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusRedeemed, updated.Status)
	assert.EqualValues(s.T(), 1, updated.Version)
	assert.Equal(s.T(), later, updated.UpdatedAt)
}

func (s *InMemorySuite) TestUpdateStatusVersionMismatch() {
	c := s.newCredential("code-3", "")
	require.NoError(s.T(), s.store.Insert(context.Background(), c))

	_, err := s.store.UpdateStatus(context.Background(), c.ID, 0, models.StatusDisabled, s.now)
	require.NoError(s.T(), err)

	// Same expected version again: the race loser.
	_, err = s.store.UpdateStatus(context.Background(), c.ID, 0, models.StatusRedeemed, s.now)
	assert.ErrorIs(s.T(), err, ErrConflict)
}

func (s *InMemorySuite) TestUpdateStatusNotFound() {
	_, err := s.store.UpdateStatus(context.Background(), domain.NewCodeID(), 0, models.StatusRedeemed, s.now)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *InMemorySuite) TestReturnedRecordsDoNotAliasStore() {
	c := s.newCredential("code-4", "")
	require.NoError(s.T(), s.store.Insert(context.Background(), c))

	found, err := s.store.FindByCode(context.Background(), "code-4")
	require.NoError(s.T(), err)
	found.Status = models.StatusRedeemed
	found.Version = 42

	fresh, err := s.store.FindByCode(context.Background(), "code-4")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusActive, fresh.Status)
	assert.EqualValues(s.T(), 0, fresh.Version)
}

func (s *InMemorySuite) TestListFiltersByLocation() {
	a := s.newCredential("a", "bar")
	b := s.newCredential("b", "terrace")
	c := s.newCredential("c", "bar")
	b.IssuedAt = s.now.Add(time.Second)
	c.IssuedAt = s.now.Add(2 * time.Second)
	for _, rec := range []*models.CheckinCode{a, b, c} {
		require.NoError(s.T(), s.store.Insert(context.Background(), rec))
	}

	all, err := s.store.List(context.Background(), "", 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 3)
	assert.Equal(s.T(), "c", all[0].Code, "newest first")

	bar, err := s.store.List(context.Background(), "bar", 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), bar, 2)
	for _, rec := range bar {
		assert.Equal(s.T(), "bar", rec.Location)
	}
}

func (s *InMemorySuite) TestListLimit() {
	for _, code := range []string{"x", "y", "z"} {
		require.NoError(s.T(), s.store.Insert(context.Background(), s.newCredential(code, "")))
	}

	limited, err := s.store.List(context.Background(), "", 2)
	require.NoError(s.T(), err)
	assert.Len(s.T(), limited, 2)
}

func (s *InMemorySuite) TestDeleteExpiredBefore() {
	old := models.New(domain.NewCodeID(), "old", s.now.Add(-time.Hour), "", s.now.Add(-2*time.Hour))
	fresh := s.newCredential("fresh", "")
	require.NoError(s.T(), s.store.Insert(context.Background(), old))
	require.NoError(s.T(), s.store.Insert(context.Background(), fresh))

	deleted, err := s.store.DeleteExpiredBefore(context.Background(), s.now)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, deleted)

	_, err = s.store.FindByCode(context.Background(), "old")
	assert.ErrorIs(s.T(), err, ErrNotFound)
	_, err = s.store.FindByCode(context.Background(), "fresh")
	assert.NoError(s.T(), err)
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}
