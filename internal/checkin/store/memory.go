package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"brigade/internal/checkin/models"
	"brigade/pkg/domain"
)

// InMemory stores credentials in memory for tests and the demo environment.
// Records are kept by value and handed out as clones, so the only way to
// mutate shared state is UpdateStatus, which enforces the version check under
// the same lock that applies the write.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[domain.CodeID]*models.CheckinCode
	codeIdx map[string]domain.CodeID
}

// NewInMemory creates an in-memory credential store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[domain.CodeID]*models.CheckinCode),
		codeIdx: make(map[string]domain.CodeID),
	}
}

// Insert atomically creates the credential if its code is not already taken.
func (s *InMemory) Insert(_ context.Context, c *models.CheckinCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.codeIdx[c.Code]; exists {
		return fmt.Errorf("check-in code must be unique: %w", ErrConflict)
	}
	s.byID[c.ID] = c.Clone()
	s.codeIdx[c.Code] = c.ID
	return nil
}

// FindByCode retrieves a credential by its scanned secret.
func (s *InMemory) FindByCode(_ context.Context, code string) (*models.CheckinCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.codeIdx[code]; ok {
		return s.byID[id].Clone(), nil
	}
	return nil, ErrNotFound
}

// FindByID retrieves a credential by its record ID.
func (s *InMemory) FindByID(_ context.Context, id domain.CodeID) (*models.CheckinCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byID[id]; ok {
		return c.Clone(), nil
	}
	return nil, ErrNotFound
}

// UpdateStatus transitions the credential to status if its stored version
// still equals expectedVersion. On success the version is incremented and
// updatedAt stamped; a stale expectedVersion yields ErrConflict.
func (s *InMemory) UpdateStatus(_ context.Context, id domain.CodeID, expectedVersion int64, status models.Status, now time.Time) (*models.CheckinCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c.Version != expectedVersion {
		return nil, fmt.Errorf("credential version changed: %w", ErrConflict)
	}
	c.Status = status
	c.Version++
	c.UpdatedAt = now.UTC()
	return c.Clone(), nil
}

// List returns credentials ordered by issuance time, newest first.
// A non-empty location restricts results to that tag.
func (s *InMemory) List(_ context.Context, location string, limit int) ([]*models.CheckinCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CheckinCode, 0, len(s.byID))
	for _, c := range s.byID {
		if location != "" && c.Location != location {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteExpiredBefore removes credentials whose validity ended before cutoff,
// regardless of status. Returns the number of records removed.
func (s *InMemory) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, c := range s.byID {
		if c.ValidUntil.Before(cutoff) {
			delete(s.codeIdx, c.Code)
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}
