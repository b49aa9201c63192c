package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brigade/pkg/domain"
)

func TestNewCredentialDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	id := domain.NewCodeID()

	c := New(id, "opaque-code", now.Add(time.Hour), "patio", now)

	assert.Equal(t, id, c.ID)
	assert.Equal(t, "opaque-code", c.Code)
	assert.Equal(t, StatusActive, c.Status)
	assert.EqualValues(t, 0, c.Version)
	assert.Equal(t, now, c.IssuedAt)
	assert.Equal(t, now, c.UpdatedAt)
	assert.Equal(t, "patio", c.Location)
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusActive, StatusRedeemed, true},
		{StatusActive, StatusDisabled, true},
		{StatusDisabled, StatusActive, true},
		{StatusDisabled, StatusRedeemed, false},
		{StatusRedeemed, StatusActive, false},
		{StatusRedeemed, StatusDisabled, false},
		{StatusRedeemed, StatusRedeemed, false},
		{StatusActive, StatusActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusRedeemed.Terminal())
	assert.False(t, StatusActive.Terminal())
	assert.False(t, StatusDisabled.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.False(t, Status("archived").Valid())
}

func TestCloneDoesNotAlias(t *testing.T) {
	c := New(domain.NewCodeID(), "abc", time.Now().Add(time.Hour), "", time.Now())
	clone := c.Clone()
	clone.Status = StatusRedeemed
	clone.Version = 9

	assert.Equal(t, StatusActive, c.Status)
	assert.EqualValues(t, 0, c.Version)
}
