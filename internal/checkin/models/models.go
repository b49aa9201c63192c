// Package models defines the check-in credential entity and its state machine.
package models

import (
	"time"

	"brigade/pkg/domain"
)

// Status is the lifecycle state of a check-in credential.
type Status string

const (
	// StatusActive credentials are redeemable until they expire.
	StatusActive Status = "active"
	// StatusRedeemed is terminal: a credential is spent by exactly one
	// successful scan and never re-enters circulation.
	StatusRedeemed Status = "redeemed"
	// StatusDisabled credentials are administratively suspended and can be
	// re-activated as long as they were never redeemed.
	StatusDisabled Status = "disabled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusRedeemed, StatusDisabled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s Status) Terminal() bool {
	return s == StatusRedeemed
}

// CanTransitionTo reports whether the transition s -> target is allowed.
// The graph is active -> redeemed (terminal) and active <-> disabled.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusActive:
		return target == StatusRedeemed || target == StatusDisabled
	case StatusDisabled:
		return target == StatusActive
	}
	return false
}

// CheckinCode is a single issued time-bound check-in credential.
//
// ID addresses the record; Code is the unguessable scanned secret and is
// never reused across credentials. Version is the optimistic-concurrency
// token: every state transition must compare-and-swap on it, which is what
// guarantees at most one successful redemption under racing scanners.
type CheckinCode struct {
	ID         domain.CodeID
	Code       string
	ValidUntil time.Time
	Location   string // optional tag; empty means untagged
	Status     Status
	Version    int64
	IssuedAt   time.Time
	UpdatedAt  time.Time
}

// New builds a freshly issued credential in the active state at version 0.
func New(id domain.CodeID, code string, validUntil time.Time, location string, now time.Time) *CheckinCode {
	return &CheckinCode{
		ID:         id,
		Code:       code,
		ValidUntil: validUntil.UTC(),
		Location:   location,
		Status:     StatusActive,
		Version:    0,
		IssuedAt:   now.UTC(),
		UpdatedAt:  now.UTC(),
	}
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (c *CheckinCode) Clone() *CheckinCode {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}
