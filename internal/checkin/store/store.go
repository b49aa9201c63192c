// Package store persists check-in credentials.
//
// Error Contract:
// All store methods follow this pattern:
//   - Return ErrNotFound when the requested credential does not exist
//   - Return ErrConflict (wrapped) for duplicate codes on Insert and for
//     version mismatches on UpdateStatus
//   - Return wrapped errors with context for infrastructure failures
//
// UpdateStatus is the single mutation path. It commits only when the stored
// version still equals expectedVersion, which gives callers compare-and-swap
// semantics: concurrent transitions on one credential serialize through the
// store, and exactly one active->redeemed transition can ever commit.
package store

import "brigade/internal/sentinel"

// ErrNotFound is returned when a credential is not found.
// Callers should check it with errors.Is(err, store.ErrNotFound).
var ErrNotFound = sentinel.ErrNotFound

// ErrConflict is returned on duplicate code insertion and lost
// compare-and-swap races.
var ErrConflict = sentinel.ErrConflict
