// Package expiry holds the pure time policy for check-in credentials.
//
// Issuance and redemption read the clock at different moments, so the policy
// is split into two predicates: Validate guards a proposed expiry at issuance
// time, IsExpired re-derives expiry from the stored timestamp at scan time.
package expiry

import (
	"time"

	dErrors "brigade/pkg/domain-errors"
)

// Validate accepts a proposed expiry strictly greater than now.
// An expiry equal to or earlier than now is rejected.
func Validate(proposed, now time.Time) error {
	if !proposed.After(now) {
		return dErrors.New(dErrors.CodeValidation, "valid_until must be strictly in the future")
	}
	return nil
}

// IsExpired reports whether a credential with the given validUntil is inert
// at the instant now. The boundary matches Validate: at exactly validUntil
// the credential is already expired.
func IsExpired(validUntil, now time.Time) bool {
	return !now.Before(validUntil)
}
