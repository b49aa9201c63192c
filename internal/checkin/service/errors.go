package service

import (
	"errors"

	"brigade/internal/sentinel"
	dErrors "brigade/pkg/domain-errors"
)

// Stores speak sentinel errors; this file translates them into domain errors
// exactly once, at the service boundary.

func errIDRequired() error {
	return dErrors.New(dErrors.CodeBadRequest, "credential ID required")
}

func errUnknownCode() error {
	return dErrors.New(dErrors.CodeNotFound, "unknown check-in code")
}

func errExpired() error {
	return dErrors.New(dErrors.CodeExpired, "check-in code has expired")
}

func errAlreadyRedeemed() error {
	return dErrors.New(dErrors.CodeAlreadyRedeemed, "check-in code was already redeemed")
}

func errDisabled() error {
	return dErrors.New(dErrors.CodeDisabled, "check-in code is disabled")
}

func translateLookupErr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

func translateStoreErr(err error, msg string) error {
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
