package sentinel

import "errors"

// Sentinel dependency errors. Stores should return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrExpired         = errors.New("expired")
	ErrAlreadyRedeemed = errors.New("already redeemed")
	ErrDisabled        = errors.New("disabled")
	ErrInvalidInput    = errors.New("invalid input")
)
