// Package checkin hosts the stable, minimal DTOs shared with external
// consumers of the check-in API (scanner apps, the e2e suite, ops tooling).
// Keep these versioned independently from internal persistence models.
package checkin

import "time"

// ContractVersion identifies the contract schema version for compatibility checks.
// Bump on breaking changes to the shapes below; consumers can pin or roll forward.
const ContractVersion = "v0.1.0"

// Code statuses as they appear on the wire.
const (
	StatusActive   = "active"
	StatusRedeemed = "redeemed"
	StatusDisabled = "disabled"
)

// Code is the check-in credential as returned by the API.
type Code struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	ValidUntil time.Time `json:"valid_until"`
	Location   string    `json:"location,omitempty"`
	Status     string    `json:"status"`
	Version    int64     `json:"version"`
	IssuedAt   time.Time `json:"issued_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CodeList wraps the admin listing response.
type CodeList struct {
	Codes []Code `json:"codes"`
}

// APIError is the error envelope returned on non-2xx responses.
type APIError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
