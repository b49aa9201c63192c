package handler

import (
	"strings"
	"time"

	dErrors "brigade/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.

type IssueRequest struct {
	ValidUntil time.Time `json:"valid_until"`
	Location   string    `json:"location"`
}

func (r *IssueRequest) Normalize() {
	if r == nil {
		return
	}
	r.Location = strings.TrimSpace(r.Location)
}

func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ValidUntil.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "valid_until is required")
	}
	return nil
}

type RedeemRequest struct {
	Code string `json:"code"`
}

func (r *RedeemRequest) Normalize() {
	if r == nil {
		return
	}
	r.Code = strings.TrimSpace(r.Code)
}

func (r *RedeemRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return nil
}
