package handler

import (
	"time"

	"brigade/internal/checkin/models"
)

type CodeResponse struct {
	ID         string        `json:"id"`
	Code       string        `json:"code"`
	ValidUntil time.Time     `json:"valid_until"`
	Location   string        `json:"location,omitempty"`
	Status     models.Status `json:"status"`
	Version    int64         `json:"version"`
	IssuedAt   time.Time     `json:"issued_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type CodeListResponse struct {
	Codes []*CodeResponse `json:"codes"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toCodeResponse(c *models.CheckinCode) *CodeResponse {
	return &CodeResponse{
		ID:         c.ID.String(),
		Code:       c.Code,
		ValidUntil: c.ValidUntil,
		Location:   c.Location,
		Status:     c.Status,
		Version:    c.Version,
		IssuedAt:   c.IssuedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toCodeListResponse(cs []*models.CheckinCode) *CodeListResponse {
	out := make([]*CodeResponse, len(cs))
	for i, c := range cs {
		out[i] = toCodeResponse(c)
	}
	return &CodeListResponse{Codes: out}
}
