package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"brigade/internal/checkin/models"
	id "brigade/pkg/domain"
	dErrors "brigade/pkg/domain-errors"
	"brigade/pkg/platform/httputil"
	request "brigade/pkg/platform/middleware/request"
)

// Service defines the interface for check-in credential operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Issue(ctx context.Context, validUntil time.Time, location string) (*models.CheckinCode, error)
	Redeem(ctx context.Context, code string) (*models.CheckinCode, error)
	Toggle(ctx context.Context, codeID id.CodeID) (*models.CheckinCode, error)
	Get(ctx context.Context, codeID id.CodeID) (*models.CheckinCode, error)
	List(ctx context.Context, location string, limit int) ([]*models.CheckinCode, error)
}

// Encoder renders a scan code as an image payload.
type Encoder interface {
	EncodePNG(code string, size int) ([]byte, error)
}

type Handler struct {
	service Service
	encoder Encoder
	logger  *slog.Logger
}

func New(service Service, encoder Encoder, logger *slog.Logger) *Handler {
	return &Handler{service: service, encoder: encoder, logger: logger}
}

// RegisterAdmin mounts the management endpoints. Callers are expected to
// wrap these routes with admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/checkin/codes", h.HandleIssue)
	r.Get("/admin/checkin/codes", h.HandleList)
	r.Get("/admin/checkin/codes/{id}", h.HandleGet)
	r.Post("/admin/checkin/codes/{id}/toggle", h.HandleToggle)
	r.Get("/admin/checkin/codes/{id}/qr", h.HandleQR)
}

// RegisterPublic mounts the scanner-facing endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/checkin/redeem", h.HandleRedeem)
	r.Get("/checkin/scan", h.HandleScan)
}

// HandleIssue mints a new check-in code.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.Issue(ctx, req.ValidUntil, req.Location)
	if err != nil {
		h.logger.ErrorContext(ctx, "issue check-in code failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toCodeResponse(c))
}

// HandleList returns issued codes, optionally filtered by location.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid limit"))
			return
		}
		limit = n
	}

	codes, err := h.service.List(ctx, r.URL.Query().Get("location"), limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list check-in codes failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCodeListResponse(codes))
}

// HandleGet returns a single code by id.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	codeID, err := id.ParseCodeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid code id"))
		return
	}

	c, err := h.service.Get(ctx, codeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get check-in code failed", "error", err, "request_id", requestID, "code_id", codeID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCodeResponse(c))
}

// HandleToggle flips a code between active and disabled.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	codeID, err := id.ParseCodeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid code id"))
		return
	}

	c, err := h.service.Toggle(ctx, codeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "toggle check-in code failed", "error", err, "request_id", requestID, "code_id", codeID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCodeResponse(c))
}

// qrImageSize is the rendered QR edge length in pixels.
const qrImageSize = 256

// HandleQR renders the scan payload for a code as a PNG image.
func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	codeID, err := id.ParseCodeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid code id"))
		return
	}

	c, err := h.service.Get(ctx, codeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get check-in code failed", "error", err, "request_id", requestID, "code_id", codeID)
		httputil.WriteError(w, err)
		return
	}

	png, err := h.encoder.EncodePNG(c.Code, qrImageSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "encode qr failed", "error", err, "request_id", requestID, "code_id", codeID)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "could not render code"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleRedeem consumes a code submitted in the request body.
func (h *Handler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RedeemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.redeem(w, r, req.Code, requestID)
}

// HandleScan consumes a code passed as a query parameter. This is the
// endpoint QR scanners land on.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	requestID := request.GetRequestID(r.Context())

	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "code is required"))
		return
	}

	h.redeem(w, r, code, requestID)
}

func (h *Handler) redeem(w http.ResponseWriter, r *http.Request, code, requestID string) {
	ctx := r.Context()

	c, err := h.service.Redeem(ctx, code)
	if err != nil {
		h.logger.ErrorContext(ctx, "redeem check-in code failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCodeResponse(c))
}
