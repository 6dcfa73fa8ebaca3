package debit

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/utsav-books/utsav-books/internal/platform/httpx"
)

// Handler manages the expense endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountPublicRoutes registers the read-only routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/debits", h.listDebits)
}

// MountOperatorRoutes registers the mutating routes.
func (h *Handler) MountOperatorRoutes(r chi.Router) {
	r.Post("/debits", h.recordDebit)
}

type debitRequest struct {
	Date    string `json:"date" validate:"required"`
	Amount  int64  `json:"amount" validate:"min=0"`
	Purpose string `json:"purpose" validate:"required"`
}

func (h *Handler) recordDebit(w http.ResponseWriter, r *http.Request) {
	var req debitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	if err := h.service.RecordDebit(r.Context(), date, req.Amount, req.Purpose); err != nil {
		if errors.Is(err, ErrValidation) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("record debit", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (h *Handler) listDebits(w http.ResponseWriter, r *http.Request) {
	entries, total, warnings, err := h.service.Entries(r.Context())
	if err != nil {
		h.logger.Error("list debits", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	for _, warning := range warnings {
		h.logger.Warn("debit log", slog.String("warning", warning))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries":  entries,
		"total":    total,
		"warnings": warnings,
	})
}
