package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/utsav-books/utsav-books/internal/platform/httpx"
)

// Handler wires the login endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *SessionManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *SessionManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "password is required")
		return
	}

	if err := h.service.Authenticate(req.Password); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "incorrect password")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	if err := h.sessions.Issue(r.Context(), w); err != nil {
		if errors.Is(err, ErrSessionsUnavailable) {
			httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "sessions unavailable")
			return
		}
		h.logger.Error("issue session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.logger.Warn("destroy session", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
