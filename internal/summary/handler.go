package summary

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utsav-books/utsav-books/internal/debit"
	"github.com/utsav-books/utsav-books/internal/ledger"
	"github.com/utsav-books/utsav-books/internal/platform/httpx"
	"github.com/utsav-books/utsav-books/internal/zone"
)

// Handler serves the aggregated views.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublicRoutes registers the summary routes. All of them are read-only.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/summary/daily", h.daily)
	r.Get("/summary/export", h.export)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if zq := r.URL.Query().Get("zone"); zq != "" {
		z := zone.Zone(zq)
		if !zone.Valid(z) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown zone")
			return
		}
		totals, err := h.service.ZoneSummary(ctx, z)
		if err != nil {
			h.logger.Error("zone summary", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, totals)
		return
	}

	zones, err := h.service.AllZoneSummaries(ctx)
	if err != nil {
		h.logger.Error("zone summaries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	overall, err := h.service.OverallSummary(ctx)
	if err != nil {
		h.logger.Error("overall summary", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"zones":   zones,
		"overall": overall,
	})
}

type dailyResponse struct {
	Date        string              `json:"date"`
	Credits     []ledger.CreditJSON `json:"credits"`
	CreditTotal string              `json:"credit_total"`
	Debits      []debit.Entry       `json:"debits"`
	DebitTotal  int64               `json:"debit_total"`
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		raw = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	report, err := h.service.ByDate(r.Context(), date)
	if err != nil {
		h.logger.Error("daily summary", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	credits := make([]ledger.CreditJSON, 0, len(report.Credits))
	for _, rec := range report.Credits {
		credits = append(credits, ledger.ToCreditJSON(rec))
	}
	httpx.JSON(w, http.StatusOK, dailyResponse{
		Date:        report.Date,
		Credits:     credits,
		CreditTotal: report.CreditTotal.StringFixed(2),
		Debits:      report.Debits,
		DebitTotal:  report.DebitTotal,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	zones, err := h.service.AllZoneSummaries(ctx)
	if err != nil {
		h.logger.Error("export summaries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	overall, err := h.service.OverallSummary(ctx)
	if err != nil {
		h.logger.Error("export overall", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.CSVAttachment(w, "summary.csv")
	if err := WriteSummaryCSV(w, zones, overall); err != nil {
		h.logger.Error("write summary csv", slog.Any("error", err))
	}
}
