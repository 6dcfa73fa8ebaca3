package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/utsav-books/utsav-books/internal/platform/httpx"
	"github.com/utsav-books/utsav-books/internal/zone"
)

// Handler manages the credit, due and collection endpoints.
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
	r.Get("/zones", h.listZones)
	r.Get("/credits", h.listCredits)
	r.Get("/bills/{billNo}", h.billInfo)
	r.Get("/dues", h.listDues)
	r.Get("/collections", h.listCollections)
}

// MountOperatorRoutes registers the mutating routes.
func (h *Handler) MountOperatorRoutes(r chi.Router) {
	r.Post("/credits", h.recordCredit)
	r.Put("/credits/{zone}/{billNo}", h.editCredit)
	r.Post("/dues/{zone}/{billNo}/payments", h.applyPayment)
	r.Post("/dues/{zone}/{billNo}/cancel", h.requestCancel)
	r.Post("/dues/{zone}/{billNo}/cancel/confirm", h.confirmCancel)
}

type zoneInfo struct {
	Zone       zone.Zone `json:"zone"`
	Start      int       `json:"start,omitempty"`
	End        int       `json:"end,omitempty"`
	NextBillNo int       `json:"next_bill_no,omitempty"`
	Exhausted  bool      `json:"exhausted,omitempty"`
}

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	zones := zone.All()
	out := make([]zoneInfo, 0, len(zones))
	for _, z := range zones {
		info := zoneInfo{Zone: z}
		if rng, ok := zone.BillRange(z); ok {
			info.Start = rng.Start
			info.End = rng.End
			next, free, err := h.service.NextBillNumber(r.Context(), z)
			if err != nil {
				h.logger.Error("next bill number", slog.Any("error", err), slog.String("zone", string(z)))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			info.NextBillNo = next
			info.Exhausted = !free
		}
		out = append(out, info)
	}
	httpx.JSON(w, http.StatusOK, out)
}

type creditRequest struct {
	Zone     string          `json:"zone" validate:"required"`
	BillNo   int             `json:"bill_no" validate:"required,min=1"`
	Name     string          `json:"name" validate:"required"`
	Address  string          `json:"address" validate:"required"`
	Billed   decimal.Decimal `json:"billed"`
	Received decimal.Decimal `json:"received"`
	Date     string          `json:"date" validate:"required"`
}

func (h *Handler) recordCredit(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeCreditInput(w, r)
	if !ok {
		return
	}
	rec, err := h.service.RecordCredit(r.Context(), in)
	if err != nil {
		h.respondError(w, err, "record credit")
		return
	}
	httpx.JSON(w, http.StatusCreated, ToCreditJSON(rec))
}

type editCreditRequest struct {
	Name     string          `json:"name" validate:"required"`
	Address  string          `json:"address" validate:"required"`
	Billed   decimal.Decimal `json:"billed"`
	Received decimal.Decimal `json:"received"`
	Date     string          `json:"date" validate:"required"`
}

func (h *Handler) editCredit(w http.ResponseWriter, r *http.Request) {
	// The URL names the bill being edited; the body cannot move it.
	z, billNo, ok := h.billParams(w, r)
	if !ok {
		return
	}
	var req editCreditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	rec, err := h.service.EditCredit(r.Context(), CreditInput{
		Zone:     z,
		BillNo:   billNo,
		Name:     req.Name,
		Address:  req.Address,
		Billed:   req.Billed,
		Received: req.Received,
		Date:     date,
	})
	if err != nil {
		h.respondError(w, err, "edit credit")
		return
	}
	httpx.JSON(w, http.StatusOK, ToCreditJSON(rec))
}

func (h *Handler) decodeCreditInput(w http.ResponseWriter, r *http.Request) (CreditInput, bool) {
	var req creditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return CreditInput{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return CreditInput{}, false
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return CreditInput{}, false
	}
	return CreditInput{
		Zone:     zone.Zone(req.Zone),
		BillNo:   req.BillNo,
		Name:     req.Name,
		Address:  req.Address,
		Billed:   req.Billed,
		Received: req.Received,
		Date:     date,
	}, true
}

func (h *Handler) listCredits(w http.ResponseWriter, r *http.Request) {
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := ParseDate(dateStr)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date must be YYYY-MM-DD")
			return
		}
		recs, err := h.service.CreditsOnDate(r.Context(), date)
		if err != nil {
			h.respondError(w, err, "list credits by date")
			return
		}
		httpx.JSON(w, http.StatusOK, ToCreditJSONList(recs))
		return
	}

	if z := r.URL.Query().Get("zone"); z != "" {
		recs, err := h.service.ZoneCredits(r.Context(), zone.Zone(z))
		if err != nil {
			h.respondError(w, err, "list zone credits")
			return
		}
		httpx.JSON(w, http.StatusOK, ToCreditJSONList(recs))
		return
	}

	recs, err := h.service.AllCredits(r.Context())
	if err != nil {
		h.respondError(w, err, "list credits")
		return
	}
	httpx.JSON(w, http.StatusOK, ToCreditJSONList(recs))
}

func (h *Handler) billInfo(w http.ResponseWriter, r *http.Request) {
	billNo, err := strconv.Atoi(chi.URLParam(r, "billNo"))
	if err != nil || billNo < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bill number")
		return
	}
	recs, err := h.service.BillInfo(r.Context(), billNo)
	if err != nil {
		h.respondError(w, err, "bill info")
		return
	}
	if len(recs) == 0 {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "bill has not been issued yet")
		return
	}
	httpx.JSON(w, http.StatusOK, ToCreditJSONList(recs))
}

func (h *Handler) listDues(w http.ResponseWriter, r *http.Request) {
	if z := r.URL.Query().Get("zone"); z != "" {
		recs, err := h.service.ZoneDues(r.Context(), zone.Zone(z))
		if err != nil {
			h.respondError(w, err, "list zone dues")
			return
		}
		httpx.JSON(w, http.StatusOK, ToDueJSONList(recs))
		return
	}
	recs, err := h.service.AllDues(r.Context())
	if err != nil {
		h.respondError(w, err, "list dues")
		return
	}
	httpx.JSON(w, http.StatusOK, ToDueJSONList(recs))
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	z := zone.Zone(r.URL.Query().Get("zone"))
	entries, err := h.service.ZoneCollections(r.Context(), z)
	if err != nil {
		h.respondError(w, err, "list collections")
		return
	}
	httpx.JSON(w, http.StatusOK, ToCollectionJSONList(entries))
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date" validate:"required"`
}

func (h *Handler) applyPayment(w http.ResponseWriter, r *http.Request) {
	z, billNo, ok := h.billParams(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	result, err := h.service.ApplyDuePayment(r.Context(), z, billNo, req.Amount, date)
	if err != nil {
		h.respondError(w, err, "apply due payment")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":        result.Status,
		"remaining_due": result.RemainingDue,
	})
}

func (h *Handler) requestCancel(w http.ResponseWriter, r *http.Request) {
	z, billNo, ok := h.billParams(w, r)
	if !ok {
		return
	}
	token, err := h.service.RequestCancelDue(r.Context(), z, billNo)
	if err != nil {
		h.respondError(w, err, "request cancel due")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"confirmation_token": token})
}

type confirmCancelRequest struct {
	Token string `json:"confirmation_token" validate:"required"`
}

func (h *Handler) confirmCancel(w http.ResponseWriter, r *http.Request) {
	z, billNo, ok := h.billParams(w, r)
	if !ok {
		return
	}
	var req confirmCancelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.ConfirmCancelDue(r.Context(), z, billNo, req.Token); err != nil {
		h.respondError(w, err, "confirm cancel due")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) billParams(w http.ResponseWriter, r *http.Request) (zone.Zone, int, bool) {
	z := zone.Zone(chi.URLParam(r, "zone"))
	billNo, err := strconv.Atoi(chi.URLParam(r, "billNo"))
	if err != nil || billNo < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bill number")
		return "", 0, false
	}
	return z, billNo, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrDuplicateBill):
		httpx.Problem(w, http.StatusConflict, "Duplicate Bill", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoDue):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrCancelNotArmed):
		httpx.Problem(w, http.StatusConflict, "Cancellation Not Armed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
