package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/arjunr/upitrack/internal/ledger"
	"github.com/arjunr/upitrack/internal/middleware"
	"github.com/arjunr/upitrack/internal/models"
	"github.com/arjunr/upitrack/internal/payment"
	"github.com/arjunr/upitrack/internal/upi"
)

// Handler serves the session API.
type Handler struct {
	session *Session
}

// NewRouter wires the HTTP API for a session.
func NewRouter(s *Session) *chi.Mux {
	h := &Handler{session: s}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/setup", h.setup)
		r.Post("/scan", h.scan)
		r.Put("/draft", h.updateDraft)
		r.Get("/draft", h.draft)
		r.Post("/payments", h.initiate)
		r.Post("/payments/confirm", h.confirm)
		r.Get("/summary", h.summary)
		r.Get("/transactions", h.transactions)
		r.Post("/reset", h.reset)
	})

	return r
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit decimal.Decimal `json:"limit"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.session.SetupBudget(r.Context(), req.Limit); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.Summary())
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload string `json:"payload"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.session.Scan(req.Payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Address  string                     `json:"address"`
		Merchant *models.MerchantDescriptor `json:"merchant,omitempty"`
		Draft    models.PaymentDraft        `json:"draft"`
	}{res.Address, res.Merchant, h.session.Draft()})
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.session.UpdateDraft(req))
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Draft())
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	uri, err := h.session.InitiatePayment(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// The client opens the link on the device, waits out the prompt
	// delay and then asks the user what happened.
	writeJSON(w, http.StatusAccepted, struct {
		URI           string `json:"uri"`
		PromptDelayMs int64  `json:"promptDelayMs"`
	}{uri, payment.ConfirmPromptDelay.Milliseconds()})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Succeeded bool `json:"succeeded"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.session.ConfirmPayment(r.Context(), req.Succeeded)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Committed *models.Transaction `json:"committed"`
		Summary   Summary             `json:"summary"`
	}{tx, h.session.Summary()})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Summary())
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, struct {
		Transactions []models.Transaction `json:"transactions"`
	}{h.session.Transactions(limit)})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	// Irreversible; the client must send an explicit confirmation.
	if !req.Confirm {
		http.Error(w, "month reset requires confirm=true", http.StatusBadRequest)
		return
	}
	h.session.ResetMonth(r.Context())
	writeJSON(w, http.StatusOK, h.session.Summary())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Every mapped error
// leaves the user in a retryable state; nothing here is fatal.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, upi.ErrInvalidAmount),
		errors.Is(err, upi.ErrMissingPayee),
		errors.Is(err, ledger.ErrInvalidBudget):
		status = http.StatusBadRequest
	case errors.Is(err, upi.ErrUnrecognizedPayload),
		errors.Is(err, upi.ErrNoPayeeAddress):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, payment.ErrPaymentPending),
		errors.Is(err, ledger.ErrBudgetAlreadySet):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
