// Package service exposes the tracker to its client over HTTP and owns
// the single user session: the payment draft being composed plus the
// ledger, coordinator and persistence gateway behind it.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arjunr/upitrack/internal/ledger"
	"github.com/arjunr/upitrack/internal/metrics"
	"github.com/arjunr/upitrack/internal/models"
	"github.com/arjunr/upitrack/internal/payment"
	"github.com/arjunr/upitrack/internal/storage"
	"github.com/arjunr/upitrack/internal/upi"
)

// Session is the UI-facing layer. It owns the one PaymentDraft and
// serializes all operations: the system assumes a single active user.
type Session struct {
	mu          sync.Mutex
	ledger      *ledger.Ledger
	coordinator *payment.Coordinator
	store       storage.Store
	metrics     *metrics.Metrics
	draft       models.PaymentDraft
}

// NewSession creates a session over an existing ledger and coordinator.
func NewSession(l *ledger.Ledger, c *payment.Coordinator, store storage.Store, m *metrics.Metrics) *Session {
	return &Session{ledger: l, coordinator: c, store: store, metrics: m}
}

// SetupBudget sets the monthly limit once and persists the state.
func (s *Session) SetupBudget(ctx context.Context, limit decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.SetBudget(limit); err != nil {
		return err
	}
	s.save(ctx)
	slog.Info("budget configured", "limit", limit)
	return nil
}

// Scan interprets a decoded QR payload and prefills the draft. A
// merchant's display name prefills an empty note; it never touches
// amounts.
func (s *Session) Scan(text string) (upi.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := upi.Interpret(text)
	if err != nil {
		s.metrics.ScansTotal.WithLabelValues("invalid").Inc()
		return upi.ScanResult{}, err
	}

	s.draft.PayeeAddress = res.Address
	s.draft.Merchant = res.Merchant
	if res.Merchant != nil {
		s.metrics.ScansTotal.WithLabelValues("merchant").Inc()
		if s.draft.Note == "" && res.Merchant.DisplayName != "" {
			s.draft.Note = res.Merchant.DisplayName
		}
	} else {
		s.metrics.ScansTotal.WithLabelValues("address").Inc()
	}
	return res, nil
}

// DraftUpdate carries optional edits to the payment draft. Nil fields
// are left unchanged.
type DraftUpdate struct {
	PayeeAddress *string          `json:"payeeAddress"`
	TotalAmount  *decimal.Decimal `json:"totalAmount"`
	MyShare      *decimal.Decimal `json:"myShare"`
	IsSplit      *bool            `json:"isSplit"`
	Note         *string          `json:"note"`
}

// UpdateDraft applies edits and returns the resulting draft. Manual
// payee edits detach the merchant descriptor; turning split off clears
// the share.
func (s *Session) UpdateDraft(u DraftUpdate) models.PaymentDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.PayeeAddress != nil {
		s.draft.SetPayeeAddress(*u.PayeeAddress)
	}
	if u.TotalAmount != nil {
		s.draft.TotalAmount = *u.TotalAmount
	}
	if u.IsSplit != nil {
		s.draft.SetSplit(*u.IsSplit)
	}
	if u.MyShare != nil {
		s.draft.MyShare = *u.MyShare
	}
	if u.Note != nil {
		s.draft.Note = *u.Note
	}
	return s.draft
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() models.PaymentDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// InitiatePayment launches the payment link for the current draft. The
// draft is left intact either way; it is cleared only when the user
// later confirms success.
func (s *Session) InitiatePayment(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coordinator.Initiate(ctx, s.draft)
}

// ConfirmPayment resolves the pending payment with the user-reported
// outcome. A successful confirmation clears the draft for the next
// expense; a failed one keeps it so the user can retry.
func (s *Session) ConfirmPayment(ctx context.Context, succeeded bool) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.coordinator.Confirm(ctx, succeeded)
	if err != nil {
		return nil, err
	}
	if tx != nil {
		s.draft.Reset()
	}
	return tx, nil
}

// Summary is the budget dashboard projection.
type Summary struct {
	Budget               decimal.Decimal `json:"budget"`
	Spent                decimal.Decimal `json:"spent"`
	Remaining            decimal.Decimal `json:"remaining"`
	PercentUsed          float64         `json:"percentUsed"`
	SetupDone            bool            `json:"setupDone"`
	AwaitingConfirmation bool            `json:"awaitingConfirmation"`
}

// Summary reports budget usage for display. Over budget shows as a
// negative remaining amount, never an error.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Budget:               s.ledger.Budget().Limit,
		Spent:                s.ledger.Spent(),
		Remaining:            s.ledger.BudgetRemaining(),
		PercentUsed:          s.ledger.PercentUsed(),
		SetupDone:            s.ledger.Budget().IsSet(),
		AwaitingConfirmation: s.coordinator.Awaiting(),
	}
}

// Transactions returns up to limit recent transactions, newest first.
func (s *Session) Transactions(limit int) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Recent(limit)
}

// ResetMonth clears the spending history for a new month and persists
// the emptied state. The HTTP layer requires the caller to confirm
// before this is reached; the budget limit survives.
func (s *Session) ResetMonth(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.ResetMonth()
	s.save(ctx)
	slog.Info("month reset, history cleared")
}

// save persists the current snapshot, best effort. The in-memory state
// stays authoritative for the session when the gateway is unavailable.
func (s *Session) save(ctx context.Context) {
	if err := s.store.Save(ctx, s.ledger.Snapshot()); err != nil {
		s.metrics.StateSaveFailures.Inc()
		slog.Warn("state save failed", "error", err)
	}
}
