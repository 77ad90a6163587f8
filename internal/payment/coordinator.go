// Package payment sequences a payment from link launch to user
// confirmation. The external payment app never reports an outcome to
// this process, so the coordinator bridges "link launched" and "ledger
// updated" with a single pending slot that the user resolves.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arjunr/upitrack/internal/ledger"
	"github.com/arjunr/upitrack/internal/metrics"
	"github.com/arjunr/upitrack/internal/models"
	"github.com/arjunr/upitrack/internal/storage"
	"github.com/arjunr/upitrack/internal/upi"
)

// ConfirmPromptDelay is how long a caller may wait before prompting the
// user for confirmation, giving the external app time to take the
// foreground. A scheduling hint only: confirming earlier or later does
// not change the state machine.
const ConfirmPromptDelay = 1500 * time.Millisecond

// ErrPaymentPending rejects a new initiation while a prior payment is
// still awaiting confirmation. The pending payment must be confirmed or
// discarded first; it is never silently overwritten.
var ErrPaymentPending = errors.New("a payment is already awaiting confirmation")

// Launcher opens a payment deep link. The launch is fire-and-forget:
// there is no completion signal and no cancellation.
type Launcher interface {
	Launch(uri string) error
}

// LogLauncher records the launch and leaves opening the link to the
// client that receives the URI — a server cannot open a deep link on
// the user's device.
type LogLauncher struct{}

// Launch logs the outbound link.
func (LogLauncher) Launch(uri string) error {
	slog.Info("payment link launched", "uri", uri)
	return nil
}

// Coordinator owns the single in-flight pending payment. States:
// idle -> awaiting confirmation -> idle, via commit or discard.
type Coordinator struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	store    storage.Store
	launcher Launcher
	metrics  *metrics.Metrics
	pending  *models.PendingPayment
}

// NewCoordinator creates a coordinator in the idle state.
func NewCoordinator(l *ledger.Ledger, store storage.Store, launcher Launcher, m *metrics.Metrics) *Coordinator {
	return &Coordinator{ledger: l, store: store, launcher: launcher, metrics: m}
}

// Initiate validates the draft, launches the payment link and records
// the pending payment. On any failure the coordinator stays idle and
// the caller's draft is untouched, so the user can retry. The returned
// URI is also handed to the client so the device can open it.
func (c *Coordinator) Initiate(ctx context.Context, draft models.PaymentDraft) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		return "", ErrPaymentPending
	}

	uri, err := upi.Reconcile(draft)
	if err != nil {
		return "", err
	}

	if err := c.launcher.Launch(uri); err != nil {
		return "", fmt.Errorf("launching payment link: %w", err)
	}

	c.pending = &models.PendingPayment{
		TotalAmount:   draft.TotalAmount,
		DeductedShare: draft.DeductedShare(),
		Note:          draft.Note,
	}
	c.metrics.PaymentsInitiated.Inc()
	slog.Info("awaiting payment confirmation",
		"total", draft.TotalAmount,
		"share", c.pending.DeductedShare,
	)
	return uri, nil
}

// Awaiting reports whether a payment is waiting on user confirmation.
func (c *Coordinator) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Confirm resolves the pending payment with the user-reported outcome.
// A success commits a transaction to the ledger and persists the
// snapshot; the committed transaction is returned so the caller can
// clear its draft. A failure discards the pending payment without
// touching the ledger. Confirm is a no-op when idle.
func (c *Coordinator) Confirm(ctx context.Context, succeeded bool) (*models.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return nil, nil
	}
	p := c.pending
	c.pending = nil

	if !succeeded {
		c.metrics.PaymentsConfirmed.WithLabelValues("failed").Inc()
		slog.Info("pending payment discarded", "total", p.TotalAmount)
		return nil, nil
	}

	tx := models.NewTransaction(p.TotalAmount, p.DeductedShare, p.Note)
	c.ledger.Append(tx)
	c.metrics.PaymentsConfirmed.WithLabelValues("succeeded").Inc()

	// Best effort: a failed save must not abort the commit. In-memory
	// state stays authoritative for the session.
	if err := c.store.Save(ctx, c.ledger.Snapshot()); err != nil {
		c.metrics.StateSaveFailures.Inc()
		slog.Warn("state save failed after commit", "error", err)
	}

	slog.Info("transaction committed",
		"id", tx.ID,
		"full_amount", tx.FullAmount,
		"my_share", tx.MyShare,
		"is_split", tx.IsSplit,
	)
	return &tx, nil
}
