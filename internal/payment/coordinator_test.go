package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/arjunr/upitrack/internal/ledger"
	"github.com/arjunr/upitrack/internal/metrics"
	"github.com/arjunr/upitrack/internal/models"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeStore struct {
	saves    int
	failSave bool
}

func (f *fakeStore) Load(ctx context.Context) (*models.State, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Save(ctx context.Context, state *models.State) error {
	f.saves++
	if f.failSave {
		return errors.New("gateway unavailable")
	}
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakeLauncher struct {
	uris []string
	err  error
}

func (f *fakeLauncher) Launch(uri string) error {
	if f.err != nil {
		return f.err
	}
	f.uris = append(f.uris, uri)
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, *ledger.Ledger, *fakeStore, *fakeLauncher) {
	t.Helper()
	l := ledger.New()
	if err := l.SetBudget(amt("5000")); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}
	store := &fakeStore{}
	launcher := &fakeLauncher{}
	c := NewCoordinator(l, store, launcher, metrics.New(prometheus.NewRegistry()))
	return c, l, store, launcher
}

func TestInitiateAndConfirmSuccess(t *testing.T) {
	c, l, store, launcher := newTestCoordinator(t)
	ctx := context.Background()

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: amt("1000")}
	uri, err := c.Initiate(ctx, draft)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if !strings.Contains(uri, "am=1000.00") {
		t.Errorf("uri = %q, want amount 1000.00", uri)
	}
	if len(launcher.uris) != 1 || launcher.uris[0] != uri {
		t.Errorf("launcher got %v, want exactly the returned uri", launcher.uris)
	}
	if !c.Awaiting() {
		t.Fatal("coordinator should be awaiting confirmation")
	}

	tx, err := c.Confirm(ctx, true)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if tx == nil {
		t.Fatal("Confirm(succeeded) returned no transaction")
	}

	if !l.Spent().Equal(amt("1000")) {
		t.Errorf("spent = %s, want 1000", l.Spent())
	}
	if !l.BudgetRemaining().Equal(amt("4000")) {
		t.Errorf("remaining = %s, want 4000", l.BudgetRemaining())
	}
	history := l.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if !history[0].FullAmount.Equal(amt("1000")) || !history[0].MyShare.Equal(amt("1000")) {
		t.Errorf("history entry = %s/%s, want 1000/1000", history[0].FullAmount, history[0].MyShare)
	}
	if history[0].IsSplit {
		t.Error("unsplit payment must not be marked split")
	}
	if c.Awaiting() {
		t.Error("coordinator should be idle after commit")
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestInitiateAndConfirmSplit(t *testing.T) {
	c, l, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	draft := models.PaymentDraft{
		PayeeAddress: "shop@bank",
		TotalAmount:  amt("1000"),
		IsSplit:      true,
		MyShare:      amt("400"),
	}
	if _, err := c.Initiate(ctx, draft); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	tx, err := c.Confirm(ctx, true)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if !l.Spent().Equal(amt("400")) {
		t.Errorf("spent = %s, want only the 400 share", l.Spent())
	}
	if !tx.FullAmount.Equal(amt("1000")) || !tx.MyShare.Equal(amt("400")) {
		t.Errorf("committed = %s/%s, want 1000/400", tx.FullAmount, tx.MyShare)
	}
	if !tx.IsSplit {
		t.Error("split payment must be marked split")
	}
}

func TestSplitWithoutShareDeductsFullAmount(t *testing.T) {
	c, l, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	draft := models.PaymentDraft{
		PayeeAddress: "shop@bank",
		TotalAmount:  amt("1000"),
		IsSplit:      true, // toggled on but no share entered
	}
	if _, err := c.Initiate(ctx, draft); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if _, err := c.Confirm(ctx, true); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if !l.Spent().Equal(amt("1000")) {
		t.Errorf("spent = %s, want the full 1000", l.Spent())
	}
}

func TestConfirmFailedDiscardsPending(t *testing.T) {
	c, l, store, _ := newTestCoordinator(t)
	ctx := context.Background()

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: amt("1000")}
	if _, err := c.Initiate(ctx, draft); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	tx, err := c.Confirm(ctx, false)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if tx != nil {
		t.Error("failed confirmation must not commit a transaction")
	}
	if !l.Spent().IsZero() || len(l.History()) != 0 {
		t.Error("ledger must be untouched after a failed confirmation")
	}
	if c.Awaiting() {
		t.Error("coordinator should be idle after discard")
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 — nothing committed", store.saves)
	}
}

func TestInitiateWhileAwaitingIsRejected(t *testing.T) {
	c, _, _, launcher := newTestCoordinator(t)
	ctx := context.Background()

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: amt("1000")}
	if _, err := c.Initiate(ctx, draft); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}

	if _, err := c.Initiate(ctx, draft); !errors.Is(err, ErrPaymentPending) {
		t.Fatalf("second Initiate error = %v, want %v", err, ErrPaymentPending)
	}
	if len(launcher.uris) != 1 {
		t.Errorf("launcher called %d times, want 1 — no relaunch while pending", len(launcher.uris))
	}

	// The original pending payment is still the one that commits.
	if _, err := c.Confirm(ctx, true); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
}

func TestConfirmWhileIdleIsNoOp(t *testing.T) {
	c, l, store, _ := newTestCoordinator(t)

	tx, err := c.Confirm(context.Background(), true)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if tx != nil {
		t.Error("idle Confirm must not commit anything")
	}
	if len(l.History()) != 0 || store.saves != 0 {
		t.Error("idle Confirm must not touch ledger or store")
	}
}

func TestInitiateValidationLeavesStateUnchanged(t *testing.T) {
	c, _, _, launcher := newTestCoordinator(t)

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: decimal.Zero}
	if _, err := c.Initiate(context.Background(), draft); err == nil {
		t.Fatal("Initiate with zero amount must fail")
	}
	if c.Awaiting() {
		t.Error("failed validation must not leave a pending payment")
	}
	if len(launcher.uris) != 0 {
		t.Error("failed validation must not launch anything")
	}
}

func TestLaunchFailureStaysIdle(t *testing.T) {
	c, _, _, launcher := newTestCoordinator(t)
	launcher.err = errors.New("no handler for upi scheme")

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: amt("10")}
	if _, err := c.Initiate(context.Background(), draft); err == nil {
		t.Fatal("Initiate must surface the launch failure")
	}
	if c.Awaiting() {
		t.Error("launch failure must leave the coordinator idle for retry")
	}
}

func TestSaveFailureDoesNotAbortCommit(t *testing.T) {
	c, l, store, _ := newTestCoordinator(t)
	store.failSave = true
	ctx := context.Background()

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: amt("300")}
	if _, err := c.Initiate(ctx, draft); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	tx, err := c.Confirm(ctx, true)
	if err != nil {
		t.Fatalf("Confirm must not fail on a best-effort save: %v", err)
	}
	if tx == nil {
		t.Fatal("commit must stand even when the save fails")
	}
	if !l.Spent().Equal(amt("300")) {
		t.Errorf("spent = %s, want 300 — in-memory state stays authoritative", l.Spent())
	}
}

func TestEmptyNoteDefaultsToExpense(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	draft := models.PaymentDraft{PayeeAddress: "shop@bank", TotalAmount: amt("50")}
	if _, err := c.Initiate(ctx, draft); err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	tx, err := c.Confirm(ctx, true)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if tx.Note != models.DefaultNote {
		t.Errorf("note = %q, want %q", tx.Note, models.DefaultNote)
	}
}
