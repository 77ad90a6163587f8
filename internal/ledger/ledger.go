// Package ledger maintains the committed transaction history and the
// running spent total against a monthly budget.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/arjunr/upitrack/internal/models"
)

var (
	// ErrInvalidBudget rejects a non-positive monthly limit.
	ErrInvalidBudget = errors.New("budget limit must be greater than zero")

	// ErrBudgetAlreadySet rejects a second setup; the limit is
	// immutable once tracking has started.
	ErrBudgetAlreadySet = errors.New("budget is already set")
)

// Ledger owns the transaction history, most recent first, and derives
// the spent total from it. Spent is recomputed from the history on
// every mutation so the two can never drift apart.
type Ledger struct {
	budget  models.BudgetConfig
	history []models.Transaction
	spent   decimal.Decimal
}

// New returns an empty ledger with no budget configured.
func New() *Ledger {
	return &Ledger{spent: decimal.Zero}
}

// Restore rebuilds a ledger from a persisted snapshot. The snapshot's
// spent figure is ignored; the sum over the history is authoritative.
func Restore(state *models.State) *Ledger {
	l := &Ledger{
		budget:  models.BudgetConfig{Limit: state.Budget},
		history: append([]models.Transaction(nil), state.Transactions...),
	}
	l.recompute()
	return l
}

// SetBudget configures the monthly limit. It may be called once.
func (l *Ledger) SetBudget(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return ErrInvalidBudget
	}
	if l.budget.IsSet() {
		return ErrBudgetAlreadySet
	}
	l.budget = models.BudgetConfig{Limit: limit}
	return nil
}

// Budget returns the current budget configuration.
func (l *Ledger) Budget() models.BudgetConfig {
	return l.budget
}

// Append inserts a committed transaction at the head of the history.
// There is no removal; only ResetMonth clears entries.
func (l *Ledger) Append(tx models.Transaction) {
	l.history = append([]models.Transaction{tx}, l.history...)
	l.recompute()
}

// ResetMonth clears the history and the spent total. The budget limit
// is untouched. Destructive and irreversible; callers must obtain an
// explicit confirmation from the user first.
func (l *Ledger) ResetMonth() {
	l.history = nil
	l.recompute()
}

// Spent is the sum of MyShare over the whole history.
func (l *Ledger) Spent() decimal.Decimal {
	return l.spent
}

// BudgetRemaining may be negative: over budget is a displayable state,
// not an error.
func (l *Ledger) BudgetRemaining() decimal.Decimal {
	return l.budget.Limit.Sub(l.spent)
}

// PercentUsed reports budget usage capped at 100. A zero limit yields
// 0 rather than a division by zero.
func (l *Ledger) PercentUsed() float64 {
	if !l.budget.Limit.IsPositive() {
		return 0
	}
	pct := l.spent.Div(l.budget.Limit).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if pct > 100 {
		return 100
	}
	return pct
}

// History returns a copy of the full history, most recent first.
func (l *Ledger) History() []models.Transaction {
	return append([]models.Transaction(nil), l.history...)
}

// Recent returns up to n of the most recent transactions. n <= 0 means
// the full history.
func (l *Ledger) Recent(n int) []models.Transaction {
	if n <= 0 || n > len(l.history) {
		n = len(l.history)
	}
	return append([]models.Transaction(nil), l.history[:n]...)
}

// Snapshot is the persistable projection of budget and history.
func (l *Ledger) Snapshot() *models.State {
	return &models.State{
		Budget:       l.budget.Limit,
		Spent:        l.spent,
		Transactions: l.History(),
	}
}

func (l *Ledger) recompute() {
	sum := decimal.Zero
	for _, tx := range l.history {
		sum = sum.Add(tx.MyShare)
	}
	l.spent = sum
}
