package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultNote is recorded when a payment is confirmed without a note.
const DefaultNote = "Expense"

// Transaction is one committed ledger entry. Immutable once created.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// Date is when the transaction was committed.
	Date time.Time `json:"date"`

	// FullAmount is the full billed amount paid through the external app.
	FullAmount decimal.Decimal `json:"fullAmount"`

	// MyShare is the amount deducted from this ledger's budget.
	MyShare decimal.Decimal `json:"myShare"`

	// Note is the user's label for the expense.
	Note string `json:"note"`

	// IsSplit is true exactly when FullAmount != MyShare.
	IsSplit bool `json:"isSplit"`
}

// NewTransaction creates a committed transaction. An empty note falls
// back to DefaultNote; IsSplit is derived, never supplied.
func NewTransaction(fullAmount, myShare decimal.Decimal, note string) Transaction {
	if note == "" {
		note = DefaultNote
	}
	return Transaction{
		ID:         uuid.New().String(),
		Date:       time.Now().UTC(),
		FullAmount: fullAmount,
		MyShare:    myShare,
		Note:       note,
		IsSplit:    !fullAmount.Equal(myShare),
	}
}

// PendingPayment is the single in-flight payment between "link
// launched" and user confirmation. Created when a launch is initiated,
// consumed exactly once by commit or discard.
type PendingPayment struct {
	TotalAmount   decimal.Decimal
	DeductedShare decimal.Decimal
	Note          string
}
