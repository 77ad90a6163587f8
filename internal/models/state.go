package models

import "github.com/shopspring/decimal"

// State is the serializable projection of budget and ledger. It is
// written after every committing mutation and read once at startup.
// Spent is carried for display continuity but the ledger recomputes it
// from Transactions on restore, so a drifted value can never stick.
type State struct {
	Budget       decimal.Decimal `json:"budget"`
	Spent        decimal.Decimal `json:"spent"`
	Transactions []Transaction   `json:"transactions"`
}
