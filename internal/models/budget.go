package models

import "github.com/shopspring/decimal"

// BudgetConfig holds the monthly spending limit. It is set once at
// setup and immutable thereafter.
type BudgetConfig struct {
	Limit decimal.Decimal `json:"limit"`
}

// IsSet reports whether setup has completed with a usable limit.
func (b BudgetConfig) IsSet() bool {
	return b.Limit.IsPositive()
}
