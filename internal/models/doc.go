// Package models defines the core domain models for UPITrack.
//
// # Model overview
//
//   - BudgetConfig: the monthly spending limit, set once at setup
//   - MerchantDescriptor: everything carried by a scanned merchant QR payload
//   - PaymentDraft: the payment the user is currently composing
//   - PendingPayment: a launched payment waiting on user confirmation
//   - Transaction: one committed ledger entry
//   - State: the serializable projection persisted after every commit
//
// # Design principles
//
//  1. Monetary values are decimals (shopspring/decimal), never floats —
//     the two-decimal amount in an outbound payment link must be exact.
//  2. Scanned merchant parameters are kept as raw ordered key/value
//     pairs so rebuilding a link can never reorder or re-encode fields
//     this system does not understand.
//  3. Transactions are immutable once created.
package models
