package models

import "github.com/shopspring/decimal"

// PaymentDraft is the payment the user is composing. The UI-facing
// session owns the single draft; the coordinator and reconciler consume
// it by value.
type PaymentDraft struct {
	// PayeeAddress is the payment recipient (e.g. "shop@bank").
	PayeeAddress string `json:"payeeAddress"`

	// TotalAmount is the full bill amount — the amount the external app
	// is asked to charge.
	TotalAmount decimal.Decimal `json:"totalAmount"`

	// MyShare is this ledger owner's portion when the bill is split.
	MyShare decimal.Decimal `json:"myShare"`

	// IsSplit marks the bill as shared with others.
	IsSplit bool `json:"isSplit"`

	// Note is the user's label for the expense.
	Note string `json:"note"`

	// Merchant is the scanned descriptor this draft was filled from,
	// if any. Invariant: Merchant.PayeeAddress == PayeeAddress.
	Merchant *MerchantDescriptor `json:"merchant,omitempty"`
}

// SetPayeeAddress records a manual payee edit. Editing the address
// detaches any scanned merchant descriptor so its parameters cannot
// ride along to a different payee.
func (d *PaymentDraft) SetPayeeAddress(addr string) {
	if d.Merchant != nil && addr != d.Merchant.PayeeAddress {
		d.Merchant = nil
	}
	d.PayeeAddress = addr
}

// SetSplit toggles split mode. Turning split off clears the share.
func (d *PaymentDraft) SetSplit(on bool) {
	d.IsSplit = on
	if !on {
		d.MyShare = decimal.Zero
	}
}

// DeductedShare is the amount the ledger will record for this draft:
// the user's share when splitting, otherwise the full bill.
func (d PaymentDraft) DeductedShare() decimal.Decimal {
	if d.IsSplit && d.MyShare.IsPositive() {
		return d.MyShare
	}
	return d.TotalAmount
}

// Reset clears every field, ready for the next payment.
func (d *PaymentDraft) Reset() {
	*d = PaymentDraft{}
}
