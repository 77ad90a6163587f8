package upi

import (
	"errors"
	"net/url"
	"strings"

	"github.com/arjunr/upitrack/internal/models"
)

var (
	// ErrInvalidAmount rejects drafts whose total is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrMissingPayee rejects drafts with no payee address.
	ErrMissingPayee = errors.New("payee address is required")
)

// Reconcile builds the exact outbound payment link for a draft.
//
// The amount charged is always the full bill amount, formatted to two
// decimal places — a split share only affects ledger bookkeeping. When
// the draft carries a merchant descriptor for the same payee, every
// scanned parameter except "am" and "cu" is reproduced verbatim in its
// original order, then the amount and currency are appended. Otherwise
// the link is the minimal pa/am/cu set, plus "tn" when a note is set.
//
// Reconcile is pure and idempotent and never mutates the descriptor's
// parameter list.
func Reconcile(d models.PaymentDraft) (string, error) {
	if !d.TotalAmount.IsPositive() {
		return "", ErrInvalidAmount
	}
	if d.PayeeAddress == "" {
		return "", ErrMissingPayee
	}

	amount := d.TotalAmount.StringFixed(2)

	var pairs []string
	if d.Merchant != nil && d.Merchant.PayeeAddress == d.PayeeAddress {
		for _, p := range d.Merchant.Params {
			if p.Key == keyAmount || p.Key == keyCurrency {
				continue
			}
			pairs = append(pairs, p.Key+"="+p.Value)
		}
		pairs = append(pairs, keyAmount+"="+amount, keyCurrency+"="+Currency)
	} else {
		pairs = append(pairs,
			keyPayee+"="+url.QueryEscape(d.PayeeAddress),
			keyAmount+"="+amount,
			keyCurrency+"="+Currency,
		)
		if d.Note != "" {
			pairs = append(pairs, keyNote+"="+url.QueryEscape(d.Note))
		}
	}

	return PayEndpoint + "?" + strings.Join(pairs, "&"), nil
}
