// Package upi interprets scanned UPI payloads and builds outbound
// payment deep links. Everything here is a pure function: interpreting
// a payload and reconciling a draft into a link have no side effects,
// and the same input always yields the same output.
package upi

const (
	// Scheme prefixes every scannable UPI deep link.
	Scheme = "upi://"

	// PayEndpoint is the deep-link endpoint every outbound link targets.
	PayEndpoint = "upi://pay"

	// Currency is the single supported currency code.
	Currency = "INR"
)

// Well-known UPI query parameter keys. The set of keys a merchant
// payload may carry is open; these are only the ones this system
// inspects or writes.
const (
	keyPayee     = "pa"
	keyPayeeName = "pn"
	keyAmount    = "am"
	keyCurrency  = "cu"
	keyNote      = "tn"
)
