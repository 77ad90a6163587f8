package upi

import (
	"errors"
	"net/url"
	"strings"

	"github.com/arjunr/upitrack/internal/models"
)

var (
	// ErrUnrecognizedPayload means the scanned text is neither a UPI
	// link nor a bare payee address. Callers inform the user and allow
	// a re-scan or manual entry.
	ErrUnrecognizedPayload = errors.New("payload is not a UPI link or payee address")

	// ErrNoPayeeAddress means a UPI link was scanned but carries no
	// "pa" parameter, so there is nobody to pay.
	ErrNoPayeeAddress = errors.New("payment link has no payee address")
)

// ScanResult is the outcome of interpreting a decoded QR payload.
type ScanResult struct {
	// Address is the decoded payee address, set for both kinds.
	Address string

	// Merchant is the full descriptor for merchant payloads, nil for
	// bare addresses.
	Merchant *models.MerchantDescriptor
}

// Interpret classifies and parses a decoded scan payload. It never
// panics on arbitrary text and knows nothing about amounts.
func Interpret(text string) (ScanResult, error) {
	text = strings.TrimSpace(text)
	switch {
	case hasSchemePrefix(text):
		return interpretLink(text)
	case strings.Contains(text, "@"):
		return ScanResult{Address: text}, nil
	default:
		return ScanResult{}, ErrUnrecognizedPayload
	}
}

func hasSchemePrefix(text string) bool {
	return len(text) >= len(Scheme) && strings.EqualFold(text[:len(Scheme)], Scheme)
}

func interpretLink(link string) (ScanResult, error) {
	var query string
	if i := strings.IndexByte(link, '?'); i >= 0 {
		query = link[i+1:]
	}
	params := parseQuery(query)

	raw, ok := params.Get(keyPayee)
	if !ok || raw == "" {
		return ScanResult{}, ErrNoPayeeAddress
	}

	merchant := &models.MerchantDescriptor{
		PayeeAddress: unescape(raw),
		Params:       params,
	}
	if name, ok := params.Get(keyPayeeName); ok {
		merchant.DisplayName = unescape(name)
	}
	return ScanResult{Address: merchant.PayeeAddress, Merchant: merchant}, nil
}

// parseQuery splits a raw query string into ordered key/value pairs.
// Values stay percent-encoded. net/url's map-backed Values would lose
// the parameter order that outbound links must reproduce, so the split
// is done by hand.
func parseQuery(query string) models.Params {
	var params models.Params
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		params = append(params, models.Param{Key: key, Value: value})
	}
	return params
}

// unescape decodes one query component, falling back to the raw text
// when the encoding is malformed.
func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
