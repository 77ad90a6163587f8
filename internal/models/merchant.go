package models

// Param is a single key/value pair from a scanned payment payload.
// Key and Value hold the raw (still percent-encoded) text exactly as
// scanned; decoding and re-encoding a merchant's opaque fields could
// change them, so outbound links reuse these verbatim.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Params is an ordered parameter list. Order matters: an outbound link
// must reproduce the scanned parameter order.
type Params []Param

// Get returns the raw value of the first parameter with the given key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Clone returns an independent copy of the parameter list.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// MerchantDescriptor is the structured form of a scanned merchant
// payment payload. Params always contains the payee address under its
// original key; the parameter set is open — merchant code, transaction
// reference and any future fields ride along unexamined.
type MerchantDescriptor struct {
	// PayeeAddress is the decoded value of the "pa" parameter.
	PayeeAddress string `json:"payeeAddress"`

	// DisplayName is the decoded value of the "pn" parameter, if present.
	// It may prefill a note but never participates in amount logic.
	DisplayName string `json:"displayName,omitempty"`

	// Params is every scanned parameter, verbatim, in scan order.
	Params Params `json:"params"`
}
