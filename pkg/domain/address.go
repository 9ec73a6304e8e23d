package domain

import (
	"strings"

	dErrors "custodia/pkg/domain-errors"
)

// Address is an opaque, address-equivalent identifier for users, deposit
// contracts, the vault and the factory. The zero value is the null address.
//
// Usage: construct via ParseAddress at trust boundaries to enforce the
// format; direct casting bypasses validation.
type Address string

// ZeroAddress is the null address. It never identifies a live participant.
const ZeroAddress Address = ""

const addressHexLen = 40

// ParseAddress constructs an Address from external input. Addresses are
// lowercase 0x-prefixed 20-byte hex strings.
//
// Errors: CodeInvalidAddress when the value is empty or malformed.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return ZeroAddress, dErrors.New(dErrors.CodeInvalidAddress, "address cannot be empty")
	}
	norm := strings.ToLower(s)
	if !strings.HasPrefix(norm, "0x") || len(norm) != 2+addressHexLen {
		return ZeroAddress, dErrors.Newf(dErrors.CodeInvalidAddress, "malformed address %q", s)
	}
	for _, c := range norm[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return ZeroAddress, dErrors.Newf(dErrors.CodeInvalidAddress, "malformed address %q", s)
		}
	}
	return Address(norm), nil
}

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the string representation of the address.
func (a Address) String() string {
	return string(a)
}
