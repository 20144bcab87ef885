// Package validation checks user-supplied values before they reach storage.
package validation

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	ReasonEmailEmpty     = "email cannot be empty"
	ReasonEmailIncorrect = "email is incorrect"
)

// IsInvalid reports whether email is unusable and, if so, why. A nil or empty
// value is "empty"; anything failing the address syntax check is "incorrect".
func IsInvalid(email *string) (bool, string) {
	if email == nil || *email == "" {
		return true, ReasonEmailEmpty
	}
	if err := validation.Validate(*email, is.Email); err != nil {
		return true, ReasonEmailIncorrect
	}
	return false, ""
}

// IsInvalidClaim applies IsInvalid to a decoded JSON value of unknown type.
func IsInvalidClaim(v any) (bool, string) {
	switch email := v.(type) {
	case nil:
		return IsInvalid(nil)
	case string:
		return IsInvalid(&email)
	default:
		return true, ReasonEmailIncorrect
	}
}
