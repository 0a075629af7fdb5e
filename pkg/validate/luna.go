package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

func IsLuna(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// IsCardNumber reports whether s looks like a bank card number:
// 13-19 digits passing the Luhn check. Spaces are ignored.
func IsCardNumber(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) < 13 || len(s) > 19 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return IsLuna(s)
}

// IsPhoneNumber reports whether s is a payout-capable phone number in
// E.164-like form: optional leading +, 10-15 digits.
func IsPhoneNumber(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if len(s) < 10 || len(s) > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
