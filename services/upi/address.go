package upi

import (
	"regexp"
	"strings"
)

// addressPattern: 2-256 char local part, "@", handle starting with a letter (2-64 chars).
var addressPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{2,256}@[A-Za-z][A-Za-z0-9]{1,63}$`)

// Synthetic-looking addresses pass the format check but are dropped by bank-side
// fraud heuristics without any error reaching the payer.
var (
	deniedPrefixes = []string{"test", "demo", "fake", "sample"}
	deniedSuffixes = []string{"@test", "@demo", "@fake"}
	deniedExact    = map[string]struct{}{
		"9876543210@upi": {},
		"1234567890@upi": {},
		"0000000000@upi": {},
		"9999999999@upi": {},
	}
)

// ValidatePayeeAddress reports whether address is a usable UPI payee address.
// Callers treat false as "cannot proceed".
func ValidatePayeeAddress(address string) bool {
	if !addressPattern.MatchString(address) {
		return false
	}
	lower := strings.ToLower(address)
	if _, ok := deniedExact[lower]; ok {
		return false
	}
	for _, p := range deniedPrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	for _, s := range deniedSuffixes {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	return true
}
