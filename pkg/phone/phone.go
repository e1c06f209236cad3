// Package phone normalizes client contact numbers for the messaging
// channel: digits only, leading zeros stripped, country code prefixed.
package phone

import "strings"

// Normalize reduces raw to digits, drops leading zeros, keeps at most the
// last 11 national digits and prefixes countryCode when missing. An empty
// or digit-less input normalizes to "".
func Normalize(raw string, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return ""
	}
	// 10 or 11 digits is already a complete national number, even when
	// the area code happens to equal the country code.
	if len(digits) == 10 || len(digits) == 11 {
		return countryCode + digits
	}
	if strings.HasPrefix(digits, countryCode) {
		return digits
	}
	if len(digits) > 11 {
		digits = digits[len(digits)-11:]
	}
	return countryCode + digits
}

// Valid reports whether raw carries a plausible national number
// (10 or 11 digits after normalization, country code excluded).
func Valid(raw string, countryCode string) bool {
	n := strings.TrimPrefix(Normalize(raw, countryCode), countryCode)
	return len(n) == 10 || len(n) == 11
}

// FormatDisplay renders a normalized number as "(AA) NNNNN-NNNN" for
// operator-facing text. Unrecognized lengths come back unchanged.
func FormatDisplay(raw string, countryCode string) string {
	n := strings.TrimPrefix(Normalize(raw, countryCode), countryCode)
	switch len(n) {
	case 11:
		return "(" + n[:2] + ") " + n[2:7] + "-" + n[7:]
	case 10:
		return "(" + n[:2] + ") " + n[2:6] + "-" + n[6:]
	default:
		return raw
	}
}
