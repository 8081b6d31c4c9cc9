package service

import "strings"

const moroccoDialPrefix = "+212"

// NormalizePhone rewrites a Moroccan number to international form. Only
// digits and '+' are kept; "00" becomes "+", a leading "0" becomes "+212",
// and a number without any prefix gets "+212".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "00") {
		digits = "+" + digits[2:]
	}
	switch {
	case strings.HasPrefix(digits, "+"):
		return digits
	case strings.HasPrefix(digits, "0"):
		return moroccoDialPrefix + digits[1:]
	default:
		return moroccoDialPrefix + digits
	}
}
