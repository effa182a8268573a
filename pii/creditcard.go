package pii

import "strings"

// matchCreditCard flags any 13-19 digit run that passes the Luhn checksum.
// No context gate: a card-shaped number is sensitive wherever it appears.
// Runs of a single repeated digit are rejected outright even when they
// happen to be Luhn-valid.
func matchCreditCard(text string) bool {
	for _, run := range digitRuns(strings.ToLower(text)) {
		if len(run) < 13 || len(run) > 19 {
			continue
		}
		if allSameDigit(run) {
			continue
		}
		if luhnValid(run) {
			return true
		}
	}
	return false
}

func allSameDigit(run string) bool {
	for i := 1; i < len(run); i++ {
		if run[i] != run[0] {
			return false
		}
	}
	return true
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
