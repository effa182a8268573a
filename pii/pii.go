// Package pii detects personally identifying information, contact
// solicitation, and spam shapes in short posts. Detection is multi-label:
// every applicable category is reported, and ambiguous patterns (digit runs,
// "@") are context-gated so ordinary community text like route numbers or
// street names is never flagged.
package pii

import (
	"strings"
	"unicode"
)

const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategorySSN        = "ssn"
	CategoryCreditCard = "credit_card"
	CategoryAddress    = "address"
	CategoryName       = "name"
	CategoryHandle     = "social_handle"
	CategoryContact    = "contact_intent"
	CategorySpam       = "spam"
)

// Result reports every category that matched, not just the first.
type Result struct {
	Blocked    bool
	Categories []string
}

// Detector holds the feature flags controlling the optional sub-detectors.
// The zero value enables everything.
type Detector struct {
	// AllowNames disables the self-identification detector.
	AllowNames bool
	// AllowSocialHandles disables the handle / contact-intent detectors.
	AllowSocialHandles bool
}

// Detect runs every sub-detector over the raw text. Pure, no I/O.
func (d *Detector) Detect(text string) Result {
	lower := strings.ToLower(text)
	var cats []string

	if matchEmail(lower) {
		cats = append(cats, CategoryEmail)
	}
	phone, ssn := matchPhoneSSN(lower)
	if phone {
		cats = append(cats, CategoryPhone)
	}
	if ssn {
		cats = append(cats, CategorySSN)
	}
	if matchCreditCard(text) {
		cats = append(cats, CategoryCreditCard)
	}
	if matchAddress(lower) {
		cats = append(cats, CategoryAddress)
	}
	if !d.AllowNames && matchSelfIdentification(text, lower) {
		cats = append(cats, CategoryName)
	}
	if !d.AllowSocialHandles {
		if matchSocialHandle(lower) {
			cats = append(cats, CategoryHandle)
		}
		if matchContactIntent(lower) {
			cats = append(cats, CategoryContact)
		}
	}
	if matchSpam(text, lower) {
		cats = append(cats, CategorySpam)
	}

	return Result{Blocked: len(cats) > 0, Categories: cats}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
