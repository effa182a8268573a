package pii

import (
	"regexp"
	"strings"
	"unicode"
)

// explicit self-location phrases; an address-shaped token alone ("183 N hwy")
// is never enough
var selfLocationPhrases = []string{
	"my address is", "i live at", "i live on", "find me at", "i stay at",
	"my place is", "my house is", "come to my",
}

var (
	streetAddressRegex = regexp.MustCompile(`\b\d+\s+(?:(?:n|s|e|w|north|south|east|west)\.?\s+)?\w+\s+(?:st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane|ct|court|hwy|highway|pkwy|parkway|way|pl|place|cir|circle|ter|terrace)\b`)
	unitMarkerRegex    = regexp.MustCompile(`\b(?:apt|apartment|unit|suite|ste)\s*#?\s*\w+\b`)
	streetSuffixRegex  = regexp.MustCompile(`\b(?:st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane|ct|court|hwy|highway|pkwy|parkway|pl|place)\b`)
)

func matchAddress(lower string) bool {
	if !containsAny(lower, selfLocationPhrases) {
		return false
	}
	if streetAddressRegex.MatchString(lower) || unitMarkerRegex.MatchString(lower) {
		return true
	}
	return streetSuffixRegex.MatchString(lower) && strings.ContainsFunc(lower, unicode.IsDigit)
}
