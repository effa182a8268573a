package pii

import (
	"regexp"
	"strings"
)

var (
	iAmNameRegex    = regexp.MustCompile(`\bI am ([A-Z][a-z]+) ([A-Z][a-z]+)\b`)
	callMeNameRegex = regexp.MustCompile(`\b[Cc]all me ([A-Z][a-z]+) ([A-Z][a-z]+)\b`)
)

func matchSelfIdentification(raw, lower string) bool {
	if strings.Contains(lower, "my name is ") {
		return true
	}
	// capitalized First Last pairs, checked on the raw text
	return iAmNameRegex.MatchString(raw) || callMeNameRegex.MatchString(raw)
}

var (
	atHandleRegex       = regexp.MustCompile(`(?:^|\s)@[a-z0-9_.]{2,}`)
	platformHandleRegex = regexp.MustCompile(`\b(?:instagram|insta|ig|snapchat|snap|discord|telegram|kik|signal|onlyfans)\s*[:\-]\s*\S+`)
)

func matchSocialHandle(lower string) bool {
	// @handle requires a leading boundary, which keeps plain email
	// addresses out of this detector
	return atHandleRegex.MatchString(lower) || platformHandleRegex.MatchString(lower)
}

var contactIntentPhrases = []string{
	"dm me", "hit me up", "hmu", "slide into my dm", "text me",
	"let's talk", "lets talk", "message me", "add me on",
}

func matchContactIntent(lower string) bool {
	return containsAny(lower, contactIntentPhrases)
}
