package pii

import (
	"strings"
	"unicode"
)

// profanity in languages the main blocklist typically does not cover;
// matched at token level against the lowercased text
var spamWordlist = map[string]bool{
	// Hindi / Urdu
	"chutiya": true, "madarchod": true, "bhenchod": true, "bhosdike": true,
	"harami": true, "kamina": true,
	// Telugu
	"lanja": true, "dengu": true,
	// Tamil
	"thevidiya": true, "punda": true, "otha": true,
	// Spanish
	"puta": true, "puto": true, "pendejo": true, "pendeja": true,
	"mierda": true, "cabron": true, "cabrón": true,
}

func matchSpam(raw, lower string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	rs := []rune(trimmed)
	letters := 0
	digits := 0
	for _, r := range rs {
		if unicode.IsLetter(r) {
			letters++
		} else if unicode.IsDigit(r) {
			digits++
		}
	}
	// punctuation-only or emoji-only
	if letters == 0 && digits == 0 {
		return true
	}
	// a single character repeated into a wall
	if maxRuneRun(rs) >= 5 {
		return true
	}
	// almost no alphabetic signal
	if letters < 2 && len(rs) > 3 {
		return true
	}
	for _, tok := range strings.Fields(lower) {
		if spamWordlist[strings.Trim(tok, ".,!?")] {
			return true
		}
	}
	return false
}

func maxRuneRun(rs []rune) int {
	best := 0
	run := 0
	var prev rune = -1
	for _, r := range rs {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
