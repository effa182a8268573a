// Package normalize canonicalizes short user-submitted text for policy
// matching. The goal is resistance to deliberate evasion: invisible code
// points, look-alike characters from other scripts, leetspeak, inserted
// punctuation, repeated characters, and reversed phrases.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalized holds the canonical forms derived from one input string. Built
// once per evaluation and treated as immutable by every consumer.
type Normalized struct {
	// Raw is the input exactly as submitted.
	Raw string
	// Text is the canonical form: folded, lowercased, de-leeted, with
	// punctuation replaced by spaces and runs collapsed.
	Text string
	// Collapsed is Text with all spaces removed, catching "f u c k" style
	// separator insertion.
	Collapsed string
	// Reversed is Collapsed with rune order reversed, catching deliberately
	// backward-typed phrases.
	Reversed string
}

var nonTokenChars = regexp.MustCompile(`[^\pL\pN ]+`)

// Normalize builds every canonical variant of the input. Pure and
// deterministic; Normalize(n.Text).Text == n.Text for any input.
func Normalize(input string) Normalized {
	text := stripInvisible(input)
	text = foldHomoglyphs(text)
	text = strings.ToLower(text)
	text = stripDiacritics(text)
	text = foldLeet(text)
	text = nonTokenChars.ReplaceAllString(text, " ")
	text = collapseRuns(text)
	text = strings.Join(strings.Fields(text), " ")

	collapsed := strings.ReplaceAll(text, " ", "")
	return Normalized{
		Raw:       input,
		Text:      text,
		Collapsed: collapsed,
		Reversed:  reverseRunes(collapsed),
	}
}

// zero-width and other invisible code points used to split matched phrases
var invisibleRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00AD, Hi: 0x00AD, Stride: 1}, // soft hyphen
		{Lo: 0x180E, Hi: 0x180E, Stride: 1}, // mongolian vowel separator
		{Lo: 0x200B, Hi: 0x200F, Stride: 1}, // zero-width space..RTL mark
		{Lo: 0x202A, Hi: 0x202E, Stride: 1}, // directional embedding/overrides
		{Lo: 0x2060, Hi: 0x2064, Stride: 1}, // word joiner..invisible plus
		{Lo: 0xFEFF, Hi: 0xFEFF, Stride: 1}, // BOM / zero-width no-break
	},
}

func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(invisibleRunes, r) {
			return -1
		}
		return r
	}, s)
}

// look-alike characters from Cyrillic and Greek mapped to their Latin
// equivalents; fullwidth Latin handled arithmetically below
var homoglyphs = map[rune]rune{
	// Cyrillic lowercase
	'а': 'a', 'в': 'b', 'е': 'e', 'ѕ': 's', 'і': 'i', 'ј': 'j', 'к': 'k',
	'м': 'm', 'н': 'h', 'о': 'o', 'р': 'p', 'с': 'c', 'т': 't', 'у': 'y',
	'х': 'x', 'ԛ': 'q', 'ԝ': 'w', 'ё': 'e',
	// Cyrillic uppercase
	'А': 'A', 'В': 'B', 'Е': 'E', 'Ѕ': 'S', 'І': 'I', 'Ј': 'J', 'К': 'K',
	'М': 'M', 'Н': 'H', 'О': 'O', 'Р': 'P', 'С': 'C', 'Т': 'T', 'У': 'Y',
	'Х': 'X',
	// Greek
	'α': 'a', 'β': 'b', 'ε': 'e', 'ι': 'i', 'κ': 'k', 'ν': 'v', 'ο': 'o',
	'ρ': 'p', 'τ': 't', 'υ': 'u', 'χ': 'x',
	'Α': 'A', 'Β': 'B', 'Ε': 'E', 'Ζ': 'Z', 'Η': 'H', 'Ι': 'I', 'Κ': 'K',
	'Μ': 'M', 'Ν': 'N', 'Ο': 'O', 'Ρ': 'P', 'Τ': 'T', 'Υ': 'Y', 'Χ': 'X',
}

func foldHomoglyphs(s string) string {
	return strings.Map(func(r rune) rune {
		if lat, ok := homoglyphs[r]; ok {
			return lat
		}
		// fullwidth ASCII block
		if r >= 0xFF01 && r <= 0xFF5E {
			return r - 0xFEE0
		}
		if r == 0x3000 { // ideographic space
			return ' '
		}
		return r
	}, s)
}

func stripDiacritics(s string) string {
	// the transform chain is constructed per call to avoid sharing
	// transformer state between goroutines
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(normFunc, s)
	if err != nil {
		return s
	}
	return out
}

var leet = map[rune]rune{
	'0': 'o', '1': 'i', '!': 'i', '|': 'i', '3': 'e', '4': 'a', '@': 'a',
	'5': 's', '$': 's', '7': 't', '8': 'b', '9': 'g', '+': 't',
}

func foldLeet(s string) string {
	return strings.Map(func(r rune) rune {
		if sub, ok := leet[r]; ok {
			return sub
		}
		return r
	}, s)
}

// collapseRuns reduces any run of three or more identical runes to a single
// rune. Doubled letters ("roommate", "grass") are left alone.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	run := 0
	flush := func() {
		if run == 0 {
			return
		}
		n := run
		if n >= 3 {
			n = 1
		}
		for i := 0; i < n; i++ {
			b.WriteRune(prev)
		}
	}
	for _, r := range s {
		if r == prev {
			run++
			continue
		}
		flush()
		prev = r
		run = 1
	}
	flush()
	return b.String()
}

func reverseRunes(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}
