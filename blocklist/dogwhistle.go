package blocklist

import (
	"regexp"
	"strings"
	"unicode"
)

// Coded-token detection. These run on the raw text: the numeric codes would
// be destroyed by leetspeak folding in the normalizer.

var (
	dogWhistleNum = regexp.MustCompile(`\b14/?88\b`)
	tripleParens  = regexp.MustCompile(`\(\(\([^()]+\)\)\)`)
	bare88        = regexp.MustCompile(`\b88\b`)
)

func matchDogWhistle(raw string) string {
	lower := strings.ToLower(raw)
	if m := dogWhistleNum.FindString(lower); m != "" {
		return m
	}
	if m := tripleParens.FindString(raw); m != "" {
		return m
	}
	if bare88.MatchString(lower) && strings.Contains(lower, "heil") {
		return "88+heil"
	}
	return ""
}

// sexually suggestive emoji, split into object and context sets; a match
// requires one of each in close adjacency
var (
	suggestiveObject = map[rune]bool{
		'\U0001F346': true, // eggplant
		'\U0001F351': true, // peach
		'\U0001F34C': true, // banana
	}
	suggestiveContext = map[rune]bool{
		'\U0001F4A6': true, // sweat droplets
		'\U0001F445': true, // tongue
	}
)

// matchSexualEmojiContext flags suggestive emoji combinations only when the
// surrounding text is very short, so ordinary posts that happen to include
// produce emoji are not affected.
func matchSexualEmojiContext(raw string) bool {
	rs := []rune(raw)
	var objPos, ctxPos []int
	letters := 0
	for i, r := range rs {
		if suggestiveObject[r] {
			objPos = append(objPos, i)
		}
		if suggestiveContext[r] {
			ctxPos = append(ctxPos, i)
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters++
		}
	}
	if letters >= 10 {
		return false
	}
	for _, a := range objPos {
		for _, b := range ctxPos {
			d := a - b
			if d < 0 {
				d = -d
			}
			if d <= 3 {
				return true
			}
		}
	}
	return false
}
