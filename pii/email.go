package pii

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)

func matchEmail(lower string) bool {
	return emailRegex.MatchString(deobfuscateEmail(lower))
}

// deobfuscateEmail rewrites the common spelled-out forms back into a
// matchable shape: "(at)"/" at " to "@", "(dot)"/" dot " to ".", and
// spaced-out single letters ("j o h n @ gmail") collapsed. Letter collapsing
// only happens when an "@" is already present so ordinary text is untouched.
func deobfuscateEmail(lower string) string {
	s := lower
	for _, sub := range []string{"(at)", "[at]", " at "} {
		s = strings.ReplaceAll(s, sub, "@")
	}
	for _, sub := range []string{"(dot)", "[dot]", " dot "} {
		s = strings.ReplaceAll(s, sub, ".")
	}
	if !strings.Contains(s, "@") {
		return s
	}
	s = collapseSpacedLetters(s)
	s = strings.ReplaceAll(s, " @", "@")
	s = strings.ReplaceAll(s, "@ ", "@")
	s = strings.ReplaceAll(s, " .", ".")
	s = strings.ReplaceAll(s, ". ", ".")
	return s
}

func collapseSpacedLetters(s string) string {
	fields := strings.Fields(s)
	var out []string
	for i := 0; i < len(fields); {
		if len(fields[i]) == 1 {
			j := i
			var b strings.Builder
			for j < len(fields) && len(fields[j]) == 1 {
				b.WriteString(fields[j])
				j++
			}
			if j-i >= 2 {
				out = append(out, b.String())
				i = j
				continue
			}
		}
		out = append(out, fields[i])
		i++
	}
	return strings.Join(out, " ")
}
