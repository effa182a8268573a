package pii

import (
	"strings"
	"unicode"
)

// phrases that gate digit-run evaluation; without one of these present,
// arbitrary digit sequences (route numbers, highway names) are never treated
// as phone numbers
var contactPhrases = []string{
	"call me", "social security", "reach me", "contact me", "hit me up",
}

var contactWords = map[string]bool{
	"text":     true,
	"ssn":      true,
	"whatsapp": true,
	"telegram": true,
	"signal":   true,
	"phone":    true,
	"number":   true,
	"dm":       true,
}

func hasContactTrigger(lower string) bool {
	if containsAny(lower, contactPhrases) {
		return true
	}
	toks := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, t := range toks {
		if contactWords[t] {
			return true
		}
	}
	// an "@" combined with a long digit sequence is itself a contact signal
	return strings.Contains(lower, "@") && countDigits(lower) >= 10
}

// matchPhoneSSN evaluates digit runs only when a contact trigger is present.
// Runs tolerate the usual separators, which covers E.164 "+" forms and the
// "(xxx) xxx-xxxx" punctuation form as well as bare sequences. SSN
// additionally requires a nine-digit run plus SSN-specific context.
func matchPhoneSSN(lower string) (phone bool, ssn bool) {
	if !hasContactTrigger(lower) {
		return false, false
	}
	runs := digitRuns(lower)
	for _, r := range runs {
		if len(r) >= 10 && len(r) <= 15 {
			phone = true
		}
	}
	if strings.Contains(lower, "ssn") || strings.Contains(lower, "social security") {
		for _, r := range runs {
			if len(r) == 9 {
				ssn = true
			}
		}
	}
	return phone, ssn
}

// digitRuns extracts maximal digit sequences, allowing phone-style
// separators between groups. Each returned run contains digits only.
func digitRuns(s string) []string {
	var runs []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			runs = append(runs, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			cur.WriteRune(r)
		case cur.Len() > 0 && (r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == '+'):
			// separator inside a potential run; kept open until a
			// non-separator ends it
		default:
			flush()
		}
	}
	flush()
	return runs
}
