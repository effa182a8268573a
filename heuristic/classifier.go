// Package heuristic is the local, deterministic content classifier: lexicon
// and pattern matching over normalized text, with a bounded fuzzy matcher
// for near-misspellings. No I/O, no confidence scores; the outcome is a
// binary block/allow.
package heuristic

import (
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/aditya1583/community-pulse-sub002/normalize"
)

const (
	CategoryProfanity    = "profanity"
	CategoryThreat       = "threat"
	CategoryHarassment   = "harassment"
	CategorySolicitation = "solicitation"

	// fuzzy matching is restricted to short lexicon words; longer words
	// have too many legitimate neighbors at edit distance one
	fuzzyMaxWordLen  = 7
	fuzzyMinTokenLen = 3
)

type Result struct {
	Allowed  bool
	Category string
	// Matched is the triggering pattern, for logs only.
	Matched string
}

type Classifier struct {
	Logger  *slog.Logger
	Lexicon *Lexicon

	profanity  map[string]bool
	exclusions map[string]bool
}

func NewClassifier(logger *slog.Logger, lex *Lexicon) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if lex == nil {
		lex = DefaultLexicon()
	}
	c := &Classifier{
		Logger:     logger,
		Lexicon:    lex,
		profanity:  make(map[string]bool, len(lex.Profanity)),
		exclusions: make(map[string]bool, len(lex.FuzzyExclusions)),
	}
	for _, w := range lex.Profanity {
		c.profanity[w] = true
	}
	for _, w := range lex.FuzzyExclusions {
		c.exclusions[w] = true
	}
	return c
}

// Check classifies normalized content. Matching is ordered profanity,
// threats, harassment, solicitation; the first hit wins.
func (c *Classifier) Check(n normalize.Normalized) Result {
	tokens := strings.Fields(n.Text)

	if m := c.matchProfanity(n, tokens); m != "" {
		return Result{Category: CategoryProfanity, Matched: m}
	}
	if m := c.matchThreat(n.Text); m != "" {
		return Result{Category: CategoryThreat, Matched: m}
	}
	if m := c.matchHarassment(tokens); m != "" {
		return Result{Category: CategoryHarassment, Matched: m}
	}
	if m := c.matchSolicitation(n.Text); m != "" {
		return Result{Category: CategorySolicitation, Matched: m}
	}
	return Result{Allowed: true}
}

func (c *Classifier) matchProfanity(n normalize.Normalized, tokens []string) string {
	for _, tok := range tokens {
		if c.profanity[tok] {
			return tok
		}
	}
	// spaced or punctuated obfuscation leaves single-letter tokens behind;
	// only then is the collapsed variant consulted, so words spanning
	// ordinary token boundaries ("push it") cannot match
	if hasSingleCharToken(tokens) {
		for _, w := range c.Lexicon.Profanity {
			if len(w) < 4 {
				continue
			}
			if strings.Contains(n.Collapsed, w) || c.fuzzyEqual(n.Collapsed, w) {
				return w
			}
		}
	}
	for _, tok := range tokens {
		if m := c.fuzzyProfanity(tok); m != "" {
			return m
		}
	}
	// symbol substitution splits a word into adjacent fragments ("f*ck"
	// becomes "f ck", "as*hole" becomes "as hole"); rejoin the fragment
	// shapes and match the result like any other token
	for i := 0; i+1 < len(tokens); i++ {
		t1, t2 := tokens[i], tokens[i+1]
		leading := len(t1) <= 2 && len(t2) <= 4
		trailing := len(t2) == 1 && len(t1) <= 4
		if !leading && !trailing {
			continue
		}
		joined := t1 + t2
		if len(joined) < fuzzyMinTokenLen {
			continue
		}
		if c.profanity[joined] {
			return joined
		}
		if m := c.fuzzyProfanity(joined); m != "" {
			return m
		}
	}
	return ""
}

// fuzzyProfanity matches a token against short profanity words at edit
// distance one, and only for insertions or deletions. Same-length
// substitutions are skipped: they turn too many ordinary words ("sick",
// "funk", "suit") into false positives.
func (c *Classifier) fuzzyProfanity(tok string) string {
	if len(tok) < fuzzyMinTokenLen || c.exclusions[tok] {
		return ""
	}
	for _, w := range c.Lexicon.Profanity {
		if len(w) > fuzzyMaxWordLen || tok == w {
			continue
		}
		diff := len(tok) - len(w)
		if diff != 1 && diff != -1 {
			continue
		}
		if levenshtein.ComputeDistance(tok, w) <= 1 {
			return w
		}
	}
	return ""
}

func (c *Classifier) fuzzyEqual(collapsed, w string) bool {
	if c.exclusions[collapsed] {
		return false
	}
	diff := len(collapsed) - len(w)
	if diff < -1 || diff > 1 {
		return false
	}
	return levenshtein.ComputeDistance(collapsed, w) <= 1
}

func (c *Classifier) matchThreat(text string) string {
	// idiomatic uses are removed before matching, so "this traffic is
	// killing me" never reaches the threat patterns
	redacted := redactAll(text, c.Lexicon.BenignCollocations)
	for _, p := range c.Lexicon.Threats {
		if strings.Contains(redacted, p) {
			return p
		}
	}
	return ""
}

func (c *Classifier) matchHarassment(tokens []string) string {
	for _, seq := range c.Lexicon.Harassment {
		if matchTokenSeq(tokens, seq) {
			return strings.Join(seq, " ")
		}
	}
	return ""
}

func (c *Classifier) matchSolicitation(text string) string {
	redacted := redactAll(text, c.Lexicon.BenignSolicitation)
	redactedTokens := strings.Fields(redacted)
	for _, p := range c.Lexicon.Solicitation {
		if strings.Contains(p, " ") {
			if strings.Contains(redacted, p) {
				return p
			}
		} else if tokenIn(redactedTokens, p) {
			return p
		}
	}
	return ""
}

func hasSingleCharToken(tokens []string) bool {
	for _, t := range tokens {
		if len(t) == 1 {
			return true
		}
	}
	return false
}

func redactAll(text string, phrases []string) string {
	for _, p := range phrases {
		text = strings.ReplaceAll(text, p, " ")
	}
	return text
}

func matchTokenSeq(tokens, seq []string) bool {
	if len(seq) == 0 || len(tokens) < len(seq) {
		return false
	}
	for i := 0; i+len(seq) <= len(tokens); i++ {
		hit := true
		for j, s := range seq {
			if tokens[i+j] != s {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}

func tokenIn(tokens []string, w string) bool {
	for _, t := range tokens {
		if t == w {
			return true
		}
	}
	return false
}
