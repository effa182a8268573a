package heuristic

import (
	"encoding/json"
	"fmt"
	"os"
)

// Lexicon is the pattern data driving the local classifier. It is ordinary
// configuration: deployments can load a tuned version from a JSON file and
// the built-in default covers the documented baseline behaviors.
type Lexicon struct {
	// Profanity words, matched as exact tokens, as collapsed-text
	// substrings (four characters and up), and fuzzily.
	Profanity []string `json:"profanity"`
	// Threats matched as substrings of the normalized text. Restricted to
	// explicit second-person phrasings.
	Threats []string `json:"threats"`
	// BenignCollocations are idioms redacted before threat matching
	// ("this traffic is killing me", "die-hard fan").
	BenignCollocations []string `json:"benign_collocations"`
	// Harassment token sequences ("f u", "f off"); matching whole tokens
	// keeps "back off" and "turn off" clean.
	Harassment [][]string `json:"harassment"`
	// Solicitation phrases, with their own benign redaction list
	// ("date night" is not "car date").
	Solicitation       []string `json:"solicitation"`
	BenignSolicitation []string `json:"benign_solicitation"`
	// FuzzyExclusions are tokens that must never fuzzy-match anything.
	FuzzyExclusions []string `json:"fuzzy_exclusions"`
}

func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Profanity: []string{
			"fuck", "shit", "bitch", "asshole", "ass", "cunt", "dick",
			"bastard", "whore", "slut",
		},
		Threats: []string{
			"kill you", "kill yourself", "kill urself", "ill kill",
			"i will kill", "hurt you", "beat you up", "shoot you",
			"stab you",
		},
		BenignCollocations: []string{
			"killing me", "kills me", "killing it", "killed it",
			"die hard", "joke killed", "dressed to kill", "time to kill",
			"killer deal", "killer view", "dying to",
		},
		Harassment: [][]string{
			{"f", "u"},
			{"f", "you"},
			{"f", "off"},
			{"f", "yourself"},
			{"eff", "off"},
			{"screw", "you"},
			{"stfu"},
			{"gtfo"},
			{"kys"},
		},
		Solicitation: []string{
			"car date", "hookup", "hook up with me", "fwb", "dtf",
			"send nudes", "looking for fun tonight",
		},
		BenignSolicitation: []string{
			"date night", "dinner date", "lunch date", "play date",
			"double date", "due date", "up to date", "first date",
		},
		FuzzyExclusions: []string{
			"class", "grass", "shell", "shirt", "pass", "bass", "mass",
			"glass", "duck", "deck", "dock", "sit", "ship", "hole",
			"hit", "shift", "asks", "itch", "cut", "count", "wore",
		},
	}
}

// LoadLexiconJSON reads a lexicon from a JSON file.
func LoadLexiconJSON(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	var lex Lexicon
	if err := json.Unmarshal(raw, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon file: %w", err)
	}
	return &lex, nil
}
