package aigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	assert := assert.New(t)

	v, err := parseVerdict(`{"decision": "allow", "category": "none", "confidence": 0.97}`)
	assert.NoError(err)
	assert.True(v.Allowed)
	assert.Equal(0.97, v.Confidence)

	v, err = parseVerdict(`{"decision": "BLOCK", "category": "profanity", "confidence": 0.9, "reason": "slur"}`)
	assert.NoError(err)
	assert.False(v.Allowed)
	assert.Equal("profanity", v.Category)
	assert.Equal("slur", v.Reason)
}

func TestParseVerdictExtractsFirstObject(t *testing.T) {
	assert := assert.New(t)

	v, err := parseVerdict("Sure, here is my assessment:\n```json\n" +
		`{"decision": "allow", "category": "none", "confidence": 0.8, "reason": "text with } brace"}` +
		"\n```\nLet me know if you need anything else. {\"decision\": \"block\"}")
	assert.NoError(err)
	assert.True(v.Allowed)
	assert.Equal("text with } brace", v.Reason)
}

func TestParseVerdictMalformed(t *testing.T) {
	assert := assert.New(t)

	cases := []string{
		"",
		"no json here",
		`{"decision": "allow", "category": "none"}`,                       // missing confidence
		`{"decision": "maybe", "category": "none", "confidence": 0.5}`,    // bad decision
		`{"category": "none", "confidence": 0.5}`,                         // missing decision
		`{"decision": "allow", "confidence": "high", "category": "none"}`, // non-numeric confidence
		`{"decision": "allow", "confidence": 0.5`,                         // unbalanced
	}
	for _, tc := range cases {
		_, err := parseVerdict(tc)
		assert.Error(err, "input: %q", tc)
	}
}
