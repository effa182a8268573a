package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aditya1583/community-pulse-sub002/normalize"
)

func check(text string) Result {
	c := NewClassifier(nil, nil)
	return c.Check(normalize.Normalize(text))
}

func TestProfanityDirect(t *testing.T) {
	assert := assert.New(t)

	res := check("what the fuck")
	assert.False(res.Allowed)
	assert.Equal(CategoryProfanity, res.Category)

	assert.True(check("what a lovely day").Allowed)
}

func TestProfanityObfuscated(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"f*ck",
		"f u c k",
		"f.u.c.k",
		"a$$hole",
		"sh!t happens",
	} {
		res := check(text)
		assert.False(res.Allowed, "text: %q", text)
		assert.Equal(CategoryProfanity, res.Category, "text: %q", text)
	}
}

func TestProfanityObfuscatedInContext(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"f*ck this traffic",
		"f*ck you",
		"what the f ck",
		"as*hole neighbor strikes again",
		"sh*t happens",
	} {
		res := check(text)
		assert.False(res.Allowed, "text: %q", text)
		assert.Equal(CategoryProfanity, res.Category, "text: %q", text)
	}

	for _, text := range []string{
		"a hole in the fence needs fixing",
		"so it goes",
		"power cut on elm street",
	} {
		assert.True(check(text).Allowed, "text: %q", text)
	}
}

func TestProfanityFuzzy(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"assole", "fck you", "biatch"} {
		res := check(text)
		assert.False(res.Allowed, "text: %q", text)
		assert.Equal(CategoryProfanity, res.Category, "text: %q", text)
	}
}

func TestFuzzyExclusions(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"first class seats",
		"the grass needs mowing",
		"found a shell on the trail",
		"lost a blue shirt at the park",
		"night shift starts at 9",
		"hit the gym early",
		"power cut on elm street",
		"final count is 40",
	} {
		assert.True(check(text).Allowed, "text: %q", text)
	}
}

func TestThreats(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"I'll kill you",
		"kill yourself",
		"kys",
		"I will kill you for this",
	} {
		res := check(text)
		assert.False(res.Allowed, "text: %q", text)
	}
}

func TestThreatBenignCollocations(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"this traffic is killing me",
		"die-hard fan of the local team",
		"that joke killed at open mic",
		"the heat is killing me today",
		"killer deal at the farmers market",
	} {
		assert.True(check(text).Allowed, "text: %q", text)
	}
}

func TestHarassment(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"f u",
		"f off",
		"go f* yourself",
		"stfu already",
	} {
		res := check(text)
		assert.False(res.Allowed, "text: %q", text)
	}
}

func TestHarassmentWordBoundaries(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"back off the construction zone",
		"turn off the sprinklers please",
		"the f train is delayed",
	} {
		assert.True(check(text).Allowed, "text: %q", text)
	}
}

func TestSolicitation(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"anyone down for a car date",
		"looking for a hookup tonight",
		"fwb only, no strings",
		"send nudes",
	} {
		res := check(text)
		assert.False(res.Allowed, "text: %q", text)
		assert.Equal(CategorySolicitation, res.Category, "text: %q", text)
	}
}

func TestSolicitationBenign(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"date night at the new restaurant downtown",
		"first date spots near the lake?",
		"library books due date is friday",
	} {
		assert.True(check(text).Allowed, "text: %q", text)
	}
}

func TestCustomLexicon(t *testing.T) {
	assert := assert.New(t)

	lex := &Lexicon{Profanity: []string{"zorp"}}
	c := NewClassifier(nil, lex)

	assert.False(c.Check(normalize.Normalize("total zorp move")).Allowed)
	assert.True(c.Check(normalize.Normalize("what the fuck")).Allowed)
}
