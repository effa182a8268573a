package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdempotent(t *testing.T) {
	assert := assert.New(t)

	inputs := []string{
		"",
		"hello world",
		"F U C K",
		"Tráffic on 183 is terrible!!!",
		"grëat dαy аt the pаrk",
		"ＦＵＬＬＷＩＤＴＨ",
	}
	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once.Text)
		assert.Equal(once.Text, twice.Text, "input: %q", s)
	}
}

func TestNormalizeSpacedAndPunctuated(t *testing.T) {
	assert := assert.New(t)

	plain := Normalize("fuck")
	spaced := Normalize("F U C K")
	dotted := Normalize("f.u.c.k")

	assert.Equal(plain.Collapsed, spaced.Collapsed)
	assert.Equal(plain.Collapsed, dotted.Collapsed)
	assert.Equal(spaced.Text, dotted.Text)
}

func TestNormalizeLeetspeak(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("asshole", Normalize("a$$hole").Text)
	assert.Equal("shit", Normalize("5h!7").Text)
	assert.Equal("boob", Normalize("8008").Text)
}

func TestNormalizeHomoglyphs(t *testing.T) {
	assert := assert.New(t)

	// Cyrillic а,о and Greek ο
	assert.Equal("parka", Normalize("раrkа").Text)
	assert.Equal("hello", Normalize("hellο").Text)
	assert.Equal("abc", Normalize("ａｂｃ").Text)
}

func TestNormalizeInvisible(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("badword", Normalize("bad​word").Text)
	assert.Equal("badword", Normalize("bad\uFEFFwo­rd").Text)
}

func TestNormalizeDiacritics(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("cafe creme", Normalize("café crème").Text)
	assert.Equal("nino", Normalize("niño").Text)
}

func TestNormalizeRunCollapse(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("nice", Normalize("niiiice").Text)
	// doubled characters survive
	assert.Equal("grass", Normalize("grass").Text)
	assert.Equal("roommate", Normalize("roommate").Text)
}

func TestNormalizeVariants(t *testing.T) {
	assert := assert.New(t)

	n := Normalize("k c u f")
	assert.Equal("k c u f", n.Text)
	assert.Equal("kcuf", n.Collapsed)
	assert.Equal("fuck", n.Reversed)
}

func TestNormalizeWhitespace(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("a b c", Normalize("  a\t b\n\n c  ").Text)
	assert.Equal("", Normalize("   ").Text)
}
