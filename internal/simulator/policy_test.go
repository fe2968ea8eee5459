package simulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsWord(t *testing.T) {
	tests := []struct {
		s, word string
		want    bool
	}{
		{"should i buy?", "buy", true},
		{"buyers market", "buy", false},
		{"re-invest now", "invest", true},
		{"investing", "invest", false},
		{"risk", "risk", true},
		{"", "risk", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsWord(tt.s, tt.word), "%q in %q", tt.word, tt.s)
	}
}

func TestRiskScore(t *testing.T) {
	p := newPolicy(testConfig())

	score, hits := p.riskScore("I recommend you buy now.")
	assert.Equal(t, 2, score)
	assert.Equal(t, []string{"buy"}, hits)
	assert.True(t, p.needsReview("I recommend you buy now."))

	assert.False(t, p.needsReview("Your portfolio looks fine."))
	assert.True(t, p.needsReview("Your portfolio carries concentration risk."))
}

func TestFragmentsConcatenate(t *testing.T) {
	for _, text := range []string{"", "one", "two words", " leading and  double spaces "} {
		assert.Equal(t, text, strings.Join(fragments(text), ""))
	}
}

func TestWithDisclaimer(t *testing.T) {
	assert.Equal(t, "Hello", withDisclaimer("Hello"))

	once := withDisclaimer("Consider index funds for your portfolio.")
	assert.True(t, strings.HasSuffix(once, Disclaimer))
	assert.Equal(t, once, withDisclaimer(once))
}
