package subjectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectivity_ObjectiveText(t *testing.T) {
	a := New()
	for _, text := range []string{
		"I am a frog.",
		"The train leaves at 9.",
		"",
		"12345 !!!",
	} {
		assert.LessOrEqual(t, a.Subjectivity(text), 0.2, text)
	}
}

func TestSubjectivity_OpinionText(t *testing.T) {
	a := New()
	for _, text := range []string{
		"I had a great day today!",
		"Everything was awful and I feel sad.",
		"What a lovely, peaceful morning",
	} {
		assert.Greater(t, a.Subjectivity(text), 0.2, text)
	}
}

func TestSubjectivity_NegativeMoodText(t *testing.T) {
	a := New()
	for _, text := range []string{
		"I am so angry and anxious today.",
		"I feel guilty and ashamed.",
		"I was afraid and confused all day.",
		"Annoyed, lonely and exhausted after work.",
		"I'm heartbroken and I can't stop crying.",
		"Everything feels hopeless and overwhelming.",
	} {
		assert.Greater(t, a.Subjectivity(text), 0.2, text)
	}
}

func TestSubjectivity_IntensifierBoostsAndClamps(t *testing.T) {
	a := NewWithLexicon(map[string]float64{"good": 0.6, "AWFUL": 1.0})

	plain := a.Subjectivity("good")
	boosted := a.Subjectivity("very good")
	assert.InDelta(t, 0.6, plain, 1e-9)
	assert.InDelta(t, 0.78, boosted, 1e-9)
	assert.Equal(t, 1.0, a.Subjectivity("absolutely awful"))
}

func TestSubjectivity_AveragesAssessedWordsOnly(t *testing.T) {
	a := NewWithLexicon(map[string]float64{"good": 0.6, "bad": 0.8})
	assert.InDelta(t, 0.7, a.Subjectivity("the good, the bad and the weather report"), 1e-9)
}

func TestParseLexicon(t *testing.T) {
	lex, err := parseLexicon("# header\n\nhappy 1.0\nmeh 2\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"happy": 1.0, "meh": 1.0}, lex)

	_, err = parseLexicon("broken\n")
	assert.Error(t, err)
	_, err = parseLexicon("happy lots\n")
	assert.Error(t, err)
}

func TestEmbeddedLexiconLoads(t *testing.T) {
	lex, err := parseLexicon(lexiconData)
	require.NoError(t, err)
	assert.Contains(t, lex, "great")
	assert.Contains(t, lex, "anxious")
	assert.Greater(t, len(lex), 350)
	assert.NotContains(t, lex, "frog")
}
