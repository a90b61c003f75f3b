// Package subjectivity estimates how opinionated a piece of text is.
//
// The Analyzer looks words up in an embedded lexicon of opinion words, boosts
// a word that follows an intensifier ("very", "really", ...), and averages the
// weights of the words it recognised. Text with no lexicon words scores 0.
package subjectivity

import (
	"bufio"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

//go:embed lexicon.txt
var lexiconData string

var intensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"so":         1.2,
	"extremely":  1.5,
	"incredibly": 1.4,
	"super":      1.3,
	"totally":    1.3,
	"quite":      1.1,
	"pretty":     1.1,
	"absolutely": 1.5,
}

// Analyzer scores text subjectivity in [0,1].
type Analyzer struct {
	lexicon map[string]float64
}

// New returns an Analyzer backed by the embedded lexicon.
func New() *Analyzer {
	lex, err := parseLexicon(lexiconData)
	if err != nil {
		// the lexicon is compiled in; a parse failure is a build defect
		panic(err)
	}
	return &Analyzer{lexicon: lex}
}

// NewWithLexicon returns an Analyzer over a caller-supplied word list.
func NewWithLexicon(lexicon map[string]float64) *Analyzer {
	lex := make(map[string]float64, len(lexicon))
	for w, v := range lexicon {
		lex[strings.ToLower(w)] = clamp(v)
	}
	return &Analyzer{lexicon: lex}
}

// Subjectivity returns 0 for purely factual text and approaches 1 for opinion.
func (a *Analyzer) Subjectivity(text string) float64 {
	words := tokenize(text)
	var sum float64
	var n int
	for i, w := range words {
		weight, ok := a.lexicon[w]
		if !ok {
			continue
		}
		if i > 0 {
			if boost, ok := intensifiers[words[i-1]]; ok {
				weight *= boost
			}
		}
		sum += clamp(weight)
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func parseLexicon(data string) (map[string]float64, error) {
	lex := make(map[string]float64)
	sc := bufio.NewScanner(strings.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Fields(text)
		if len(parts) != 2 {
			return nil, fmt.Errorf("lexicon line %d: want \"word weight\", got %q", line, text)
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[parts[0]] = clamp(v)
	}
	return lex, sc.Err()
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
