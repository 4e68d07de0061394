package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// ErrAnalyzerMismatch is returned when a feature space was built with a
// different stop-word set than the one loaded at query time.
var ErrAnalyzerMismatch = errors.New("analyzer does not match feature space")

// Analyzer records how text was normalized when a feature space was fit.
// It travels with the feature space artifact so query text is cleaned the
// same way as the catalog text was.
type Analyzer struct {
	Stem            bool   `json:"stem"`
	StopwordsDigest string `json:"stopwords_digest,omitempty"`
}

// Normalizer cleans free text into space separated tokens.
type Normalizer struct {
	stop *StopwordSet
	stem bool
}

// NewNormalizer creates a normalizer over the given stop words.
func NewNormalizer(stop *StopwordSet, stem bool) *Normalizer {
	return &Normalizer{stop: stop, stem: stem}
}

// NewNormalizerFor creates the normalizer matching a loaded feature space.
func NewNormalizerFor(space *FeatureSpace, stop *StopwordSet) (*Normalizer, error) {
	recorded := space.Analyzer.StopwordsDigest
	if recorded != "" && recorded != stop.Digest() {
		return nil, fmt.Errorf("%w: stop-word digest %s, loaded %s", ErrAnalyzerMismatch, recorded, stop.Digest())
	}
	return NewNormalizer(stop, space.Analyzer.Stem), nil
}

// Analyzer describes this normalizer for storage alongside a feature space.
func (n *Normalizer) Analyzer() Analyzer {
	return Analyzer{Stem: n.stem, StopwordsDigest: n.stop.Digest()}
}

// Normalize lowercases text, deletes everything except a-z and whitespace,
// drops stop words and joins the remaining tokens with single spaces.
func (n *Normalizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if n.stop.Contains(w) {
			continue
		}
		if n.stem {
			w = english.Stem(w, false)
			if w == "" {
				continue
			}
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// NormalizeValue normalizes v when it holds text and returns "" otherwise.
func (n *Normalizer) NormalizeValue(v any) string {
	switch s := v.(type) {
	case string:
		return n.Normalize(s)
	case *string:
		if s == nil {
			return ""
		}
		return n.Normalize(*s)
	default:
		return ""
	}
}

// Tokenize splits normalized text the same way for fitting and querying.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}
