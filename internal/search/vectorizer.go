package search

import (
	"fmt"
	"math"
	"sort"
)

// Vectorizer turns normalized text into a vector over a fixed vocabulary.
type Vectorizer interface {
	Transform(normalized string) SparseVector
	Dim() int
}

// FeatureSpace implements Term Frequency - Inverse Document Frequency over a
// vocabulary fit once from the catalog. It is read-only after construction.
type FeatureSpace struct {
	Vocabulary map[string]int
	IDF        []float64
	Analyzer   Analyzer
}

// Fit builds vocabulary and IDF stats from already normalized documents.
// Terms are indexed in lexical order so indices do not depend on input order.
func Fit(docs []string, analyzer Analyzer) *FeatureSpace {
	docCount := float64(len(docs))
	wordDocCounts := make(map[string]int)

	// 1. Count document occurrences
	for _, doc := range docs {
		seenInDoc := make(map[string]bool)
		for _, token := range Tokenize(doc) {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
		}
	}

	// 2. Stable vocabulary
	terms := make([]string, 0, len(wordDocCounts))
	for term := range wordDocCounts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	// 3. Smoothed IDF: ln((1 + N) / (1 + df)) + 1
	space := &FeatureSpace{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
		Analyzer:   analyzer,
	}
	for i, term := range terms {
		space.Vocabulary[term] = i
		space.IDF[i] = math.Log((1+docCount)/(1+float64(wordDocCounts[term]))) + 1
	}
	return space
}

// Dim returns the vocabulary size.
func (fs *FeatureSpace) Dim() int {
	return len(fs.IDF)
}

// Transform converts normalized text to an L2-normalized TF-IDF vector.
// Terms outside the vocabulary are ignored.
func (fs *FeatureSpace) Transform(normalized string) SparseVector {
	counts := make(map[int]float64)
	for _, token := range Tokenize(normalized) {
		if idx, exists := fs.Vocabulary[token]; exists {
			counts[idx]++
		}
	}

	for idx, count := range counts {
		counts[idx] = count * fs.IDF[idx]
	}
	return NewSparseVector(counts).Normalized()
}

// Validate checks that every vocabulary index addresses exactly one IDF weight.
func (fs *FeatureSpace) Validate() error {
	if len(fs.Vocabulary) != len(fs.IDF) {
		return fmt.Errorf("%w: vocabulary has %d terms, idf has %d weights", ErrCorruptArtifact, len(fs.Vocabulary), len(fs.IDF))
	}
	seen := make([]bool, len(fs.IDF))
	for term, idx := range fs.Vocabulary {
		if idx < 0 || idx >= len(fs.IDF) {
			return fmt.Errorf("%w: term %q has index %d outside [0,%d)", ErrCorruptArtifact, term, idx, len(fs.IDF))
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d assigned to more than one term", ErrCorruptArtifact, idx)
		}
		seen[idx] = true
	}
	for i, w := range fs.IDF {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: invalid idf weight %v at index %d", ErrCorruptArtifact, w, i)
		}
	}
	return nil
}
