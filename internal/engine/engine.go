package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/recipe-engine/backend/internal/catalog"
	"github.com/recipe-engine/backend/internal/search"
)

var (
	// ErrDimensionMismatch is returned when the catalog, feature space and
	// matrix do not describe the same rows and columns.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrEmptyCatalog is returned when there is nothing to recommend.
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// Recommendation is a catalog record as returned to callers. Score is nil
// for picks that were not ranked against a query.
type Recommendation struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Cuisine     string   `json:"cuisine"`
	Steps       []string `json:"steps"`
	Score       *float64 `json:"similarity_score,omitempty"`
}

// Engine answers recommendation queries over a fixed catalog. Everything
// except the random source is read-only after New.
type Engine struct {
	entries    []catalog.Entry
	space      *search.FeatureSpace
	index      *search.Index
	normalizer *search.Normalizer
	logger     *logrus.Entry

	rngMu sync.Mutex
	rng   *rand.Rand

	loadedAt time.Time
}

// EngineStats summarizes what the engine serves.
type EngineStats struct {
	Recipes        int
	VocabularySize int
	LoadedAt       time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand sets the random source used by Surprise and Quick.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New checks that entries, space and matrix line up and builds the index.
func New(entries []catalog.Entry, space *search.FeatureSpace, matrix *search.Matrix, normalizer *search.Normalizer, opts ...Option) (*Engine, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	if matrix.Rows != len(entries) {
		return nil, fmt.Errorf("%w: matrix has %d rows, catalog has %d entries", ErrDimensionMismatch, matrix.Rows, len(entries))
	}
	if matrix.Cols != space.Dim() {
		return nil, fmt.Errorf("%w: matrix has %d columns, vocabulary has %d terms", ErrDimensionMismatch, matrix.Cols, space.Dim())
	}
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		entries:    entries,
		space:      space,
		index:      search.NewIndex(matrix),
		normalizer: normalizer,
		loadedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = logrus.WithField("component", "engine")
	}
	return e, nil
}

// Recommend returns the n catalog entries most similar to query, best
// first. Ties keep catalog order, so a query matching nothing returns the
// first n entries with score 0.
func (e *Engine) Recommend(query string, n int) []Recommendation {
	// 1. Normalize
	normalized := e.normalizer.Normalize(query)

	// 2. Vectorize
	q := e.space.Transform(normalized)

	// 3. Score and rank
	ranked := search.TopN(e.index.ScoreAll(q), n)

	results := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		score := r.Score
		results[i] = toRecommendation(e.entries[r.Index], &score)
	}

	e.logger.WithFields(logrus.Fields{
		"query_terms": len(q.Indices),
		"results":     len(results),
	}).Debug("Recommendation served")
	return results
}

// Surprise returns one uniformly random entry.
func (e *Engine) Surprise() Recommendation {
	e.rngMu.Lock()
	i := e.rng.Intn(len(e.entries))
	e.rngMu.Unlock()
	return toRecommendation(e.entries[i], nil)
}

// Quick returns up to n distinct random entries.
func (e *Engine) Quick(n int) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	if n > len(e.entries) {
		n = len(e.entries)
	}

	e.rngMu.Lock()
	perm := e.rng.Perm(len(e.entries))
	e.rngMu.Unlock()

	results := make([]Recommendation, n)
	for i := 0; i < n; i++ {
		results[i] = toRecommendation(e.entries[perm[i]], nil)
	}
	return results
}

// Entry looks up a catalog entry by id.
func (e *Engine) Entry(id int) (catalog.Entry, bool) {
	if id < 0 || id >= len(e.entries) {
		return catalog.Entry{}, false
	}
	return e.entries[id], true
}

// Record returns the unscored record for a catalog id.
func (e *Engine) Record(id int) (Recommendation, bool) {
	entry, ok := e.Entry(id)
	if !ok {
		return Recommendation{}, false
	}
	return toRecommendation(entry, nil), true
}

func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Recipes:        len(e.entries),
		VocabularySize: e.space.Dim(),
		LoadedAt:       e.loadedAt,
	}
}

func toRecommendation(entry catalog.Entry, score *float64) Recommendation {
	return Recommendation{
		ID:          entry.ID,
		Name:        entry.Name,
		Ingredients: entry.Ingredients,
		Cuisine:     entry.Cuisine,
		Steps:       entry.Steps,
		Score:       score,
	}
}
