package search_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-engine/backend/internal/search"
)

func newNormalizer(t *testing.T) *search.Normalizer {
	t.Helper()
	stop, err := search.DefaultStopwords()
	require.NoError(t, err)
	return search.NewNormalizer(stop, false)
}

func TestNormalize(t *testing.T) {
	n := newNormalizer(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Digits and punctuation", "Chicken, 2 cups!", "chicken cups"},
		{"Stop words dropped", "The butter and the chicken", "butter chicken"},
		{"Fragments collapse", "to-mato", "tomato"},
		{"Non-ASCII letters deleted", "Crème brûlée", "crme brle"},
		{"Whitespace runs", "  paneer \t\n tikka  ", "paneer tikka"},
		{"Only stop words", "and the of", ""},
		{"Empty", "", ""},
		{"Apostrophes", "Don't stir", "dont stir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newNormalizer(t)

	inputs := []string{
		"Chicken, 2 cups!",
		"Aloo Gobi with JEERA & haldi (1 tsp)",
		"1/2 cup yogurt; salt to taste",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestNormalizeValue(t *testing.T) {
	n := newNormalizer(t)
	text := "Masala Dosa"

	assert.Equal(t, "", n.NormalizeValue(nil))
	assert.Equal(t, "", n.NormalizeValue(42))
	assert.Equal(t, "", n.NormalizeValue(3.14))
	assert.Equal(t, "", n.NormalizeValue((*string)(nil)))
	assert.Equal(t, "masala dosa", n.NormalizeValue(text))
	assert.Equal(t, "masala dosa", n.NormalizeValue(&text))
}

func TestNormalizeStemming(t *testing.T) {
	stop, err := search.DefaultStopwords()
	require.NoError(t, err)
	n := search.NewNormalizer(stop, true)

	out := n.Normalize("Roasted tomatoes")
	assert.Equal(t, "roast tomato", out)
	assert.True(t, n.Analyzer().Stem)
}

func TestNewNormalizerFor(t *testing.T) {
	stop, err := search.DefaultStopwords()
	require.NoError(t, err)

	t.Run("Matching digest", func(t *testing.T) {
		space := &search.FeatureSpace{Analyzer: search.Analyzer{Stem: true, StopwordsDigest: stop.Digest()}}
		n, err := search.NewNormalizerFor(space, stop)
		require.NoError(t, err)
		assert.Equal(t, space.Analyzer, n.Analyzer())
	})

	t.Run("No recorded digest", func(t *testing.T) {
		n, err := search.NewNormalizerFor(&search.FeatureSpace{}, stop)
		require.NoError(t, err)
		assert.False(t, n.Analyzer().Stem)
	})

	t.Run("Digest mismatch", func(t *testing.T) {
		other, err := search.NewStopwordSet([]string{"salt"})
		require.NoError(t, err)
		space := &search.FeatureSpace{Analyzer: search.Analyzer{StopwordsDigest: other.Digest()}}
		_, err = search.NewNormalizerFor(space, stop)
		assert.ErrorIs(t, err, search.ErrAnalyzerMismatch)
	})
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"butter", "chicken"}, search.Tokenize(" butter  chicken "))
	assert.Empty(t, search.Tokenize(""))
}

func TestStopwords(t *testing.T) {
	stop, err := search.DefaultStopwords()
	require.NoError(t, err)

	assert.Equal(t, 179, stop.Len())
	assert.True(t, stop.Contains("the"))
	assert.True(t, stop.Contains("ourselves"))
	assert.False(t, stop.Contains("cups"))
	assert.False(t, stop.Contains("chicken"))

	again, err := search.ReadStopwords(strings.NewReader("# comment\n\nTHE\nand\n"))
	require.NoError(t, err)
	reordered, err := search.NewStopwordSet([]string{"and", "the"})
	require.NoError(t, err)
	assert.Equal(t, reordered.Digest(), again.Digest())
	assert.NotEqual(t, stop.Digest(), again.Digest())
}

func TestStopwordsEmpty(t *testing.T) {
	_, err := search.ReadStopwords(strings.NewReader("# nothing here\n\n"))
	assert.ErrorIs(t, err, search.ErrEmptyStopwords)

	_, err = search.ReadStopwordsFile("/nonexistent/stopwords.txt")
	assert.Error(t, err)
}
