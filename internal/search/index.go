package search

import (
	"math"
)

type posting struct {
	row    int
	weight float64
}

// Index holds the catalog vectors with their magnitudes and an inverted
// term -> rows mapping. It is read-only after NewIndex and safe for
// concurrent use.
type Index struct {
	matrix   *Matrix
	norms    []float64
	postings [][]posting
}

// NewIndex builds the inverted index over a validated matrix.
func NewIndex(m *Matrix) *Index {
	ix := &Index{
		matrix:   m,
		norms:    make([]float64, m.Rows),
		postings: make([][]posting, m.Cols),
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		ix.norms[i] = row.Norm()
		for k, col := range row.Indices {
			if row.Values[k] == 0 {
				continue
			}
			ix.postings[col] = append(ix.postings[col], posting{row: i, weight: row.Values[k]})
		}
	}
	return ix
}

// Len returns the number of catalog rows.
func (ix *Index) Len() int {
	return ix.matrix.Rows
}

// Dim returns the vector dimensionality.
func (ix *Index) Dim() int {
	return ix.matrix.Cols
}

// Row returns the stored vector for catalog row i.
func (ix *Index) Row(i int) SparseVector {
	return ix.matrix.Row(i)
}

// ScoreAll returns the cosine similarity between q and every row, aligned
// by row index. Only rows sharing a term with q are visited; all others
// score 0. A zero query scores 0 everywhere.
func (ix *Index) ScoreAll(q SparseVector) []float64 {
	scores := make([]float64, ix.matrix.Rows)
	qNorm := q.Norm()
	if qNorm == 0 {
		return scores
	}

	for k, col := range q.Indices {
		if col < 0 || col >= len(ix.postings) {
			continue
		}
		qv := q.Values[k]
		for _, p := range ix.postings[col] {
			scores[p.row] += qv * p.weight
		}
	}

	for i, dot := range scores {
		if dot == 0 || ix.norms[i] == 0 {
			scores[i] = 0
			continue
		}
		scores[i] = clampUnit(dot / (qNorm * ix.norms[i]))
	}
	return scores
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Either vector having zero magnitude yields 0.
func CosineSimilarity(a, b SparseVector) float64 {
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return a.Dot(b) / (normA * normB)
}

func clampUnit(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
