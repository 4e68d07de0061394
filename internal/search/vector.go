package search

import (
	"math"
	"sort"
)

// SparseVector stores the non-zero coordinates of a vector. Indices are
// strictly increasing and aligned with Values.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// NewSparseVector builds a vector from index -> weight pairs, dropping zeros.
func NewSparseVector(weights map[int]float64) SparseVector {
	indices := make([]int, 0, len(weights))
	for idx, w := range weights {
		if w != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx]
	}
	return SparseVector{Indices: indices, Values: values}
}

// Len returns the number of stored coordinates.
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// Norm returns the Euclidean magnitude.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			dot += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Normalized returns v scaled to unit length, or v itself when it is zero.
func (v SparseVector) Normalized() SparseVector {
	norm := v.Norm()
	if norm == 0 {
		return v
	}
	values := make([]float64, len(v.Values))
	for i, x := range v.Values {
		values[i] = x / norm
	}
	return SparseVector{Indices: v.Indices, Values: values}
}

// Dense expands v into a slice of length dim. Coordinates at or beyond dim
// are dropped.
func (v SparseVector) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for i, idx := range v.Indices {
		if idx >= 0 && idx < dim {
			out[idx] = v.Values[i]
		}
	}
	return out
}
