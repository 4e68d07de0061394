package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

// ArtifactVersion is the on-disk format version of both artifacts.
const ArtifactVersion = 1

// ErrCorruptArtifact is returned when a persisted artifact fails validation.
var ErrCorruptArtifact = errors.New("corrupt artifact")

type featureSpaceFile struct {
	Version    int            `json:"version"`
	Analyzer   Analyzer       `json:"analyzer"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// WriteFeatureSpace encodes a feature space as JSON.
func WriteFeatureSpace(w io.Writer, fs *FeatureSpace) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(featureSpaceFile{
		Version:    ArtifactVersion,
		Analyzer:   fs.Analyzer,
		Vocabulary: fs.Vocabulary,
		IDF:        fs.IDF,
	}); err != nil {
		return fmt.Errorf("failed to encode feature space: %w", err)
	}
	return nil
}

// ReadFeatureSpace decodes and validates a feature space artifact.
func ReadFeatureSpace(r io.Reader) (*FeatureSpace, error) {
	var file featureSpaceFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: feature space: %v", ErrCorruptArtifact, err)
	}
	if file.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: feature space version %d, want %d", ErrCorruptArtifact, file.Version, ArtifactVersion)
	}
	if file.Vocabulary == nil {
		file.Vocabulary = map[string]int{}
	}

	fs := &FeatureSpace{
		Vocabulary: file.Vocabulary,
		IDF:        file.IDF,
		Analyzer:   file.Analyzer,
	}
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Matrix is a compressed sparse row matrix of catalog vectors. Row i holds
// Indices[Indptr[i]:Indptr[i+1]] and the matching Data.
type Matrix struct {
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Indptr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

type matrixFile struct {
	Version int `json:"version"`
	Matrix
}

// NewMatrix packs rows into CSR form.
func NewMatrix(rows []SparseVector, cols int) *Matrix {
	m := &Matrix{
		Rows:   len(rows),
		Cols:   cols,
		Indptr: make([]int, 1, len(rows)+1),
	}
	for _, row := range rows {
		m.Indices = append(m.Indices, row.Indices...)
		m.Data = append(m.Data, row.Values...)
		m.Indptr = append(m.Indptr, len(m.Indices))
	}
	return m
}

// Row returns a read-only view of row i.
func (m *Matrix) Row(i int) SparseVector {
	start, end := m.Indptr[i], m.Indptr[i+1]
	return SparseVector{Indices: m.Indices[start:end], Values: m.Data[start:end]}
}

// Validate checks CSR structure. Rows with unsorted column indices are
// sorted in place; duplicate columns within a row are rejected.
func (m *Matrix) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: negative matrix shape %dx%d", ErrCorruptArtifact, m.Rows, m.Cols)
	}
	if len(m.Indptr) != m.Rows+1 {
		return fmt.Errorf("%w: indptr has %d entries, want %d", ErrCorruptArtifact, len(m.Indptr), m.Rows+1)
	}
	if m.Indptr[0] != 0 || m.Indptr[m.Rows] != len(m.Indices) || len(m.Indices) != len(m.Data) {
		return fmt.Errorf("%w: indptr does not span %d stored values", ErrCorruptArtifact, len(m.Data))
	}
	for i := 0; i < m.Rows; i++ {
		if m.Indptr[i] > m.Indptr[i+1] {
			return fmt.Errorf("%w: indptr decreases at row %d", ErrCorruptArtifact, i)
		}
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		if !sort.IntsAreSorted(row.Indices) {
			sort.Sort(rowSorter(row))
		}
		for k, col := range row.Indices {
			if col < 0 || col >= m.Cols {
				return fmt.Errorf("%w: row %d has column %d outside [0,%d)", ErrCorruptArtifact, i, col, m.Cols)
			}
			if k > 0 && row.Indices[k-1] == col {
				return fmt.Errorf("%w: row %d repeats column %d", ErrCorruptArtifact, i, col)
			}
			if v := row.Values[k]; math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d has non-finite weight", ErrCorruptArtifact, i)
			}
		}
	}
	return nil
}

// WriteMatrix encodes m as JSON.
func WriteMatrix(w io.Writer, m *Matrix) error {
	if err := json.NewEncoder(w).Encode(matrixFile{Version: ArtifactVersion, Matrix: *m}); err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}
	return nil
}

// ReadMatrix decodes and validates a matrix artifact.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	var file matrixFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: matrix: %v", ErrCorruptArtifact, err)
	}
	if file.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: matrix version %d, want %d", ErrCorruptArtifact, file.Version, ArtifactVersion)
	}
	m := file.Matrix
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

type rowSorter SparseVector

func (r rowSorter) Len() int           { return len(r.Indices) }
func (r rowSorter) Less(i, j int) bool { return r.Indices[i] < r.Indices[j] }
func (r rowSorter) Swap(i, j int) {
	r.Indices[i], r.Indices[j] = r.Indices[j], r.Indices[i]
	r.Values[i], r.Values[j] = r.Values[j], r.Values[i]
}
