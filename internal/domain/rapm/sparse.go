package rapm

import (
	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix. It implements mat.Matrix so small
// instances can be inspected with gonum, but the fit only walks its rows.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

var _ mat.Matrix = (*CSR)(nil)

// NewCSR creates an empty matrix with cols columns.
func NewCSR(cols int) *CSR {
	return &CSR{cols: cols, indptr: []int{0}}
}

// AppendRow adds a row with values vals at columns idx.
func (m *CSR) AppendRow(idx []int, vals []float64) {
	if len(idx) != len(vals) {
		panic("rapm: row index and value lengths differ")
	}
	for _, j := range idx {
		if j < 0 || j >= m.cols {
			panic(mat.ErrColAccess)
		}
	}
	m.indices = append(m.indices, idx...)
	m.data = append(m.data, vals...)
	m.indptr = append(m.indptr, len(m.indices))
	m.rows++
}

// Row returns the stored columns and values of row i. The slices alias the matrix.
func (m *CSR) Row(i int) ([]int, []float64) {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return m.indices[lo:hi], m.data[lo:hi]
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// Dims implements mat.Matrix.
func (m *CSR) Dims() (int, int) { return m.rows, m.cols }

// At implements mat.Matrix.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
	idx, vals := m.Row(i)
	v := 0.0
	for k, c := range idx {
		if c == j {
			v += vals[k]
		}
	}
	return v
}

// T implements mat.Matrix.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// RowDot returns row i times beta.
func (m *CSR) RowDot(i int, beta []float64) float64 {
	idx, vals := m.Row(i)
	s := 0.0
	for k, c := range idx {
		s += vals[k] * beta[c]
	}
	return s
}
