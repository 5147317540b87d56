// Package assembler turns operators on staggered fields into sparse rows of
// (column, coefficient) entries. Assemblers carry topology only; metric
// coefficients come from the caller.
package assembler

import (
	"errors"

	"github.com/james-bowman/sparse"
	"github.com/notargets/FVGrid/structured"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrInvalidRestriction = errors.New("restriction must shrink exactly one axis")
	ErrStencilShape       = errors.New("location pair does not fit the stencil shape")
	ErrCoefCount          = errors.New("wrong number of coefficients for stencil")
	ErrRowRange           = errors.New("row out of range")
)

// Entry is one non-zero of a sparse row.
type Entry struct {
	Col  int
	Coef float64
}

// Assembler exposes an operator as a sparse matrix without depending on
// any solver types. Row and column spaces are the ghosted flat index
// spaces of the destination and source locations.
type Assembler interface {
	NumRows() int
	NumCols() int
	// RowEntries lists the non-zeros of row in a stable order. Rows with no
	// valid source points return nil.
	RowEntries(row int) []Entry
	GhostRows() structured.IndexSet
	GhostCols() structured.IndexSet
}

// ToDense expands a into a dense matrix, for inspection and tests.
func ToDense(a Assembler) *mat.Dense {
	return mat.DenseCopyOf(ToCSR(a))
}

// ToCSR compresses the rows of a. Entries that share a column are summed.
func ToCSR(a Assembler) *sparse.CSR {
	nr, nc := a.NumRows(), a.NumCols()
	indptr := make([]int, 1, nr+1)
	var ind []int
	var data []float64
	for row := 0; row < nr; row++ {
		start := len(ind)
		for _, e := range a.RowEntries(row) {
			dup := false
			for k := start; k < len(ind); k++ {
				if ind[k] == e.Col {
					data[k] += e.Coef
					dup = true
					break
				}
			}
			if !dup {
				ind = append(ind, e.Col)
				data = append(data, e.Coef)
			}
		}
		indptr = append(indptr, len(ind))
	}
	return sparse.NewCSR(nr, nc, indptr, ind, data)
}

// Apply computes y = A x over the full row space.
func Apply(a Assembler, x []float64) (y []float64) {
	y = make([]float64, a.NumRows())
	for row := range y {
		for _, e := range a.RowEntries(row) {
			y[row] += e.Coef * x[e.Col]
		}
	}
	return
}
