// Package linsys collects assembler rows into a ghost-free sparse system.
// It stops at the matrix and vector; solving is left to the caller.
package linsys

import (
	"errors"
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/FVGrid/assembler"
	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrIncompatible = errors.New("contribution does not match the system layout")
	ErrGhostRow     = errors.New("row is a ghost point")
)

// Layout numbers the non-ghost points of one location contiguously.
type Layout struct {
	Loc       structured.Location
	Dim       structured.IntVec
	PlusFaces [3]bool
	compact   []int
	flat      []int
}

func NewLayout(loc structured.Location, dim structured.IntVec, plusFaces [3]bool) *Layout {
	l := &Layout{Loc: loc, Dim: dim, PlusFaces: plusFaces}
	ghosts := structured.GhostSet(loc, dim, plusFaces)
	ntot := structured.NTot(loc, dim, plusFaces)
	l.compact = make([]int, ntot)
	for i := 0; i < ntot; i++ {
		if ghosts.Contains(i) {
			l.compact[i] = -1
			continue
		}
		l.compact[i] = len(l.flat)
		l.flat = append(l.flat, i)
	}
	return l
}

// N is the number of unknowns.
func (l *Layout) N() int { return len(l.flat) }

// NTot is the size of the ghosted index space.
func (l *Layout) NTot() int { return len(l.compact) }

// Compact maps a ghosted flat index to its unknown, ok is false for ghosts.
func (l *Layout) Compact(flat int) (int, bool) {
	if flat < 0 || flat >= len(l.compact) || l.compact[flat] < 0 {
		return -1, false
	}
	return l.compact[flat], true
}

// Flat maps an unknown back to its ghosted flat index.
func (l *Layout) Flat(i int) int { return l.flat[i] }

// LHS is the system matrix over a Layout.
type LHS struct {
	layout *Layout
	dok    *sparse.DOK
}

func NewLHS(l *Layout) *LHS {
	return &LHS{layout: l, dok: sparse.NewDOK(l.N(), l.N())}
}

func (m *LHS) Layout() *Layout { return m.layout }

// AddContribution adds scale*a, dropping ghost rows and ghost columns.
func (m *LHS) AddContribution(a assembler.Assembler, scale float64) error {
	n := m.layout.NTot()
	if a.NumRows() != n || a.NumCols() != n {
		return fmt.Errorf("assembler %dx%d into %s system of %d: %w",
			a.NumRows(), a.NumCols(), m.layout.Loc, n, ErrIncompatible)
	}
	ghostRows, ghostCols := a.GhostRows(), a.GhostCols()
	nnz := 0
	for row := 0; row < n; row++ {
		if ghostRows.Contains(row) {
			continue
		}
		r, ok := m.layout.Compact(row)
		if !ok {
			continue
		}
		for _, e := range a.RowEntries(row) {
			if ghostCols.Contains(e.Col) {
				continue
			}
			c, ok := m.layout.Compact(e.Col)
			if !ok {
				continue
			}
			m.dok.Set(r, c, m.dok.At(r, c)+scale*e.Coef)
			nnz++
		}
	}
	utils.Logger().Debug("lhs contribution",
		zap.Stringer("location", m.layout.Loc), zap.Float64("scale", scale), zap.Int("entries", nnz))
	return nil
}

// AddDiagScalar adds s to every diagonal entry.
func (m *LHS) AddDiagScalar(s float64) {
	for i := 0; i < m.layout.N(); i++ {
		m.dok.Set(i, i, m.dok.At(i, i)+s)
	}
}

// AddDiagContribution adds scale times the interior values of f to the
// diagonal.
func (m *LHS) AddDiagContribution(f *field.Field, scale float64) error {
	return eachUnknown(m.layout, f, func(i int, v float64) {
		m.dok.Set(i, i, m.dok.At(i, i)+scale*v)
	})
}

// UnitDiagonalZeroElse turns the row for ghosted flat index flat into an
// identity row, as used for Dirichlet points.
func (m *LHS) UnitDiagonalZeroElse(flat int) error {
	r, ok := m.layout.Compact(flat)
	if !ok {
		return fmt.Errorf("flat index %d: %w", flat, ErrGhostRow)
	}
	for c := 0; c < m.layout.N(); c++ {
		if c != r && m.dok.At(r, c) != 0 {
			m.dok.Set(r, c, 0)
		}
	}
	m.dok.Set(r, r, 1)
	return nil
}

// Reset zeroes the matrix.
func (m *LHS) Reset() {
	m.dok = sparse.NewDOK(m.layout.N(), m.layout.N())
}

// Matrix compresses the assembled entries.
func (m *LHS) Matrix() *sparse.CSR {
	return m.dok.ToCSR()
}

// Dense expands the matrix, for inspection and tests.
func (m *LHS) Dense() *mat.Dense {
	return mat.DenseCopyOf(m.dok)
}

// Mul computes y = A x for x in the compact numbering.
func (m *LHS) Mul(x []float64) []float64 {
	var y mat.VecDense
	y.MulVec(m.Matrix(), mat.NewVecDense(len(x), x))
	return y.RawVector().Data
}

// RHS is the right hand side vector over a Layout.
type RHS struct {
	layout *Layout
	vals   []float64
}

func NewRHS(l *Layout) *RHS {
	return &RHS{layout: l, vals: make([]float64, l.N())}
}

// AddField adds scale times the interior values of f.
func (b *RHS) AddField(f *field.Field, scale float64) error {
	return eachUnknown(b.layout, f, func(i int, v float64) {
		b.vals[i] += scale * v
	})
}

// AddScalar adds s to every entry.
func (b *RHS) AddScalar(s float64) {
	for i := range b.vals {
		b.vals[i] += s
	}
}

// Set overwrites the entry of ghosted flat index flat.
func (b *RHS) Set(flat int, v float64) error {
	i, ok := b.layout.Compact(flat)
	if !ok {
		return fmt.Errorf("flat index %d: %w", flat, ErrGhostRow)
	}
	b.vals[i] = v
	return nil
}

func (b *RHS) Reset() {
	for i := range b.vals {
		b.vals[i] = 0
	}
}

func (b *RHS) Values() []float64 { return b.vals }

// Scatter writes a compact solution vector back into the interior of f.
func Scatter(l *Layout, x []float64, f *field.Field) error {
	if err := checkField(l, f); err != nil {
		return err
	}
	if len(x) != l.N() {
		return fmt.Errorf("vector of %d for %d unknowns: %w", len(x), l.N(), ErrIncompatible)
	}
	vals := f.Values()
	w := f.Window()
	for i, flat := range l.flat {
		vals[w.Flat(structured.FlatToIJK(l.Loc, l.Dim, flat, l.PlusFaces))] = x[i]
	}
	return nil
}

func checkField(l *Layout, f *field.Field) error {
	if f.Location() != l.Loc {
		return fmt.Errorf("%s field into %s system: %w", f.Location(), l.Loc, field.ErrLocationMismatch)
	}
	if f.Extent() != structured.Extent(l.Loc, l.Dim, l.PlusFaces) {
		return fmt.Errorf("extent %v: %w", f.Extent(), field.ErrShapeMismatch)
	}
	if f.Memory() != field.LocalRAM {
		return fmt.Errorf("%s field: %w", f.Location(), field.ErrUnsupportedMemory)
	}
	return nil
}

func eachUnknown(l *Layout, f *field.Field, fn func(i int, v float64)) error {
	if err := checkField(l, f); err != nil {
		return err
	}
	for i, flat := range l.flat {
		fn(i, f.At(structured.FlatToIJK(l.Loc, l.Dim, flat, l.PlusFaces)))
	}
	return nil
}
