package assembler

import (
	"fmt"

	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
)

// Stencil assembles an operator between two locations of a tabulated pair.
// A destination point draws on 1, 2 or 4 source points depending on how
// many axes the pair is staggered apart on. The source points are ordered
// low first, the first stencil axis varying fastest.
type Stencil struct {
	rec       structured.PairRecord
	dim       structured.IntVec
	plusFaces [3]bool
	coefs     []float64
	corners   []structured.IntVec
	srcExt    structured.IntVec
}

// NewStencil builds the assembler for src -> dest with one coefficient per
// source point.
func NewStencil(src, dest structured.Location, dim structured.IntVec, plusFaces [3]bool, coefs []float64) (s *Stencil, err error) {
	rec, ok := structured.LookupPair(src, dest)
	if !ok {
		err = fmt.Errorf("stencil %s -> %s: %w", src, dest, structured.ErrUnsupportedPair)
		return
	}
	if len(coefs) != rec.NumPoints() {
		err = fmt.Errorf("stencil %s -> %s needs %d coefficients, got %d: %w",
			src, dest, rec.NumPoints(), len(coefs), ErrCoefCount)
		return
	}
	s = &Stencil{
		rec:       rec,
		dim:       dim,
		plusFaces: plusFaces,
		coefs:     append([]float64(nil), coefs...),
		srcExt:    structured.Extent(src, dim, plusFaces),
	}
	for m := 0; m < rec.NumPoints(); m++ {
		var off structured.IntVec
		for b, a := range rec.StencilAxes {
			if m&(1<<b) != 0 {
				off[a] = 1
			}
		}
		s.corners = append(s.corners, off)
	}
	utils.Logger().Debug("stencil assembler",
		zap.Stringer("src", src), zap.Stringer("dest", dest),
		zap.Int("points", rec.NumPoints()), zap.Stringer("dim", dim))
	return
}

func newTwoPoint(name string, src, dest structured.Location, dim structured.IntVec, plusFaces [3]bool, coefs []float64) (*Stencil, error) {
	rec, ok := structured.LookupPair(src, dest)
	if ok && len(rec.StencilAxes) != 1 {
		return nil, fmt.Errorf("%s %s -> %s spans %d axes: %w", name, src, dest, len(rec.StencilAxes), ErrStencilShape)
	}
	return NewStencil(src, dest, dim, plusFaces, coefs)
}

// NewGradient is a two point stencil along the pair's staggering axis,
// typically with GradientCoefs.
func NewGradient(src, dest structured.Location, dim structured.IntVec, plusFaces [3]bool, coefs []float64) (*Stencil, error) {
	return newTwoPoint("gradient", src, dest, dim, plusFaces, coefs)
}

// NewInterpolant is a two point stencil, typically with InterpolantCoefs.
func NewInterpolant(src, dest structured.Location, dim structured.IntVec, plusFaces [3]bool, coefs []float64) (*Stencil, error) {
	return newTwoPoint("interpolant", src, dest, dim, plusFaces, coefs)
}

// NewDivergence is a two point stencil from faces to volumes, typically
// with DivergenceCoefs.
func NewDivergence(src, dest structured.Location, dim structured.IntVec, plusFaces [3]bool, coefs []float64) (*Stencil, error) {
	if !src.IsSurface() {
		return nil, fmt.Errorf("divergence from %s: %w", src, ErrStencilShape)
	}
	return newTwoPoint("divergence", src, dest, dim, plusFaces, coefs)
}

func (s *Stencil) Pair() structured.PairRecord { return s.rec }

func (s *Stencil) NumRows() int { return structured.NTot(s.rec.Dest, s.dim, s.plusFaces) }

func (s *Stencil) NumCols() int { return s.srcExt.Prod() }

// Cols lists the source columns feeding row, or nil when any of them is
// missing.
func (s *Stencil) Cols(row int) (cols []int) {
	ijk := structured.FlatToIJK(s.rec.Dest, s.dim, row, s.plusFaces)
	ijk = s.rec.Shift(s.dim, ijk)
	if ijk.AnyNegative() || !ijk.Less(s.srcExt) {
		return nil
	}
	src := s.rec.Src
	cols = make([]int, 0, len(s.corners))
	for _, off := range s.corners {
		p := ijk.Add(off)
		if !structured.IJKInBounds(src, s.dim, p, s.plusFaces) || !structured.IsConnected(ijk, p) {
			return nil
		}
		cols = append(cols, structured.IJKToFlat(src, s.dim, p, s.plusFaces))
	}
	return
}

func (s *Stencil) RowEntries(row int) []Entry {
	if row < 0 || row >= s.NumRows() {
		return nil
	}
	cols := s.Cols(row)
	if cols == nil {
		return nil
	}
	entries := make([]Entry, len(cols))
	for i, c := range cols {
		entries[i] = Entry{Col: c, Coef: s.coefs[i]}
	}
	return entries
}

func (s *Stencil) GhostRows() structured.IndexSet {
	return structured.GhostSet(s.rec.Dest, s.dim, s.plusFaces)
}

func (s *Stencil) GhostCols() structured.IndexSet {
	return structured.GhostSet(s.rec.Src, s.dim, s.plusFaces)
}
