package stencil

import (
	"errors"
	"fmt"

	"github.com/notargets/FVGrid/assembler"
	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/nebo"
	"github.com/notargets/FVGrid/structured"
)

var (
	ErrPointCount        = nebo.ErrPointCount
	ErrOperatorNotFound  = errors.New("operator not registered")
	ErrDuplicateOperator = errors.New("operator already registered")
	ErrNotAssemblable    = errors.New("operator has no sparse row form")
	ErrBadAxis           = errors.New("derivative axis must be X, Y or Z")
	ErrBadSpacing        = errors.New("grid spacing must be positive")
)

type Kind string

const (
	Interpolant      Kind = "Interpolant"
	Gradient         Kind = "Gradient"
	Divergence       Kind = "Divergence"
	FiniteDifference Kind = "FiniteDifference"
	SecondDerivative Kind = "SecondDerivative"
	Sum              Kind = "Sum"
	Average          Kind = "Average"
	BoxFilter        Kind = "BoxFilter"
	Null             Kind = "Null"
)

// Operator binds a point set and matching coefficients to a source and
// destination location.
type Operator struct {
	Kind      Kind
	Src, Dest structured.Location
	Points    []structured.IntVec
	Coefs     []float64
}

func newOperator(kind Kind, src, dest structured.Location, pts []structured.IntVec, coefs []float64) (*Operator, error) {
	if len(pts) != len(coefs) || len(pts) == 0 {
		return nil, fmt.Errorf("%s %s -> %s: %d points, %d coefficients: %w",
			kind, src, dest, len(pts), len(coefs), ErrPointCount)
	}
	return &Operator{
		Kind:   kind,
		Src:    src,
		Dest:   dest,
		Points: append([]structured.IntVec(nil), pts...),
		Coefs:  append([]float64(nil), coefs...),
	}, nil
}

// Of wraps e in this operator's stencil node.
func (op *Operator) Of(e nebo.Expr) nebo.Expr {
	return nebo.Stencil(op.Points, op.Coefs, op.Src, op.Dest, e)
}

// Apply writes op(src) over dest's full window. Points whose stencil would
// read outside src keep their values. src and dest must not alias.
func (op *Operator) Apply(src, dest *field.Field) error {
	return nebo.Assign(dest, op.Of(nebo.F(src)))
}

// ApplyInterior writes op(src) over dest's interior window.
func (op *Operator) ApplyInterior(src, dest *field.Field) error {
	return nebo.InteriorAssign(dest, op.Of(nebo.F(src)))
}

// Assembler returns the sparse row form of a pair operator built from
// Stencil2Points, Stencil4Points or NullPoints.
func (op *Operator) Assembler(dim structured.IntVec, plusFaces [3]bool) (*assembler.Stencil, error) {
	rec, ok := structured.LookupPair(op.Src, op.Dest)
	if !ok {
		return nil, fmt.Errorf("%s %s -> %s: %w", op.Kind, op.Src, op.Dest, ErrNotAssemblable)
	}
	want := cornerPoints(op.Src, op.Dest, rec.StencilAxes)
	if len(want) != len(op.Points) {
		return nil, fmt.Errorf("%s %s -> %s: %w", op.Kind, op.Src, op.Dest, ErrNotAssemblable)
	}
	for i := range want {
		if want[i] != op.Points[i] {
			return nil, fmt.Errorf("%s %s -> %s: %w", op.Kind, op.Src, op.Dest, ErrNotAssemblable)
		}
	}
	return assembler.NewStencil(op.Src, op.Dest, dim, plusFaces, op.Coefs)
}

func (op *Operator) String() string {
	return fmt.Sprintf("%s<%s,%s>", op.Kind, op.Src, op.Dest)
}

// NewStencil2 is a two point operator across the single staggering axis of
// the pair, lo applied to the low neighbour.
func NewStencil2(kind Kind, src, dest structured.Location, lo, hi float64) (*Operator, error) {
	pts, err := Stencil2Points(src, dest)
	if err != nil {
		return nil, err
	}
	return newOperator(kind, src, dest, pts, []float64{lo, hi})
}

// NewStencil4 is a four point operator for pairs staggered on two axes.
func NewStencil4(kind Kind, src, dest structured.Location, coefs []float64) (*Operator, error) {
	pts, err := Stencil4Points(src, dest)
	if err != nil {
		return nil, err
	}
	return newOperator(kind, src, dest, pts, coefs)
}

// NewNullStencil copies, scaled by coef, between two locations that sit on
// the same points.
func NewNullStencil(kind Kind, src, dest structured.Location, coef float64) (*Operator, error) {
	rec, ok := structured.LookupPair(src, dest)
	if !ok {
		return nil, fmt.Errorf("%s -> %s: %w", src, dest, structured.ErrUnsupportedPair)
	}
	if len(rec.StencilAxes) != 0 {
		return nil, fmt.Errorf("%s -> %s are staggered apart: %w", src, dest, ErrPointCount)
	}
	return newOperator(kind, src, dest, NullPoints(), []float64{coef})
}

// NewFDStencil is the centred first derivative along dir with spacing h.
func NewFDStencil(loc structured.Location, dir structured.Axis, h float64) (*Operator, error) {
	if err := checkDerivative(FiniteDifference, dir, h); err != nil {
		return nil, err
	}
	return newOperator(FiniteDifference, loc, loc, FDPoints(dir), []float64{-0.5 / h, 0.5 / h})
}

// NewFD2Stencil is the three point second derivative along dir.
func NewFD2Stencil(loc structured.Location, dir structured.Axis, h float64) (*Operator, error) {
	if err := checkDerivative(SecondDerivative, dir, h); err != nil {
		return nil, err
	}
	c := 1 / (h * h)
	return newOperator(SecondDerivative, loc, loc, FD2Points(dir), []float64{c, -2 * c, c})
}

func checkDerivative(kind Kind, dir structured.Axis, h float64) error {
	if !dir.Valid() {
		return fmt.Errorf("%s along %s: %w", kind, dir, ErrBadAxis)
	}
	if !(h > 0) {
		return fmt.Errorf("%s spacing %g: %w", kind, h, ErrBadSpacing)
	}
	return nil
}

// NewSumStencil adds the source over pts.
func NewSumStencil(src, dest structured.Location, pts []structured.IntVec) (*Operator, error) {
	coefs := make([]float64, len(pts))
	for i := range coefs {
		coefs[i] = 1
	}
	return newOperator(Sum, src, dest, pts, coefs)
}

// NewAverageStencil averages the source over pts.
func NewAverageStencil(src, dest structured.Location, pts []structured.IntVec) (*Operator, error) {
	coefs := make([]float64, len(pts))
	for i := range coefs {
		coefs[i] = 1 / float64(len(pts))
	}
	return newOperator(Average, src, dest, pts, coefs)
}

// NewBoxFilter averages a field at loc over one of the box point sets.
func NewBoxFilter(loc structured.Location, pts []structured.IntVec) (*Operator, error) {
	op, err := NewAverageStencil(loc, loc, pts)
	if err != nil {
		return nil, err
	}
	op.Kind = BoxFilter
	return op, nil
}
