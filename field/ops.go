package field

import (
	"fmt"
	"math"

	"github.com/notargets/FVGrid/structured"
	"gonum.org/v1/gonum/floats"
)

// Compound operations act on the full window, ghosts included, since ghost
// values feed later stencil reads.

func (f *Field) apply(fn func(v float64) float64) error {
	if err := f.checkLocal(); err != nil {
		return err
	}
	eachIn(f.window.Extent, structured.IntVec{}, func(ijk structured.IntVec) {
		n := f.window.Flat(ijk)
		f.values[n] = fn(f.values[n])
	})
	return nil
}

func (f *Field) combine(o *Field, fn func(a, b float64) float64) error {
	if err := f.Compatible(o); err != nil {
		return err
	}
	if err := f.checkLocal(); err != nil {
		return err
	}
	if err := o.checkLocal(); err != nil {
		return err
	}
	eachIn(f.window.Extent, structured.IntVec{}, func(ijk structured.IntVec) {
		n := f.window.Flat(ijk)
		f.values[n] = fn(f.values[n], o.values[o.window.Flat(ijk)])
	})
	return nil
}

func (f *Field) Fill(v float64) error {
	return f.apply(func(float64) float64 { return v })
}

func (f *Field) CopyFrom(o *Field) error {
	return f.combine(o, func(_, b float64) float64 { return b })
}

func (f *Field) AddField(o *Field) error {
	return f.combine(o, func(a, b float64) float64 { return a + b })
}

func (f *Field) SubField(o *Field) error {
	return f.combine(o, func(a, b float64) float64 { return a - b })
}

func (f *Field) MulField(o *Field) error {
	return f.combine(o, func(a, b float64) float64 { return a * b })
}

func (f *Field) DivField(o *Field) error {
	return f.combine(o, func(a, b float64) float64 { return a / b })
}

func (f *Field) AddScalar(s float64) error {
	return f.apply(func(v float64) float64 { return v + s })
}

func (f *Field) SubScalar(s float64) error {
	return f.apply(func(v float64) float64 { return v - s })
}

func (f *Field) MulScalar(s float64) error {
	return f.apply(func(v float64) float64 { return v * s })
}

func (f *Field) DivScalar(s float64) error {
	return f.apply(func(v float64) float64 { return v / s })
}

// SetCoord fills f with the physical coordinate of each point along a.
func (f *Field) SetCoord(g structured.Grid, a structured.Axis) error {
	if err := f.checkLocal(); err != nil {
		return err
	}
	eachIn(f.window.Extent, structured.IntVec{}, func(ijk structured.IntVec) {
		f.values[f.window.Flat(ijk)] = g.Coord(f.loc, ijk.Add(f.window.Offset), a)
	})
	return nil
}

// Gather copies the values of the full window into a contiguous slice.
func (f *Field) Gather() (out []float64, err error) {
	return f.gather(f.window.Extent, structured.IntVec{})
}

// GatherInterior copies the interior values into a contiguous slice.
func (f *Field) GatherInterior() (out []float64, err error) {
	return f.gather(f.interior.Extent, f.InteriorOffset())
}

func (f *Field) gather(ext, off structured.IntVec) (out []float64, err error) {
	if err = f.checkLocal(); err != nil {
		return
	}
	out = make([]float64, 0, ext.Prod())
	eachIn(ext, off, func(ijk structured.IntVec) {
		out = append(out, f.values[f.window.Flat(ijk)])
	})
	return
}

// Sum over the full window.
func (f *Field) Sum() (float64, error) {
	v, err := f.Gather()
	if err != nil {
		return 0, err
	}
	return floats.Sum(v), nil
}

// Max over the full window.
func (f *Field) Max() (float64, error) {
	v, err := f.Gather()
	if err != nil || len(v) == 0 {
		return math.Inf(-1), err
	}
	return floats.Max(v), nil
}

// Min over the full window.
func (f *Field) Min() (float64, error) {
	v, err := f.Gather()
	if err != nil || len(v) == 0 {
		return math.Inf(1), err
	}
	return floats.Min(v), nil
}

// Norm is the L2 norm of the interior values.
func (f *Field) Norm() (float64, error) {
	v, err := f.GatherInterior()
	if err != nil {
		return 0, err
	}
	return floats.Norm(v, 2), nil
}

// InteriorNorm is the relative L2 error of f against exact over the
// interior. When exact vanishes the absolute error is returned.
func InteriorNorm(f, exact *Field) (float64, error) {
	if err := f.Compatible(exact); err != nil {
		return 0, err
	}
	a, err := f.GatherInterior()
	if err != nil {
		return 0, err
	}
	b, err := exact.GatherInterior()
	if err != nil {
		return 0, err
	}
	d := floats.Distance(a, b, 2)
	if n := floats.Norm(b, 2); n > 0 {
		return d / n, nil
	}
	return d, nil
}

// Equal reports whether a and b hold the same values over their full
// windows. Fields of different location or extent are never equal.
func Equal(a, b *Field) (bool, error) {
	if a.Compatible(b) != nil {
		return false, nil
	}
	av, err := a.Gather()
	if err != nil {
		return false, err
	}
	bv, err := b.Gather()
	if err != nil {
		return false, err
	}
	return floats.Equal(av, bv), nil
}

// PointBC pins a single window-local point to a value.
type PointBC struct {
	Point structured.IntVec
	Value float64
}

// ApplyBC writes each boundary value into f. Nothing is written unless
// every point lies inside the window.
func (f *Field) ApplyBC(bcs ...PointBC) error {
	if err := f.checkLocal(); err != nil {
		return err
	}
	for i, bc := range bcs {
		if !f.window.Contains(bc.Point) {
			return fmt.Errorf("boundary point %d at %v: %w", i, bc.Point, ErrOutOfBounds)
		}
	}
	for _, bc := range bcs {
		f.values[f.window.Flat(bc.Point)] = bc.Value
	}
	return nil
}
