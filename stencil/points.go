// Package stencil builds operators that apply a fixed point set and
// coefficient set to a source field and write a destination field.
package stencil

import (
	"fmt"

	"github.com/notargets/FVGrid/structured"
)

// Stencil2Points returns the low and high source offsets feeding a
// destination point for a pair staggered apart on a single axis.
func Stencil2Points(src, dest structured.Location) (pts []structured.IntVec, err error) {
	rec, ok := structured.LookupPair(src, dest)
	if !ok {
		return nil, fmt.Errorf("%s -> %s: %w", src, dest, structured.ErrUnsupportedPair)
	}
	if len(rec.StencilAxes) != 1 {
		return nil, fmt.Errorf("%s -> %s spans %d axes: %w", src, dest, len(rec.StencilAxes), ErrPointCount)
	}
	return cornerPoints(src, dest, rec.StencilAxes), nil
}

// Stencil4Points returns the four source offsets for a pair staggered apart
// on two axes, ordered lo-lo, hi-lo, lo-hi, hi-hi.
func Stencil4Points(src, dest structured.Location) (pts []structured.IntVec, err error) {
	rec, ok := structured.LookupPair(src, dest)
	if !ok {
		return nil, fmt.Errorf("%s -> %s: %w", src, dest, structured.ErrUnsupportedPair)
	}
	if len(rec.StencilAxes) != 2 {
		return nil, fmt.Errorf("%s -> %s spans %d axes: %w", src, dest, len(rec.StencilAxes), ErrPointCount)
	}
	return cornerPoints(src, dest, rec.StencilAxes), nil
}

// cornerPoints enumerates the 2^n corners in the same order the assembler
// lists columns.
func cornerPoints(src, dest structured.Location, axes []structured.Axis) (pts []structured.IntVec) {
	var low structured.IntVec
	so, do := src.Offset(), dest.Offset()
	for _, a := range axes {
		if so[a] > do[a] {
			low[a] = -1
		}
	}
	for m := 0; m < 1<<len(axes); m++ {
		p := low
		for b, a := range axes {
			if m&(1<<b) != 0 {
				p[a]++
			}
		}
		pts = append(pts, p)
	}
	return
}

// FDPoints is the two point centred difference along dir.
func FDPoints(dir structured.Axis) []structured.IntVec {
	u := structured.Unit(dir)
	return []structured.IntVec{u.Neg(), u}
}

// FD2Points is the three point centred stencil along dir.
func FD2Points(dir structured.Axis) []structured.IntVec {
	u := structured.Unit(dir)
	return []structured.IntVec{u.Neg(), {}, u}
}

// NullPoints reads the matching source point only.
func NullPoints() []structured.IntVec { return []structured.IntVec{{}} }

func boxPoints(axes ...structured.Axis) (pts []structured.IntVec) {
	var span [3]int
	for _, a := range axes {
		span[a] = 1
	}
	for k := -span[2]; k <= span[2]; k++ {
		for j := -span[1]; j <= span[1]; j++ {
			for i := -span[0]; i <= span[0]; i++ {
				pts = append(pts, structured.IntVec{i, j, k})
			}
		}
	}
	return
}

func BoxFilter3DPoints() []structured.IntVec {
	return boxPoints(structured.XAxis, structured.YAxis, structured.ZAxis)
}
func BoxFilter2DXYPoints() []structured.IntVec { return boxPoints(structured.XAxis, structured.YAxis) }
func BoxFilter2DXZPoints() []structured.IntVec { return boxPoints(structured.XAxis, structured.ZAxis) }
func BoxFilter2DYZPoints() []structured.IntVec { return boxPoints(structured.YAxis, structured.ZAxis) }
func BoxFilter1DXPoints() []structured.IntVec  { return boxPoints(structured.XAxis) }
func BoxFilter1DYPoints() []structured.IntVec  { return boxPoints(structured.YAxis) }
func BoxFilter1DZPoints() []structured.IntVec  { return boxPoints(structured.ZAxis) }
