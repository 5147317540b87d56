package structured

import "fmt"

// Axis names one of the three logical grid directions.
type Axis int

const (
	XAxis Axis = iota
	YAxis
	ZAxis
	NoAxis Axis = -1
)

// Valid reports whether a is one of X, Y or Z.
func (a Axis) Valid() bool { return a >= XAxis && a <= ZAxis }

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "X"
	case YAxis:
		return "Y"
	case ZAxis:
		return "Z"
	}
	return "None"
}

// Axes is the canonical x, y, z iteration order.
var Axes = [3]Axis{XAxis, YAxis, ZAxis}

// IntVec is a signed (i,j,k) triplet. Negative components are used as the
// sentinel for "no corresponding point".
type IntVec [3]int

func NewIntVec(i, j, k int) IntVec { return IntVec{i, j, k} }

func (v IntVec) Add(o IntVec) IntVec { return IntVec{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v IntVec) Sub(o IntVec) IntVec { return IntVec{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func (v IntVec) Neg() IntVec { return IntVec{-v[0], -v[1], -v[2]} }

func (v IntVec) Scale(s int) IntVec { return IntVec{s * v[0], s * v[1], s * v[2]} }

// Prod returns i*j*k.
func (v IntVec) Prod() int { return v[0] * v[1] * v[2] }

// AnyNegative reports whether any component is below zero.
func (v IntVec) AnyNegative() bool { return v[0] < 0 || v[1] < 0 || v[2] < 0 }

// Less reports v < o componentwise on all axes.
func (v IntVec) Less(o IntVec) bool { return v[0] < o[0] && v[1] < o[1] && v[2] < o[2] }

// LessEq reports v <= o componentwise on all axes.
func (v IntVec) LessEq(o IntVec) bool { return v[0] <= o[0] && v[1] <= o[1] && v[2] <= o[2] }

// Unit returns the unit vector along a.
func Unit(a Axis) (v IntVec) {
	v[a] = 1
	return
}

func (v IntVec) String() string { return fmt.Sprintf("(%d,%d,%d)", v[0], v[1], v[2]) }
