package field

import (
	"math"

	"github.com/notargets/FVGrid/structured"
)

// Function1D is an analytic function of one coordinate, evaluated point by
// point onto a destination field at the coordinate field's location.
type Function1D interface {
	Evaluate(dest *Field) error
	Dx(dest *Field) error
	D2x(dest *Field) error
}

// CoordField allocates a field at loc over g holding the coordinate along a.
func CoordField(g structured.Grid, loc structured.Location, a structured.Axis) (*Field, error) {
	x := New(loc, g.Window(loc))
	if err := x.SetCoord(g, a); err != nil {
		return nil, err
	}
	return x, nil
}

// LinearFunction is Slope*x + Intercept.
type LinearFunction struct {
	X         *Field
	Slope     float64
	Intercept float64
}

func NewLinearFunction(x *Field, slope, intercept float64) *LinearFunction {
	return &LinearFunction{X: x, Slope: slope, Intercept: intercept}
}

func (l *LinearFunction) Evaluate(dest *Field) error {
	return dest.combine(l.X, func(_, x float64) float64 { return l.Slope*x + l.Intercept })
}

func (l *LinearFunction) Dx(dest *Field) error {
	return dest.combine(l.X, func(float64, float64) float64 { return l.Slope })
}

func (l *LinearFunction) D2x(dest *Field) error {
	return dest.combine(l.X, func(float64, float64) float64 { return 0 })
}

// SinFunction is Amplitude*sin(Frequency*x).
type SinFunction struct {
	X         *Field
	Amplitude float64
	Frequency float64
}

func NewSinFunction(x *Field, amplitude, frequency float64) *SinFunction {
	return &SinFunction{X: x, Amplitude: amplitude, Frequency: frequency}
}

func (s *SinFunction) Evaluate(dest *Field) error {
	return dest.combine(s.X, func(_, x float64) float64 { return s.Amplitude * math.Sin(s.Frequency*x) })
}

func (s *SinFunction) Dx(dest *Field) error {
	c := s.Amplitude * s.Frequency
	return dest.combine(s.X, func(_, x float64) float64 { return c * math.Cos(s.Frequency*x) })
}

func (s *SinFunction) D2x(dest *Field) error {
	c := s.Amplitude * s.Frequency * s.Frequency
	return dest.combine(s.X, func(_, x float64) float64 { return -c * math.Sin(s.Frequency*x) })
}
