package nebo

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/structured"
)

var (
	ErrShapeMismatch     = field.ErrShapeMismatch
	ErrLocationMismatch  = field.ErrLocationMismatch
	ErrUnsupportedMemory = field.ErrUnsupportedMemory
	ErrPointCount        = errors.New("stencil point and coefficient counts differ")
)

// shape is what an expression resolves to. Scalar subtrees have neither a
// location nor an extent.
type shape struct {
	loc    structured.Location
	hasLoc bool
	ext    structured.IntVec
	plus   [3]bool
	hasExt bool
}

// bound mirrors an Expr with the per-stencil coordinate offsets resolved.
type bound struct {
	n     *node
	kids  []*bound
	delta structured.IntVec
}

func merge(a, b shape) (s shape, err error) {
	s = a
	if b.hasLoc {
		if a.hasLoc && a.loc != b.loc {
			err = fmt.Errorf("%s vs %s: %w", a.loc, b.loc, ErrLocationMismatch)
			return
		}
		s.loc, s.hasLoc = b.loc, true
	}
	if b.hasExt {
		if a.hasExt && a.ext != b.ext {
			err = fmt.Errorf("%v vs %v: %w", a.ext, b.ext, ErrShapeMismatch)
			return
		}
		s.ext, s.plus, s.hasExt = b.ext, b.plus, true
	}
	return
}

func plusAdjust(loc structured.Location, plus [3]bool, a structured.Axis) int {
	if loc.Offset()[a] == -1 && plus[a] {
		return 1
	}
	return 0
}

// stencilExtent converts a source extent into the matching destination
// extent on the same underlying grid.
func stencilExtent(src, dest structured.Location, n structured.IntVec, plus [3]bool) (m structured.IntVec) {
	for _, a := range structured.Axes {
		if n[a] <= 1 {
			m[a] = n[a]
			continue
		}
		dim := n[a] - 2*src.Ghost() - plusAdjust(src, plus, a)
		m[a] = dim + 2*dest.Ghost() + plusAdjust(dest, plus, a)
	}
	return
}

func ghostEff(loc structured.Location, n structured.IntVec) (g structured.IntVec) {
	for _, a := range structured.Axes {
		if n[a] > 1 {
			g[a] = loc.Ghost()
		}
	}
	return
}

func bind(e Expr) (b *bound, s shape, err error) {
	b = &bound{n: e.n}
	n := e.n
	switch n.kind {
	case KindField:
		f := n.field
		if f.Memory() != field.LocalRAM {
			err = fmt.Errorf("operand %s: %w", f.Location(), ErrUnsupportedMemory)
			return
		}
		if f.Released() {
			err = fmt.Errorf("operand %s: %w", f.Location(), field.ErrReleased)
			return
		}
		w := f.Window()
		s = shape{loc: f.Location(), hasLoc: true, ext: w.Extent, plus: w.PlusFaces, hasExt: true}
	case KindScalar:
	case KindStencil:
		if len(n.points) != len(n.coefs) {
			err = fmt.Errorf("stencil %s -> %s: %d points, %d coefficients: %w",
				n.srcLoc, n.destLoc, len(n.points), len(n.coefs), ErrPointCount)
			return
		}
		var kid *bound
		var ks shape
		if kid, ks, err = bind(n.kids[0]); err != nil {
			return
		}
		if ks.hasLoc && ks.loc != n.srcLoc {
			err = fmt.Errorf("stencil source %s fed %s: %w", n.srcLoc, ks.loc, ErrLocationMismatch)
			return
		}
		b.kids = []*bound{kid}
		s = shape{loc: n.destLoc, hasLoc: true}
		if ks.hasExt {
			s.ext = stencilExtent(n.srcLoc, n.destLoc, ks.ext, ks.plus)
			s.plus, s.hasExt = ks.plus, true
			b.delta = ghostEff(n.srcLoc, ks.ext).Sub(ghostEff(n.destLoc, s.ext))
		}
	default:
		for _, k := range n.kids {
			var kid *bound
			var ks shape
			if kid, ks, err = bind(k); err != nil {
				return
			}
			b.kids = append(b.kids, kid)
			if s, err = merge(s, ks); err != nil {
				return
			}
		}
	}
	return
}

func truth(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// eval computes the expression at window-local ijk. ok is false when a
// read falls outside an operand's window.
func eval(b *bound, ijk structured.IntVec) (v float64, ok bool) {
	n := b.n
	switch n.kind {
	case KindField:
		if !n.field.Contains(ijk) {
			return 0, false
		}
		return n.field.At(ijk), true
	case KindScalar:
		return n.scalar, true
	case KindUnary:
		if v, ok = eval(b.kids[0], ijk); !ok {
			return
		}
		return applyUnary(n.unary, v), true
	case KindBinary:
		var l, r float64
		if l, ok = eval(b.kids[0], ijk); !ok {
			return
		}
		if r, ok = eval(b.kids[1], ijk); !ok {
			return
		}
		return applyBinary(n.binary, l, r), true
	case KindCond:
		var m float64
		if m, ok = eval(b.kids[0], ijk); !ok {
			return
		}
		if m != 0 {
			return eval(b.kids[1], ijk)
		}
		return eval(b.kids[2], ijk)
	case KindStencil:
		base := ijk.Add(b.delta)
		for i, p := range n.points {
			var x float64
			if x, ok = eval(b.kids[0], base.Add(p)); !ok {
				return 0, false
			}
			v += n.coefs[i] * x
		}
		return v, true
	}
	panic(fmt.Sprintf("unknown expression kind %d", n.kind))
}

func applyUnary(op UnaryOp, x float64) float64 {
	switch op {
	case OpNeg:
		return -x
	case OpSin:
		return math.Sin(x)
	case OpCos:
		return math.Cos(x)
	case OpTan:
		return math.Tan(x)
	case OpExp:
		return math.Exp(x)
	case OpLog:
		return math.Log(x)
	case OpSqrt:
		return math.Sqrt(x)
	case OpAbs:
		return math.Abs(x)
	case OpTanh:
		return math.Tanh(x)
	case OpSquare:
		return x * x
	case OpNot:
		return truth(x == 0)
	}
	panic(fmt.Sprintf("unknown unary op %d", op))
}

func applyBinary(op BinaryOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpPow:
		return math.Pow(a, b)
	case OpMin:
		return math.Min(a, b)
	case OpMax:
		return math.Max(a, b)
	case OpLess:
		return truth(a < b)
	case OpLessEq:
		return truth(a <= b)
	case OpGreater:
		return truth(a > b)
	case OpGreaterEq:
		return truth(a >= b)
	case OpEqual:
		return truth(a == b)
	case OpNotEqual:
		return truth(a != b)
	case OpAnd:
		return truth(a != 0 && b != 0)
	case OpOr:
		return truth(a != 0 || b != 0)
	}
	panic(fmt.Sprintf("unknown binary op %d", op))
}
