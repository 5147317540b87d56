// Package nebo builds lazy elementwise and stencil expressions over fields
// and evaluates them in a single pass at assignment time.
package nebo

import (
	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/structured"
)

type Kind uint8

const (
	KindField Kind = iota
	KindScalar
	KindUnary
	KindBinary
	KindCond
	KindStencil
)

type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpSin
	OpCos
	OpTan
	OpExp
	OpLog
	OpSqrt
	OpAbs
	OpTanh
	OpSquare
	OpNot
)

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMin
	OpMax
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
)

type node struct {
	kind   Kind
	field  *field.Field
	scalar float64
	unary  UnaryOp
	binary BinaryOp
	kids   []Expr
	// stencil nodes
	points  []structured.IntVec
	coefs   []float64
	srcLoc  structured.Location
	destLoc structured.Location
}

// Expr is an immutable expression tree. It only references the fields it
// reads and must not outlive them.
type Expr struct {
	n *node
}

func (e Expr) Kind() Kind { return e.n.kind }

// F wraps a field as a leaf.
func F(f *field.Field) Expr { return Expr{&node{kind: KindField, field: f}} }

// V wraps a borrowed view as a leaf.
func V(v *field.View) Expr { return F(v.Field()) }

// S is a scalar leaf, broadcast to every point.
func S(v float64) Expr { return Expr{&node{kind: KindScalar, scalar: v}} }

func unary(op UnaryOp, a Expr) Expr {
	return Expr{&node{kind: KindUnary, unary: op, kids: []Expr{a}}}
}

func binary(op BinaryOp, a, b Expr) Expr {
	return Expr{&node{kind: KindBinary, binary: op, kids: []Expr{a, b}}}
}

func Add(a, b Expr) Expr { return binary(OpAdd, a, b) }
func Sub(a, b Expr) Expr { return binary(OpSub, a, b) }
func Mul(a, b Expr) Expr { return binary(OpMul, a, b) }
func Div(a, b Expr) Expr { return binary(OpDiv, a, b) }
func Pow(a, b Expr) Expr { return binary(OpPow, a, b) }
func Min(a, b Expr) Expr { return binary(OpMin, a, b) }
func Max(a, b Expr) Expr { return binary(OpMax, a, b) }

// Comparisons and logical operators yield 1 for true and 0 for false.
func Less(a, b Expr) Expr      { return binary(OpLess, a, b) }
func LessEq(a, b Expr) Expr    { return binary(OpLessEq, a, b) }
func Greater(a, b Expr) Expr   { return binary(OpGreater, a, b) }
func GreaterEq(a, b Expr) Expr { return binary(OpGreaterEq, a, b) }
func Equal(a, b Expr) Expr     { return binary(OpEqual, a, b) }
func NotEqual(a, b Expr) Expr  { return binary(OpNotEqual, a, b) }
func And(a, b Expr) Expr       { return binary(OpAnd, a, b) }
func Or(a, b Expr) Expr        { return binary(OpOr, a, b) }

func Neg(a Expr) Expr    { return unary(OpNeg, a) }
func Sin(a Expr) Expr    { return unary(OpSin, a) }
func Cos(a Expr) Expr    { return unary(OpCos, a) }
func Tan(a Expr) Expr    { return unary(OpTan, a) }
func Exp(a Expr) Expr    { return unary(OpExp, a) }
func Log(a Expr) Expr    { return unary(OpLog, a) }
func Sqrt(a Expr) Expr   { return unary(OpSqrt, a) }
func Abs(a Expr) Expr    { return unary(OpAbs, a) }
func Tanh(a Expr) Expr   { return unary(OpTanh, a) }
func Square(a Expr) Expr { return unary(OpSquare, a) }
func Not(a Expr) Expr    { return unary(OpNot, a) }

// Cond picks then where mask is non-zero and els elsewhere. Only the chosen
// branch is evaluated.
func Cond(mask, then, els Expr) Expr {
	return Expr{&node{kind: KindCond, kids: []Expr{mask, then, els}}}
}

// Stencil applies a weighted sum over points, relative to each destination
// point, of child evaluated in srcLoc space. The result lives at destLoc.
// The slices are copied. Differing lengths surface as ErrPointCount when
// the expression is assigned.
func Stencil(points []structured.IntVec, coefs []float64, srcLoc, destLoc structured.Location, child Expr) Expr {
	return Expr{&node{
		kind:    KindStencil,
		points:  append([]structured.IntVec(nil), points...),
		coefs:   append([]float64(nil), coefs...),
		srcLoc:  srcLoc,
		destLoc: destLoc,
		kids:    []Expr{child},
	}}
}

// SumStencil adds child over points with unit weights.
func SumStencil(points []structured.IntVec, srcLoc, destLoc structured.Location, child Expr) Expr {
	coefs := make([]float64, len(points))
	for i := range coefs {
		coefs[i] = 1
	}
	return Stencil(points, coefs, srcLoc, destLoc, child)
}
