package nebo

import (
	"fmt"

	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/structured"
)

// Assign evaluates e once at every point of dest's full window, ghosts
// included, and writes the result in place. Points where a stencil read
// leaves its operand are left untouched.
//
// dest must not also be read through a stencil in e; the engine does not
// detect that aliasing.
func Assign(dest *field.Field, e Expr) error {
	return assign(dest, e, dest.Extent(), structured.IntVec{})
}

// InteriorAssign is Assign restricted to dest's interior window.
func InteriorAssign(dest *field.Field, e Expr) error {
	return assign(dest, e, dest.Interior().Extent, dest.InteriorOffset())
}

func assign(dest *field.Field, e Expr, ext, off structured.IntVec) error {
	if dest.Memory() != field.LocalRAM {
		return fmt.Errorf("assign to %s: %w", dest.Location(), ErrUnsupportedMemory)
	}
	if dest.Released() {
		return fmt.Errorf("assign to %s: %w", dest.Location(), field.ErrReleased)
	}
	b, s, err := bind(e)
	if err != nil {
		return err
	}
	if s.hasLoc && s.loc != dest.Location() {
		return fmt.Errorf("assign %s to %s: %w", s.loc, dest.Location(), ErrLocationMismatch)
	}
	if s.hasExt && s.ext != dest.Extent() {
		return fmt.Errorf("assign %v to %v: %w", s.ext, dest.Extent(), ErrShapeMismatch)
	}
	field.Points(ext, off, func(ijk structured.IntVec) {
		if v, ok := eval(b, ijk); ok {
			dest.Set(ijk, v)
		}
	})
	return nil
}

// Location is the location e resolves to, if any of its operands fix one.
func (e Expr) Location() (loc structured.Location, ok bool) {
	_, s, err := bind(e)
	if err != nil {
		return
	}
	return s.loc, s.hasLoc
}
