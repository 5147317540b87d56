package field

import (
	"errors"
	"fmt"

	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
)

var (
	ErrShapeMismatch     = errors.New("field extents differ")
	ErrLocationMismatch  = errors.New("field locations differ")
	ErrUnsupportedMemory = errors.New("operation not supported for this memory type")
	ErrBufferSize        = errors.New("buffer too small for window")
	ErrReleased          = errors.New("field has been released")
	ErrOutOfBounds       = errors.New("coordinate outside field window")
)

// StorageMode fixes who owns a field's buffer. It never changes after
// construction.
type StorageMode uint8

const (
	// Owning fields allocate their buffer and drop it on Release.
	Owning StorageMode = iota
	// External fields wrap a caller supplied buffer and never release it.
	External
	// Borrowed fields share another field's buffer; see View.
	Borrowed
)

func (m StorageMode) String() string {
	switch m {
	case Owning:
		return "Owning"
	case External:
		return "External"
	case Borrowed:
		return "Borrowed"
	}
	return fmt.Sprintf("StorageMode(%d)", uint8(m))
}

// MemoryType says where the values live.
type MemoryType uint8

const (
	LocalRAM MemoryType = iota
	ExternalDevice
)

func (m MemoryType) String() string {
	if m == LocalRAM {
		return "LocalRAM"
	}
	return "ExternalDevice"
}

// Field is a window onto a flat float64 buffer holding the values of one
// staggered location. The interior window trims ghost cells on every axis
// whose extent exceeds one.
type Field struct {
	loc      structured.Location
	window   structured.Window
	interior structured.Window
	values   []float64
	mode     StorageMode
	memory   MemoryType
	released bool
}

// New allocates an owning field over w.
func New(loc structured.Location, w structured.Window) *Field {
	return &Field{
		loc:      loc,
		window:   w,
		interior: w.Interior(loc.Ghost()),
		values:   make([]float64, w.GlobalSize()),
		mode:     Owning,
	}
}

// NewOnGrid allocates an owning field covering the whole ghosted extent of
// loc for a domain of dim cells.
func NewOnGrid(loc structured.Location, dim structured.IntVec, plusFaces [3]bool) *Field {
	return New(loc, structured.LocationWindow(loc, dim, plusFaces))
}

// Wrap builds an external field over data. data must hold the whole global
// allocation of w.
func Wrap(loc structured.Location, w structured.Window, data []float64) (f *Field, err error) {
	if len(data) < w.GlobalSize() {
		err = fmt.Errorf("wrap %s: have %d values, need %d: %w", loc, len(data), w.GlobalSize(), ErrBufferSize)
		return
	}
	f = &Field{
		loc:      loc,
		window:   w,
		interior: w.Interior(loc.Ghost()),
		values:   data,
		mode:     External,
	}
	return
}

// NewDeviceHandle describes a field whose values live in device memory.
// It carries no host buffer; element access panics.
func NewDeviceHandle(loc structured.Location, w structured.Window) *Field {
	return &Field{
		loc:      loc,
		window:   w,
		interior: w.Interior(loc.Ghost()),
		mode:     External,
		memory:   ExternalDevice,
	}
}

func (f *Field) Location() structured.Location { return f.loc }
func (f *Field) Window() structured.Window     { return f.window }
func (f *Field) Interior() structured.Window   { return f.interior }
func (f *Field) Mode() StorageMode             { return f.mode }
func (f *Field) Memory() MemoryType            { return f.memory }
func (f *Field) Extent() structured.IntVec     { return f.window.Extent }
func (f *Field) Size() int                     { return f.window.Size() }
func (f *Field) Released() bool                { return f.released }

// Values exposes the whole global buffer, including points outside the
// window. Device fields have none.
func (f *Field) Values() []float64 {
	f.mustBeLocal()
	return f.values
}

// Release drops the buffer of an owning field. It is a no-op for external
// and borrowed fields.
func (f *Field) Release() {
	if f.mode != Owning || f.released {
		return
	}
	utils.Logger().Debug("release field",
		zap.Stringer("location", f.loc), zap.Int("size", len(f.values)))
	f.values = nil
	f.released = true
}

// View returns a borrowed handle on the full window.
func (f *Field) View() *View {
	return &View{f: f.borrow(f.window)}
}

// SubView returns a borrowed handle on the window offset by off with extent
// ext, both relative to f's window.
func (f *Field) SubView(off, ext structured.IntVec) (v *View, err error) {
	w, err := f.window.Sub(off, ext)
	if err != nil {
		return
	}
	v = &View{f: f.borrow(w)}
	return
}

func (f *Field) borrow(w structured.Window) *Field {
	return &Field{
		loc:      f.loc,
		window:   w,
		interior: w.Interior(f.loc.Ghost()),
		values:   f.values,
		mode:     Borrowed,
		memory:   f.memory,
	}
}

func (f *Field) mustBeLocal() {
	if f.memory != LocalRAM {
		panic(fmt.Errorf("host access to %s field: %w", f.loc, ErrUnsupportedMemory))
	}
	if f.released {
		panic(fmt.Errorf("%s field: %w", f.loc, ErrReleased))
	}
}

func (f *Field) checkLocal() error {
	if f.memory != LocalRAM {
		return fmt.Errorf("%s field on %s: %w", f.loc, f.memory, ErrUnsupportedMemory)
	}
	if f.released {
		return fmt.Errorf("%s field: %w", f.loc, ErrReleased)
	}
	return nil
}

// Index is the buffer offset of the window-local coordinate ijk.
func (f *Field) Index(ijk structured.IntVec) int {
	if boundsCheck && !f.window.Contains(ijk) {
		panic(fmt.Errorf("%v in %v: %w", ijk, f.window, ErrOutOfBounds))
	}
	return f.window.Flat(ijk)
}

// At reads the value at window-local coordinate ijk.
func (f *Field) At(ijk structured.IntVec) float64 {
	f.mustBeLocal()
	return f.values[f.Index(ijk)]
}

// Set writes v at window-local coordinate ijk.
func (f *Field) Set(ijk structured.IntVec, v float64) {
	f.mustBeLocal()
	f.values[f.Index(ijk)] = v
}

// Contains reports whether ijk is inside the full window.
func (f *Field) Contains(ijk structured.IntVec) bool { return f.window.Contains(ijk) }

// InteriorOffset is the position of the interior window inside the full one.
func (f *Field) InteriorOffset() structured.IntVec {
	return f.interior.Offset.Sub(f.window.Offset)
}

// Each visits every point of the full window, ghosts included, x fastest.
func (f *Field) Each(fn func(ijk structured.IntVec, v float64)) {
	f.mustBeLocal()
	eachIn(f.window.Extent, structured.IntVec{}, func(ijk structured.IntVec) {
		fn(ijk, f.values[f.window.Flat(ijk)])
	})
}

// EachInterior visits the interior window. Coordinates passed to fn are
// relative to the full window.
func (f *Field) EachInterior(fn func(ijk structured.IntVec, v float64)) {
	f.mustBeLocal()
	eachIn(f.interior.Extent, f.InteriorOffset(), func(ijk structured.IntVec) {
		fn(ijk, f.values[f.window.Flat(ijk)])
	})
}

// Points calls fn with every coordinate of an ext sized block starting at
// off, x fastest.
func Points(ext, off structured.IntVec, fn func(ijk structured.IntVec)) {
	eachIn(ext, off, fn)
}

func eachIn(ext, off structured.IntVec, fn func(ijk structured.IntVec)) {
	for k := 0; k < ext[2]; k++ {
		for j := 0; j < ext[1]; j++ {
			for i := 0; i < ext[0]; i++ {
				fn(structured.IntVec{off[0] + i, off[1] + j, off[2] + k})
			}
		}
	}
}

// Compatible checks that o has f's location and extent.
func (f *Field) Compatible(o *Field) error {
	if f.loc != o.loc {
		return fmt.Errorf("%s vs %s: %w", f.loc, o.loc, ErrLocationMismatch)
	}
	if f.window.Extent != o.window.Extent {
		return fmt.Errorf("%v vs %v: %w", f.window.Extent, o.window.Extent, ErrShapeMismatch)
	}
	return nil
}

func (f *Field) String() string {
	return fmt.Sprintf("Field{%s %s %s %v}", f.loc, f.mode, f.memory, f.window)
}

// View is a non-owning handle sharing another field's buffer. It can not
// release the buffer and must not outlive the field it came from.
type View struct {
	f *Field
}

// Field returns the borrowed field, usable anywhere a *Field is read or
// written. Release on it is a no-op.
func (v *View) Field() *Field                          { return v.f }
func (v *View) Location() structured.Location          { return v.f.loc }
func (v *View) Window() structured.Window              { return v.f.window }
func (v *View) At(ijk structured.IntVec) float64       { return v.f.At(ijk) }
func (v *View) Set(ijk structured.IntVec, val float64) { v.f.Set(ijk, val) }
