package structured

import (
	"errors"
	"fmt"
)

var ErrBadWindow = errors.New("window does not fit its global extent")

// Window is a rectangular sub-region (offset + extent) of a 3-D allocation
// of size Global. Flat indices are row-major with x fastest.
type Window struct {
	Global    IntVec
	Offset    IntVec
	Extent    IntVec
	PlusFaces [3]bool
}

// NewWindow checks offset+extent <= global on every axis.
func NewWindow(global, offset, extent IntVec, plusFaces [3]bool) (w Window, err error) {
	for _, a := range Axes {
		if offset[a] < 0 || extent[a] < 0 || offset[a]+extent[a] > global[a] {
			err = fmt.Errorf("axis %s offset %d extent %d global %d: %w",
				a, offset[a], extent[a], global[a], ErrBadWindow)
			return
		}
	}
	w = Window{Global: global, Offset: offset, Extent: extent, PlusFaces: plusFaces}
	return
}

// FullWindow covers the whole global allocation.
func FullWindow(global IntVec, plusFaces [3]bool) Window {
	return Window{Global: global, Extent: global, PlusFaces: plusFaces}
}

// Size is the number of points inside the window.
func (w Window) Size() int { return w.Extent.Prod() }

// GlobalSize is the number of points in the allocation.
func (w Window) GlobalSize() int { return w.Global.Prod() }

// Flat maps a window-local coordinate to an offset in the global buffer.
func (w Window) Flat(ijk IntVec) int {
	g := ijk.Add(w.Offset)
	return g[0] + w.Global[0]*(g[1]+w.Global[1]*g[2])
}

// Local maps a window-local flat index (0 <= n < Size) to a coordinate.
func (w Window) Local(n int) (ijk IntVec) {
	ijk[0] = n % w.Extent[0]
	n /= w.Extent[0]
	ijk[1] = n % w.Extent[1]
	ijk[2] = n / w.Extent[1]
	return
}

// Contains reports whether the window-local coordinate lies inside.
func (w Window) Contains(ijk IntVec) bool {
	return !ijk.AnyNegative() && ijk.Less(w.Extent)
}

// Sub returns the window offset by off and with extent ext, relative to w.
func (w Window) Sub(off, ext IntVec) (Window, error) {
	return NewWindow(w.Global, w.Offset.Add(off), ext, w.PlusFaces)
}

// Interior trims ng points from each side of every axis whose extent
// exceeds 1.
func (w Window) Interior(ng int) Window {
	iw := w
	for _, a := range Axes {
		if w.Extent[a] > 1 {
			iw.Offset[a] += ng
			iw.Extent[a] -= 2 * ng
			if iw.Extent[a] < 0 {
				iw.Extent[a] = 0
			}
		}
	}
	return iw
}

func (w Window) String() string {
	return fmt.Sprintf("Window{global %v offset %v extent %v}", w.Global, w.Offset, w.Extent)
}
