package structured

// AxisExtent is the ghosted number of points of loc along a for a domain of
// dim interior cells. A staggered location gains one point on an axis that
// carries a physical +face.
func AxisExtent(loc Location, dim IntVec, plusFaces [3]bool, a Axis) (n int) {
	if dim[a] <= 1 {
		return 1
	}
	n = dim[a] + 2*loc.Ghost()
	if loc.Offset()[a] == -1 && plusFaces[a] {
		n++
	}
	return
}

// Extent returns the ghosted extent of loc on all three axes.
func Extent(loc Location, dim IntVec, plusFaces [3]bool) (n IntVec) {
	for _, a := range Axes {
		n[a] = AxisExtent(loc, dim, plusFaces, a)
	}
	return
}

// NTot is the total number of points, ghosts included.
func NTot(loc Location, dim IntVec, plusFaces [3]bool) int {
	return Extent(loc, dim, plusFaces).Prod()
}

// Strides returns the flat index increments along x, y and z.
func Strides(loc Location, dim IntVec, plusFaces [3]bool) IntVec {
	n := Extent(loc, dim, plusFaces)
	return IntVec{1, n[0], n[0] * n[1]}
}

// LocationWindow is the full ghosted window of a field at loc.
func LocationWindow(loc Location, dim IntVec, plusFaces [3]bool) Window {
	return FullWindow(Extent(loc, dim, plusFaces), plusFaces)
}

// FlatToIJK inverts the row-major flat index of loc. A flat index past the
// end yields a coordinate whose k component is out of range.
func FlatToIJK(loc Location, dim IntVec, flat int, plusFaces [3]bool) (ijk IntVec) {
	n := Extent(loc, dim, plusFaces)
	ijk[0] = flat % n[0]
	ijk[1] = (flat / n[0]) % n[1]
	ijk[2] = flat / (n[0] * n[1])
	return
}

// IJKToFlat is the row-major flat index of ijk in loc's ghosted extent.
func IJKToFlat(loc Location, dim IntVec, ijk IntVec, plusFaces [3]bool) int {
	n := Extent(loc, dim, plusFaces)
	return ijk[0] + n[0]*(ijk[1]+n[1]*ijk[2])
}

// IJKInBounds reports whether ijk lies inside loc's ghosted extent.
func IJKInBounds(loc Location, dim IntVec, ijk IntVec, plusFaces [3]bool) bool {
	return !ijk.AnyNegative() && ijk.Less(Extent(loc, dim, plusFaces))
}

// IsInBounds reports whether flat addresses a point of loc.
func IsInBounds(loc Location, dim IntVec, flat int, plusFaces [3]bool) bool {
	if flat < 0 {
		return false
	}
	return IJKInBounds(loc, dim, FlatToIJK(loc, dim, flat, plusFaces), plusFaces)
}

// IsConnected is true when a and b are nearest neighbours or equal.
func IsConnected(a, b IntVec) bool {
	for _, ax := range Axes {
		d := a[ax] - b[ax]
		if d > 1 || d < -1 {
			return false
		}
	}
	return true
}
