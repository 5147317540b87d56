package structured

import (
	"errors"
	"fmt"
)

var ErrUnsupportedPair = errors.New("unsupported location pair")

// PairRecord describes how a destination coordinate is moved into the
// source coordinate system for one ordered (Src, Dest) pair.
type PairRecord struct {
	Src, Dest Location
	// HalfCell marks the axes that take an extra -1 because Dest sits half a
	// cell below Src.
	HalfCell [3]bool
	// StencilAxes are the axes on which Src and Dest are staggered apart.
	// Their count fixes the number of source points per destination point.
	StencilAxes []Axis
}

type pairKey struct{ src, dest Location }

var (
	hNone = [3]bool{}
	hX    = [3]bool{true, false, false}
	hY    = [3]bool{false, true, false}
	hZ    = [3]bool{false, false, true}
	hXY   = [3]bool{true, true, false}
	hXZ   = [3]bool{true, false, true}
	hYZ   = [3]bool{false, true, true}

	aNone = []Axis{}
	aX    = []Axis{XAxis}
	aY    = []Axis{YAxis}
	aZ    = []Axis{ZAxis}
	aXY   = []Axis{XAxis, YAxis}
	aXZ   = []Axis{XAxis, ZAxis}
	aYZ   = []Axis{YAxis, ZAxis}
)

var pairRecords = []PairRecord{
	// faces onto their volume
	{SSurfX, SVol, hNone, aX},
	{SSurfY, SVol, hNone, aY},
	{SSurfZ, SVol, hNone, aZ},
	{XSurfX, XVol, hX, aX},
	{XSurfY, XVol, hNone, aY},
	{XSurfZ, XVol, hNone, aZ},
	{YSurfX, YVol, hNone, aX},
	{YSurfY, YVol, hY, aY},
	{YSurfZ, YVol, hNone, aZ},
	{ZSurfX, ZVol, hNone, aX},
	{ZSurfY, ZVol, hNone, aY},
	{ZSurfZ, ZVol, hZ, aZ},

	// scalar volume onto everything
	{SVol, SSurfX, hX, aX},
	{SVol, SSurfY, hY, aY},
	{SVol, SSurfZ, hZ, aZ},
	{SVol, XVol, hX, aX},
	{SVol, YVol, hY, aY},
	{SVol, ZVol, hZ, aZ},
	{SVol, XSurfX, hNone, aNone},
	{SVol, XSurfY, hXY, aXY},
	{SVol, XSurfZ, hXZ, aXZ},
	{SVol, YSurfX, hXY, aXY},
	{SVol, YSurfY, hNone, aNone},
	{SVol, YSurfZ, hYZ, aYZ},
	{SVol, ZSurfX, hXZ, aXZ},
	{SVol, ZSurfY, hYZ, aYZ},
	{SVol, ZSurfZ, hNone, aNone},

	// staggered volumes onto their faces and the matching cross faces
	{XVol, XSurfX, hNone, aX},
	{XVol, XSurfY, hY, aY},
	{XVol, XSurfZ, hZ, aZ},
	{XVol, YSurfX, hY, aY},
	{XVol, ZSurfX, hZ, aZ},
	{YVol, YSurfX, hX, aX},
	{YVol, YSurfY, hNone, aY},
	{YVol, YSurfZ, hZ, aZ},
	{YVol, XSurfY, hX, aX},
	{YVol, ZSurfY, hZ, aZ},
	{ZVol, ZSurfX, hX, aX},
	{ZVol, ZSurfY, hY, aY},
	{ZVol, ZSurfZ, hNone, aZ},
	{ZVol, XSurfZ, hX, aX},
	{ZVol, YSurfZ, hY, aY},

	// staggered volumes back onto the scalar volume
	{XVol, SVol, hNone, aX},
	{YVol, SVol, hNone, aY},
	{ZVol, SVol, hNone, aZ},
}

var pairTable map[pairKey]PairRecord

func init() {
	pairTable = make(map[pairKey]PairRecord, len(pairRecords)+len(Locations))
	for _, loc := range Locations {
		pairTable[pairKey{loc, loc}] = PairRecord{loc, loc, hNone, aNone}
	}
	for _, rec := range pairRecords {
		pairTable[pairKey{rec.Src, rec.Dest}] = rec
	}
}

// LookupPair returns the record for the ordered pair (src, dest).
func LookupPair(src, dest Location) (rec PairRecord, ok bool) {
	rec, ok = pairTable[pairKey{src, dest}]
	return
}

// SupportedPairs lists every tabulated pair, identities included.
func SupportedPairs() (recs []PairRecord) {
	for _, loc := range Locations {
		recs = append(recs, pairTable[pairKey{loc, loc}])
	}
	return append(recs, pairRecords...)
}

// Shift moves a destination coordinate into source space. Axes with a
// single cell are left alone.
func (p PairRecord) Shift(dim, ijk IntVec) IntVec {
	dg := p.Src.Ghost() - p.Dest.Ghost()
	for _, a := range Axes {
		if dim[a] > 1 {
			ijk[a] += dg
			if p.HalfCell[a] {
				ijk[a]--
			}
		}
	}
	return ijk
}

// Unshift is the inverse of Shift.
func (p PairRecord) Unshift(dim, ijk IntVec) IntVec {
	dg := p.Src.Ghost() - p.Dest.Ghost()
	for _, a := range Axes {
		if dim[a] > 1 {
			ijk[a] -= dg
			if p.HalfCell[a] {
				ijk[a]++
			}
		}
	}
	return ijk
}

// NumPoints is the number of source points feeding one destination point.
func (p PairRecord) NumPoints() int { return 1 << len(p.StencilAxes) }

// ShiftDestIndex moves ijk from dest coordinates into src coordinates.
func ShiftDestIndex(src, dest Location, dim, ijk IntVec) (IntVec, error) {
	rec, ok := LookupPair(src, dest)
	if !ok {
		return ijk, fmt.Errorf("%s -> %s: %w", src, dest, ErrUnsupportedPair)
	}
	return rec.Shift(dim, ijk), nil
}

// UnshiftDestIndex moves ijk from src coordinates back into dest
// coordinates.
func UnshiftDestIndex(src, dest Location, dim, ijk IntVec) (IntVec, error) {
	rec, ok := LookupPair(src, dest)
	if !ok {
		return ijk, fmt.Errorf("%s -> %s: %w", src, dest, ErrUnsupportedPair)
	}
	return rec.Unshift(dim, ijk), nil
}
