package assembler

import (
	"fmt"

	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
)

// Restriction injects a fine field into a coarser one of the same
// location. Only one axis may be coarsened.
type Restriction struct {
	loc             structured.Location
	dimSrc, dimDest structured.IntVec
	plusFaces       [3]bool
	axis            structured.Axis
}

// NewRestriction checks that dimSrc and dimDest differ on exactly one axis
// and that dimDest is the smaller there.
func NewRestriction(loc structured.Location, dimSrc, dimDest structured.IntVec, plusFaces [3]bool) (r *Restriction, err error) {
	axis := structured.NoAxis
	for _, a := range structured.Axes {
		if dimSrc[a] == dimDest[a] {
			continue
		}
		if axis != structured.NoAxis {
			err = fmt.Errorf("restrict %v -> %v differs on %s and %s: %w", dimSrc, dimDest, axis, a, ErrInvalidRestriction)
			return
		}
		axis = a
	}
	if axis == structured.NoAxis {
		err = fmt.Errorf("restrict %v -> %v: no axis differs: %w", dimSrc, dimDest, ErrInvalidRestriction)
		return
	}
	if dimDest[axis] >= dimSrc[axis] || dimDest[axis] < 1 {
		err = fmt.Errorf("restrict %v -> %v: destination not coarser on %s: %w", dimSrc, dimDest, axis, ErrInvalidRestriction)
		return
	}
	r = &Restriction{loc: loc, dimSrc: dimSrc, dimDest: dimDest, plusFaces: plusFaces, axis: axis}
	utils.Logger().Debug("restriction assembler",
		zap.Stringer("location", loc), zap.Stringer("axis", axis),
		zap.Int("src", dimSrc[axis]), zap.Int("dest", dimDest[axis]))
	return
}

func (r *Restriction) Axis() structured.Axis { return r.axis }

func (r *Restriction) NumRows() int { return structured.NTot(r.loc, r.dimDest, r.plusFaces) }

func (r *Restriction) NumCols() int { return structured.NTot(r.loc, r.dimSrc, r.plusFaces) }

// Col is the single source column of row. Interior points map by
// floor(i*nsrc/ndest) past the ghost layer; ghost points clamp to the
// first or past-the-last source index.
func (r *Restriction) Col(row int) int {
	ijk := structured.FlatToIJK(r.loc, r.dimDest, row, r.plusFaces)
	ng := r.loc.Ghost()
	a := r.axis
	nsrc, ndest := r.dimSrc[a], r.dimDest[a]
	switch {
	case ijk[a] < ng:
		ijk[a] = 0
	case ijk[a]-ng >= ndest:
		ijk[a] = nsrc + ng
	default:
		ijk[a] = (ijk[a]-ng)*nsrc/ndest + ng
	}
	return structured.IJKToFlat(r.loc, r.dimSrc, ijk, r.plusFaces)
}

func (r *Restriction) RowEntries(row int) []Entry {
	if row < 0 || row >= r.NumRows() {
		return nil
	}
	return []Entry{{Col: r.Col(row), Coef: 1}}
}

func (r *Restriction) GhostRows() structured.IndexSet {
	return structured.GhostSet(r.loc, r.dimDest, r.plusFaces)
}

func (r *Restriction) GhostCols() structured.IndexSet {
	return structured.GhostSet(r.loc, r.dimSrc, r.plusFaces)
}
