package assembler

import (
	"fmt"

	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
)

// Scratch is a building block for smoothers: -1 on the diagonal and on the
// two neighbours along one axis, within a single location.
type Scratch struct {
	loc       structured.Location
	dim       structured.IntVec
	plusFaces [3]bool
	dir       structured.Axis
	ext       structured.IntVec
}

func NewScratch(loc structured.Location, dim structured.IntVec, dir structured.Axis, plusFaces [3]bool) (*Scratch, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("scratch along %s: %w", dir, ErrStencilShape)
	}
	s := &Scratch{
		loc:       loc,
		dim:       dim,
		plusFaces: plusFaces,
		dir:       dir,
		ext:       structured.Extent(loc, dim, plusFaces),
	}
	utils.Logger().Debug("scratch assembler",
		zap.Stringer("location", loc), zap.Stringer("axis", dir), zap.Int("rows", s.size()))
	return s, nil
}

// size collapses to a single row when the axis is degenerate.
func (s *Scratch) size() int {
	if s.ext[s.dir] > 1 {
		return s.ext.Prod()
	}
	return 1
}

func (s *Scratch) NumRows() int { return s.size() }

func (s *Scratch) NumCols() int { return s.size() }

func (s *Scratch) RowEntries(row int) (entries []Entry) {
	if row < 0 || row >= s.size() {
		return nil
	}
	entries = append(entries, Entry{Col: row, Coef: -1})
	if s.size() <= 1 {
		return
	}
	stride := structured.Strides(s.loc, s.dim, s.plusFaces)[s.dir]
	ijk := structured.FlatToIJK(s.loc, s.dim, row, s.plusFaces)
	for _, nb := range []int{row + stride, row - stride} {
		if nb < 0 {
			continue
		}
		t := structured.FlatToIJK(s.loc, s.dim, nb, s.plusFaces)
		if t[s.dir] < 0 || t[s.dir] >= s.ext[s.dir] {
			continue
		}
		same := true
		for _, a := range structured.Axes {
			if a != s.dir && t[a] != ijk[a] {
				same = false
			}
		}
		if same {
			entries = append(entries, Entry{Col: nb, Coef: -1})
		}
	}
	return
}

// GhostRows is empty when the axis is degenerate and the single row
// stands for the whole field.
func (s *Scratch) GhostRows() structured.IndexSet { return s.ghosts() }

func (s *Scratch) GhostCols() structured.IndexSet { return s.ghosts() }

func (s *Scratch) ghosts() structured.IndexSet {
	if s.size() == 1 {
		return structured.IndexSet{}
	}
	return structured.GhostSet(s.loc, s.dim, s.plusFaces)
}
