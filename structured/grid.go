package structured

import (
	"errors"
	"fmt"
)

var ErrBadGrid = errors.New("invalid grid")

// Grid is a uniform Cartesian metric provider. It supplies the spacing and
// point coordinates that operator coefficients are built from.
type Grid struct {
	Dim       IntVec
	Length    [3]float64
	PlusFaces [3]bool
}

func NewGrid(dim IntVec, length [3]float64, plusFaces [3]bool) (g Grid, err error) {
	for _, a := range Axes {
		if dim[a] < 1 || length[a] <= 0 {
			err = fmt.Errorf("axis %s dim %d length %g: %w", a, dim[a], length[a], ErrBadGrid)
			return
		}
	}
	g = Grid{Dim: dim, Length: length, PlusFaces: plusFaces}
	return
}

// Spacing is the cell width along a.
func (g Grid) Spacing(a Axis) float64 { return g.Length[a] / float64(g.Dim[a]) }

// Coord is the physical position along a of the ghosted coordinate ijk of
// loc. Interior cells of SVol sit at (i+1/2)h; staggered locations are
// shifted half a cell down.
func (g Grid) Coord(loc Location, ijk IntVec, a Axis) float64 {
	ng := 0
	if g.Dim[a] > 1 {
		ng = loc.Ghost()
	}
	stag := 0.
	if g.Dim[a] > 1 {
		stag = 0.5 * float64(loc.Offset()[a])
	}
	return (float64(ijk[a]-ng) + 0.5 + stag) * g.Spacing(a)
}

// Extent of loc on this grid.
func (g Grid) Extent(loc Location) IntVec { return Extent(loc, g.Dim, g.PlusFaces) }

// Window of loc on this grid.
func (g Grid) Window(loc Location) Window { return LocationWindow(loc, g.Dim, g.PlusFaces) }
