package stencil

import (
	"fmt"
	"sort"

	"github.com/notargets/FVGrid/assembler"
	"github.com/notargets/FVGrid/config"
	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
)

type opKey struct {
	kind      Kind
	src, dest structured.Location
}

// OperatorDatabase stores one operator per (kind, src, dest).
type OperatorDatabase struct {
	ops map[opKey]*Operator
}

func NewOperatorDatabase() *OperatorDatabase {
	return &OperatorDatabase{ops: make(map[opKey]*Operator)}
}

func (db *OperatorDatabase) Register(op *Operator) error {
	k := opKey{op.Kind, op.Src, op.Dest}
	if _, ok := db.ops[k]; ok {
		return fmt.Errorf("%s: %w", op, ErrDuplicateOperator)
	}
	db.ops[k] = op
	utils.Logger().Debug("register operator",
		zap.Stringer("operator", op), zap.Int("points", len(op.Points)))
	return nil
}

func (db *OperatorDatabase) Retrieve(kind Kind, src, dest structured.Location) (*Operator, error) {
	op, ok := db.ops[opKey{kind, src, dest}]
	if !ok {
		return nil, fmt.Errorf("%s<%s,%s>: %w", kind, src, dest, ErrOperatorNotFound)
	}
	return op, nil
}

func (db *OperatorDatabase) Len() int { return len(db.ops) }

// Operators lists the registered operators in a stable order.
func (db *OperatorDatabase) Operators() (ops []*Operator) {
	for _, op := range db.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		a, b := ops[i], ops[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		return a.Dest < b.Dest
	})
	return
}

// BuildStencils registers, for every volume family in vols and every
// non-degenerate axis of g, the interpolant and gradient onto the face
// location and the interpolant and divergence back. The scalar volume also
// gets its maps onto the staggered volumes and the edge interpolants.
func BuildStencils(g structured.Grid, db *OperatorDatabase, vols ...structured.Location) (err error) {
	if len(vols) == 0 {
		vols = structured.Volumes
	}
	reg := func(op *Operator, e error) {
		if err == nil && e != nil {
			err = e
		}
		if err == nil {
			err = db.Register(op)
		}
	}
	for _, vol := range vols {
		for _, a := range structured.Axes {
			if g.Dim[a] <= 1 {
				continue
			}
			h := g.Spacing(a)
			face := vol.Surface(a)
			ic := assembler.InterpolantCoefs()
			gc := assembler.GradientCoefs(h)
			dc := assembler.DivergenceCoefs(area(g, a), volume(g))
			reg(NewStencil2(Interpolant, vol, face, ic[0], ic[1]))
			reg(NewStencil2(Gradient, vol, face, gc[0], gc[1]))
			reg(NewStencil2(Interpolant, face, vol, ic[0], ic[1]))
			reg(NewStencil2(Divergence, face, vol, dc[0], dc[1]))
			if vol != structured.SVol {
				continue
			}
			stag := structured.Volumes[1+a]
			reg(NewStencil2(Interpolant, structured.SVol, stag, ic[0], ic[1]))
			reg(NewStencil2(Gradient, structured.SVol, stag, gc[0], gc[1]))
			reg(NewStencil2(Interpolant, stag, structured.SVol, ic[0], ic[1]))
			reg(NewStencil2(Gradient, stag, structured.SVol, gc[0], gc[1]))
		}
		if err != nil {
			return
		}
	}
	if !hasScalarVolume(vols) {
		return
	}
	// edge interpolants from the scalar volume onto cross faces
	for _, dest := range []structured.Location{
		structured.XSurfY, structured.XSurfZ, structured.YSurfX,
		structured.YSurfZ, structured.ZSurfX, structured.ZSurfY,
	} {
		rec, _ := structured.LookupPair(structured.SVol, dest)
		if !nonDegenerate(g, rec.StencilAxes) {
			continue
		}
		reg(NewStencil4(Interpolant, structured.SVol, dest, assembler.InterpolantCoefs4()))
	}
	utils.Logger().Debug("operators built",
		zap.Stringer("dim", g.Dim), zap.Int("count", db.Len()), zap.Error(err))
	return
}

// BuildFromConfig validates cfg and builds its operators into db.
func BuildFromConfig(cfg config.GridConfig, db *OperatorDatabase) (g structured.Grid, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	if g, err = cfg.Grid(); err != nil {
		return
	}
	err = BuildStencils(g, db, cfg.VolumeLocations()...)
	return
}

func hasScalarVolume(vols []structured.Location) bool {
	for _, v := range vols {
		if v == structured.SVol {
			return true
		}
	}
	return false
}

func nonDegenerate(g structured.Grid, axes []structured.Axis) bool {
	for _, a := range axes {
		if g.Dim[a] <= 1 {
			return false
		}
	}
	return true
}

func area(g structured.Grid, normal structured.Axis) float64 {
	ar := 1.
	for _, a := range structured.Axes {
		if a != normal {
			ar *= g.Spacing(a)
		}
	}
	return ar
}

func volume(g structured.Grid) float64 {
	return g.Spacing(structured.XAxis) * g.Spacing(structured.YAxis) * g.Spacing(structured.ZAxis)
}
