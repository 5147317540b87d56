package stencil

import (
	"math"
	"testing"

	"github.com/notargets/FVGrid/assembler"
	"github.com/notargets/FVGrid/config"
	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/nebo"
	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func withTestLogger(t *testing.T) {
	prev := utils.SetLogger(zaptest.NewLogger(t))
	t.Cleanup(func() { utils.SetLogger(prev) })
}

func TestPoints(t *testing.T) {
	pts, err := Stencil2Points(structured.SVol, structured.SSurfX)
	require.NoError(t, err)
	assert.Equal(t, []structured.IntVec{{-1, 0, 0}, {0, 0, 0}}, pts)

	pts, err = Stencil2Points(structured.SSurfY, structured.SVol)
	require.NoError(t, err)
	assert.Equal(t, []structured.IntVec{{0, 0, 0}, {0, 1, 0}}, pts)

	pts, err = Stencil2Points(structured.XVol, structured.XSurfX)
	require.NoError(t, err)
	assert.Equal(t, []structured.IntVec{{0, 0, 0}, {1, 0, 0}}, pts)

	pts, err = Stencil4Points(structured.SVol, structured.YSurfZ)
	require.NoError(t, err)
	assert.Equal(t, []structured.IntVec{{0, -1, -1}, {0, 0, -1}, {0, -1, 0}, {0, 0, 0}}, pts)

	_, err = Stencil2Points(structured.SVol, structured.XSurfY)
	assert.ErrorIs(t, err, ErrPointCount)
	_, err = Stencil4Points(structured.SVol, structured.SSurfX)
	assert.ErrorIs(t, err, ErrPointCount)
	_, err = Stencil2Points(structured.XSurfY, structured.ZVol)
	assert.ErrorIs(t, err, structured.ErrUnsupportedPair)

	assert.Len(t, BoxFilter3DPoints(), 27)
	assert.Len(t, BoxFilter2DXYPoints(), 9)
	assert.Len(t, BoxFilter2DXZPoints(), 9)
	assert.Len(t, BoxFilter2DYZPoints(), 9)
	assert.Len(t, BoxFilter1DXPoints(), 3)
	assert.Len(t, BoxFilter1DYPoints(), 3)
	assert.Contains(t, BoxFilter1DZPoints(), structured.IntVec{0, 0, 1})
	assert.Equal(t, []structured.IntVec{{0, -1, 0}, {0, 1, 0}}, FDPoints(structured.YAxis))
	assert.Equal(t, []structured.IntVec{{0, 0, -1}, {}, {0, 0, 1}}, FD2Points(structured.ZAxis))
	assert.Equal(t, []structured.IntVec{{}}, NullPoints())
}

func TestInterpolateVolumeToFaces1D(t *testing.T) {
	withTestLogger(t)
	tests := []struct {
		name  string
		plusX bool
		faces int
	}{
		{"physical plus face", true, 9},
		{"no physical plus face", false, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := structured.NewGrid(structured.IntVec{8, 1, 1}, [3]float64{1, 1, 1}, [3]bool{tt.plusX, false, false})
			require.NoError(t, err)
			db := NewOperatorDatabase()
			require.NoError(t, BuildStencils(g, db, structured.SVol))

			op, err := db.Retrieve(Interpolant, structured.SVol, structured.SSurfX)
			require.NoError(t, err)

			vol := field.New(structured.SVol, g.Window(structured.SVol))
			require.Equal(t, 10, vol.Size())
			vol.Each(func(ijk structured.IntVec, _ float64) {
				vol.Set(ijk, float64(ijk[0]*ijk[0])+1)
			})
			face := field.New(structured.SSurfX, g.Window(structured.SSurfX))
			require.NoError(t, op.ApplyInterior(vol, face))

			var got []float64
			face.EachInterior(func(ijk structured.IntVec, v float64) {
				got = append(got, v)
				lo := vol.At(ijk.Sub(structured.Unit(structured.XAxis)))
				hi := vol.At(ijk)
				assert.Equal(t, 0.5*(lo+hi), v)
			})
			assert.Len(t, got, tt.faces)
		})
	}
}

// laplacian builds div(grad f) for f = fn(x) on n cells and returns the
// relative interior error against exact.
func laplacian(t *testing.T, n int, fn, exact func(x float64) float64) float64 {
	g, err := structured.NewGrid(structured.IntVec{n, 1, 1}, [3]float64{1, 1, 1}, [3]bool{})
	require.NoError(t, err)
	db := NewOperatorDatabase()
	require.NoError(t, BuildStencils(g, db, structured.SVol))
	grad, err := db.Retrieve(Gradient, structured.SVol, structured.SSurfX)
	require.NoError(t, err)
	div, err := db.Retrieve(Divergence, structured.SSurfX, structured.SVol)
	require.NoError(t, err)

	x := field.New(structured.SVol, g.Window(structured.SVol))
	require.NoError(t, x.SetCoord(g, structured.XAxis))
	f := field.New(structured.SVol, x.Window())
	want := field.New(structured.SVol, x.Window())
	x.Each(func(ijk structured.IntVec, v float64) {
		f.Set(ijk, fn(v))
		want.Set(ijk, exact(v))
	})

	flux := field.New(structured.SSurfX, g.Window(structured.SSurfX))
	lap := field.New(structured.SVol, x.Window())
	require.NoError(t, grad.Apply(f, flux))
	require.NoError(t, div.ApplyInterior(flux, lap))

	fused := field.New(structured.SVol, x.Window())
	require.NoError(t, nebo.InteriorAssign(fused, div.Of(grad.Of(nebo.F(f)))))
	lap.EachInterior(func(ijk structured.IntVec, v float64) {
		assert.InDelta(t, v, fused.At(ijk), 1e-9)
	})

	e, err := field.InteriorNorm(lap, want)
	require.NoError(t, err)
	return e
}

func TestGradDivLinearIsExact(t *testing.T) {
	e := laplacian(t, 16, func(x float64) float64 { return x }, func(float64) float64 { return 0 })
	assert.InDelta(t, 0, e, 1e-9)
}

func TestGradDivConvergence(t *testing.T) {
	fn := func(x float64) float64 { return math.Sin(math.Pi * x) }
	exact := func(x float64) float64 { return -math.Pi * math.Pi * math.Sin(math.Pi*x) }
	var errs []float64
	for _, n := range []int{16, 32, 64} {
		errs = append(errs, laplacian(t, n, fn, exact))
	}
	for i := 1; i < len(errs); i++ {
		ratio := errs[i-1] / errs[i]
		t.Logf("error %g -> %g ratio %.3f", errs[i-1], errs[i], ratio)
		assert.InDelta(t, 4.0, ratio, 0.5, "second order refinement")
	}
}

func TestFiniteDifference(t *testing.T) {
	dim := structured.IntVec{1, 10, 1}
	g, err := structured.NewGrid(dim, [3]float64{1, 2, 1}, [3]bool{})
	require.NoError(t, err)
	h := g.Spacing(structured.YAxis)
	y := field.New(structured.SVol, g.Window(structured.SVol))
	require.NoError(t, y.SetCoord(g, structured.YAxis))
	f := field.New(structured.SVol, y.Window())
	require.NoError(t, nebo.Assign(f, nebo.Square(nebo.F(y))))

	d1 := field.New(structured.SVol, y.Window())
	d2 := field.New(structured.SVol, y.Window())
	fd, err := NewFDStencil(structured.SVol, structured.YAxis, h)
	require.NoError(t, err)
	fd2, err := NewFD2Stencil(structured.SVol, structured.YAxis, h)
	require.NoError(t, err)
	require.NoError(t, fd.ApplyInterior(f, d1))
	require.NoError(t, fd2.ApplyInterior(f, d2))
	d1.EachInterior(func(ijk structured.IntVec, v float64) {
		assert.InDelta(t, 2*y.At(ijk), v, 1e-10)
		assert.InDelta(t, 2.0, d2.At(ijk), 1e-9)
	})
}

func TestDerivativeStencilErrors(t *testing.T) {
	tests := []struct {
		name string
		dir  structured.Axis
		h    float64
		want error
	}{
		{"no axis", structured.NoAxis, 1, ErrBadAxis},
		{"axis past z", structured.Axis(3), 1, ErrBadAxis},
		{"zero spacing", structured.XAxis, 0, ErrBadSpacing},
		{"negative spacing", structured.ZAxis, -0.5, ErrBadSpacing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFDStencil(structured.SVol, tt.dir, tt.h)
			assert.ErrorIs(t, err, tt.want)
			_, err = NewFD2Stencil(structured.SVol, tt.dir, tt.h)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBoxFilterOfConstant(t *testing.T) {
	dim := structured.IntVec{4, 5, 3}
	src := field.NewOnGrid(structured.SVol, dim, [3]bool{})
	dest := field.NewOnGrid(structured.SVol, dim, [3]bool{})
	require.NoError(t, src.Fill(2.5))
	require.NoError(t, dest.Fill(-1))
	for _, pts := range [][]structured.IntVec{
		BoxFilter3DPoints(), BoxFilter2DXYPoints(), BoxFilter2DYZPoints(), BoxFilter1DZPoints(),
	} {
		op, err := NewBoxFilter(structured.SVol, pts)
		require.NoError(t, err)
		assert.Equal(t, BoxFilter, op.Kind)
		require.NoError(t, op.ApplyInterior(src, dest))
		dest.EachInterior(func(ijk structured.IntVec, v float64) {
			assert.InDelta(t, 2.5, v, 1e-14)
		})
	}
	// ghost corners were never written
	assert.Equal(t, -1.0, dest.At(structured.IntVec{}))
}

func TestSumAndNullStencils(t *testing.T) {
	dim := structured.IntVec{4, 4, 1}
	src := field.NewOnGrid(structured.SVol, dim, [3]bool{})
	require.NoError(t, src.Fill(1))
	dest := field.NewOnGrid(structured.SVol, dim, [3]bool{})
	sum, err := NewSumStencil(structured.SVol, structured.SVol, BoxFilter2DXYPoints())
	require.NoError(t, err)
	require.NoError(t, sum.Apply(src, dest))
	assert.Equal(t, 9.0, dest.At(structured.IntVec{2, 2, 0}))
	assert.Equal(t, 0.0, dest.At(structured.IntVec{0, 0, 0}), "corner is skipped")

	null, err := NewNullStencil(Interpolant, structured.SVol, structured.XSurfX, 3)
	require.NoError(t, err)
	xs := field.NewOnGrid(structured.XSurfX, dim, [3]bool{})
	require.NoError(t, null.Apply(src, xs))
	xs.Each(func(_ structured.IntVec, v float64) {
		assert.Equal(t, 3.0, v)
	})
	_, err = NewNullStencil(Interpolant, structured.SVol, structured.SSurfX, 1)
	assert.ErrorIs(t, err, ErrPointCount)

	_, err = NewAverageStencil(structured.SVol, structured.SVol, nil)
	assert.ErrorIs(t, err, ErrPointCount)
	_, err = NewStencil4(Interpolant, structured.SVol, structured.ZSurfY, []float64{1})
	assert.ErrorIs(t, err, ErrPointCount)
}

// The lazy stencil and the sparse row form of every pair operator must
// agree row by row, including which rows they skip.
func TestOperatorMatchesAssembler(t *testing.T) {
	withTestLogger(t)
	for _, bc := range [][3]bool{{}, {true, true, true}} {
		g, err := structured.NewGrid(structured.IntVec{4, 3, 5}, [3]float64{1, 1, 1}, bc)
		require.NoError(t, err)
		db := NewOperatorDatabase()
		require.NoError(t, BuildStencils(g, db))
		require.Equal(t, 66, db.Len())

		for _, op := range db.Operators() {
			a, err := op.Assembler(g.Dim, bc)
			require.NoError(t, err, "%s", op)

			src := field.New(op.Src, g.Window(op.Src))
			src.Each(func(ijk structured.IntVec, _ float64) {
				src.Set(ijk, math.Cos(float64(ijk[0]+7*ijk[1]+31*ijk[2])))
			})
			dest := field.New(op.Dest, g.Window(op.Dest))
			require.NoError(t, dest.Fill(math.Inf(1)))
			require.NoError(t, op.Apply(src, dest))

			y := assembler.Apply(a, src.Values())
			vals := dest.Values()
			for row := 0; row < a.NumRows(); row++ {
				if a.RowEntries(row) == nil {
					assert.True(t, math.IsInf(vals[row], 1), "%s row %d should be skipped", op, row)
					continue
				}
				assert.InDelta(t, y[row], vals[row], 1e-12, "%s row %d", op, row)
			}
		}
	}
}

func TestOperatorWithoutAssembler(t *testing.T) {
	op, err := NewFDStencil(structured.SVol, structured.XAxis, 1)
	require.NoError(t, err)
	_, err = op.Assembler(structured.IntVec{4, 4, 4}, [3]bool{})
	assert.ErrorIs(t, err, ErrNotAssemblable)
	sum, err := NewSumStencil(structured.SVol, structured.XSurfY, BoxFilter1DXPoints())
	require.NoError(t, err)
	_, err = sum.Assembler(structured.IntVec{4, 4, 4}, [3]bool{})
	assert.ErrorIs(t, err, ErrNotAssemblable)
}

func TestDatabase(t *testing.T) {
	db := NewOperatorDatabase()
	op, err := NewStencil2(Gradient, structured.SVol, structured.SSurfX, -1, 1)
	require.NoError(t, err)
	require.NoError(t, db.Register(op))
	assert.ErrorIs(t, db.Register(op), ErrDuplicateOperator)
	got, err := db.Retrieve(Gradient, structured.SVol, structured.SSurfX)
	require.NoError(t, err)
	assert.Same(t, op, got)
	_, err = db.Retrieve(Divergence, structured.SSurfX, structured.SVol)
	assert.ErrorIs(t, err, ErrOperatorNotFound)
}

func TestBuildFromConfig(t *testing.T) {
	withTestLogger(t)
	cfg, err := config.Parse([]byte("extent: [8, 1, 1]\nlength: [2, 1, 1]\nplus_faces: [true, false, false]\n"))
	require.NoError(t, err)
	db := NewOperatorDatabase()
	g, err := BuildFromConfig(cfg, db)
	require.NoError(t, err)
	assert.Equal(t, 20, db.Len())
	assert.InDelta(t, 0.25, g.Spacing(structured.XAxis), 1e-15)

	grad, err := db.Retrieve(Gradient, structured.SVol, structured.SSurfX)
	require.NoError(t, err)
	assert.Equal(t, []float64{-4, 4}, grad.Coefs)
	_, err = db.Retrieve(Gradient, structured.SVol, structured.SSurfY)
	assert.ErrorIs(t, err, ErrOperatorNotFound)

	_, err = BuildFromConfig(config.GridConfig{}, NewOperatorDatabase())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
