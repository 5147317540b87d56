package assembler

import (
	"testing"

	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/mat"
)

var dim3 = structured.IntVec{4, 3, 5}

func unitCoefs(n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = 1 / float64(n)
	}
	return c
}

// Interior destination rows always find every source point.
func TestInteriorRowsComplete(t *testing.T) {
	for _, bc := range [][3]bool{{}, {true, true, true}} {
		for _, rec := range structured.SupportedPairs() {
			if rec.Src == structured.Point || rec.Dest == structured.Point {
				continue
			}
			s, err := NewStencil(rec.Src, rec.Dest, dim3, bc, unitCoefs(rec.NumPoints()))
			require.NoError(t, err)
			ghosts := s.GhostRows()
			for row := 0; row < s.NumRows(); row++ {
				entries := s.RowEntries(row)
				if ghosts.Contains(row) {
					continue
				}
				if len(entries) != rec.NumPoints() {
					t.Fatalf("%s->%s bc %v row %d: %d entries, want %d",
						rec.Src, rec.Dest, bc, row, len(entries), rec.NumPoints())
				}
				sum := 0.
				for _, e := range entries {
					sum += e.Coef
					assert.Less(t, e.Col, s.NumCols())
				}
				assert.InDelta(t, 1.0, sum, 1e-14)
			}
		}
	}
}

func TestTwoPointColumns(t *testing.T) {
	dim := structured.IntVec{8, 1, 1}
	g, err := NewGradient(structured.SVol, structured.SSurfX, dim, [3]bool{}, GradientCoefs(0.5))
	require.NoError(t, err)
	assert.Equal(t, 10, g.NumRows())
	assert.Equal(t, 10, g.NumCols())
	assert.Nil(t, g.RowEntries(0), "low ghost face")
	assert.Equal(t, []Entry{{3, -2}, {4, 2}}, g.RowEntries(4))
	assert.Nil(t, g.RowEntries(10))

	d, err := NewDivergence(structured.SSurfX, structured.SVol, dim, [3]bool{}, DivergenceCoefs(1, 0.5))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{4, -2}, {5, 2}}, d.RowEntries(4))
	assert.Nil(t, d.RowEntries(9), "high ghost cell has no high face")

	// the plus face row has no cell above it
	dim2 := structured.IntVec{8, 3, 1}
	i2, err := NewInterpolant(structured.SVol, structured.SSurfX, dim2, [3]bool{true, false, false}, InterpolantCoefs())
	require.NoError(t, err)
	row := structured.IJKToFlat(structured.SSurfX, dim2, structured.IntVec{10, 1, 0}, [3]bool{true, false, false})
	assert.Nil(t, i2.RowEntries(row))
	row = structured.IJKToFlat(structured.SSurfX, dim2, structured.IntVec{9, 1, 0}, [3]bool{true, false, false})
	assert.Equal(t, []Entry{{18, 0.5}, {19, 0.5}}, i2.RowEntries(row))
}

func TestFourPointColumns(t *testing.T) {
	dim := structured.IntVec{4, 3, 1}
	s, err := NewStencil(structured.SVol, structured.XSurfY, dim, [3]bool{}, InterpolantCoefs4())
	require.NoError(t, err)
	row := structured.IJKToFlat(structured.XSurfY, dim, structured.IntVec{2, 2, 0}, [3]bool{})
	cols := s.Cols(row)
	// (1,1) (2,1) (1,2) (2,2) in a 6 wide SVol
	assert.Equal(t, []int{7, 8, 13, 14}, cols)
	assert.Nil(t, s.Cols(0))

	one, err := NewStencil(structured.SVol, structured.XSurfX, dim, [3]bool{}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{13, 1}}, one.RowEntries(13))
}

func TestStencilErrors(t *testing.T) {
	dim := structured.IntVec{4, 4, 4}
	_, err := NewStencil(structured.XSurfY, structured.ZVol, dim, [3]bool{}, []float64{1, 1})
	assert.ErrorIs(t, err, structured.ErrUnsupportedPair)
	_, err = NewGradient(structured.SVol, structured.XSurfY, dim, [3]bool{}, GradientCoefs(1))
	assert.ErrorIs(t, err, ErrStencilShape)
	_, err = NewDivergence(structured.SVol, structured.XVol, dim, [3]bool{}, DivergenceCoefs(1, 1))
	assert.ErrorIs(t, err, ErrStencilShape)
	_, err = NewInterpolant(structured.SVol, structured.SSurfZ, dim, [3]bool{}, []float64{1})
	assert.ErrorIs(t, err, ErrCoefCount)
}

func TestGradientOfLinear(t *testing.T) {
	dim := structured.IntVec{6, 4, 1}
	h := 0.25
	g, err := NewGradient(structured.SVol, structured.SSurfY, dim, [3]bool{false, true, false}, GradientCoefs(h))
	require.NoError(t, err)
	x := make([]float64, g.NumCols())
	for col := range x {
		ijk := structured.FlatToIJK(structured.SVol, dim, col, [3]bool{false, true, false})
		x[col] = 3 * h * float64(ijk[1])
	}
	y := Apply(g, x)
	ghosts := g.GhostRows()
	for row, v := range y {
		if !ghosts.Contains(row) {
			assert.InDelta(t, 3.0, v, 1e-13, "row %d", row)
		}
	}

	m := ToDense(g)
	r, c := m.Dims()
	assert.Equal(t, g.NumRows(), r)
	assert.Equal(t, g.NumCols(), c)
	row := structured.IJKToFlat(structured.SSurfY, dim, structured.IntVec{3, 2, 0}, [3]bool{false, true, false})
	for _, e := range g.RowEntries(row) {
		assert.Equal(t, e.Coef, m.At(row, e.Col))
	}
}

func TestRestriction(t *testing.T) {
	r, err := NewRestriction(structured.SVol, structured.IntVec{8, 1, 1}, structured.IntVec{4, 1, 1}, [3]bool{})
	require.NoError(t, err)
	assert.Equal(t, structured.XAxis, r.Axis())
	assert.Equal(t, 6, r.NumRows())
	assert.Equal(t, 10, r.NumCols())

	// interior destination cell 0 is flat row 1, cell 3 is row 4
	assert.Equal(t, []Entry{{1, 1}}, r.RowEntries(1))
	assert.Equal(t, []Entry{{7, 1}}, r.RowEntries(4))
	assert.Equal(t, []Entry{{0, 1}}, r.RowEntries(0))
	assert.Equal(t, []Entry{{9, 1}}, r.RowEntries(5))
	assert.Nil(t, r.RowEntries(6))

	r2, err := NewRestriction(structured.SVol, structured.IntVec{3, 8, 1}, structured.IntVec{3, 2, 1}, [3]bool{})
	require.NoError(t, err)
	row := structured.IJKToFlat(structured.SVol, structured.IntVec{3, 2, 1}, structured.IntVec{2, 2, 0}, [3]bool{})
	want := structured.IJKToFlat(structured.SVol, structured.IntVec{3, 8, 1}, structured.IntVec{2, 5, 0}, [3]bool{})
	assert.Equal(t, want, r2.Col(row))
	assert.Len(t, r2.GhostRows(), 5*4-3*2)
	assert.Len(t, r2.GhostCols(), 5*10-3*8)

	bad := []struct {
		name      string
		src, dest structured.IntVec
	}{
		{"two axes", structured.IntVec{8, 8, 1}, structured.IntVec{4, 4, 1}},
		{"refine", structured.IntVec{4, 1, 1}, structured.IntVec{8, 1, 1}},
		{"same", structured.IntVec{4, 4, 1}, structured.IntVec{4, 4, 1}},
		{"empty", structured.IntVec{4, 1, 1}, structured.IntVec{0, 1, 1}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRestriction(structured.SVol, tt.src, tt.dest, [3]bool{})
			assert.ErrorIs(t, err, ErrInvalidRestriction)
		})
	}
}

func TestScratch(t *testing.T) {
	prev := utils.SetLogger(zaptest.NewLogger(t))
	defer utils.SetLogger(prev)

	s, err := NewScratch(structured.SVol, structured.IntVec{4, 1, 1}, structured.XAxis, [3]bool{})
	require.NoError(t, err)
	assert.Equal(t, 6, s.NumRows())
	assert.Equal(t, []Entry{{0, -1}, {1, -1}}, s.RowEntries(0))
	assert.Equal(t, []Entry{{2, -1}, {3, -1}, {1, -1}}, s.RowEntries(2))
	assert.Equal(t, []Entry{{5, -1}, {4, -1}}, s.RowEntries(5))

	y, err := NewScratch(structured.SVol, structured.IntVec{3, 3, 1}, structured.YAxis, [3]bool{})
	require.NoError(t, err)
	// row 7 is (2,1): neighbours (2,2)=12 and (2,0)=2
	assert.Equal(t, []Entry{{7, -1}, {12, -1}, {2, -1}}, y.RowEntries(7))
	assert.Equal(t, []Entry{{2, -1}, {7, -1}}, y.RowEntries(2))

	flat, err := NewScratch(structured.SVol, structured.IntVec{4, 1, 1}, structured.YAxis, [3]bool{})
	require.NoError(t, err)
	assert.Equal(t, 1, flat.NumRows())
	assert.Equal(t, []Entry{{0, -1}}, flat.RowEntries(0))
	assert.Equal(t, 0, flat.GhostRows().Len())
	assert.Equal(t, 0, flat.GhostCols().Len())
	assert.Equal(t, []int{0, 5}, []int(s.GhostRows()))

	_, err = NewScratch(structured.SVol, structured.IntVec{4, 1, 1}, structured.NoAxis, [3]bool{})
	assert.ErrorIs(t, err, ErrStencilShape)
}

func TestToCSR(t *testing.T) {
	s, err := NewScratch(structured.SVol, structured.IntVec{4, 1, 1}, structured.XAxis, [3]bool{})
	require.NoError(t, err)
	c := ToCSR(s)
	r, cols := c.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 6, cols)
	assert.Equal(t, 16, c.NNZ())
	assert.Equal(t, -1.0, c.At(2, 3))
	assert.Equal(t, 0.0, c.At(2, 4))
}

func TestProduct(t *testing.T) {
	dim := structured.IntVec{6, 1, 1}
	h := 0.5
	g, err := NewGradient(structured.SVol, structured.SSurfX, dim, [3]bool{}, GradientCoefs(h))
	require.NoError(t, err)
	d, err := NewDivergence(structured.SSurfX, structured.SVol, dim, [3]bool{}, DivergenceCoefs(1, h))
	require.NoError(t, err)
	lap, err := NewProduct(d, g)
	require.NoError(t, err)
	assert.Equal(t, 8, lap.NumRows())
	assert.Equal(t, 8, lap.NumCols())
	assert.Equal(t, []Entry{{2, 4}, {3, -8}, {4, 4}}, lap.RowEntries(3))
	// cell 0 has no low face
	assert.Nil(t, lap.RowEntries(0))
	assert.Nil(t, lap.RowEntries(8))

	var want mat.Dense
	want.Mul(ToDense(d), ToDense(g))
	got := ToDense(lap)
	for row := 1; row < 7; row++ {
		assert.Equal(t, want.RawRowView(row), got.RawRowView(row), "row %d", row)
	}

	r, err := NewRestriction(structured.SVol, structured.IntVec{8, 1, 1}, structured.IntVec{4, 1, 1}, [3]bool{})
	require.NoError(t, err)
	_, err = NewProduct(r, g)
	assert.ErrorIs(t, err, ErrStencilShape)
}
