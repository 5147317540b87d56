package assembler

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/notargets/FVGrid/structured"
	"github.com/notargets/FVGrid/utils"
	"go.uber.org/zap"
)

// Product is the assembler of outer applied after inner, e.g. a divergence
// of a gradient. The composition is formed once as a sparse matrix product.
type Product struct {
	outer, inner Assembler
	csr          *sparse.CSR
	// broken marks outer rows that need an inner row with no entries.
	broken []bool
}

func NewProduct(outer, inner Assembler) (*Product, error) {
	if outer.NumCols() != inner.NumRows() {
		return nil, fmt.Errorf("product of %d columns with %d rows: %w",
			outer.NumCols(), inner.NumRows(), ErrStencilShape)
	}
	p := &Product{outer: outer, inner: inner, csr: &sparse.CSR{}}
	innerCSR := ToCSR(inner)
	p.csr.Mul(ToCSR(outer), innerCSR)

	emptyInner := make([]bool, inner.NumRows())
	raw := innerCSR.RawMatrix()
	for r := range emptyInner {
		emptyInner[r] = raw.Indptr[r] == raw.Indptr[r+1]
	}
	p.broken = make([]bool, outer.NumRows())
	for row := range p.broken {
		for _, e := range outer.RowEntries(row) {
			if emptyInner[e.Col] {
				p.broken[row] = true
				break
			}
		}
	}
	utils.Logger().Debug("product assembler",
		zap.Int("rows", p.NumRows()), zap.Int("cols", p.NumCols()), zap.Int("nnz", p.csr.NNZ()))
	return p, nil
}

func (p *Product) NumRows() int { return p.outer.NumRows() }

func (p *Product) NumCols() int { return p.inner.NumCols() }

// RowEntries lists the composed row by ascending column. A row is empty
// when any of the inner rows it needs is empty.
func (p *Product) RowEntries(row int) []Entry {
	if row < 0 || row >= len(p.broken) || p.broken[row] {
		return nil
	}
	raw := p.csr.RawMatrix()
	lo, hi := raw.Indptr[row], raw.Indptr[row+1]
	if lo == hi {
		return nil
	}
	entries := make([]Entry, 0, hi-lo)
	for k := lo; k < hi; k++ {
		entries = append(entries, Entry{Col: raw.Ind[k], Coef: raw.Data[k]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Col < entries[j].Col })
	return entries
}

func (p *Product) GhostRows() structured.IndexSet { return p.outer.GhostRows() }

func (p *Product) GhostCols() structured.IndexSet { return p.inner.GhostCols() }
