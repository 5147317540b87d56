package field

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/notargets/FVGrid/structured"
)

var ErrCorrupt = errors.New("corrupt field encoding")

const codecVersion = uint8(1)

type header struct {
	Version   uint8
	Location  uint8
	Mode      uint8
	PlusFaces [3]uint8
	Global    [3]int64
	Offset    [3]int64
	Extent    [3]int64
	IOffset   [3]int64
	IExtent   [3]int64
	NValues   int64
}

func toInt64(v structured.IntVec) [3]int64 { return [3]int64{int64(v[0]), int64(v[1]), int64(v[2])} }

func fromInt64(v [3]int64) structured.IntVec { return structured.IntVec{int(v[0]), int(v[1]), int(v[2])} }

// MarshalBinary encodes the window, interior window and the values of the
// full window in little-endian order.
func (f *Field) MarshalBinary() ([]byte, error) {
	vals, err := f.Gather()
	if err != nil {
		return nil, err
	}
	h := header{
		Version:  codecVersion,
		Location: uint8(f.loc),
		Mode:     uint8(f.mode),
		Global:   toInt64(f.window.Global),
		Offset:   toInt64(f.window.Offset),
		Extent:   toInt64(f.window.Extent),
		IOffset:  toInt64(f.interior.Offset),
		IExtent:  toInt64(f.interior.Extent),
		NValues:  int64(len(vals)),
	}
	for a, p := range f.window.PlusFaces {
		if p {
			h.PlusFaces[a] = 1
		}
	}
	var buf bytes.Buffer
	if err = binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	if err = binary.Write(&buf, binary.LittleEndian, vals); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces f with an owning field decoded from data. The
// result covers the encoded window only; its global extent equals that
// window's extent.
func (f *Field) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("field header: %w", errors.Join(ErrCorrupt, err))
	}
	if h.Version != codecVersion {
		return fmt.Errorf("version %d: %w", h.Version, ErrCorrupt)
	}
	loc := structured.Location(h.Location)
	if !loc.Valid() {
		return fmt.Errorf("location %d: %w", h.Location, ErrCorrupt)
	}
	var plus [3]bool
	for a := range plus {
		plus[a] = h.PlusFaces[a] != 0
	}
	global := fromInt64(h.Global)
	if _, ok := checkedSize(global); !ok {
		return fmt.Errorf("global extent %v: %w", h.Global, ErrCorrupt)
	}
	src, err := structured.NewWindow(global, fromInt64(h.Offset), fromInt64(h.Extent), plus)
	if err != nil {
		return errors.Join(ErrCorrupt, err)
	}
	if h.NValues != int64(src.Size()) || h.NValues > int64(r.Len()/8) {
		return fmt.Errorf("%d values for window of %d: %w", h.NValues, src.Size(), ErrCorrupt)
	}
	// only the encoded window is carried, so the decoded field owns a
	// compact buffer of exactly that window
	w := structured.FullWindow(src.Extent, plus)
	nf := New(loc, w)
	ioff := fromInt64(h.IOffset).Sub(src.Offset)
	if want := fromInt64(h.IExtent); nf.interior.Extent != want || nf.interior.Offset != ioff {
		return fmt.Errorf("interior window %v: %w", want, ErrCorrupt)
	}
	if err = binary.Read(r, binary.LittleEndian, nf.values); err != nil {
		return fmt.Errorf("field values: %w", errors.Join(ErrCorrupt, err))
	}
	*f = *nf
	return nil
}

// checkedSize multiplies the components of v, failing on a non-positive
// component or on overflow.
func checkedSize(v structured.IntVec) (n int, ok bool) {
	n = 1
	for _, x := range v {
		if x <= 0 || n > math.MaxInt/x {
			return 0, false
		}
		n *= x
	}
	return n, true
}

// ToDenseArray copies the full window into a (k,j,i) shaped array.
func (f *Field) ToDenseArray() (*sparse.DenseArray, error) {
	if err := f.checkLocal(); err != nil {
		return nil, err
	}
	ext := f.window.Extent
	a := sparse.ZerosDense(ext[2], ext[1], ext[0])
	eachIn(ext, structured.IntVec{}, func(ijk structured.IntVec) {
		a.Set(f.values[f.window.Flat(ijk)], ijk[2], ijk[1], ijk[0])
	})
	return a, nil
}

// FromDenseArray loads a (k,j,i) shaped array into the full window.
func (f *Field) FromDenseArray(a *sparse.DenseArray) error {
	if err := f.checkLocal(); err != nil {
		return err
	}
	ext := f.window.Extent
	if len(a.Shape) != 3 || a.Shape[0] != ext[2] || a.Shape[1] != ext[1] || a.Shape[2] != ext[0] {
		return fmt.Errorf("array shape %v for extent %v: %w", a.Shape, ext, ErrShapeMismatch)
	}
	eachIn(ext, structured.IntVec{}, func(ijk structured.IntVec) {
		f.values[f.window.Flat(ijk)] = a.Get(ijk[2], ijk[1], ijk[0])
	})
	return nil
}
