// Package device keeps a copy of a host field in OCCA device memory.
// Transfers are explicit; nothing is synchronised behind the caller.
package device

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/notargets/FVGrid/field"
	"github.com/notargets/FVGrid/utils"
	"github.com/notargets/gocca"
	"go.uber.org/zap"
)

var ErrFreed = errors.New("device memory already freed")

const float64Size = 8

// Mirror pairs a local field with a device buffer of the same window.
type Mirror struct {
	host   *field.Field
	device *gocca.OCCADevice
	mem    *gocca.OCCAMemory
	bytes  int64
}

// NewMirror allocates device memory for f and copies its values over.
func NewMirror(device *gocca.OCCADevice, f *field.Field) (*Mirror, error) {
	if device == nil {
		return nil, fmt.Errorf("nil device: %w", ErrNoDevice)
	}
	if f.Memory() != field.LocalRAM {
		return nil, fmt.Errorf("mirror of %s field: %w", f.Location(), field.ErrUnsupportedMemory)
	}
	if f.Released() {
		return nil, fmt.Errorf("mirror of %s field: %w", f.Location(), field.ErrReleased)
	}
	vals := f.Values()
	if len(vals) == 0 {
		return nil, fmt.Errorf("mirror of empty %s field: %w", f.Location(), field.ErrBufferSize)
	}
	m := &Mirror{host: f, device: device, bytes: int64(len(vals) * float64Size)}
	m.mem = device.Malloc(m.bytes, unsafe.Pointer(&vals[0]), nil)
	if m.mem == nil {
		return nil, fmt.Errorf("allocating %d bytes for %s field", m.bytes, f.Location())
	}
	utils.Logger().Debug("device mirror",
		zap.Stringer("location", f.Location()), zap.Int64("bytes", m.bytes))
	return m, nil
}

func (m *Mirror) Host() *field.Field { return m.host }

func (m *Mirror) Memory() *gocca.OCCAMemory { return m.mem }

// ToDevice copies the host values into device memory.
func (m *Mirror) ToDevice() error {
	vals, err := m.hostValues()
	if err != nil {
		return err
	}
	m.mem.CopyFrom(unsafe.Pointer(&vals[0]), m.bytes)
	utils.Logger().Debug("to device", zap.Stringer("location", m.host.Location()), zap.Int64("bytes", m.bytes))
	return nil
}

// FromDevice copies device memory back into the host values.
func (m *Mirror) FromDevice() error {
	vals, err := m.hostValues()
	if err != nil {
		return err
	}
	m.mem.CopyTo(unsafe.Pointer(&vals[0]), m.bytes)
	utils.Logger().Debug("from device", zap.Stringer("location", m.host.Location()), zap.Int64("bytes", m.bytes))
	return nil
}

func (m *Mirror) hostValues() ([]float64, error) {
	if m.mem == nil {
		return nil, ErrFreed
	}
	if m.host.Released() {
		return nil, fmt.Errorf("host %s field: %w", m.host.Location(), field.ErrReleased)
	}
	return m.host.Values(), nil
}

// DeviceField returns a handle describing the device copy. Host element
// access on it panics and whole-field operations return
// field.ErrUnsupportedMemory.
func (m *Mirror) DeviceField() *field.Field {
	return field.NewDeviceHandle(m.host.Location(), m.host.Window())
}

// Free releases the device buffer. The host field is untouched.
func (m *Mirror) Free() {
	if m.mem == nil {
		return
	}
	m.mem.Free()
	m.mem = nil
}
