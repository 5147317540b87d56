package device

import (
	"errors"
	"fmt"

	"github.com/notargets/FVGrid/utils"
	"github.com/notargets/gocca"
	"go.uber.org/zap"
)

var ErrNoDevice = errors.New("no OCCA backend available")

// Backends lists the property strings tried by Create, most parallel first.
var Backends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// Create returns the first backend that initialises.
func Create() (*gocca.OCCADevice, error) {
	var errs []error
	for _, props := range Backends {
		device, err := gocca.NewDevice(props)
		if err == nil {
			utils.Logger().Debug("created device", zap.String("mode", device.Mode()))
			return device, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", props, err))
	}
	return nil, fmt.Errorf("%w: %w", ErrNoDevice, errors.Join(errs...))
}
