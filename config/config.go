// Package config reads grid descriptions from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/notargets/FVGrid/structured"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid grid configuration")

// GridConfig describes a uniform structured grid and the volume families to
// build operators for.
//
//	extent: [32, 16, 1]
//	length: [1.0, 0.5, 1.0]
//	plus_faces: [true, true, false]
//	volumes: [SVol, XVol]
type GridConfig struct {
	Extent    [3]int     `yaml:"extent"`
	Length    [3]float64 `yaml:"length"`
	PlusFaces [3]bool    `yaml:"plus_faces"`
	// Ghost, when set, must match the ghost count of the volume locations.
	Ghost   int      `yaml:"ghost,omitempty"`
	Volumes []string `yaml:"volumes,omitempty"`
}

// Validate checks the configuration and fills defaults.
func (c *GridConfig) Validate() error {
	for a := 0; a < 3; a++ {
		if c.Extent[a] < 1 {
			return fmt.Errorf("extent[%d] = %d: %w", a, c.Extent[a], ErrInvalidConfig)
		}
		if c.Length[a] <= 0 {
			return fmt.Errorf("length[%d] = %g: %w", a, c.Length[a], ErrInvalidConfig)
		}
	}
	if ng := structured.SVol.Ghost(); c.Ghost != 0 && c.Ghost != ng {
		return fmt.Errorf("ghost %d, supported %d: %w", c.Ghost, ng, ErrInvalidConfig)
	}
	if len(c.Volumes) == 0 {
		c.Volumes = []string{"SVol", "XVol", "YVol", "ZVol"}
	}
	for _, name := range c.Volumes {
		loc, err := structured.ParseLocation(name)
		if err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
		if loc.IsSurface() || loc == structured.Point {
			return fmt.Errorf("%s is not a volume: %w", name, ErrInvalidConfig)
		}
	}
	return nil
}

// VolumeLocations returns the configured volume families.
func (c *GridConfig) VolumeLocations() (locs []structured.Location) {
	for _, name := range c.Volumes {
		if loc, err := structured.ParseLocation(name); err == nil {
			locs = append(locs, loc)
		}
	}
	return
}

// Grid builds the metric provider described by c.
func (c *GridConfig) Grid() (structured.Grid, error) {
	return structured.NewGrid(
		structured.IntVec(c.Extent), c.Length, c.PlusFaces)
}

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (c GridConfig, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("empty document: %w", ErrInvalidConfig)
		} else {
			err = fmt.Errorf("decode grid config: %w", err)
		}
		return
	}
	err = c.Validate()
	return
}

// Load reads and parses the grid configuration at path.
func Load(path string) (c GridConfig, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read grid config %s: %w", path, err)
		return
	}
	if c, err = Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}
	return
}
