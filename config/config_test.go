package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/FVGrid/structured"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
extent: [32, 16, 1]
length: [1.0, 0.5, 1.0]
plus_faces: [true, true, false]
volumes: [SVol, XVol]
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, [3]int{32, 16, 1}, c.Extent)
	assert.Equal(t, [3]bool{true, true, false}, c.PlusFaces)
	assert.Equal(t, []structured.Location{structured.SVol, structured.XVol}, c.VolumeLocations())

	g, err := c.Grid()
	require.NoError(t, err)
	assert.InDelta(t, 1.0/32, g.Spacing(structured.XAxis), 1e-15)
	assert.InDelta(t, 0.5/16, g.Spacing(structured.YAxis), 1e-15)
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("extent: [4, 4, 4]\nlength: [1, 1, 1]\n"))
	require.NoError(t, err)
	assert.Len(t, c.VolumeLocations(), 4)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown field", "extent: [4, 4, 4]\nlength: [1, 1, 1]\nspacing: 3\n"},
		{"zero extent", "extent: [0, 4, 4]\nlength: [1, 1, 1]\n"},
		{"missing length", "extent: [4, 4, 4]\n"},
		{"bad ghost", "extent: [4, 4, 4]\nlength: [1, 1, 1]\nghost: 2\n"},
		{"surface volume", "extent: [4, 4, 4]\nlength: [1, 1, 1]\nvolumes: [SSurfX]\n"},
		{"unknown volume", "extent: [4, 4, 4]\nlength: [1, 1, 1]\nvolumes: [QVol]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
	_, err := Parse([]byte("extent: [0, 4, 4]\nlength: [1, 1, 1]\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, c.Extent[0])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
