package structured

import "fmt"

// Location tags where on the staggered mesh a field's values live.
type Location uint8

const (
	SVol Location = iota
	SSurfX
	SSurfY
	SSurfZ
	XVol
	XSurfX
	XSurfY
	XSurfZ
	YVol
	YSurfX
	YSurfY
	YSurfZ
	ZVol
	ZSurfX
	ZSurfY
	ZSurfZ
	Point
	numLocations
)

// Traits is the fixed description of a Location.
type Traits struct {
	Name string
	// Offset is the half-cell staggering on each axis, 0 or -1.
	Offset IntVec
	// FaceDir is the face normal for surface locations, NoAxis for volumes.
	FaceDir Axis
	// Volume is the volume family the location belongs to.
	Volume Location
	Ghost  int
}

var traits = [numLocations]Traits{
	SVol:   {"SVol", IntVec{0, 0, 0}, NoAxis, SVol, 1},
	SSurfX: {"SSurfX", IntVec{-1, 0, 0}, XAxis, SVol, 1},
	SSurfY: {"SSurfY", IntVec{0, -1, 0}, YAxis, SVol, 1},
	SSurfZ: {"SSurfZ", IntVec{0, 0, -1}, ZAxis, SVol, 1},
	XVol:   {"XVol", IntVec{-1, 0, 0}, NoAxis, XVol, 1},
	XSurfX: {"XSurfX", IntVec{0, 0, 0}, XAxis, XVol, 1},
	XSurfY: {"XSurfY", IntVec{-1, -1, 0}, YAxis, XVol, 1},
	XSurfZ: {"XSurfZ", IntVec{-1, 0, -1}, ZAxis, XVol, 1},
	YVol:   {"YVol", IntVec{0, -1, 0}, NoAxis, YVol, 1},
	YSurfX: {"YSurfX", IntVec{-1, -1, 0}, XAxis, YVol, 1},
	YSurfY: {"YSurfY", IntVec{0, 0, 0}, YAxis, YVol, 1},
	YSurfZ: {"YSurfZ", IntVec{0, -1, -1}, ZAxis, YVol, 1},
	ZVol:   {"ZVol", IntVec{0, 0, -1}, NoAxis, ZVol, 1},
	ZSurfX: {"ZSurfX", IntVec{-1, 0, -1}, XAxis, ZVol, 1},
	ZSurfY: {"ZSurfY", IntVec{0, -1, -1}, YAxis, ZVol, 1},
	ZSurfZ: {"ZSurfZ", IntVec{0, 0, 0}, ZAxis, ZVol, 1},
	Point:  {"Point", IntVec{0, 0, 0}, NoAxis, Point, 0},
}

// Locations lists every staggered location, volumes before their faces.
var Locations = []Location{
	SVol, SSurfX, SSurfY, SSurfZ,
	XVol, XSurfX, XSurfY, XSurfZ,
	YVol, YSurfX, YSurfY, YSurfZ,
	ZVol, ZSurfX, ZSurfY, ZSurfZ,
	Point,
}

// Volumes lists the four volume families.
var Volumes = []Location{SVol, XVol, YVol, ZVol}

func (l Location) Valid() bool { return l < numLocations }

func (l Location) Traits() Traits {
	if !l.Valid() {
		panic(fmt.Sprintf("invalid location %d", uint8(l)))
	}
	return traits[l]
}

func (l Location) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Location(%d)", uint8(l))
	}
	return traits[l].Name
}

func (l Location) Ghost() int       { return l.Traits().Ghost }
func (l Location) Offset() IntVec   { return l.Traits().Offset }
func (l Location) FaceDir() Axis    { return l.Traits().FaceDir }
func (l Location) Volume() Location { return l.Traits().Volume }

// IsSurface reports whether l is one of the directional face locations.
func (l Location) IsSurface() bool { return l.Traits().FaceDir != NoAxis }

// Surface returns the face location of volume family l normal to dir.
func (l Location) Surface(dir Axis) Location {
	vol := l.Volume()
	if vol == Point || dir == NoAxis {
		panic(fmt.Sprintf("location %s has no %s surface", l, dir))
	}
	return vol + 1 + Location(dir)
}

// ParseLocation maps a location name back to its tag.
func ParseLocation(name string) (Location, error) {
	for _, l := range Locations {
		if traits[l].Name == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown location %q", name)
}
