package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// County is a boundary record written by WriteCountyShapefile.
type County struct {
	GEOID   string
	Polygon geom.Polygon
}

type countyRecord struct {
	geom.Polygon
	GEOID string
}

// WriteCountyShapefile writes counties to name.shp in dir, with a GEOID
// attribute, and returns the .shp path.
func WriteCountyShapefile(t testing.TB, dir, name string, counties ...County) string {
	t.Helper()
	path := filepath.Join(dir, name+".shp")

	enc, err := shp.NewEncoder(path, countyRecord{})
	if err != nil {
		t.Fatalf("failed to create shapefile: %v", err)
	}
	for _, c := range counties {
		if err := enc.Encode(countyRecord{Polygon: c.Polygon, GEOID: c.GEOID}); err != nil {
			t.Fatalf("failed to encode county %s: %v", c.GEOID, err)
		}
	}
	enc.Close()
	return path
}

// Square returns a closed counter-clockwise square ring.
func Square(x0, y0, size float64) geom.Path {
	return geom.Path{
		{X: x0, Y: y0},
		{X: x0 + size, Y: y0},
		{X: x0 + size, Y: y0 + size},
		{X: x0, Y: y0 + size},
		{X: x0, Y: y0},
	}
}

// Reverse returns ring with its winding flipped.
func Reverse(ring geom.Path) geom.Path {
	out := make(geom.Path, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}
