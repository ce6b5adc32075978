// Package extrude turns county polygons into solid slabs.
package extrude

import (
	"errors"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/leapstack-labs/votestack/internal/shapes"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// ErrDegenerate is returned for a polygon that encloses no area or a slab
// with no thickness.
var ErrDegenerate = errors.New("degenerate solid")

// ErrTriangulation is returned when a cap cannot be triangulated, typically
// because rings touch or cross.
var ErrTriangulation = errors.New("failed to triangulate cap")

// triangulateMesh fills the interior of a closed 2D outline.
var triangulateMesh = model2d.TriangulateMesh

// Solid is one extruded county polygon.
type Solid struct {
	// FIPS is the county the solid belongs to.
	FIPS string
	// Part numbers the polygons of a multi-part county.
	Part      int
	Triangles []*model3d.Triangle
}

// Extrude sweeps poly, translated by (dx, dy), straight up from z0 to z1.
// The first ring is the outline and the rest are holes. The result is
// closed: a bottom cap, a top cap and one wall per ring edge, with
// outward-facing triangles.
func Extrude(poly geom.Polygon, dx, dy, z0, z1 float64) ([]*model3d.Triangle, error) {
	if !(z1 > z0) {
		return nil, ErrDegenerate
	}

	var rings [][]model2d.Coord
	for i, path := range poly {
		ring := cleanRing(path, dx, dy)
		if len(ring) < 3 || shapes.SignedArea(toPath(ring)) == 0 {
			if i == 0 {
				return nil, ErrDegenerate
			}
			continue
		}
		// Outline counter-clockwise, holes clockwise.
		ccw := shapes.SignedArea(toPath(ring)) > 0
		if ccw != (i == 0) {
			reverse(ring)
		}
		rings = append(rings, ring)
	}

	// The triangulator walks outlines clockwise and holes counter-clockwise,
	// the reverse of the wall winding.
	outline := model2d.NewMesh()
	for _, ring := range rings {
		for i := range ring {
			outline.Add(&model2d.Segment{ring[(i+1)%len(ring)], ring[i]})
		}
	}

	caps, err := triangulate(triangulateMesh, outline)
	if err != nil {
		return nil, err
	}

	var tris []*model3d.Triangle
	for _, t := range caps {
		a, b, c := t[0], t[1], t[2]
		if triArea(a, b, c) < 0 {
			b, c = c, b
		}
		// Bottom faces down, top faces up.
		tris = append(tris,
			&model3d.Triangle{lift(a, z0), lift(c, z0), lift(b, z0)},
			&model3d.Triangle{lift(a, z1), lift(b, z1), lift(c, z1)},
		)
	}

	for _, ring := range rings {
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			tris = append(tris,
				&model3d.Triangle{lift(a, z0), lift(b, z0), lift(b, z1)},
				&model3d.Triangle{lift(a, z0), lift(b, z1), lift(a, z1)},
			)
		}
	}

	return tris, nil
}

// triangulate runs fn, turning a panic on malformed rings into
// ErrTriangulation.
func triangulate[T any](fn func(*model2d.Mesh) T, m *model2d.Mesh) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTriangulation, r)
		}
	}()
	return fn(m), nil
}

// cleanRing translates a ring and drops its closing vertex, repeated
// vertices and vertices lying on the line through their neighbours.
func cleanRing(path geom.Path, dx, dy float64) []model2d.Coord {
	ring := make([]model2d.Coord, 0, len(path))
	for _, p := range path {
		c := model2d.XY(p.X+dx, p.Y+dy)
		if n := len(ring); n > 0 && ring[n-1] == c {
			continue
		}
		ring = append(ring, c)
	}
	for len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	return dropCollinear(ring)
}

func dropCollinear(ring []model2d.Coord) []model2d.Coord {
	for changed := true; changed && len(ring) >= 3; {
		changed = false
		for i := 0; i < len(ring) && len(ring) >= 3; i++ {
			prev := ring[(i+len(ring)-1)%len(ring)]
			next := ring[(i+1)%len(ring)]
			if triArea(prev, ring[i], next) == 0 {
				ring = append(ring[:i], ring[i+1:]...)
				changed = true
				i--
			}
		}
	}
	return ring
}

func toPath(ring []model2d.Coord) geom.Path {
	path := make(geom.Path, len(ring))
	for i, c := range ring {
		path[i] = geom.Point{X: c.X, Y: c.Y}
	}
	return path
}

func reverse(ring []model2d.Coord) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

func triArea(a, b, c model2d.Coord) float64 {
	return ((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)) / 2
}

func lift(c model2d.Coord, z float64) model3d.Coord3D {
	return model3d.XYZ(c.X, c.Y, z)
}
