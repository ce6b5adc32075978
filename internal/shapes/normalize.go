package shapes

import (
	"fmt"

	"github.com/ctessum/geom"
)

// Polygons splits a boundary geometry into simple polygons, each an outer
// ring followed by the holes it contains.
//
// Shapefile polygon records keep every ring of a multi-part county in one
// record, so rings are regrouped by winding: rings wound like the first
// ring are outer boundaries, the others are holes assigned to the outer ring
// that contains them. A MultiPolygon is regrouped member by member.
func Polygons(g geom.Geom) ([]geom.Polygon, error) {
	switch t := g.(type) {
	case geom.Polygon:
		return groupRings(t), nil
	case *geom.Polygon:
		return groupRings(*t), nil
	case geom.MultiPolygon:
		return multi(t), nil
	case *geom.MultiPolygon:
		return multi(*t), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func multi(mp geom.MultiPolygon) []geom.Polygon {
	var out []geom.Polygon
	for _, p := range mp {
		out = append(out, groupRings(p)...)
	}
	return out
}

func groupRings(p geom.Polygon) []geom.Polygon {
	var outerSign float64
	var outers []geom.Polygon
	var holes []geom.Path

	for _, ring := range p {
		a := SignedArea(ring)
		if a == 0 {
			continue
		}
		if outerSign == 0 {
			outerSign = a
		}
		if (a > 0) == (outerSign > 0) {
			outers = append(outers, geom.Polygon{ring})
		} else {
			holes = append(holes, ring)
		}
	}

	for _, hole := range holes {
		placed := false
		for i := range outers {
			if hole[0].Within(outers[i]) != geom.Outside {
				outers[i] = append(outers[i], hole)
				placed = true
				break
			}
		}
		if !placed {
			// An orphaned hole is most likely an outer ring with the wrong
			// winding.
			outers = append(outers, geom.Polygon{hole})
		}
	}

	return outers
}

// SignedArea is the shoelace area of a ring, positive when the ring winds
// counter-clockwise.
func SignedArea(ring geom.Path) float64 {
	var sum float64
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}
