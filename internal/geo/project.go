// Package geo converts county geometry between spatial references and finds
// interior anchor points.
package geo

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// Projector reprojects points and polygons from one spatial reference into
// another.
type Projector struct {
	trans proj.Transformer
}

// NewProjector parses the source and destination references, given as
// PROJ.4 or WKT strings.
func NewProjector(src, dst string) (*Projector, error) {
	srcSR, err := proj.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source projection: %w", err)
	}
	dstSR, err := proj.Parse(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target projection: %w", err)
	}
	return NewProjectorSR(srcSR, dstSR)
}

// NewProjectorSR builds a Projector from parsed references, such as the one
// read from a shapefile's .prj sidecar.
func NewProjectorSR(src, dst *proj.SR) (*Projector, error) {
	trans, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create transform: %w", err)
	}
	return &Projector{trans: trans}, nil
}

// Point reprojects a single point.
func (p *Projector) Point(pt geom.Point) (geom.Point, error) {
	x, y, err := p.trans(pt.X, pt.Y)
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to project (%g, %g): %w", pt.X, pt.Y, err)
	}
	return geom.Point{X: x, Y: y}, nil
}

// Polygon reprojects every vertex of every ring, keeping ring order.
func (p *Projector) Polygon(poly geom.Polygon) (geom.Polygon, error) {
	out := make(geom.Polygon, len(poly))
	for i, ring := range poly {
		projected := make(geom.Path, len(ring))
		for j, pt := range ring {
			q, err := p.Point(pt)
			if err != nil {
				return nil, err
			}
			projected[j] = q
		}
		out[i] = projected
	}
	return out, nil
}
