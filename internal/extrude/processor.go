package extrude

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ctessum/geom"
	"github.com/leapstack-labs/votestack/internal/geo"
	"github.com/leapstack-labs/votestack/internal/placement"
)

// Config configures a Processor.
type Config struct {
	// Projector maps geographic coordinates to the planar model system.
	Projector *geo.Projector
	// BiasScale converts a horizontal bias fraction into projected units.
	BiasScale float64
	// AnchorPrecision is the pole of inaccessibility precision, in source
	// coordinate units.
	AnchorPrecision float64
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Processor positions and extrudes the polygons of one county at a time.
type Processor struct {
	cfg    Config
	logger *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(cfg Config) (*Processor, error) {
	if cfg.Projector == nil {
		return nil, errors.New("projector is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{cfg: cfg, logger: logger}, nil
}

// Offset returns the translation that moves poly's anchor to the planar
// origin and then shifts it sideways by the county's bias.
func (p *Processor) Offset(poly geom.Polygon, m placement.Model) (dx, dy float64, err error) {
	anchor := geo.PoleOfInaccessibility(poly, p.cfg.AnchorPrecision)
	projected, err := p.cfg.Projector.Point(anchor)
	if err != nil {
		return 0, 0, err
	}
	dx = -projected.X + m.HorizontalBias*p.cfg.BiasScale
	dy = -projected.Y + m.OffsetY
	return dx, dy, nil
}

// Solid builds the slab for one geographic polygon of a county. It returns
// ErrDegenerate, unwrapped, when there is nothing to print.
func (p *Processor) Solid(fips string, part int, poly geom.Polygon, m placement.Model) (*Solid, error) {
	if m.Thickness() <= 0 {
		return nil, ErrDegenerate
	}

	dx, dy, err := p.Offset(poly, m)
	if err != nil {
		return nil, fmt.Errorf("county %s part %d: %w", fips, part, err)
	}

	planar, err := p.cfg.Projector.Polygon(poly)
	if err != nil {
		return nil, fmt.Errorf("county %s part %d: %w", fips, part, err)
	}

	tris, err := Extrude(planar, dx, dy, m.Start, m.End)
	if err != nil {
		if errors.Is(err, ErrDegenerate) {
			return nil, ErrDegenerate
		}
		return nil, fmt.Errorf("county %s part %d: %w", fips, part, err)
	}

	return &Solid{FIPS: fips, Part: part, Triangles: tris}, nil
}

// Solids extrudes every polygon of a county, skipping degenerate ones.
func (p *Processor) Solids(fips string, polys []geom.Polygon, m placement.Model) ([]*Solid, error) {
	solids := make([]*Solid, 0, len(polys))
	for i, poly := range polys {
		s, err := p.Solid(fips, i, poly, m)
		if errors.Is(err, ErrDegenerate) {
			p.logger.Debug("skipping degenerate polygon", "fips", fips, "part", i)
			continue
		}
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
	return solids, nil
}
