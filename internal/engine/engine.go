// Package engine runs a build: aggregate the county results and place every
// county, then stream the county boundaries through the extruder into the
// output mesh.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ctessum/geom/proj"
	"github.com/leapstack-labs/votestack/internal/config"
	"github.com/leapstack-labs/votestack/internal/extrude"
	"github.com/leapstack-labs/votestack/internal/geo"
	"github.com/leapstack-labs/votestack/internal/mesh"
	"github.com/leapstack-labs/votestack/internal/placement"
	"github.com/leapstack-labs/votestack/internal/shapes"
	"github.com/leapstack-labs/votestack/internal/votes"
)

// Config holds engine configuration.
type Config struct {
	// VotesPath is the county results CSV
	VotesPath string
	// ShapesPath is the county boundary shapefile
	ShapesPath string
	// OutputPath is where the STL file is written
	OutputPath string
	// IDField is the shapefile attribute holding the county FIPS code
	IDField string
	// LeftCandidate and RightCandidate are the compared candidate codes
	LeftCandidate  string
	RightCandidate string
	// ThicknessDivisor converts votes into model units
	ThicknessDivisor float64
	// BiasScale converts horizontal bias into projected units
	BiasScale float64
	// AnchorPrecision is the pole of inaccessibility precision
	AnchorPrecision float64
	// SourceProj is the boundary spatial reference. Empty means the
	// shapefile's .prj, falling back to NAD83.
	SourceProj string
	// TargetProj is the planar spatial reference the model is built in
	TargetProj string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine runs builds for one configuration.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	openShapes func(path, idField string) (shapes.Source, error)
}

// New creates an engine, filling unset numeric and naming options with
// their defaults.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.IDField == "" {
		cfg.IDField = config.DefaultIDField
	}
	if cfg.LeftCandidate == "" {
		cfg.LeftCandidate = config.DefaultLeftCandidate
	}
	if cfg.RightCandidate == "" {
		cfg.RightCandidate = config.DefaultRightCandidate
	}
	if cfg.ThicknessDivisor == 0 {
		cfg.ThicknessDivisor = config.DefaultThicknessDivisor
	}
	if cfg.BiasScale == 0 {
		cfg.BiasScale = config.DefaultBiasScale
	}
	if cfg.AnchorPrecision == 0 {
		cfg.AnchorPrecision = config.DefaultAnchorPrecision
	}
	if cfg.TargetProj == "" {
		cfg.TargetProj = config.WebMercator
	}

	switch {
	case cfg.VotesPath == "":
		return nil, errors.New("votes path is required")
	case cfg.ThicknessDivisor < 0:
		return nil, fmt.Errorf("thickness divisor must be positive, got %v", cfg.ThicknessDivisor)
	case cfg.AnchorPrecision < 0:
		return nil, fmt.Errorf("anchor precision must be positive, got %v", cfg.AnchorPrecision)
	case cfg.LeftCandidate == cfg.RightCandidate:
		return nil, fmt.Errorf("left and right candidates must differ, both are %q", cfg.LeftCandidate)
	}

	logger.Debug("initializing engine", "votes", cfg.VotesPath, "shapes", cfg.ShapesPath)

	return &Engine{
		cfg:    cfg,
		logger: logger,
		openShapes: func(path, idField string) (shapes.Source, error) {
			return shapes.OpenShapefile(path, idField)
		},
	}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Plan runs the first phase: it aggregates the results file and places
// every county.
func (e *Engine) Plan(ctx context.Context) (*placement.Plan, votes.Stats, error) {
	table, stats, err := votes.AggregateFile(ctx, e.cfg.VotesPath, votes.Config{
		LeftCandidate:  e.cfg.LeftCandidate,
		RightCandidate: e.cfg.RightCandidate,
		Logger:         e.logger,
	})
	if err != nil {
		return nil, stats, err
	}

	plan, err := placement.New(table, placement.Config{
		LeftCandidate:  e.cfg.LeftCandidate,
		RightCandidate: e.cfg.RightCandidate,
		Divisor:        e.cfg.ThicknessDivisor,
		Logger:         e.logger,
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to place counties: %w", err)
	}

	e.logger.InfoContext(ctx, "placed counties",
		"rows", stats.Rows,
		"skipped_rows", stats.Skipped,
		"counties", plan.Len(),
		"incomplete", stats.Incomplete)

	return plan, stats, nil
}

// Render runs the second phase: every shape in src that joins a placed
// county is extruded into w. Shapes without a placement are skipped. Each
// shape is fully written before the next is read.
func (e *Engine) Render(ctx context.Context, plan *placement.Plan, src shapes.Source, w *mesh.Writer) (ShapeStats, error) {
	var stats ShapeStats

	proc, err := e.newProcessor(src)
	if err != nil {
		return stats, err
	}

	for src.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		s := src.Shape()
		stats.Read++

		id, ok := votes.NormalizeFIPS(s.ID)
		if !ok {
			stats.Unmatched++
			e.logger.DebugContext(ctx, "skipping shape without numeric id", "id", s.ID)
			continue
		}
		entry, ok := plan.Lookup(id)
		if !ok {
			stats.Unmatched++
			e.logger.DebugContext(ctx, "skipping shape without results", "id", s.ID)
			continue
		}
		stats.Joined++

		polys, err := shapes.Polygons(s.Geometry)
		if err != nil {
			return stats, fmt.Errorf("county %s: %w", s.ID, err)
		}
		solids, err := proc.Solids(entry.Tally.FIPS, polys, entry.Model)
		if err != nil {
			return stats, err
		}
		stats.Degenerate += len(polys) - len(solids)

		for _, solid := range solids {
			if err := w.Write(solid); err != nil {
				return stats, err
			}
			stats.Solids++
		}
	}
	if err := src.Err(); err != nil {
		return stats, err
	}

	e.logger.InfoContext(ctx, "extruded counties",
		"shapes", stats.Read,
		"joined", stats.Joined,
		"unmatched", stats.Unmatched,
		"solids", stats.Solids)

	return stats, nil
}

// Build runs both phases and writes the output mesh.
func (e *Engine) Build(ctx context.Context) (*Summary, error) {
	if e.cfg.ShapesPath == "" {
		return nil, errors.New("shapes path is required")
	}
	if e.cfg.OutputPath == "" {
		return nil, errors.New("output path is required")
	}

	plan, voteStats, err := e.Plan(ctx)
	if err != nil {
		return nil, err
	}

	src, err := e.openShapes(e.cfg.ShapesPath, e.cfg.IDField)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	w := mesh.NewWriter(e.logger)
	shapeStats, err := e.Render(ctx, plan, src, w)
	if err != nil {
		return nil, err
	}
	if err := w.Finish(e.cfg.OutputPath); err != nil {
		return nil, err
	}

	return &Summary{
		Votes:      voteStats,
		Buckets:    plan.Counts(),
		LeftVotes:  plan.LeftVotes,
		RightVotes: plan.RightVotes,
		Shapes:     shapeStats,
		Triangles:  w.Triangles(),
		OutputPath: e.cfg.OutputPath,
	}, nil
}

// newProcessor picks the source reference: the configured one, else the
// source's own, else NAD83.
func (e *Engine) newProcessor(src shapes.Source) (*extrude.Processor, error) {
	dst, err := proj.Parse(e.cfg.TargetProj)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target projection: %w", err)
	}

	srcDef := e.cfg.SourceProj
	if srcDef == "" {
		srcDef = config.NAD83
		if withSR, ok := src.(interface{ SR() (*proj.SR, error) }); ok {
			if sr, err := withSR.SR(); err == nil {
				return e.processorFor(sr, dst)
			}
			e.logger.Debug("no usable .prj, assuming NAD83")
		}
	}

	sr, err := proj.Parse(srcDef)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source projection: %w", err)
	}
	return e.processorFor(sr, dst)
}

func (e *Engine) processorFor(src, dst *proj.SR) (*extrude.Processor, error) {
	projector, err := geo.NewProjectorSR(src, dst)
	if err != nil {
		return nil, err
	}
	return extrude.NewProcessor(extrude.Config{
		Projector:       projector,
		BiasScale:       e.cfg.BiasScale,
		AnchorPrecision: e.cfg.AnchorPrecision,
		Logger:          e.logger,
	})
}
