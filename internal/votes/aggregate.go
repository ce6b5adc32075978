package votes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config configures an Aggregator.
type Config struct {
	// LeftCandidate and RightCandidate are the codes compared by Finalize.
	LeftCandidate  string
	RightCandidate string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Stats summarises one aggregation pass.
type Stats struct {
	Rows       int
	Skipped    int
	Tallies    int
	Incomplete int
}

// Aggregator folds Records into a Table.
type Aggregator struct {
	cfg    Config
	logger *slog.Logger
	table  *Table
	stats  Stats
}

// NewAggregator creates an Aggregator with an empty table.
func NewAggregator(cfg Config) *Aggregator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{cfg: cfg, logger: logger, table: NewTable()}
}

// Add folds one row. Rows carrying the sentinel are skipped and reported
// as not added.
func (a *Aggregator) Add(r Record) bool {
	a.stats.Rows++
	if !r.Valid() {
		a.stats.Skipped++
		a.logger.Debug("skipping row", "fips", r.FIPS, "county", r.County, "candidate", r.Candidate)
		return false
	}
	a.table.add(r)
	return true
}

// Finish finalizes every tally and returns the table. The aggregator must
// not be used afterwards.
func (a *Aggregator) Finish() (*Table, Stats) {
	a.stats.Incomplete = a.table.Finalize(a.cfg.LeftCandidate, a.cfg.RightCandidate)
	a.stats.Tallies = a.table.Len()
	if a.stats.Incomplete > 0 {
		a.logger.Warn("counties missing a compared candidate",
			"count", a.stats.Incomplete,
			"left", a.cfg.LeftCandidate,
			"right", a.cfg.RightCandidate)
	}
	return a.table, a.stats
}

// Aggregate reads every row from r and returns the finalized table.
func Aggregate(ctx context.Context, r io.Reader, cfg Config) (*Table, Stats, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, Stats{}, err
	}

	agg := NewAggregator(cfg)
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, agg.stats, err
		}
		agg.Add(rec)
	}

	table, stats := agg.Finish()
	agg.logger.DebugContext(ctx, "aggregated votes", "rows", stats.Rows, "counties", stats.Tallies)
	return table, stats, nil
}

// AggregateFile opens path and aggregates it.
func AggregateFile(ctx context.Context, path string, cfg Config) (*Table, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open results file: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, stats, err := Aggregate(ctx, f, cfg)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, stats, nil
}
