// Package placement assigns every county a vertical slab of the model and a
// horizontal bias.
//
// Counties are ordered by landslide strength, strongest first, and stacked
// into one of two columns: the left column holds counties won by the left
// candidate together with counties nobody won a majority in, the right
// column holds counties won by the right candidate. Each county's slab is as
// thick as its total vote count divided by the thickness divisor.
package placement

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/votestack/internal/votes"
)

// MajorityThreshold is the pct a candidate needs to win a county outright.
const MajorityThreshold = 0.5

// ErrInvalidTotal is returned for a county whose total vote count cannot be
// stacked.
var ErrInvalidTotal = errors.New("invalid total votes")

// Bucket classifies a county for stacking.
type Bucket int

// Buckets in the order they are checked.
const (
	BelowMajority Bucket = iota
	Left
	Right
)

func (b Bucket) String() string {
	switch b {
	case BelowMajority:
		return "below-majority"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("bucket(%d)", int(b))
}

// Model is a county's placement.
type Model struct {
	Bucket Bucket
	// HorizontalBias is the signed winning margin over 50%, positive when
	// the left candidate leads. Zero for below-majority counties.
	HorizontalBias float64
	// RawStart and RawEnd are the extent in votes along the county's column.
	RawStart int
	RawEnd   int
	// Start and End are the extent in model units.
	Start float64
	End   float64
	// OffsetY is reserved and always zero.
	OffsetY float64
}

// Thickness returns the slab height in model units.
func (m Model) Thickness() float64 {
	return m.End - m.Start
}

// Entry pairs a tally with its placement.
type Entry struct {
	Tally *votes.Tally
	Model Model
}

// Config configures the planner.
type Config struct {
	LeftCandidate  string
	RightCandidate string
	// Divisor converts votes into model units.
	Divisor float64
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Plan is the placement of every county in a table.
type Plan struct {
	table   *votes.Table
	entries []*Entry
	byFIPS  map[string]*Entry

	// LeftVotes and RightVotes are the final heights of each column in votes.
	LeftVotes  int
	RightVotes int
}

// New places every tally in table. Placement is deterministic: tallies are
// sorted by descending MaxPct, ties keeping the table's first-seen order.
func New(table *votes.Table, cfg Config) (*Plan, error) {
	if cfg.Divisor <= 0 {
		return nil, fmt.Errorf("thickness divisor must be positive, got %v", cfg.Divisor)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tallies := table.Tallies()
	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].MaxPct > tallies[j].MaxPct
	})

	p := &Plan{
		table:   table,
		entries: make([]*Entry, 0, len(tallies)),
		byFIPS:  make(map[string]*Entry, len(tallies)),
	}

	for _, tally := range tallies {
		if tally.TotalVotes < 0 {
			return nil, fmt.Errorf("county %s: %w: %d", tally.FIPS, ErrInvalidTotal, tally.TotalVotes)
		}

		m := classify(tally, cfg.LeftCandidate, cfg.RightCandidate)

		column := &p.LeftVotes
		if m.Bucket == Right {
			column = &p.RightVotes
		}
		m.RawStart = *column
		*column += tally.TotalVotes
		m.RawEnd = *column

		m.Start = float64(m.RawStart) / cfg.Divisor
		m.End = float64(m.RawEnd) / cfg.Divisor

		entry := &Entry{Tally: tally, Model: m}
		p.entries = append(p.entries, entry)
		p.byFIPS[tally.FIPS] = entry
	}

	logger.Debug("placed counties",
		"counties", len(p.entries),
		"left_votes", p.LeftVotes,
		"right_votes", p.RightVotes)

	return p, nil
}

// classify picks the bucket and horizontal bias of a tally. The extent is
// filled in by the caller.
func classify(t *votes.Tally, left, right string) Model {
	leftPct, _ := t.Pct(left)
	rightPct, _ := t.Pct(right)

	sign := -1.0
	if leftPct > rightPct {
		sign = 1.0
	}

	switch {
	case t.MaxPct < MajorityThreshold:
		return Model{Bucket: BelowMajority}
	case leftPct < rightPct:
		return Model{Bucket: Right, HorizontalBias: (t.MaxPct - MajorityThreshold) * sign}
	default:
		return Model{Bucket: Left, HorizontalBias: (t.MaxPct - MajorityThreshold) * sign}
	}
}

// Entries returns the placed counties in stacking order.
func (p *Plan) Entries() []*Entry {
	return p.entries
}

// Len returns the number of placed counties.
func (p *Plan) Len() int {
	return len(p.entries)
}

// Lookup finds the placement for a county identifier. Zero-padded
// identifiers match their unpadded form.
func (p *Plan) Lookup(fips string) (*Entry, bool) {
	tally, ok := p.table.Get(fips)
	if !ok {
		return nil, false
	}
	entry, ok := p.byFIPS[tally.FIPS]
	return entry, ok
}

// Counts returns the number of counties in each bucket.
func (p *Plan) Counts() map[Bucket]int {
	counts := map[Bucket]int{BelowMajority: 0, Left: 0, Right: 0}
	for _, e := range p.entries {
		counts[e.Model.Bucket]++
	}
	return counts
}
