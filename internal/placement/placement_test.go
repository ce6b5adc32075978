package placement

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/leapstack-labs/votestack/internal/testutil"
	"github.com/leapstack-labs/votestack/internal/votes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type county struct {
	fips  string
	total int
	hc    float64
	dt    float64
}

func buildTable(t *testing.T, counties ...county) *votes.Table {
	t.Helper()
	agg := votes.NewAggregator(votes.Config{LeftCandidate: "hc", RightCandidate: "dt"})
	for _, c := range counties {
		agg.Add(votes.Record{FIPS: c.fips, County: "c" + c.fips, Candidate: "Hillary Clinton",
			Votes: int(c.hc * float64(c.total)), TotalVotes: c.total, Pct: c.hc})
		agg.Add(votes.Record{FIPS: c.fips, County: "c" + c.fips, Candidate: "Donald Trump",
			Votes: int(c.dt * float64(c.total)), TotalVotes: c.total, Pct: c.dt})
	}
	table, _ := agg.Finish()
	return table
}

func newPlan(t *testing.T, table *votes.Table) *Plan {
	t.Helper()
	p, err := New(table, Config{
		LeftCandidate:  "hc",
		RightCandidate: "dt",
		Divisor:        30,
		Logger:         testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return p
}

func TestNew_SingleLeftCounty(t *testing.T) {
	p := newPlan(t, buildTable(t, county{"001", 1000, 0.6, 0.4}))

	entry, ok := p.Lookup("001")
	require.True(t, ok)

	m := entry.Model
	assert.Equal(t, Left, m.Bucket)
	assert.InDelta(t, 0.1, m.HorizontalBias, 1e-12)
	assert.Equal(t, 0, m.RawStart)
	assert.Equal(t, 1000, m.RawEnd)
	assert.Equal(t, 0.0, m.Start)
	assert.InDelta(t, 33.333333, m.End, 1e-6)
	assert.Equal(t, 0.0, m.OffsetY)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		c        county
		wantB    Bucket
		wantBias float64
	}{
		{"left majority", county{"1", 10, 0.7, 0.3}, Left, 0.2},
		{"right majority", county{"1", 10, 0.35, 0.65}, Right, -0.15},
		{"left plurality", county{"1", 10, 0.48, 0.46}, BelowMajority, 0},
		{"right plurality", county{"1", 10, 0.44, 0.49}, BelowMajority, 0},
		{"exact half each goes left with negative sign", county{"1", 10, 0.5, 0.5}, Left, 0},
		{"exact majority", county{"1", 10, 0.5, 0.45}, Left, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buildTable(t, tt.c)
			tally, _ := table.Get("1")
			m := classify(tally, "hc", "dt")
			assert.Equal(t, tt.wantB, m.Bucket)
			assert.InDelta(t, tt.wantBias, m.HorizontalBias, 1e-12)
		})
	}
}

func TestClassify_IncompleteCountsMissingAsZero(t *testing.T) {
	agg := votes.NewAggregator(votes.Config{LeftCandidate: "hc", RightCandidate: "dt"})
	agg.Add(votes.Record{FIPS: "9", County: "x", Candidate: "Donald Trump", Votes: 60, TotalVotes: 100, Pct: 0.6})
	table, _ := agg.Finish()

	p := newPlan(t, table)
	entry, ok := p.Lookup("9")
	require.True(t, ok)
	assert.Equal(t, Right, entry.Model.Bucket)
	assert.InDelta(t, -0.1, entry.Model.HorizontalBias, 1e-12)
}

func TestNew_OrderAndColumns(t *testing.T) {
	p := newPlan(t, buildTable(t,
		county{"a", 100, 0.55, 0.45},
		county{"b", 200, 0.20, 0.80},
		county{"c", 300, 0.47, 0.45},
		county{"d", 400, 0.90, 0.10},
		county{"e", 500, 0.30, 0.60},
	))

	var order []string
	for _, e := range p.Entries() {
		order = append(order, e.Tally.FIPS)
	}
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, order)

	get := func(id string) Model {
		e, ok := p.Lookup(id)
		require.True(t, ok)
		return e.Model
	}

	// left column: d, a, c
	assert.Equal(t, [2]int{0, 400}, [2]int{get("d").RawStart, get("d").RawEnd})
	assert.Equal(t, [2]int{400, 500}, [2]int{get("a").RawStart, get("a").RawEnd})
	assert.Equal(t, [2]int{500, 800}, [2]int{get("c").RawStart, get("c").RawEnd})
	// right column: b, e
	assert.Equal(t, [2]int{0, 200}, [2]int{get("b").RawStart, get("b").RawEnd})
	assert.Equal(t, [2]int{200, 700}, [2]int{get("e").RawStart, get("e").RawEnd})

	assert.Equal(t, 800, p.LeftVotes)
	assert.Equal(t, 700, p.RightVotes)
	assert.Equal(t, map[Bucket]int{BelowMajority: 1, Left: 2, Right: 2}, p.Counts())
}

func TestNew_ExtentsTileEachColumn(t *testing.T) {
	var counties []county
	for i := 0; i < 60; i++ {
		hc := float64((i*37)%100) / 100
		counties = append(counties, county{fmt.Sprint(i + 1), 50 + i*13, hc, 1 - hc - 0.02})
	}
	p := newPlan(t, buildTable(t, counties...))

	columns := map[bool][]Model{}
	sums := map[bool]int{}
	for _, e := range p.Entries() {
		m := e.Model
		assert.Equal(t, e.Tally.TotalVotes, m.RawEnd-m.RawStart)
		assert.InDelta(t, float64(e.Tally.TotalVotes)/30, m.Thickness(), 1e-9)

		right := m.Bucket == Right
		columns[right] = append(columns[right], m)
		sums[right] += e.Tally.TotalVotes
	}

	for right, models := range columns {
		sort.Slice(models, func(i, j int) bool { return models[i].RawStart < models[j].RawStart })
		pos := 0
		for _, m := range models {
			assert.Equal(t, pos, m.RawStart, "gap or overlap in column right=%v", right)
			pos = m.RawEnd
		}
		assert.Equal(t, sums[right], pos)
	}
}

func TestNew_StableOnTies(t *testing.T) {
	build := func() *Plan {
		return newPlan(t, buildTable(t,
			county{"x", 10, 0.6, 0.4},
			county{"y", 20, 0.4, 0.6},
			county{"z", 30, 0.6, 0.4},
			county{"w", 40, 0.6, 0.3},
		))
	}

	first, second := build(), build()
	var ids []string
	for i, e := range first.Entries() {
		ids = append(ids, e.Tally.FIPS)
		assert.Equal(t, e.Model, second.Entries()[i].Model)
	}
	assert.Equal(t, []string{"x", "y", "z", "w"}, ids)
}

func TestNew_InvalidTotal(t *testing.T) {
	_, err := New(buildTable(t, county{"1", -5, 0.6, 0.4}), Config{LeftCandidate: "hc", RightCandidate: "dt", Divisor: 30})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTotal))
}

func TestNew_InvalidDivisor(t *testing.T) {
	_, err := New(buildTable(t), Config{Divisor: 0})
	require.Error(t, err)
}

func TestPlan_LookupMiss(t *testing.T) {
	p := newPlan(t, buildTable(t, county{"1001", 10, 0.6, 0.4}))

	_, ok := p.Lookup("99999")
	assert.False(t, ok)

	e, ok := p.Lookup("01001")
	require.True(t, ok)
	assert.Equal(t, "1001", e.Tally.FIPS)
}

func TestBucket_String(t *testing.T) {
	assert.Equal(t, "below-majority", BelowMajority.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "bucket(7)", Bucket(7).String())
}
