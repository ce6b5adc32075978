package votes

// Table maps county identifiers to tallies. It is filled during aggregation
// and handed, read-only, to the placement and shape phases.
type Table struct {
	byFIPS     map[string]*Tally
	normalized map[string]*Tally
	order      []*Tally
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byFIPS:     make(map[string]*Tally),
		normalized: make(map[string]*Tally),
	}
}

// Len returns the number of counties in the table.
func (t *Table) Len() int {
	return len(t.order)
}

// Tallies returns the tallies in the order their counties were first seen.
func (t *Table) Tallies() []*Tally {
	out := make([]*Tally, len(t.order))
	copy(out, t.order)
	return out
}

// Get looks a county up by its identifier, falling back to the integer
// normalized form so zero-padded identifiers still match.
func (t *Table) Get(fips string) (*Tally, bool) {
	if tally, ok := t.byFIPS[fips]; ok {
		return tally, true
	}
	if key, ok := NormalizeFIPS(fips); ok {
		tally, ok := t.normalized[key]
		return tally, ok
	}
	return nil, false
}

// add folds one valid row into the table. total_votes is taken from the
// first row of a county only.
func (t *Table) add(r Record) *Tally {
	tally, ok := t.byFIPS[r.FIPS]
	if !ok {
		tally = newTally(r.FIPS, r.TotalVotes)
		t.byFIPS[r.FIPS] = tally
		if key, ok := NormalizeFIPS(r.FIPS); ok {
			if _, taken := t.normalized[key]; !taken {
				t.normalized[key] = tally
			}
		}
		t.order = append(t.order, tally)
	}

	tally.Candidates[CandidateCode(r.Candidate)] = Candidate{Votes: r.Votes, Pct: r.Pct}
	return tally
}

// Finalize computes MaxPct for every tally over the left and right candidate
// codes and returns how many tallies lacked one of them.
func (t *Table) Finalize(left, right string) int {
	incomplete := 0
	for _, tally := range t.order {
		tally.finalize(left, right)
		if tally.Incomplete {
			incomplete++
		}
	}
	return incomplete
}
