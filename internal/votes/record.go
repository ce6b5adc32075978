// Package votes reads county level election results and folds them into one
// tally per county.
package votes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sentinel marks a missing value in the results file.
const Sentinel = "NA"

// Column names read from the results header.
const (
	ColumnFIPS       = "fips"
	ColumnCounty     = "county"
	ColumnCandidate  = "cand"
	ColumnVotes      = "votes"
	ColumnTotalVotes = "total_votes"
	ColumnPct        = "pct"
)

var requiredColumns = []string{
	ColumnFIPS, ColumnCounty, ColumnCandidate, ColumnVotes, ColumnTotalVotes, ColumnPct,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Record is one row of the results file.
type Record struct {
	FIPS       string
	County     string
	Candidate  string
	Votes      int
	TotalVotes int
	Pct        float64
}

// Valid reports whether the row names a county and a candidate.
func (r Record) Valid() bool {
	return r.FIPS != Sentinel && r.County != Sentinel && r.Candidate != Sentinel
}

// Reader decodes Records from a delimited file with a header row.
// Extra columns are ignored.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader reads the header from r and returns a Reader positioned at the
// first data row.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty results file: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	return &Reader{csv: cr, columns: columns}, nil
}

// Next returns the next row. It returns io.EOF once the file is exhausted.
// Rows carrying the sentinel are returned without their numeric fields
// parsed; check Valid before using them.
func (r *Reader) Next() (Record, error) {
	row, err := r.csv.Read()
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		FIPS:      r.field(row, ColumnFIPS),
		County:    r.field(row, ColumnCounty),
		Candidate: r.field(row, ColumnCandidate),
	}
	if !rec.Valid() {
		return rec, nil
	}

	line, _ := r.csv.FieldPos(r.columns[ColumnFIPS])
	if rec.Votes, err = strconv.Atoi(r.field(row, ColumnVotes)); err != nil {
		return rec, fmt.Errorf("line %d: invalid votes: %w", line, err)
	}
	if rec.TotalVotes, err = strconv.Atoi(r.field(row, ColumnTotalVotes)); err != nil {
		return rec, fmt.Errorf("line %d: invalid total_votes: %w", line, err)
	}
	if rec.Pct, err = strconv.ParseFloat(r.field(row, ColumnPct), 64); err != nil {
		return rec, fmt.Errorf("line %d: invalid pct: %w", line, err)
	}

	return rec, nil
}

func (r *Reader) field(row []string, name string) string {
	return strings.TrimSpace(row[r.columns[name]])
}
