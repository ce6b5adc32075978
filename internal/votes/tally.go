package votes

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CandidateCode derives the short code a candidate's results are stored
// under: the lowercased first letter of every name token.
// "Hillary Clinton" becomes "hc".
func CandidateCode(name string) string {
	lower := cases.Lower(language.Und).String(name)

	var b strings.Builder
	for _, token := range strings.Fields(lower) {
		r, _ := utf8.DecodeRuneInString(token)
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeFIPS renders a county identifier as a plain decimal integer, so
// "01001" and "1001" compare equal. It reports false when id is not numeric.
func NormalizeFIPS(id string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return strconv.Itoa(n), true
}

// Candidate holds one candidate's result in a county.
type Candidate struct {
	Votes int
	Pct   float64
}

// Tally is the folded result for one county.
type Tally struct {
	FIPS       string
	TotalVotes int
	// Candidates is keyed by CandidateCode.
	Candidates map[string]Candidate
	// MaxPct is the larger of the two compared candidates' pct. Set by
	// Table.Finalize.
	MaxPct float64
	// Incomplete is set when one of the compared candidates has no row for
	// this county; the missing pct counts as 0.
	Incomplete bool
}

func newTally(fips string, totalVotes int) *Tally {
	return &Tally{
		FIPS:       fips,
		TotalVotes: totalVotes,
		Candidates: make(map[string]Candidate),
	}
}

// Pct returns the pct recorded for a candidate code.
func (t *Tally) Pct(code string) (float64, bool) {
	c, ok := t.Candidates[code]
	return c.Pct, ok
}

// Votes returns the votes recorded for a candidate code.
func (t *Tally) Votes(code string) (int, bool) {
	c, ok := t.Candidates[code]
	return c.Votes, ok
}

// finalize computes MaxPct over the two compared candidates.
func (t *Tally) finalize(left, right string) {
	lp, lok := t.Pct(left)
	rp, rok := t.Pct(right)
	t.Incomplete = !lok || !rok
	t.MaxPct = max(lp, rp)
}
