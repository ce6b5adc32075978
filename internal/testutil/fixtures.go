package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ResultsHeader is the header of the county results file.
const ResultsHeader = "fips,county,cand,st,pct_report,votes,total_votes,pct,lead"

// ResultsCSV joins rows under ResultsHeader.
func ResultsCSV(rows ...string) string {
	return ResultsHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

// WriteFile writes content to name inside dir, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
