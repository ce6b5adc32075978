package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	intconfig "github.com/leapstack-labs/votestack/internal/config"
)

// renderRows writes rows under header in the given output format.
func renderRows(w io.Writer, format string, header []string, rows [][]any) error {
	if format == intconfig.OutputJSON {
		return renderJSON(w, header, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	switch format {
	case intconfig.OutputMarkdown:
		t.RenderMarkdown()
	case intconfig.OutputCSV:
		t.RenderCSV()
	default:
		if len(rows) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			return nil
		}
		t.Render()
	}
	return nil
}

func renderJSON(w io.Writer, header []string, rows [][]any) error {
	results := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		results = append(results, m)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
