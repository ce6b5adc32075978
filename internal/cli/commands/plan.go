package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planHeader = []string{"rank", "fips", "total_votes", "max_pct", "bucket", "bias", "start", "end"}

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where every county is placed",
		Long: `Aggregate the results file and place every county without reading
the boundaries or writing a model.

Counties are listed in stacking order with their bucket, horizontal bias
and vertical extent in model units.`,
		Example: `  votestack plan
  votestack plan --limit 20 -o markdown
  votestack plan -o csv > plan.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the first n counties (0 for all)")

	return cmd
}

func runPlan(cmd *cobra.Command, limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	plan, _, err := cc.Engine.Plan(cmd.Context())
	if err != nil {
		return err
	}

	entries := plan.Entries()
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	rows := make([][]any, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []any{
			i + 1,
			e.Tally.FIPS,
			e.Tally.TotalVotes,
			fmt.Sprintf("%.4f", e.Tally.MaxPct),
			e.Model.Bucket.String(),
			e.Model.HorizontalBias,
			fmt.Sprintf("%.2f", e.Model.Start),
			fmt.Sprintf("%.2f", e.Model.End),
		})
	}

	return renderRows(cmd.OutOrStdout(), cc.Cfg.OutputFormat, planHeader, rows)
}
