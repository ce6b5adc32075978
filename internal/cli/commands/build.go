package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/leapstack-labs/votestack/internal/engine"
	"github.com/leapstack-labs/votestack/internal/placement"
	"github.com/leapstack-labs/votestack/internal/watch"
	"github.com/spf13/cobra"
)

var summaryHeader = []string{"metric", "value"}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var watchInputs bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the county stack model",
		Long: `Aggregate the results file, place every county, extrude the county
boundaries and write the stacked model as binary STL.

Running votestack without a subcommand does the same.`,
		Example: `  votestack build
  votestack build --votes-path results.csv --shapes-path counties.shp --output-path out.stl
  votestack build --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunBuild(cmd, watchInputs)
		},
	}

	cmd.Flags().BoolVarP(&watchInputs, "watch", "w", false, "Rebuild whenever an input file changes")

	return cmd
}

// RunBuild builds the model once, or keeps rebuilding on input changes
// when watching.
func RunBuild(cmd *cobra.Command, watchInputs bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	build := func(ctx context.Context) error {
		summary, err := cc.Engine.Build(ctx)
		if err != nil {
			return err
		}
		return renderRows(cmd.OutOrStdout(), cc.Cfg.OutputFormat, summaryHeader, summaryRows(summary))
	}

	if !watchInputs {
		return build(cmd.Context())
	}

	w, err := watch.New(watch.Config{
		Paths:   []string{cc.Cfg.VotesPath, cc.Cfg.ShapesPath},
		Exclude: []string{cc.Cfg.OutputPath},
		Logger:  cc.Logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cc.Logger.Info("watching inputs, press Ctrl+C to stop")
	return w.Run(ctx, build)
}

func summaryRows(s *engine.Summary) [][]any {
	return [][]any{
		{"rows read", s.Votes.Rows},
		{"rows skipped", s.Votes.Skipped},
		{"counties", s.Votes.Tallies},
		{"incomplete counties", s.Votes.Incomplete},
		{"below-majority counties", s.Buckets[placement.BelowMajority]},
		{"left counties", s.Buckets[placement.Left]},
		{"right counties", s.Buckets[placement.Right]},
		{"left column votes", s.LeftVotes},
		{"right column votes", s.RightVotes},
		{"shapes read", s.Shapes.Read},
		{"shapes joined", s.Shapes.Joined},
		{"shapes unmatched", s.Shapes.Unmatched},
		{"degenerate polygons", s.Shapes.Degenerate},
		{"solids", s.Shapes.Solids},
		{"triangles", s.Triangles},
		{"output", s.OutputPath},
	}
}
