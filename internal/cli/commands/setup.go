package commands

import (
	"log/slog"

	"github.com/leapstack-labs/votestack/internal/cli/config"
	intconfig "github.com/leapstack-labs/votestack/internal/config"
	"github.com/leapstack-labs/votestack/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext from the loaded configuration
// and the logger stored on the command context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: eng,
	}, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise the defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		VotesPath:        intconfig.DefaultVotesPath,
		ShapesPath:       intconfig.DefaultShapesPath,
		OutputPath:       intconfig.DefaultOutputPath,
		IDField:          intconfig.DefaultIDField,
		LeftCandidate:    intconfig.DefaultLeftCandidate,
		RightCandidate:   intconfig.DefaultRightCandidate,
		ThicknessDivisor: intconfig.DefaultThicknessDivisor,
		BiasScale:        intconfig.DefaultBiasScale,
		AnchorPrecision:  intconfig.DefaultAnchorPrecision,
		TargetProj:       intconfig.WebMercator,
		OutputFormat:     intconfig.DefaultOutput,
	}
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	return engine.New(engine.Config{
		VotesPath:        cfg.VotesPath,
		ShapesPath:       cfg.ShapesPath,
		OutputPath:       cfg.OutputPath,
		IDField:          cfg.IDField,
		LeftCandidate:    cfg.LeftCandidate,
		RightCandidate:   cfg.RightCandidate,
		ThicknessDivisor: cfg.ThicknessDivisor,
		BiasScale:        cfg.BiasScale,
		AnchorPrecision:  cfg.AnchorPrecision,
		SourceProj:       cfg.SourceProj,
		TargetProj:       cfg.TargetProj,
		Logger:           logger,
	})
}
