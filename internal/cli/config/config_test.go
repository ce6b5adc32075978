package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	intconfig "github.com/leapstack-labs/votestack/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "votestack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("votes-path", "", "")
	flags.String("output-path", "", "")
	flags.Float64("thickness-divisor", 0, "")
	flags.String("left-candidate", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err, "an explicit config file must exist")
	assert.Nil(t, cfg)

	ResetConfig()
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, intconfig.DefaultVotesPath, cfg.VotesPath)
	assert.Equal(t, intconfig.DefaultShapesPath, cfg.ShapesPath)
	assert.Equal(t, intconfig.DefaultOutputPath, cfg.OutputPath)
	assert.Equal(t, "GEOID", cfg.IDField)
	assert.Equal(t, "hc", cfg.LeftCandidate)
	assert.Equal(t, "dt", cfg.RightCandidate)
	assert.Equal(t, 30.0, cfg.ThicknessDivisor)
	assert.Equal(t, 2000000.0, cfg.BiasScale)
	assert.Empty(t, cfg.SourceProj, "empty means the shapefile .prj")
	assert.Equal(t, intconfig.WebMercator, cfg.TargetProj)
	assert.Equal(t, intconfig.OutputText, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileResolvesPaths(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, `votes_path: data/results.csv
shapes_path: /srv/counties.shp
thickness_divisor: 60
left_candidate: gj
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, tmpDir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(tmpDir, "data", "results.csv"), cfg.VotesPath)
	assert.Equal(t, "/srv/counties.shp", cfg.ShapesPath)
	assert.Equal(t, filepath.Join(tmpDir, intconfig.DefaultOutputPath), cfg.OutputPath)
	assert.Equal(t, 60.0, cfg.ThicknessDivisor)
	assert.Equal(t, "gj", cfg.LeftCandidate)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, t.TempDir(), "votes_path: [unterminated\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "votes_path: from-file.csv\nthickness_divisor: 60\n")
	t.Setenv("VOTESTACK_VOTES_PATH", "from-env.csv")

	flags := newFlagSet()
	require.NoError(t, flags.Set("votes-path", "from-flag.csv"))
	require.NoError(t, flags.Set("thickness-divisor", "15"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	// Flag paths stay relative to the working directory.
	assert.Equal(t, "from-flag.csv", cfg.VotesPath)
	assert.Equal(t, 15.0, cfg.ThicknessDivisor)
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "right_candidate: gj\nthickness_divisor: 60\n")
	t.Setenv("VOTESTACK_RIGHT_CANDIDATE", "jb")
	t.Setenv("VOTESTACK_THICKNESS_DIVISOR", "45")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "jb", cfg.RightCandidate)
	assert.Equal(t, 45.0, cfg.ThicknessDivisor)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("VOTESTACK_OUTPUT_PATH", "env.stl")
	t.Setenv("VOTESTACK_VERBOSE", "true")

	// Flags are registered but never set.
	cfg, err := LoadConfig("", newFlagSet())
	require.NoError(t, err)

	assert.Equal(t, "env.stl", cfg.OutputPath)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	ResetConfig()
	flags := newFlagSet()
	require.NoError(t, flags.Set("left-candidate", "dt"))

	_, err := LoadConfig("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Nil(t, GetCurrentConfig())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			VotesPath:        "v.csv",
			ShapesPath:       "c.shp",
			OutputPath:       "out.stl",
			IDField:          "GEOID",
			LeftCandidate:    "hc",
			RightCandidate:   "dt",
			ThicknessDivisor: 30,
			AnchorPrecision:  1,
			OutputFormat:     "text",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty output format", func(c *Config) { c.OutputFormat = "" }, ""},
		{"no votes path", func(c *Config) { c.VotesPath = "" }, "votes_path is required"},
		{"no shapes path", func(c *Config) { c.ShapesPath = "" }, "shapes_path is required"},
		{"no output path", func(c *Config) { c.OutputPath = "" }, "output_path is required"},
		{"no id field", func(c *Config) { c.IDField = "" }, "id_field is required"},
		{"no candidate", func(c *Config) { c.RightCandidate = "" }, "are required"},
		{"same candidates", func(c *Config) { c.RightCandidate = "hc" }, "must differ"},
		{"zero divisor", func(c *Config) { c.ThicknessDivisor = 0 }, "thickness_divisor"},
		{"negative precision", func(c *Config) { c.AnchorPrecision = -1 }, "anchor_precision"},
		{"unknown output", func(c *Config) { c.OutputFormat = "xml" }, "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "missing logger falls back to discard")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	assert.False(t, NewLogger(&Config{}).Enabled(ctx, slog.LevelDebug))
	assert.True(t, NewLogger(&Config{Verbose: true}).Enabled(ctx, slog.LevelDebug))
}
