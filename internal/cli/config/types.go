// Package config loads the votestack CLI configuration.
//
// Values are layered, highest precedence first: command-line flags,
// VOTESTACK_* environment variables, votestack.yaml, built-in defaults.
package config

import (
	intconfig "github.com/leapstack-labs/votestack/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	VotesPath        string  `koanf:"votes_path"`
	ShapesPath       string  `koanf:"shapes_path"`
	OutputPath       string  `koanf:"output_path"`
	IDField          string  `koanf:"id_field"`
	LeftCandidate    string  `koanf:"left_candidate"`
	RightCandidate   string  `koanf:"right_candidate"`
	ThicknessDivisor float64 `koanf:"thickness_divisor"`
	BiasScale        float64 `koanf:"bias_scale"`
	AnchorPrecision  float64 `koanf:"anchor_precision"`
	SourceProj       string  `koanf:"source_proj"`
	TargetProj       string  `koanf:"target_proj"`
	Verbose          bool    `koanf:"verbose"`
	OutputFormat     string  `koanf:"output"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Config file names searched for in the working directory.
var configFileNames = []string{"votestack.yaml", "votestack.yml"}

// EnvPrefix prefixes every environment variable read.
const EnvPrefix = "VOTESTACK_"

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"votes_path":        intconfig.DefaultVotesPath,
		"shapes_path":       intconfig.DefaultShapesPath,
		"output_path":       intconfig.DefaultOutputPath,
		"id_field":          intconfig.DefaultIDField,
		"left_candidate":    intconfig.DefaultLeftCandidate,
		"right_candidate":   intconfig.DefaultRightCandidate,
		"thickness_divisor": intconfig.DefaultThicknessDivisor,
		"bias_scale":        intconfig.DefaultBiasScale,
		"anchor_precision":  intconfig.DefaultAnchorPrecision,
		"source_proj":       "",
		"target_proj":       intconfig.WebMercator,
		"verbose":           false,
		"output":            intconfig.DefaultOutput,
	}
}
