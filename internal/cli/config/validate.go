package config

import (
	"fmt"

	intconfig "github.com/leapstack-labs/votestack/internal/config"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.VotesPath == "" {
		return fmt.Errorf("votes_path is required")
	}
	if c.ShapesPath == "" {
		return fmt.Errorf("shapes_path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path is required")
	}
	if c.IDField == "" {
		return fmt.Errorf("id_field is required")
	}
	if c.LeftCandidate == "" || c.RightCandidate == "" {
		return fmt.Errorf("left_candidate and right_candidate are required")
	}
	if c.LeftCandidate == c.RightCandidate {
		return fmt.Errorf("left_candidate and right_candidate must differ, both are %q", c.LeftCandidate)
	}
	if c.ThicknessDivisor <= 0 {
		return fmt.Errorf("thickness_divisor must be positive, got %v", c.ThicknessDivisor)
	}
	if c.AnchorPrecision <= 0 {
		return fmt.Errorf("anchor_precision must be positive, got %v", c.AnchorPrecision)
	}
	if c.OutputFormat != "" && !intconfig.ValidOutput(c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want text, markdown, csv or json)", c.OutputFormat)
	}
	return nil
}
