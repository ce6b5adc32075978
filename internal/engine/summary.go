package engine

import (
	"github.com/leapstack-labs/votestack/internal/placement"
	"github.com/leapstack-labs/votestack/internal/votes"
)

// ShapeStats counts what happened to the boundary records of a build.
type ShapeStats struct {
	Read      int
	Joined    int
	Unmatched int
	// Degenerate counts polygons of joined counties that produced no solid.
	Degenerate int
	Solids     int
}

// Summary describes a finished build.
type Summary struct {
	Votes      votes.Stats
	Buckets    map[placement.Bucket]int
	LeftVotes  int
	RightVotes int
	Shapes     ShapeStats
	Triangles  int
	OutputPath string
}
