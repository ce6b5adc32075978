// Package config holds the defaults shared by the CLI and the build engine.
package config

// Default input and output locations, relative to the project root.
const (
	DefaultVotesPath  = "source_data/pres16results.csv"
	DefaultShapesPath = "source_data/cb_2015_us_county_20m/cb_2015_us_county_20m.shp"
	DefaultOutputPath = "bridge.stl"
)

// DefaultIDField is the shapefile attribute holding the county FIPS code.
const DefaultIDField = "GEOID"

// Candidate codes compared when deciding which side of the bridge a county
// leans to. Codes are candidate initials, see votes.CandidateCode.
const (
	DefaultLeftCandidate  = "hc"
	DefaultRightCandidate = "dt"
)

// Model dimensions.
const (
	// DefaultThicknessDivisor converts votes into vertical model units.
	DefaultThicknessDivisor = 30.0
	// DefaultBiasScale converts a horizontal bias fraction into projected metres.
	DefaultBiasScale = 2000000.0
	// DefaultAnchorPrecision is the pole of inaccessibility search precision,
	// in geographic degrees.
	DefaultAnchorPrecision = 1.0
)

// Spatial references, in PROJ.4 syntax.
const (
	// NAD83 is the geographic system of the Census cartographic boundary files.
	NAD83 = "+proj=longlat +datum=NAD83 +no_defs"
	// WebMercator is EPSG:3857.
	WebMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
)

// Output formats understood by the plan command.
const (
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputCSV      = "csv"
	OutputJSON     = "json"
	DefaultOutput  = OutputText
)

// ValidOutput reports whether format is a known plan output format.
func ValidOutput(format string) bool {
	switch format {
	case OutputText, OutputMarkdown, OutputCSV, OutputJSON:
		return true
	}
	return false
}
