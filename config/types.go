package config

// FeedConfig names one GTFS feed and where to read it from. Path may
// point at a directory of .txt files or a .zip archive. Agency, when
// set, overrides the agency_name published in agency.txt.
type FeedConfig struct {
	Name   string `yaml:"name" validate:"required"`
	Path   string `yaml:"path" validate:"required"`
	Agency string `yaml:"agency"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format" validate:"omitempty,oneof=csv sqlite"`
}

// TransferConfig bounds the generation of walking transfer links between
// physical nodes of different routes.
type TransferConfig struct {
	SearchRadiusDeg float64 `yaml:"searchRadiusDeg" validate:"gte=0"`
	MaxTargets      int     `yaml:"maxTargets" validate:"gte=0"`
	MinLengthM      float64 `yaml:"minLengthM" validate:"gte=0"`
	MaxLengthM      float64 `yaml:"maxLengthM" validate:"gte=0"`
}

// AccessConfig controls access-link generation against an external
// highway network node table (GMNS node.csv).
type AccessConfig struct {
	HighwayNodeFile string  `yaml:"highwayNodeFile"`
	MaxDistanceKM   float64 `yaml:"maxDistanceKM" validate:"gte=0"`
}

// ConversionConfig holds the conversion parameters.
type ConversionConfig struct {
	TimeWindow string         `yaml:"timeWindow"`
	Transfer   TransferConfig `yaml:"transfer"`
	Access     AccessConfig   `yaml:"access"`
}

// AnalysisConfig toggles the descriptive analysis outputs.
type AnalysisConfig struct {
	Enabled       bool `yaml:"enabled"`
	TimeBudgetMin int  `yaml:"timeBudgetMin" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Feeds      []FeedConfig     `yaml:"feeds"`
	Output     OutputConfig     `yaml:"output"`
	Conversion ConversionConfig `yaml:"conversion"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
}
