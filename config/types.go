package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// GraphConfig describes where the transit stops and the street network come from
type GraphConfig struct {
	GTFSStaticURL   string `yaml:"gtfsStaticURL"`
	StreetNodesPath string `yaml:"streetNodesPath"`
	StreetEdgesPath string `yaml:"streetEdgesPath"`
	CachePath       string `yaml:"cachePath"`
}

// AnalyzerConfig contains transfer analysis parameters
type AnalyzerConfig struct {
	RadiusMeters float64 `yaml:"radiusMeters" validate:"gt=0"`
	Workers      int     `yaml:"workers" validate:"gte=0"`
}

// ReportConfig controls where analysis reports are written
type ReportConfig struct {
	OutputDir string `yaml:"outputDir"`
}

// StationsConfig contains the optional vendor station feed configuration
type StationsConfig struct {
	URL       string `yaml:"url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Graph    GraphConfig    `yaml:"graph"`
	Analyzer AnalyzerConfig `yaml:"analyzer" validate:"required"`
	Report   ReportConfig   `yaml:"report"`
	Stations StationsConfig `yaml:"stations"`
}
