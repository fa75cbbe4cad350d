package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/los-clearance/internal/geo"
	"github.com/roman-kulish/los-clearance/internal/propagation"
)

const (
	defaultOutputDirectory = "."
	defaultStorageDir      = "data"
	defaultResultsJSON     = "clearance_results.json"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel LogLevel `yaml:"logLevel"`
}

// AnalysisConfig tunes the clearance analysis
type AnalysisConfig struct {
	EarthRadiusFt Feet    `yaml:"earthRadiusFt"`
	KFactor       float64 `yaml:"kFactor"`

	// ProximityThresholdFt selects obstructions listed in the summary. Zero
	// derives the threshold from the obstruction offsets.
	ProximityThresholdFt Feet `yaml:"proximityThresholdFt"`

	Workers           int  `yaml:"workers"`
	SearchWidthFt     Feet `yaml:"searchWidthFt"`
	SearchExtensionFt Feet `yaml:"searchExtensionFt"`

	// ProfileSamples is the number of points in a flat profile built when no
	// profile CSV is given.
	ProfileSamples int `yaml:"profileSamples"`
}

// OutputConfig represents output file settings. Empty file names disable
// the corresponding output.
type OutputConfig struct {
	Directory   string `yaml:"directory"`
	ResultsJSON string `yaml:"resultsJSON"`
	KML         string `yaml:"kml"`
	GeoJSON     string `yaml:"geojson"`

	// WriteBack stores the analysis results into the tower parameters file.
	WriteBack bool `yaml:"writeBack"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	Disabled      bool   `yaml:"disabled"`
}

// NewConfig returns the configuration used when no file is given
func NewConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: LogLevel(slog.LevelInfo)},
		Analysis: AnalysisConfig{
			EarthRadiusFt:     Feet(geo.EarthRadiusFt),
			KFactor:           propagation.DefaultKFactor,
			Workers:           1,
			SearchWidthFt:     Feet(geo.DefaultSearchWidthFt),
			SearchExtensionFt: Feet(geo.DefaultSearchExtensionFt),
		},
		Output: OutputConfig{
			Directory:   defaultOutputDirectory,
			ResultsJSON: defaultResultsJSON,
		},
		Storage: StorageConfig{
			DataDirectory: defaultStorageDir,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result
func ParseConfig(data []byte) (*Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	a := c.Analysis
	switch {
	case a.EarthRadiusFt <= 0:
		return fmt.Errorf("config: earth radius must be positive: %v", float64(a.EarthRadiusFt))
	case a.KFactor <= 0:
		return fmt.Errorf("config: k-factor must be positive: %v", a.KFactor)
	case a.ProximityThresholdFt < 0:
		return fmt.Errorf("config: proximity threshold must not be negative: %v", float64(a.ProximityThresholdFt))
	case a.Workers < 0:
		return fmt.Errorf("config: workers must not be negative: %d", a.Workers)
	case a.SearchWidthFt <= 0:
		return fmt.Errorf("config: search width must be positive: %v", float64(a.SearchWidthFt))
	case a.SearchExtensionFt < 0:
		return fmt.Errorf("config: search extension must not be negative: %v", float64(a.SearchExtensionFt))
	case a.ProfileSamples < 0 || a.ProfileSamples == 1:
		return fmt.Errorf("config: profile samples must be 0 or at least 2: %d", a.ProfileSamples)
	}

	if c.Output.Directory == "" {
		return errors.New("config: output directory is required")
	}

	return nil
}

// LogLevel is a slog level written as debug, info, warn or error
type LogLevel slog.Level

func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("app.LogLevel: failed to parse: %s", err)
	}

	*l = LogLevel(level)
	return nil
}

func (l LogLevel) MarshalYAML() (interface{}, error) {
	return l.Level().String(), nil
}

// Level implements slog.Leveler
func (l LogLevel) Level() slog.Level {
	return slog.Level(l)
}

const (
	feetPerMile = 5280.0
)

// Feet is a length in feet. YAML values may be plain numbers (feet) or
// carry a unit: ft, m, km or mi.
type Feet float64

func (f *Feet) UnmarshalYAML(value *yaml.Node) error {
	var v float64
	if err := value.Decode(&v); err == nil {
		*f = Feet(v)
		return nil
	}

	ft, err := ParseFeet(value.Value)
	if err != nil {
		return fmt.Errorf("app.Feet: %w", err)
	}
	*f = Feet(ft)
	return nil
}

func (f Feet) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%gft", float64(f)), nil
}

// ParseFeet parses a length such as "2000", "2000ft", "600m", "1.5km" or
// "0.5mi" into feet.
func ParseFeet(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}

	var mult float64
	switch {
	case strings.HasSuffix(s, "ft"):
		mult = 1
		s = strings.TrimSuffix(s, "ft")
	case strings.HasSuffix(s, "km"):
		mult = geo.FeetPerKilometer
		s = strings.TrimSuffix(s, "km")
	case strings.HasSuffix(s, "mi"):
		mult = feetPerMile
		s = strings.TrimSuffix(s, "mi")
	case strings.HasSuffix(s, "m"):
		mult = geo.FeetPerMeter
		s = strings.TrimSuffix(s, "m")
	default:
		mult = 1
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length: %s", s)
	}
	return v * mult, nil
}
