package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// Conversion defaults applied when the config omits a value.
const (
	DefaultTimeWindow      = "0700_0800"
	DefaultFormat          = "csv"
	DefaultSearchRadiusDeg = 0.003
	DefaultMaxTargets      = 10
	DefaultMinLengthM      = 1.0
	DefaultMaxLengthM      = 321.869 // 0.2 miles
	DefaultAccessKM        = 10.0
	DefaultTimeBudgetMin   = 30
)

// LoadAppConfig loads and validates the application configuration. With an
// empty path it looks for config.yml in the working directory.
func LoadAppConfig(path string) error {
	paths := []string{path}
	if path == "" {
		paths = []string{"config.yml", "./config/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	for _, f := range cfg.Feeds {
		if err := v.Struct(f); err != nil {
			return err
		}
	}
	applyDefaults(&cfg)
	Config = cfg
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Conversion.TimeWindow == "" {
		cfg.Conversion.TimeWindow = DefaultTimeWindow
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Conversion.Transfer.SearchRadiusDeg == 0 {
		cfg.Conversion.Transfer.SearchRadiusDeg = DefaultSearchRadiusDeg
	}
	if cfg.Conversion.Transfer.MaxTargets == 0 {
		cfg.Conversion.Transfer.MaxTargets = DefaultMaxTargets
	}
	if cfg.Conversion.Transfer.MinLengthM == 0 {
		cfg.Conversion.Transfer.MinLengthM = DefaultMinLengthM
	}
	if cfg.Conversion.Transfer.MaxLengthM == 0 {
		cfg.Conversion.Transfer.MaxLengthM = DefaultMaxLengthM
	}
	if cfg.Conversion.Access.MaxDistanceKM == 0 {
		cfg.Conversion.Access.MaxDistanceKM = DefaultAccessKM
	}
	if cfg.Analysis.TimeBudgetMin == 0 {
		cfg.Analysis.TimeBudgetMin = DefaultTimeBudgetMin
	}
}

// SelectFeeds chooses feeds by name; an empty name selects every
// configured feed.
func SelectFeeds(name string) ([]FeedConfig, error) {
	if name == "" {
		if len(Config.Feeds) == 0 {
			return nil, fmt.Errorf("no feeds configured")
		}
		return Config.Feeds, nil
	}
	for _, f := range Config.Feeds {
		if f.Name == name {
			return []FeedConfig{f}, nil
		}
	}
	return nil, fmt.Errorf("feed %q not found in config", name)
}
