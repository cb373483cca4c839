package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default public dataset locations. Every one of them can be overridden by
// config file, environment or flag to point at a local file instead.
const (
	DefaultCasesURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/" +
		"csse_covid_19_data/csse_covid_19_time_series/time_series_covid19_confirmed_US.csv"
	DefaultDeathsURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/" +
		"csse_covid_19_data/csse_covid_19_time_series/time_series_covid19_deaths_US.csv"
	DefaultPopulationURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/" +
		"csse_covid_19_data/UID_ISO_FIPS_LookUp_Table.csv"
	DefaultShootingsURL = "https://data.cityofnewyork.us/api/views/833y-fsy8/rows.csv?accessType=DOWNLOAD"
)

// Defaults returns a configuration populated with the built-in defaults, the
// same values Load starts from before file and environment overrides.
func Defaults() *Global {
	return &Global{
		CasesURL:       DefaultCasesURL,
		DeathsURL:      DefaultDeathsURL,
		PopulationURL:  DefaultPopulationURL,
		ShootingsURL:   DefaultShootingsURL,
		TopStates:      10,
		TopPrecincts:   20,
		SplitRatio:     0.8,
		Seed:           1,
		HTTPTimeoutSec: 120,
	}
}

// Global configuration structure.
type Global struct {
	CasesURL      string `mapstructure:"cases_url" yaml:"cases_url"`
	DeathsURL     string `mapstructure:"deaths_url" yaml:"deaths_url"`
	PopulationURL string `mapstructure:"population_url" yaml:"population_url"`
	ShootingsURL  string `mapstructure:"shootings_url" yaml:"shootings_url"`

	TopStates    int `mapstructure:"top_states" yaml:"top_states"`
	TopPrecincts int `mapstructure:"top_precincts" yaml:"top_precincts"`

	SplitRatio float64 `mapstructure:"split_ratio" yaml:"split_ratio"`
	Seed       int64   `mapstructure:"seed" yaml:"seed"`

	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.statloom/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".statloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("STATLOOM")
	v.AutomaticEnv()

	// Defaults
	d := Defaults()
	v.SetDefault("cases_url", d.CasesURL)
	v.SetDefault("deaths_url", d.DeathsURL)
	v.SetDefault("population_url", d.PopulationURL)
	v.SetDefault("shootings_url", d.ShootingsURL)
	v.SetDefault("top_states", d.TopStates)
	v.SetDefault("top_precincts", d.TopPrecincts)
	v.SetDefault("split_ratio", d.SplitRatio)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("http_timeout_sec", d.HTTPTimeoutSec)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".statloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
