// Package config holds the settings of a map generation run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tzmap/internal/logger"
	"github.com/ngrash/go-tzmap/tzmap"
)

// Tiles selects optional splitting of the map into consumer tiles.
type Tiles struct {
	Dir     string `yaml:"dir"`
	Version string `yaml:"version"`
	Count   int    `yaml:"count"`
}

// Enabled reports whether tiles should be written.
func (t Tiles) Enabled() bool {
	return t.Dir != ""
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is a complete run configuration. Paths are used as given,
// relative paths resolve against the working directory.
type Config struct {
	Input         string `yaml:"input"`
	Cache         string `yaml:"cache"`
	NameToNum     string `yaml:"name2num"`
	NumToName     string `yaml:"num2name"`
	Output        string `yaml:"output"`
	Overflow      string `yaml:"overflow"`
	Rows          string `yaml:"rows"`
	SkipMalformed bool   `yaml:"skip_malformed"`
	Tiles         Tiles  `yaml:"tiles"`
	MetricsFile   string `yaml:"metrics_file"`
	Log           Log    `yaml:"log"`
}

// Default returns the configuration that reproduces the historical data layout.
func Default() Config {
	return Config{
		Input:     "data/location2tz.txt",
		Cache:     "data/loc2tz.cache",
		NameToNum: "data/name2num.txt",
		NumToName: "data/num2name.txt",
		Output:    "data/loc2tz.dat",
		Overflow:  tzmap.OverflowTruncate.String(),
		Rows:      tzmap.RowDrop.String(),
		Tiles:     Tiles{Count: 1},
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Parse reads a YAML document over the defaults. Unknown keys are an error.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	for _, p := range []struct{ key, val string }{
		{"input", c.Input},
		{"cache", c.Cache},
		{"name2num", c.NameToNum},
		{"num2name", c.NumToName},
		{"output", c.Output},
	} {
		if p.val == "" {
			errs = append(errs, fmt.Errorf("%s: path is empty", p.key))
		}
	}
	if _, err := c.OverflowPolicy(); err != nil {
		errs = append(errs, fmt.Errorf("overflow: %w", err))
	}
	if _, err := c.RowPolicy(); err != nil {
		errs = append(errs, fmt.Errorf("rows: %w", err))
	}
	if c.Tiles.Enabled() {
		if _, err := tzmap.EvenBands(c.Tiles.Count); err != nil {
			errs = append(errs, fmt.Errorf("tiles.count: %w", err))
		}
		if c.Tiles.Version == "" {
			errs = append(errs, errors.New("tiles.version: required when tiles.dir is set"))
		}
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !logger.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// OverflowPolicy parses the overflow setting.
func (c Config) OverflowPolicy() (tzmap.OverflowPolicy, error) {
	return tzmap.ParseOverflowPolicy(c.Overflow)
}

// RowPolicy parses the rows setting.
func (c Config) RowPolicy() (tzmap.RowPolicy, error) {
	return tzmap.ParseRowPolicy(c.Rows)
}
