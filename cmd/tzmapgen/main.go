// Command tzmapgen turns a location table into a timezone location map.
// Without flags it reads data/location2tz.txt and writes data/loc2tz.dat.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzmap/internal/config"
	"github.com/ngrash/go-tzmap/internal/logger"
	"github.com/ngrash/go-tzmap/tzmapc"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("tzmapgen", pflag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		cfg        = config.Default()
	)
	flags := []struct {
		name  string
		value *string
		usage string
	}{
		{"input", &cfg.Input, "location table to read"},
		{"cache", &cfg.Cache, "intermediate cache file"},
		{"name2num", &cfg.NameToNum, "name to number listing"},
		{"num2name", &cfg.NumToName, "number to name listing"},
		{"output", &cfg.Output, "map file to write"},
		{"overflow", &cfg.Overflow, "records with more than 3 zones: truncate or error"},
		{"rows", &cfg.Rows, "trailing partial row: drop or pad"},
		{"tile-dir", &cfg.Tiles.Dir, "also write consumer tiles to this directory"},
		{"tile-version", &cfg.Tiles.Version, "7 digit data version used in tile names"},
		{"metrics-file", &cfg.MetricsFile, "write run metrics in Prometheus text format"},
		{"log-level", &cfg.Log.Level, "debug, info, warn or error"},
		{"log-format", &cfg.Log.Format, "text or json"},
	}
	for _, f := range flags {
		fs.String(f.name, *f.value, f.usage)
	}
	fs.Bool("skip-malformed", cfg.SkipMalformed, "skip malformed input lines instead of failing")
	fs.Int("tile-count", cfg.Tiles.Count, "number of equal tiles")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("usage: tzmapgen [flags]\n%s", fs.FlagUsages())
	}

	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	// Flags given on the command line override the file.
	for _, f := range flags {
		if fs.Changed(f.name) {
			v, _ := fs.GetString(f.name)
			*f.value = v
		}
	}
	if fs.Changed("skip-malformed") {
		cfg.SkipMalformed, _ = fs.GetBool("skip-malformed")
	}
	if fs.Changed("tile-count") {
		cfg.Tiles.Count, _ = fs.GetInt("tile-count")
	}

	logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err := tzmapc.Run(ctx, cfg)
	return err
}
