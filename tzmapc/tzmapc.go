// Package tzmapc compiles a location table into a timezone location map.
package tzmapc

import (
	"context"
	"fmt"
	"time"

	"github.com/ngrash/go-tzmap/internal/config"
	"github.com/ngrash/go-tzmap/internal/logger"
	"github.com/ngrash/go-tzmap/internal/metrics"
	"github.com/ngrash/go-tzmap/locdata"
	"github.com/ngrash/go-tzmap/quadrant"
	"github.com/ngrash/go-tzmap/tzindex"
	"github.com/ngrash/go-tzmap/tzmap"
)

// Options select the policies applied while generating and packing.
type Options struct {
	Overflow tzmap.OverflowPolicy
	Rows     tzmap.RowPolicy
}

// Result holds the output of every stage of a compilation.
type Result struct {
	Sets       quadrant.Sets
	Index      tzindex.Index
	Pixels     []tzmap.Pixel
	Grid       tzmap.Grid
	Stats      tzmap.Stats
	ParseStats locdata.ParseStats
	Tiles      []string
}

// Compile classifies, enumerates, generates and packs t.
func Compile(t *locdata.Table, opts Options) (Result, error) {
	var res Result
	res.Sets = quadrant.Classify(t)

	idx, err := tzindex.Enumerate(res.Sets)
	if err != nil {
		return Result{}, fmt.Errorf("enumerating zones: %w", err)
	}
	res.Index = idx

	res.Pixels, res.Stats, err = tzmap.Generate(t, idx, opts.Overflow)
	if err != nil {
		return Result{}, fmt.Errorf("generating pixels: %w", err)
	}

	res.Grid, err = tzmap.Pack(tzmap.Flatten(res.Pixels), opts.Rows)
	if err != nil {
		return Result{}, fmt.Errorf("packing rows: %w", err)
	}
	if dropped := len(res.Pixels) - res.Grid.Pixels(); dropped > 0 {
		logger.L().Warn("pack_partial_row_dropped", "records", dropped)
	}
	return res, nil
}

// Run executes the file based pipeline described by cfg: it parses the input,
// writes the cache and reads it back, compiles the table, writes the debug
// listings and the map, and then the optional tiles and metrics textfile.
// ctx is checked between stages.
func Run(ctx context.Context, cfg config.Config) (Result, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid config: %w", err)
	}
	overflow, _ := cfg.OverflowPolicy()
	rows, _ := cfg.RowPolicy()
	log := logger.L()

	t, pstats, err := locdata.ParseFile(cfg.Input, locdata.ParseOptions{SkipMalformed: cfg.SkipMalformed})
	if err != nil {
		return Result{}, err
	}
	log.Info("input_parsed", "path", cfg.Input, "lines", pstats.Lines, "records", t.Len(),
		"skipped", pstats.Skipped, "duplicates", pstats.Duplicates)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := locdata.WriteCacheFile(cfg.Cache, t); err != nil {
		return Result{}, err
	}
	t, err = locdata.ReadCacheFile(cfg.Cache)
	if err != nil {
		return Result{}, err
	}
	log.Debug("cache_written", "path", cfg.Cache)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res, err := Compile(t, Options{Overflow: overflow, Rows: rows})
	if err != nil {
		return Result{}, err
	}
	res.ParseStats = pstats

	if err := tzindex.WriteDebugFiles(cfg.NameToNum, cfg.NumToName, res.Index); err != nil {
		return Result{}, err
	}
	if err := tzmap.Validate(res.Grid, &res.Index); err != nil {
		return Result{}, fmt.Errorf("invalid map: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := tzmap.WriteFile(cfg.Output, res.Grid); err != nil {
		return Result{}, err
	}
	log.Info("map_written", "path", cfg.Output, "rows", res.Grid.Height(), "width", tzmap.Width)

	if cfg.Tiles.Enabled() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		bands, err := tzmap.EvenBands(cfg.Tiles.Count)
		if err != nil {
			return Result{}, err
		}
		tiles, err := tzmap.Split(res.Grid, bands)
		if err != nil {
			return Result{}, fmt.Errorf("splitting tiles: %w", err)
		}
		res.Tiles, err = tzmap.WriteTiles(cfg.Tiles.Dir, cfg.Tiles.Version, tiles)
		if err != nil {
			return Result{}, err
		}
		log.Info("tiles_written", "dir", cfg.Tiles.Dir, "count", len(res.Tiles))
	}

	if cfg.MetricsFile != "" {
		m := metrics.NewRun()
		m.Lines.Set(float64(pstats.Lines))
		m.Records.Set(float64(t.Len()))
		m.LinesSkipped.Set(float64(pstats.Skipped))
		m.DuplicateCoords.Set(float64(pstats.Duplicates))
		m.SetZones(res.Index.Len)
		m.TruncatedRecords.Set(float64(res.Stats.TruncatedRecords))
		m.DroppedZones.Set(float64(res.Stats.DroppedZones))
		m.Rows.Set(float64(res.Grid.Height()))
		m.Succeed(start, time.Now())
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return Result{}, fmt.Errorf("write metrics: %w", err)
		}
	}
	return res, nil
}
