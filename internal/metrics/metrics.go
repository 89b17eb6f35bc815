// Package metrics records the outcome of a generation run for the
// node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngrash/go-tzmap/quadrant"
)

// Run holds the gauges of one generation run in a private registry.
type Run struct {
	reg *prometheus.Registry

	Lines              prometheus.Gauge
	Records            prometheus.Gauge
	LinesSkipped       prometheus.Gauge
	DuplicateCoords    prometheus.Gauge
	Zones              *prometheus.GaugeVec
	TruncatedRecords   prometheus.Gauge
	DroppedZones       prometheus.Gauge
	Rows               prometheus.Gauge
	Duration           prometheus.Gauge
	LastSuccessSeconds prometheus.Gauge
}

// NewRun registers a fresh set of run gauges.
func NewRun() *Run {
	r := &Run{
		reg: prometheus.NewRegistry(),
		Lines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_input_lines",
			Help: "Lines read from the location table",
		}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_records",
			Help: "Distinct coordinates in the location table",
		}),
		LinesSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_lines_skipped",
			Help: "Malformed lines skipped while parsing",
		}),
		DuplicateCoords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_duplicate_coordinates",
			Help: "Lines that replaced an earlier record for the same coordinate",
		}),
		Zones: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tzmap_zones",
			Help: "Distinct zone names per quadrant",
		}, []string{"quadrant"}),
		TruncatedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_truncated_records",
			Help: "Records with more zones than a pixel holds",
		}),
		DroppedZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_dropped_zones",
			Help: "Zone entries dropped by truncation",
		}),
		Rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_rows",
			Help: "Rows in the written map",
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_last_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tzmap_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
	r.reg.MustRegister(
		r.Lines,
		r.Records,
		r.LinesSkipped,
		r.DuplicateCoords,
		r.Zones,
		r.TruncatedRecords,
		r.DroppedZones,
		r.Rows,
		r.Duration,
		r.LastSuccessSeconds,
	)
	return r
}

// SetZones records the zone count of every quadrant.
func (r *Run) SetZones(count func(q quadrant.Quadrant) int) {
	for _, q := range quadrant.All {
		r.Zones.WithLabelValues(q.String()).Set(float64(count(q)))
	}
}

// Succeed stamps the run as finished at now after running since start.
func (r *Run) Succeed(start, now time.Time) {
	r.Duration.Set(now.Sub(start).Seconds())
	r.LastSuccessSeconds.Set(float64(now.Unix()))
}

// Registry exposes the run's registry for gathering.
func (r *Run) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile writes the gauges in text exposition format to path.
// The file is replaced atomically.
func (r *Run) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
