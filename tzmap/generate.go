// Package tzmap builds timezone location maps: 3-channel images in which every
// pixel lists the numbers of up to three time zones near one coordinate of a
// location table.
//
// Pixel slots that hold no zone contain Sentinel. Zone numbers are relative to
// the quadrant of the coordinate, see package tzindex.
package tzmap

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-tzmap/internal/logger"
	"github.com/ngrash/go-tzmap/locdata"
	"github.com/ngrash/go-tzmap/quadrant"
	"github.com/ngrash/go-tzmap/tzindex"
)

// Sentinel marks an unused pixel slot.
const Sentinel uint8 = 255

// Slots is the number of zones a pixel can hold, one per color channel.
const Slots = 3

// Pixel holds the zone numbers of one coordinate, unused slots set to Sentinel.
type Pixel [Slots]uint8

// EmptyPixel is a pixel without zones.
var EmptyPixel = Pixel{Sentinel, Sentinel, Sentinel}

// Len returns the number of slots before the first Sentinel.
func (p Pixel) Len() int {
	for i, v := range p {
		if v == Sentinel {
			return i
		}
	}
	return Slots
}

// OverflowPolicy decides what happens to a record with more than Slots zones.
type OverflowPolicy int

const (
	// OverflowTruncate keeps the first Slots zones and drops the rest.
	OverflowTruncate OverflowPolicy = iota
	// OverflowFail fails the generation with an *OverflowError.
	OverflowFail
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowTruncate:
		return "truncate"
	case OverflowFail:
		return "error"
	default:
		return fmt.Sprintf("<undefined overflow policy (%d)>", int(p))
	}
}

// ParseOverflowPolicy parses "truncate" or "error".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "truncate":
		return OverflowTruncate, nil
	case "error":
		return OverflowFail, nil
	default:
		return 0, fmt.Errorf("unknown overflow policy %q", s)
	}
}

var (
	// ErrUnknownZone is wrapped by *LookupError.
	ErrUnknownZone = errors.New("zone missing from quadrant index")
	// ErrTooManyZones is wrapped by *OverflowError.
	ErrTooManyZones = errors.New("more zones than pixel slots")
)

// LookupError means a zone of a record has no number in the record's quadrant.
type LookupError struct {
	Coord    locdata.Coordinate
	Quadrant quadrant.Quadrant
	Zone     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q in %v quadrant: %v", e.Coord, e.Zone, e.Quadrant, ErrUnknownZone)
}

func (e *LookupError) Unwrap() error {
	return ErrUnknownZone
}

// OverflowError means a record lists more zones than a pixel can hold.
type OverflowError struct {
	Coord locdata.Coordinate
	Zones int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: %d zones: %v", e.Coord, e.Zones, ErrTooManyZones)
}

func (e *OverflowError) Unwrap() error {
	return ErrTooManyZones
}

// Stats summarizes a Generate call.
type Stats struct {
	Records          int // pixels generated
	EmptyRecords     int // records without zones
	TruncatedRecords int // records that lost zones to OverflowTruncate
	DroppedZones     int // zones dropped by OverflowTruncate
}

// Generate encodes every record of t as a pixel, in table order.
func Generate(t *locdata.Table, idx tzindex.Index, policy OverflowPolicy) ([]Pixel, Stats, error) {
	var (
		stats  Stats
		pixels = make([]Pixel, 0, t.Len())
	)
	for _, r := range t.Records() {
		q := quadrant.Of(r.Coord)
		nums := make([]uint8, 0, len(r.Zones))
		for _, z := range r.Zones {
			n, ok := idx.Num(q, z)
			if !ok {
				return nil, stats, &LookupError{Coord: r.Coord, Quadrant: q, Zone: z}
			}
			nums = append(nums, n)
		}
		if len(nums) > Slots {
			if policy == OverflowFail {
				return nil, stats, &OverflowError{Coord: r.Coord, Zones: len(nums)}
			}
			logger.L().Warn("generate_zones_dropped", "coord", r.Coord.String(), "zones", r.Zones[Slots:])
			stats.TruncatedRecords++
			stats.DroppedZones += len(nums) - Slots
			nums = nums[:Slots]
		}
		if len(nums) == 0 {
			stats.EmptyRecords++
		}
		p := EmptyPixel
		copy(p[:], nums)
		pixels = append(pixels, p)
	}
	stats.Records = len(pixels)
	return pixels, stats, nil
}

// Flatten concatenates the slots of pixels into one sequence, Slots values per pixel.
func Flatten(pixels []Pixel) []uint8 {
	flat := make([]uint8, 0, len(pixels)*Slots)
	for _, p := range pixels {
		flat = append(flat, p[:]...)
	}
	return flat
}
