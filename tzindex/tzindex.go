// Package tzindex assigns dense per-quadrant numbers to time zone names.
//
// Within a quadrant, names are sorted in ascending byte-wise order and numbered
// from 0. The numbers are what a location map stores in its pixels, so a
// number is only meaningful together with the quadrant of the pixel.
package tzindex

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-tzmap/internal/logger"
	"github.com/ngrash/go-tzmap/quadrant"
)

// MaxZones is the largest number of names a quadrant can hold. Numbers range
// from 0 to MaxZones-1 so that they never collide with the pixel sentinel 255.
const MaxZones = 255

// ErrTooManyZones is returned by Enumerate if a quadrant holds more than MaxZones names.
var ErrTooManyZones = errors.New("too many zones in quadrant")

type quadrantIndex struct {
	names []string
	nums  map[string]uint8
}

// Index maps zone names to numbers and back, per quadrant.
type Index struct {
	quads [quadrant.Count]quadrantIndex
}

// Enumerate numbers the names of every quadrant of s.
func Enumerate(s quadrant.Sets) (Index, error) {
	var idx Index
	for _, q := range quadrant.All {
		names := s.Names(q)
		if len(names) > MaxZones {
			return Index{}, fmt.Errorf("%w: %v has %d zones, at most %d fit", ErrTooManyZones, q, len(names), MaxZones)
		}
		nums := make(map[string]uint8, len(names))
		for i, n := range names {
			nums[n] = uint8(i)
		}
		idx.quads[q] = quadrantIndex{names: names, nums: nums}
		logger.L().Debug("quadrant_enumerated", "quadrant", q.String(), "zones", len(names))
	}
	return idx, nil
}

// Num returns the number of name in q.
func (idx Index) Num(q quadrant.Quadrant, name string) (uint8, bool) {
	n, ok := idx.quads[q].nums[name]
	return n, ok
}

// Name returns the name numbered num in q.
func (idx Index) Name(q quadrant.Quadrant, num uint8) (string, bool) {
	names := idx.quads[q].names
	if int(num) >= len(names) {
		return "", false
	}
	return names[num], true
}

// Len returns the number of names in q.
func (idx Index) Len(q quadrant.Quadrant) int {
	return len(idx.quads[q].names)
}

// Names returns the names of q ordered by number.
func (idx Index) Names(q quadrant.Quadrant) []string {
	return append([]string(nil), idx.quads[q].names...)
}

// NameToNum returns a name to number map per quadrant.
func (idx Index) NameToNum() [quadrant.Count]map[string]uint8 {
	var out [quadrant.Count]map[string]uint8
	for q := range idx.quads {
		m := make(map[string]uint8, len(idx.quads[q].nums))
		for k, v := range idx.quads[q].nums {
			m[k] = v
		}
		out[q] = m
	}
	return out
}

// NumToName returns a number to name map per quadrant.
func (idx Index) NumToName() [quadrant.Count]map[uint8]string {
	var out [quadrant.Count]map[uint8]string
	for q := range idx.quads {
		m := make(map[uint8]string, len(idx.quads[q].names))
		for i, n := range idx.quads[q].names {
			m[uint8(i)] = n
		}
		out[q] = m
	}
	return out
}
