// Package quadrant buckets time zone names by the sign of the coordinates they
// were observed at.
package quadrant

import (
	"fmt"
	"sort"

	"github.com/ngrash/go-tzmap/locdata"
)

// Quadrant identifies one of the four sign combinations of a coordinate.
// The numeric values are part of the map format: consumers pick the zone
// index of a pixel by the same numbering.
type Quadrant int

const (
	// WestNorth holds coordinates with X < 0 and Y >= 0.
	WestNorth Quadrant = iota
	// EastNorth holds coordinates with X >= 0 and Y >= 0.
	EastNorth
	// WestSouth holds coordinates with X < 0 and Y < 0.
	WestSouth
	// EastSouth holds coordinates with X >= 0 and Y < 0.
	EastSouth
)

// Count is the number of quadrants.
const Count = 4

// All lists the quadrants in numeric order.
var All = [Count]Quadrant{WestNorth, EastNorth, WestSouth, EastSouth}

func (q Quadrant) String() string {
	switch q {
	case WestNorth:
		return "west-north"
	case EastNorth:
		return "east-north"
	case WestSouth:
		return "west-south"
	case EastSouth:
		return "east-south"
	default:
		return fmt.Sprintf("<undefined quadrant (%d)>", int(q))
	}
}

// Of returns the quadrant of c. Zero counts as non-negative, including
// negative zero.
func Of(c locdata.Coordinate) Quadrant {
	switch {
	case c.X < 0 && c.Y >= 0:
		return WestNorth
	case c.X >= 0 && c.Y >= 0:
		return EastNorth
	case c.X < 0:
		return WestSouth
	default:
		return EastSouth
	}
}

// Sets holds the distinct zone names observed in each quadrant.
// A name appears in every quadrant it was observed in.
type Sets [Count]map[string]struct{}

// Classify collects the zone names of t per quadrant.
func Classify(t *locdata.Table) Sets {
	var s Sets
	for i := range s {
		s[i] = make(map[string]struct{})
	}
	for _, r := range t.Records() {
		set := s[Of(r.Coord)]
		for _, z := range r.Zones {
			set[z] = struct{}{}
		}
	}
	return s
}

// Has reports whether name was observed in q.
func (s Sets) Has(q Quadrant, name string) bool {
	_, ok := s[q][name]
	return ok
}

// Len returns the number of distinct names observed in q.
func (s Sets) Len(q Quadrant) int {
	return len(s[q])
}

// Names returns the names observed in q in ascending byte-wise order.
func (s Sets) Names(q Quadrant) []string {
	names := make([]string, 0, len(s[q]))
	for n := range s[q] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
