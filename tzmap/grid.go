package tzmap

import (
	"errors"
	"fmt"
)

// Width is the number of pixels per map row.
const Width = 1800

// RowValues is the number of flat values that make up one row.
const RowValues = Width * Slots

var (
	// ErrPartialPixel is returned by Pack with RowPad if the flat sequence
	// does not divide into whole pixels.
	ErrPartialPixel = errors.New("flat sequence ends inside a pixel")
	// ErrEmptyGrid is returned when encoding a grid without rows.
	ErrEmptyGrid = errors.New("map has no rows")
)

// RowPolicy decides what Pack does with values that do not fill a whole row.
type RowPolicy int

const (
	// RowDrop discards a trailing partial row.
	RowDrop RowPolicy = iota
	// RowPad fills a trailing partial row with EmptyPixel.
	RowPad
)

func (p RowPolicy) String() string {
	switch p {
	case RowDrop:
		return "drop"
	case RowPad:
		return "pad"
	default:
		return fmt.Sprintf("<undefined row policy (%d)>", int(p))
	}
}

// ParseRowPolicy parses "drop" or "pad".
func ParseRowPolicy(s string) (RowPolicy, error) {
	switch s {
	case "drop":
		return RowDrop, nil
	case "pad":
		return RowPad, nil
	default:
		return 0, fmt.Errorf("unknown row policy %q", s)
	}
}

// Grid is a location map. Rows built by Pack are exactly Width pixels long.
type Grid struct {
	Rows [][]Pixel
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g.Rows)
}

// Pixels returns the number of pixels in the grid.
func (g Grid) Pixels() int {
	var n int
	for _, r := range g.Rows {
		n += len(r)
	}
	return n
}

// Flat returns the slots of all pixels, row by row.
func (g Grid) Flat() []uint8 {
	flat := make([]uint8, 0, g.Pixels()*Slots)
	for _, r := range g.Rows {
		flat = append(flat, Flatten(r)...)
	}
	return flat
}

// Pack groups a flat sequence into pixels of Slots values and rows of Width
// pixels. The policy decides what happens to values past the last full row.
func Pack(flat []uint8, policy RowPolicy) (Grid, error) {
	var rows int
	switch policy {
	case RowDrop:
		rows = len(flat) / RowValues
	case RowPad:
		if len(flat)%Slots != 0 {
			return Grid{}, fmt.Errorf("%w: %d values", ErrPartialPixel, len(flat))
		}
		rows = (len(flat) + RowValues - 1) / RowValues
	default:
		return Grid{}, fmt.Errorf("pack: %v", policy)
	}

	g := Grid{Rows: make([][]Pixel, rows)}
	for y := range g.Rows {
		row := make([]Pixel, Width)
		for x := range row {
			off := y*RowValues + x*Slots
			if off >= len(flat) {
				row[x] = EmptyPixel
				continue
			}
			copy(row[x][:], flat[off:off+Slots])
		}
		g.Rows[y] = row
	}
	return g, nil
}
