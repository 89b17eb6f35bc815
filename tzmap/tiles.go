package tzmap

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Span is the range of X covered by a complete map, in degrees. Map rows run
// from X = -180 at the top to X = 180 at the bottom.
const Span = 360

// Band is a horizontal stripe of a map, given as offsets Lo <= X+180 < Hi.
type Band struct {
	Lo int
	Hi int
}

// Tile is the part of a map that covers one band.
type Tile struct {
	Band Band
	Grid Grid
}

var versionPattern = regexp.MustCompile(`^[0-9]{7}$`)

// TileName returns the file name a map consumer expects for the tile of band b:
// "tz_<version>-<lo><hi>.dat" with lo and hi zero-padded to three digits.
func TileName(version string, b Band) string {
	return fmt.Sprintf("tz_%s-%03d%03d.dat", version, b.Lo, b.Hi)
}

// EvenBands splits the map into n bands of equal height.
func EvenBands(n int) ([]Band, error) {
	if n <= 0 || Span%n != 0 {
		return nil, fmt.Errorf("cannot split %d degrees into %d equal bands", Span, n)
	}
	step := Span / n
	bands := make([]Band, n)
	for i := range bands {
		bands[i] = Band{Lo: i * step, Hi: (i + 1) * step}
	}
	return bands, nil
}

// ValidateBands checks that bands cover 0 to Span without gaps or overlaps,
// in order, and all have the same height. Consumers locate the row inside a
// tile assuming equal tile heights.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands")
	}
	next := 0
	for i, b := range bands {
		if b.Lo != next {
			return fmt.Errorf("band %d starts at %d, want %d", i, b.Lo, next)
		}
		if b.Hi <= b.Lo {
			return fmt.Errorf("band %d is empty: %d-%d", i, b.Lo, b.Hi)
		}
		if h, want := b.Hi-b.Lo, bands[0].Hi-bands[0].Lo; h != want {
			return fmt.Errorf("band %d is %d degrees high, want %d", i, h, want)
		}
		next = b.Hi
	}
	if next != Span {
		return fmt.Errorf("bands end at %d, want %d", next, Span)
	}
	return nil
}

// Split cuts g into one tile per band. Every band must map to a whole number of rows.
func Split(g Grid, bands []Band) ([]Tile, error) {
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}
	if g.Height() == 0 {
		return nil, ErrEmptyGrid
	}
	tiles := make([]Tile, 0, len(bands))
	for _, b := range bands {
		lo, hi := g.Height()*b.Lo, g.Height()*b.Hi
		if lo%Span != 0 || hi%Span != 0 {
			return nil, fmt.Errorf("band %d-%d does not cover whole rows of a %d row map", b.Lo, b.Hi, g.Height())
		}
		tiles = append(tiles, Tile{Band: b, Grid: Grid{Rows: g.Rows[lo/Span : hi/Span]}})
	}
	return tiles, nil
}

// WriteTiles writes every tile to dir under its TileName and returns the paths written.
func WriteTiles(dir, version string, tiles []Tile) ([]string, error) {
	if !versionPattern.MatchString(version) {
		return nil, fmt.Errorf("invalid tile version %q: want 7 digits", version)
	}
	paths := make([]string, 0, len(tiles))
	for _, t := range tiles {
		p := filepath.Join(dir, TileName(version, t.Band))
		if err := WriteFile(p, t.Grid); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
