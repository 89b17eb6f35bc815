// Package locdata parses location tables which list, for a grid of
// coordinates, the time zones found near each coordinate.
//
// A location table is a UTF-8 text file with one record per line:
//
//	12: (-10, 5) -> [Africa/Lagos,Europe/Paris]
//
// Only the first parenthesized pair and the first bracketed list of a line are
// significant. Text around them is ignored.
package locdata

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/ngrash/go-tzmap/internal/logger"
)

// maxLineLength is the longest line accepted by Parse.
const maxLineLength = 1 << 20

var (
	// ErrNoCoordinate means a line has no parenthesized coordinate pair.
	ErrNoCoordinate = errors.New("missing coordinate")
	// ErrNoZones means a line has no bracketed zone list.
	ErrNoZones = errors.New("missing zone list")
	// ErrBadCoordinate means the parenthesized text is not a pair of finite numbers.
	ErrBadCoordinate = errors.New("invalid coordinate")
	// ErrEmptyZone means the zone list contains an empty name, e.g. "[a,,b]".
	ErrEmptyZone = errors.New("empty zone name")
	// ErrInvalidUTF8 means a line is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// Coordinate is a point of the location grid. X is compared against zero
// to pick the west or east half and Y to pick the north or south half.
type Coordinate struct {
	X float64
	Y float64
}

// String formats the coordinate the way it appears in a location table,
// e.g. "(-10, 5.5)". Parsing the result yields the same coordinate.
func (c Coordinate) String() string {
	return "(" + formatFloat(c.X) + ", " + formatFloat(c.Y) + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Record is a single line of a location table.
type Record struct {
	Coord Coordinate
	// Zones lists the time zone names in the order they appear in the input.
	// It is nil if the zone list is empty.
	Zones []string
}

// ZoneList formats the zones the way they appear in a location table, e.g. "[a,b]".
func (r Record) ZoneList() string {
	return "[" + strings.Join(r.Zones, ",") + "]"
}

// String formats the record as a line that Parse accepts.
func (r Record) String() string {
	return r.Coord.String() + " " + r.ZoneList()
}

// Table maps coordinates to their zones and remembers the order in which
// coordinates were first added.
type Table struct {
	records []Record
	index   map[Coordinate]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[Coordinate]int)}
}

// Add inserts r at the end of the table. If r.Coord is already present, its
// zones are replaced in place, keeping the original position, and Add
// reports true.
func (t *Table) Add(r Record) (replaced bool) {
	if t.index == nil {
		t.index = make(map[Coordinate]int)
	}
	if i, ok := t.index[r.Coord]; ok {
		t.records[i].Zones = r.Zones
		return true
	}
	t.index[r.Coord] = len(t.records)
	t.records = append(t.records, r)
	return false
}

// Len returns the number of coordinates in the table.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the records in table order.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Records() []Record {
	return t.records
}

// Zones returns the zones of c.
func (t *Table) Zones(c Coordinate) ([]string, bool) {
	i, ok := t.index[c]
	if !ok {
		return nil, false
	}
	return t.records[i].Zones, true
}

// ParseError is returned by Parse for a line that does not have the shape
// of a location record. Err is one of the Err* values of this package,
// possibly wrapped with details.
type ParseError struct {
	Line int
	Text string
	Err  error
}

// Error returns a string representation of the parse error, implementing the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseOptions control how Parse treats malformed lines.
type ParseOptions struct {
	// SkipMalformed logs and skips lines that cannot be parsed instead of
	// aborting with a *ParseError.
	SkipMalformed bool
}

// ParseStats summarizes a Parse call.
type ParseStats struct {
	Lines      int // lines read, including blank ones
	Records    int // records added to the table
	Skipped    int // malformed lines skipped with SkipMalformed
	Duplicates int // records that replaced the zones of an earlier coordinate
}

var utf8BOM = []byte("\xef\xbb\xbf")

// bomTrimmer drops a leading UTF-8 byte order mark and passes everything
// else through unchanged, invalid bytes included.
type bomTrimmer struct {
	done bool
}

func (b *bomTrimmer) Reset() {
	b.done = false
}

func (b *bomTrimmer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !b.done {
		if len(src) < len(utf8BOM) && !atEOF && bytes.HasPrefix(utf8BOM, src) {
			return 0, 0, transform.ErrShortSrc
		}
		if bytes.HasPrefix(src, utf8BOM) {
			nSrc = len(utf8BOM)
		}
		b.done = true
	}
	n := copy(dst, src[nSrc:])
	nDst, nSrc = n, nSrc+n
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return nDst, nSrc, err
}

// Parse reads a location table from r. A leading UTF-8 byte order mark is
// ignored and blank lines are skipped.
func Parse(r io.Reader, opts ParseOptions) (*Table, ParseStats, error) {
	var (
		t       = NewTable()
		stats   ParseStats
		scanner = bufio.NewScanner(transform.NewReader(r, &bomTrimmer{}))
	)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			perr := &ParseError{Line: stats.Lines, Text: line, Err: err}
			if !opts.SkipMalformed {
				return nil, stats, perr
			}
			logger.L().Warn("parse_skip_line", "line", perr.Line, "err", perr.Err)
			stats.Skipped++
			continue
		}
		if t.Add(rec) {
			logger.L().Warn("parse_duplicate_coordinate", "line", stats.Lines, "coord", rec.Coord.String())
			stats.Duplicates++
		} else {
			stats.Records++
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, stats, &ParseError{Line: stats.Lines + 1, Err: fmt.Errorf("longer than %d bytes: %w", maxLineLength, err)}
		}
		return nil, stats, fmt.Errorf("scanner: %w", err)
	}
	return t, stats, nil
}

// ParseFile parses the location table stored at path.
func ParseFile(path string, opts ParseOptions) (*Table, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("open location table: %w", err)
	}
	defer f.Close()
	t, stats, err := Parse(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, stats, nil
}

// ParseLine parses a single location record.
func ParseLine(line string) (Record, error) {
	if !utf8.ValidString(line) {
		return Record{}, ErrInvalidUTF8
	}
	coord, ok := enclosed(line, '(', ')')
	if !ok {
		return Record{}, ErrNoCoordinate
	}
	list, ok := enclosed(line, '[', ']')
	if !ok {
		return Record{}, ErrNoZones
	}
	c, err := parseCoordinate(coord)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrBadCoordinate, err)
	}
	zones, err := parseZones(list)
	if err != nil {
		return Record{}, err
	}
	return Record{Coord: c, Zones: zones}, nil
}

// enclosed returns the text between the first open byte and the next close byte.
func enclosed(s string, open, close byte) (string, bool) {
	i := strings.IndexByte(s, open)
	if i < 0 {
		return "", false
	}
	j := strings.IndexByte(s[i+1:], close)
	if j < 0 {
		return "", false
	}
	return s[i+1 : i+1+j], true
}

func parseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("expected 2 components, got %d", len(parts))
	}
	var v [2]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Coordinate{}, fmt.Errorf("component %d: %q is not a number", i+1, p)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Coordinate{}, fmt.Errorf("component %d: %q is not a finite number", i+1, p)
		}
		v[i] = f
	}
	return Coordinate{X: v[0], Y: v[1]}, nil
}

func parseZones(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	zones := strings.Split(s, ",")
	for i, z := range zones {
		z = strings.TrimSpace(z)
		if z == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyZone, i+1)
		}
		zones[i] = z
	}
	return zones, nil
}
