package tzmap

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzmap/locdata"
)

// flatSeq returns n values cycling through 0..250 so rows are distinguishable.
func flatSeq(n int) []uint8 {
	flat := make([]uint8, n)
	for i := range flat {
		flat[i] = uint8(i % 251)
	}
	return flat
}

func TestPack_Drop(t *testing.T) {
	cases := []struct {
		values int
		rows   int
	}{
		{0, 0},
		{3, 0},
		{RowValues - 1, 0},
		{RowValues, 1},
		{RowValues + 3, 1},
		{2*RowValues - 1, 1},
		{3 * RowValues, 3},
	}
	for _, c := range cases {
		g, err := Pack(flatSeq(c.values), RowDrop)
		if err != nil {
			t.Fatalf("Pack(%d values) error: %v", c.values, err)
		}
		if g.Height() != c.rows {
			t.Errorf("Pack(%d values) = %d rows, want %d", c.values, g.Height(), c.rows)
		}
		for y, r := range g.Rows {
			if len(r) != Width {
				t.Errorf("Pack(%d values) row %d has %d pixels", c.values, y, len(r))
			}
		}
	}
}

func TestPack_Order(t *testing.T) {
	flat := flatSeq(2 * RowValues)
	g, err := Pack(flat, RowDrop)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(flat, g.Flat()); diff != "" {
		t.Errorf("Flat() of packed grid mismatch (-want +got):\n%s", diff)
	}
	// First pixel of the second row.
	want := Pixel{flat[RowValues], flat[RowValues+1], flat[RowValues+2]}
	if g.Rows[1][0] != want {
		t.Errorf("Rows[1][0] = %v, want %v", g.Rows[1][0], want)
	}
}

func TestPack_Pad(t *testing.T) {
	g, err := Pack([]uint8{0, 1, 255}, RowPad)
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if g.Height() != 1 {
		t.Fatalf("Pack() = %d rows, want 1", g.Height())
	}
	if g.Rows[0][0] != (Pixel{0, 1, 255}) {
		t.Errorf("Rows[0][0] = %v", g.Rows[0][0])
	}
	for x := 1; x < Width; x++ {
		if g.Rows[0][x] != EmptyPixel {
			t.Fatalf("Rows[0][%d] = %v, want padding", x, g.Rows[0][x])
		}
	}

	g, err = Pack(flatSeq(RowValues), RowPad)
	if err != nil || g.Height() != 1 {
		t.Errorf("Pack(full row, pad) = %d rows, %v", g.Height(), err)
	}

	if _, err := Pack([]uint8{1, 2}, RowPad); !errors.Is(err, ErrPartialPixel) {
		t.Errorf("Pack(2 values, pad) error = %v, want ErrPartialPixel", err)
	}
}

func TestGrid_EncodeDecode(t *testing.T) {
	want, err := Pack(flatSeq(2*RowValues), RowDrop)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != Width || cfg.Height != 2 {
		t.Errorf("PNG size = %dx%d, want %dx2", cfg.Width, cfg.Height, Width)
	}
	// IHDR: 8 bytes signature, 8 bytes chunk header, 8 bytes size, bit depth, color type.
	if depth, colorType := buf.Bytes()[24], buf.Bytes()[25]; depth != 8 || colorType != 2 {
		t.Errorf("PNG bit depth %d color type %d, want 8-bit truecolor (2)", depth, colorType)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_EncodeEmpty(t *testing.T) {
	if err := (Grid{}).Encode(&bytes.Buffer{}); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("Encode() error = %v, want ErrEmptyGrid", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loc2tz.dat")
	want, err := Pack(flatSeq(RowValues), RowDrop)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadFile() mismatch (-want +got):\n%s", diff)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != FileMode {
		t.Errorf("map mode = %o, want %o", info.Mode().Perm(), FileMode)
	}
}

func TestDecode_NotPNG(t *testing.T) {
	if _, err := Decode(strings.NewReader("not a png")); err == nil {
		t.Errorf("Decode() succeeded on garbage")
	}
}

func TestEndToEnd_SingleRecord(t *testing.T) {
	tbl := table(locdata.Record{Coord: locdata.Coordinate{X: -10, Y: 5}, Zones: []string{"Africa/Lagos", "Europe/Paris"}})
	pixels, _, err := Generate(tbl, enumerate(t, tbl), OverflowTruncate)
	if err != nil {
		t.Fatal(err)
	}
	flat := Flatten(pixels)
	if diff := cmp.Diff([]uint8{0, 1, 255}, flat); diff != "" {
		t.Errorf("flat mismatch (-want +got):\n%s", diff)
	}
	g, err := Pack(flat, RowDrop)
	if err != nil {
		t.Fatal(err)
	}
	if g.Height() != 0 {
		t.Errorf("a single record packed into %d rows, want 0", g.Height())
	}
}
