package tzmap

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTileName(t *testing.T) {
	cases := []struct {
		band Band
		want string
	}{
		{Band{0, 360}, "tz_2024001-000360.dat"},
		{Band{0, 180}, "tz_2024001-000180.dat"},
		{Band{180, 360}, "tz_2024001-180360.dat"},
		{Band{90, 120}, "tz_2024001-090120.dat"},
	}
	for _, c := range cases {
		if got := TileName("2024001", c.band); got != c.want {
			t.Errorf("TileName(%v) = %q, want %q", c.band, got, c.want)
		}
	}
}

func TestEvenBands(t *testing.T) {
	got, err := EvenBands(4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Band{{0, 90}, {90, 180}, {180, 270}, {270, 360}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EvenBands(4) mismatch (-want +got):\n%s", diff)
	}
	for _, n := range []int{0, -1, 7} {
		if _, err := EvenBands(n); err == nil {
			t.Errorf("EvenBands(%d) succeeded", n)
		}
	}
}

func TestValidateBands(t *testing.T) {
	cases := []struct {
		name  string
		bands []Band
		ok    bool
	}{
		{"whole", []Band{{0, 360}}, true},
		{"halves", []Band{{0, 180}, {180, 360}}, true},
		{"none", nil, false},
		{"gap", []Band{{0, 170}, {180, 360}}, false},
		{"short", []Band{{0, 180}}, false},
		{"uneven", []Band{{0, 120}, {120, 360}}, false},
		{"not from zero", []Band{{10, 360}}, false},
		{"empty band", []Band{{0, 0}, {0, 360}}, false},
	}
	for _, c := range cases {
		err := ValidateBands(c.bands)
		if (err == nil) != c.ok {
			t.Errorf("%s: ValidateBands() error = %v, want ok = %v", c.name, err, c.ok)
		}
	}
}

func TestSplit(t *testing.T) {
	g, err := Pack(flatSeq(4*RowValues), RowDrop)
	if err != nil {
		t.Fatal(err)
	}
	tiles, err := Split(g, []Band{{0, 180}, {180, 360}})
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if len(tiles) != 2 {
		t.Fatalf("Split() = %d tiles, want 2", len(tiles))
	}
	if diff := cmp.Diff(g.Rows[:2], tiles[0].Grid.Rows); diff != "" {
		t.Errorf("first tile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(g.Rows[2:], tiles[1].Grid.Rows); diff != "" {
		t.Errorf("second tile mismatch (-want +got):\n%s", diff)
	}

	if _, err := Split(g, []Band{{0, 120}, {120, 240}, {240, 360}}); err == nil {
		t.Errorf("Split() of 4 rows into 3 bands succeeded")
	}
	if _, err := Split(Grid{}, []Band{{0, 360}}); err == nil {
		t.Errorf("Split() of an empty grid succeeded")
	}
}

func TestWriteTiles(t *testing.T) {
	g, err := Pack(flatSeq(2*RowValues), RowDrop)
	if err != nil {
		t.Fatal(err)
	}
	bands, err := EvenBands(2)
	if err != nil {
		t.Fatal(err)
	}
	tiles, err := Split(g, bands)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	paths, err := WriteTiles(dir, "2024001", tiles)
	if err != nil {
		t.Fatalf("WriteTiles() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "tz_2024001-000180.dat"),
		filepath.Join(dir, "tz_2024001-180360.dat"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("WriteTiles() paths mismatch (-want +got):\n%s", diff)
	}
	got, err := ReadFile(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tiles[1].Grid, got); diff != "" {
		t.Errorf("second tile file mismatch (-want +got):\n%s", diff)
	}

	if _, err := WriteTiles(dir, "24a", tiles); err == nil {
		t.Errorf("WriteTiles() accepted an invalid version")
	}
}
