package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzmap/tzmap"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestParse(t *testing.T) {
	doc := `
input: in/points.txt
overflow: error
rows: pad
skip_malformed: true
tiles:
  dir: out/tiles
  version: "2024001"
  count: 2
log:
  level: debug
`
	got, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := Default()
	want.Input = "in/points.txt"
	want.Overflow = "error"
	want.Rows = "pad"
	want.SkipMalformed = true
	want.Tiles = Tiles{Dir: "out/tiles", Version: "2024001", Count: 2}
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	op, _ := got.OverflowPolicy()
	rp, _ := got.RowPolicy()
	if op != tzmap.OverflowFail || rp != tzmap.RowPad {
		t.Errorf("policies = %v, %v", op, rp)
	}
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Parse(empty) mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UnknownKey(t *testing.T) {
	if _, err := Parse(strings.NewReader("ouptut: x.dat\n")); err == nil {
		t.Errorf("Parse() accepted an unknown key")
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Output = ""
	c.Overflow = "ignore"
	c.Rows = "flush"
	c.Tiles = Tiles{Dir: "tiles", Count: 7}
	c.Log = Log{Level: "loud", Format: "xml"}

	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() succeeded")
	}
	for _, key := range []string{"output:", "overflow:", "rows:", "tiles.count:", "tiles.version:", "log.level:", "log.format:"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Validate() error does not mention %q:\n%v", key, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tzmap.yaml")
	if err := os.WriteFile(path, []byte("output: out.dat\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Output != "out.dat" || c.Input != Default().Input {
		t.Errorf("Load() = %+v", c)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load() of a missing file succeeded")
	}
}
