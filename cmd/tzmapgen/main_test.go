package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ngrash/go-tzmap/tzmap"
)

func TestRun_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < tzmap.Width; i++ {
		fmt.Fprintf(&b, "(%d.5, 1) [UTC]\n", i)
	}
	input := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(input, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	conf := filepath.Join(dir, "tzmap.yaml")
	yaml := fmt.Sprintf("input: %s\ncache: %s\nname2num: %s\nnum2name: %s\noutput: %s\n",
		input,
		filepath.Join(dir, "cache"),
		filepath.Join(dir, "n2n.txt"),
		filepath.Join(dir, "n2n_inv.txt"),
		filepath.Join(dir, "from-config.dat"))
	if err := os.WriteFile(conf, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "from-flag.dat")
	if err := run([]string{"--config", conf, "--output", out, "--log-level", "warn"}); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	g, err := tzmap.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if g.Height() != 1 {
		t.Errorf("map has %d rows, want 1", g.Height())
	}
	if _, err := os.Stat(filepath.Join(dir, "from-config.dat")); !os.IsNotExist(err) {
		t.Errorf("config output was written despite --output")
	}
}

func TestRun_Usage(t *testing.T) {
	if err := run([]string{"extra"}); err == nil {
		t.Errorf("run() accepted a positional argument")
	}
	if err := run([]string{"--overflow", "ignore", "--input", filepath.Join(t.TempDir(), "x")}); err == nil {
		t.Errorf("run() accepted an unknown overflow policy")
	}
}
