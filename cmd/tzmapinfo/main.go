package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzmap/tzmap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("tzmapinfo", pflag.ContinueOnError)
	printPixels := fs.IntP("pixels", "p", 0, "also print the pixels of the first `n` rows")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("Usage: tzmapinfo [--pixels n] <map file>")
	}

	g, err := tzmap.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	printGrid(g)
	if err := tzmap.Validate(g, nil); err != nil {
		fmt.Println("Problems")
		fmt.Println(err)
		fmt.Println()
	}
	for y := 0; y < *printPixels && y < g.Height(); y++ {
		printRow(y, g.Rows[y])
	}
	return nil
}

func printGrid(g tzmap.Grid) {
	var (
		used  [tzmap.Slots]int
		top   [tzmap.Slots]int
		empty int
	)
	for _, row := range g.Rows {
		for _, p := range row {
			if p == tzmap.EmptyPixel {
				empty++
			}
			for s, v := range p {
				if v == tzmap.Sentinel {
					continue
				}
				used[s]++
				if int(v) > top[s] {
					top[s] = int(v)
				}
			}
		}
	}
	fmt.Println("Map")
	fmt.Println("  width  =", tzmap.Width)
	fmt.Println("  height =", g.Height())
	fmt.Println("  pixels =", g.Pixels())
	fmt.Println("  empty  =", empty)
	fmt.Println()
	fmt.Println("Slots")
	for s := range used {
		fmt.Printf("  slot %d: used = %d, max number = %d\n", s, used[s], top[s])
	}
	fmt.Println()
}

func printRow(y int, row []tzmap.Pixel) {
	fmt.Printf("Row %d (%d)\n", y, len(row))
	for x, p := range row {
		if p == tzmap.EmptyPixel {
			continue
		}
		fmt.Printf("  %4d %v\n", x, p)
	}
	fmt.Println()
}
