package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
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
	fs := pflag.NewFlagSet("tzmapdiff", pflag.ContinueOnError)
	quiet := fs.BoolP("quiet", "q", false, "only report whether the maps differ")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("Usage: tzmapdiff [-q] <map file A> <map file B>")
	}

	a, err := tzmap.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := tzmap.ReadFile(fs.Arg(1))
	if err != nil {
		return err
	}

	if diff := cmp.Diff(a, b); diff != "" {
		fmt.Println("maps are different: -A +B")
		if !*quiet {
			fmt.Println(diff)
		}
		return nil
	}
	fmt.Println("maps are identical")
	return nil
}
