package tzmap

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-tzmap/quadrant"
	"github.com/ngrash/go-tzmap/tzindex"
)

// maxValidationErrors caps the number of problems Validate reports individually.
const maxValidationErrors = 32

// Validate checks that g is a well-formed location map and returns all
// problems found, joined. If idx is not nil, slot values are also checked
// against the largest quadrant of idx.
func Validate(g Grid, idx *tzindex.Index) error {
	var (
		errs    []error
		dropped int
		limit   = -1 // no zone number can be checked without an index
	)
	report := func(err error) {
		if len(errs) < maxValidationErrors {
			errs = append(errs, err)
		} else {
			dropped++
		}
	}

	if g.Height() == 0 {
		report(ErrEmptyGrid)
	}
	if idx != nil {
		for _, q := range quadrant.All {
			limit = max(limit, idx.Len(q))
		}
	}

	for y, row := range g.Rows {
		if len(row) != Width {
			report(fmt.Errorf("row %d: width %d, want %d", y, len(row), Width))
		}
		for x, p := range row {
			n := p.Len()
			for i := n + 1; i < Slots; i++ {
				if p[i] != Sentinel {
					report(fmt.Errorf("row %d col %d: slot %d holds %d after an empty slot", y, x, i, p[i]))
				}
			}
			if limit < 0 {
				continue
			}
			for i := 0; i < n; i++ {
				if int(p[i]) >= limit {
					report(fmt.Errorf("row %d col %d: slot %d holds %d, no quadrant has that many zones", y, x, i, p[i]))
				}
			}
		}
	}

	if dropped > 0 {
		errs = append(errs, fmt.Errorf("%d more problems", dropped))
	}
	return errors.Join(errs...)
}
