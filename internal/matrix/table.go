package matrix

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/psilva261/timsort/v2"
)

// Layout names.
const (
	LayoutValues   = "values"
	LayoutPointers = "pointers"
	LayoutStrings  = "strings"
	LayoutPadded   = "padded"
)

// Algorithm names.
const (
	AlgorithmIntrosort = "introsort"
	AlgorithmStable    = "stable"
	AlgorithmTimsort   = "timsort"
)

// Layouts lists every layout in table order.
var Layouts = []string{LayoutValues, LayoutPointers, LayoutStrings, LayoutPadded}

// Algorithms lists every sorting algorithm in table order.
var Algorithms = []string{AlgorithmIntrosort, AlgorithmStable, AlgorithmTimsort}

// Descriptor is one row of the matrix. Check is nil for plain timing
// trials; otherwise Check is timed instead of Run and must return Want.
type Descriptor struct {
	Name  string
	Pre   string
	Setup func()
	Run   func()
	Check func() bool
	Want  bool
}

// Checked reports whether d validates a result.
func (d Descriptor) Checked() bool {
	return d.Check != nil
}

// Selection narrows the table. Empty fields select everything.
type Selection struct {
	Layouts    []string
	Algorithms []string
}

func (s Selection) validate() error {
	for _, l := range s.Layouts {
		if !slices.Contains(Layouts, l) {
			return fmt.Errorf("%w: %q", ErrUnknownLayout, l)
		}
	}

	for _, a := range s.Algorithms {
		if !slices.Contains(Algorithms, a) {
			return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
		}
	}

	return nil
}

func selected(names, want []string) []string {
	if len(want) == 0 {
		return names
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		if slices.Contains(want, n) {
			out = append(out, n)
		}
	}

	return out
}

type namedFunc struct {
	name string
	run  func()
}

// layoutFuncs binds the operations of one layout to its vector.
type layoutFuncs struct {
	name     string
	sort     func()
	reverse  func()
	shuffle  func()
	isSorted func() bool
	sorters  []namedFunc
}

func (l layoutFuncs) label(op string) string {
	return op + "(" + l.name + ")"
}

func newLayoutFuncs[E any](name string, data []E, compare func(a, b E) int, rnd *rand.Rand) layoutFuncs {
	descending := func(a, b E) int { return compare(b, a) }
	less := func(a, b E) bool { return compare(a, b) < 0 }

	return layoutFuncs{
		name:    name,
		sort:    func() { slices.SortFunc(data, compare) },
		reverse: func() { slices.SortFunc(data, descending) },
		shuffle: func() {
			rnd.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
		},
		isSorted: func() bool { return slices.IsSortedFunc(data, compare) },
		sorters: []namedFunc{
			{AlgorithmIntrosort, func() { slices.SortFunc(data, compare) }},
			{AlgorithmStable, func() { slices.SortStableFunc(data, compare) }},
			{AlgorithmTimsort, func() { timsort.TimSort(data, less) }},
		},
	}
}

func (d *Dataset) layouts(rnd *rand.Rand) map[string]layoutFuncs {
	return map[string]layoutFuncs{
		LayoutValues:   newLayoutFuncs(LayoutValues, d.Values, cmp.Compare[uint32], rnd),
		LayoutPointers: newLayoutFuncs(LayoutPointers, d.Pointers, comparePointers, rnd),
		LayoutStrings:  newLayoutFuncs(LayoutStrings, d.Strings, strings.Compare, rnd),
		LayoutPadded:   newLayoutFuncs(LayoutPadded, d.Padded, strings.Compare, rnd),
	}
}

// Table returns the trial descriptors for d in execution order:
//
//  1. copy of the values
//  2. sortedness check after sorting (want true)
//  3. every algorithm on already sorted input
//  4. every algorithm after a shuffle
//  5. sortedness check after a shuffle (want false)
//  6. every algorithm on reverse sorted input
//
// Within each group rows run algorithm-major, then layout. The shuffles draw
// from rnd.
func Table(d *Dataset, sel Selection, rnd *rand.Rand) ([]Descriptor, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}

	all := d.layouts(rnd)

	layouts := make([]layoutFuncs, 0, len(Layouts))
	for _, name := range selected(Layouts, sel.Layouts) {
		layouts = append(layouts, all[name])
	}

	algorithms := selected(Algorithms, sel.Algorithms)

	var table []Descriptor

	if slices.Contains(selected(Layouts, sel.Layouts), LayoutValues) {
		table = append(table, Descriptor{
			Name: "copy(" + LayoutValues + ")",
			Run:  func() { copy(d.Buffer, d.Values) },
		})
	}

	for _, l := range layouts {
		table = append(table, Descriptor{
			Name:  l.label("is_sorted"),
			Pre:   l.label(AlgorithmIntrosort),
			Setup: l.sort,
			Check: l.isSorted,
			Want:  true,
		})
	}

	sortRows := func(pre string, setup func(layoutFuncs) func()) {
		for _, alg := range algorithms {
			for _, l := range layouts {
				for _, s := range l.sorters {
					if s.name != alg {
						continue
					}

					table = append(table, Descriptor{
						Name:  l.label(s.name),
						Pre:   l.label(pre),
						Setup: setup(l),
						Run:   s.run,
					})
				}
			}
		}
	}

	sortRows(AlgorithmIntrosort, func(l layoutFuncs) func() { return l.sort })
	sortRows("shuffle", func(l layoutFuncs) func() { return l.shuffle })

	for _, l := range layouts {
		table = append(table, Descriptor{
			Name:  l.label("is_sorted"),
			Pre:   l.label("shuffle"),
			Setup: l.shuffle,
			Check: l.isSorted,
			Want:  false,
		})
	}

	sortRows("reverse", func(l layoutFuncs) func() { return l.reverse })

	return table, nil
}
