package matrix

import (
	"bytes"
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/sortcycles"
	"github.com/sirupsen/logrus"
)

// stepCounter advances by a fixed step between Start and Stop.
type stepCounter struct {
	now uint64
}

func (c *stepCounter) Start() uint64 { return c.now }

func (c *stepCounter) Stop() uint64 {
	c.now += 64

	return c.now
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func TestNewDataset(t *testing.T) {
	t.Parallel()

	d, err := NewDataset(300)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}

	for i := range d.Size {
		if d.Values[i] != uint32(i) || *d.Pointers[i] != uint32(i) {
			t.Fatalf("element %d: value %d pointer %d", i, d.Values[i], *d.Pointers[i])
		}

		if d.Pointers[i] != &d.Backing[i] {
			t.Fatalf("pointer %d does not refer into the backing array", i)
		}

		if len(d.Strings[i]) != 1 || d.Strings[i][0] != byte(i) {
			t.Fatalf("string %d = %q", i, d.Strings[i])
		}

		if len(d.Padded[i]) != paddedWidth || !strings.HasPrefix(d.Padded[i], d.Strings[i]) {
			t.Fatalf("padded %d = %q", i, d.Padded[i])
		}
	}

	if _, err := NewDataset(0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("NewDataset(0) err = %v, want ErrInvalidSize", err)
	}
}

func TestTableOrder(t *testing.T) {
	t.Parallel()

	d, err := NewDataset(128)
	if err != nil {
		t.Fatal(err)
	}

	table, err := Table(d, Selection{}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("Table: %v", err)
	}

	nl, na := len(Layouts), len(Algorithms)
	if want := 1 + nl + na*nl + na*nl + nl + na*nl; len(table) != want {
		t.Fatalf("len(table) = %d, want %d", len(table), want)
	}

	if table[0].Name != "copy(values)" || table[0].Pre != "" || table[0].Checked() {
		t.Fatalf("first row = %+v", table[0])
	}

	if got := table[1]; got.Name != "is_sorted(values)" || got.Pre != "introsort(values)" || !got.Want {
		t.Fatalf("second row = %s [%s] want=%v", got.Name, got.Pre, got.Want)
	}

	if got := table[1+nl+nl]; got.Name != "stable(values)" || got.Pre != "introsort(values)" {
		t.Fatalf("first stable row = %s [%s]", got.Name, got.Pre)
	}

	last := table[len(table)-1]
	if last.Name != "timsort(padded)" || last.Pre != "reverse(padded)" {
		t.Fatalf("last row = %s [%s]", last.Name, last.Pre)
	}
}

func TestTableSelection(t *testing.T) {
	t.Parallel()

	d, err := NewDataset(64)
	if err != nil {
		t.Fatal(err)
	}

	table, err := Table(d, Selection{
		Layouts:    []string{LayoutPointers},
		Algorithms: []string{AlgorithmTimsort},
	}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("Table: %v", err)
	}

	var names []string
	for _, row := range table {
		names = append(names, row.Name+" ["+row.Pre+"]")
	}

	want := []string{
		"is_sorted(pointers) [introsort(pointers)]",
		"timsort(pointers) [introsort(pointers)]",
		"timsort(pointers) [shuffle(pointers)]",
		"is_sorted(pointers) [shuffle(pointers)]",
		"timsort(pointers) [reverse(pointers)]",
	}
	if !slices.Equal(names, want) {
		t.Fatalf("rows = %q, want %q", names, want)
	}
}

func TestTableRejectsUnknownNames(t *testing.T) {
	t.Parallel()

	d, err := NewDataset(8)
	if err != nil {
		t.Fatal(err)
	}

	rnd := rand.New(rand.NewPCG(1, 1))

	if _, err := Table(d, Selection{Layouts: []string{"matrix"}}, rnd); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("unknown layout err = %v", err)
	}

	if _, err := Table(d, Selection{Algorithms: []string{"bogo"}}, rnd); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("unknown algorithm err = %v", err)
	}
}

func TestTableRowsDoWhatTheySay(t *testing.T) {
	t.Parallel()

	d, err := NewDataset(1000)
	if err != nil {
		t.Fatal(err)
	}

	table, err := Table(d, Selection{}, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatal(err)
	}

	layouts := d.layouts(rand.New(rand.NewPCG(5, 6)))

	for _, row := range table {
		if row.Setup != nil {
			row.Setup()
		}

		if row.Checked() {
			if got := row.Check(); got != row.Want {
				t.Errorf("%s [%s] = %v, want %v", row.Name, row.Pre, got, row.Want)
			}

			continue
		}

		row.Run()

		if strings.HasPrefix(row.Name, "copy") {
			if !slices.Equal(d.Buffer, d.Values) {
				t.Errorf("%s did not copy", row.Name)
			}

			continue
		}

		layout := strings.TrimSuffix(row.Name[strings.Index(row.Name, "(")+1:], ")")
		if !layouts[layout].isSorted() {
			t.Errorf("%s [%s] left %s unsorted", row.Name, row.Pre, layout)
		}
	}
}

func TestSortersAreStable(t *testing.T) {
	t.Parallel()

	type pair struct {
		key, seq int
	}

	rnd := rand.New(rand.NewPCG(7, 7))

	data := make([]pair, 5000)
	for i := range data {
		data[i] = pair{key: rnd.IntN(50), seq: i}
	}

	want := slices.Clone(data)
	byKey := func(a, b pair) int { return a.key - b.key }
	slices.SortStableFunc(want, byKey)

	input := slices.Clone(data)
	funcs := newLayoutFuncs("pairs", data, byKey, rnd)

	for _, s := range funcs.sorters {
		if s.name == AlgorithmIntrosort {
			continue
		}

		copy(data, input)
		s.run()

		if !slices.Equal(data, want) {
			t.Errorf("%s is not stable", s.name)
		}
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	r := sortcycles.NewRunner(&out, sortcycles.RunnerOptions{
		Counter: &stepCounter{},
		Logger:  quietLogger(),
	})

	summary, err := Run(r, Config{
		Sizes:  []int{64, 256},
		Repeat: 3,
		Seed:   1,
	}, quietLogger())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	perSize := 1 + 2*len(Layouts) + 3*len(Layouts)*len(Algorithms)
	if len(summary.Results) != 2*perSize {
		t.Fatalf("got %d results, want %d", len(summary.Results), 2*perSize)
	}

	if summary.Mismatches != 0 {
		t.Fatalf("unexpected mismatches:\n%s", out.String())
	}

	text := out.String()
	for _, want := range []string{"size = 64 values \n", "size = 256 values \n", "cycles per element\n\n"} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q", want)
		}
	}

	if got := strings.Count(text, "cycles per element"); got != 2*perSize {
		t.Errorf("%d result lines, want %d", got, 2*perSize)
	}

	for _, res := range summary.Results {
		if res.MinCycles != 64 {
			t.Fatalf("%s [%s]: MinCycles = %d, want 64", res.Name, res.Pre, res.MinCycles)
		}
	}
}

func TestRunRejectsInvalidSize(t *testing.T) {
	t.Parallel()

	r := sortcycles.NewRunner(io.Discard, sortcycles.RunnerOptions{
		Counter: &stepCounter{},
		Logger:  quietLogger(),
	})

	if _, err := Run(r, Config{Sizes: []int{-4}}, quietLogger()); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
}
