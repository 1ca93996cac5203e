// Package sortcycles measures the per-element cycle cost of an operation.
//
// A Runner executes a trial a fixed number of times. Before every repetition
// it runs the trial's Setup to restore the input, fences memory, and then
// brackets Run with a serialized pair of cycle counter reads. The reported
// figure is the minimum elapsed count over all repetitions divided by the
// element count: the least perturbed sample, never inflated by scheduling
// noise, though it still contains the fixed cost of the counter reads.
//
//	r := sortcycles.NewRunner(os.Stdout, sortcycles.RunnerOptions{})
//	res, err := r.Measure(sortcycles.Trial{
//	    Name:  "slices.Sort(v)",
//	    Pre:   "shuffle(v)",
//	    Setup: func() { rand.Shuffle(len(v), swap) },
//	    Run:   func() { slices.Sort(v) },
//	}, 500, len(v))
//
// MeasureWithCheck additionally compares each repetition's return value with
// an expected one. A mismatch prints a marker and is counted in the Result,
// but the repetition still takes part in the minimum.
package sortcycles
