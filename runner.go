package sortcycles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/cwbudde/sortcycles/internal/cpu"
	"github.com/sirupsen/logrus"
)

// DefaultMarker is written once per repetition whose result did not match.
const DefaultMarker = "bug"

// Trial is one timed configuration. Setup runs before every repetition and
// restores whatever state Run consumes; a nil Setup does nothing.
type Trial struct {
	Name  string
	Pre   string
	Setup func()
	Run   func()
}

// CheckedTrial is a Trial whose operation returns a value that must equal
// Want after every repetition.
type CheckedTrial[R comparable] struct {
	Name  string
	Pre   string
	Setup func()
	Run   func() R
	Want  R
}

// Result is the outcome of one trial.
type Result struct {
	Name string
	Pre  string

	// MinCycles is the smallest Stop-Start difference over all repetitions.
	MinCycles uint64
	Elements  int
	Repeats   int

	// Mismatches counts the repetitions of a checked trial whose result
	// differed from the expected value.
	Mismatches int
}

// CyclesPerElement returns MinCycles normalized by the element count.
func (r Result) CyclesPerElement() float64 {
	if r.Elements <= 0 {
		return 0
	}

	return float64(r.MinCycles) / float64(r.Elements)
}

// RunnerOptions controls a Runner.
type RunnerOptions struct {
	// Counter times each repetition. Nil selects HardwareCounter().
	Counter Counter

	// Marker is printed for every mismatching repetition. Empty selects
	// DefaultMarker.
	Marker string

	// Logger receives a debug entry per trial. Nil selects the logrus
	// standard logger.
	Logger logrus.FieldLogger

	// CollectGarbage runs a full collection before the first repetition of
	// every trial so that pending GC work from setup is not timed.
	CollectGarbage bool
}

// Runner executes trials and writes one line per trial to its output.
// A Runner is not safe for concurrent use.
type Runner struct {
	out     *bufio.Writer
	counter Counter
	freq    uint64
	marker  string
	gc      bool
	log     logrus.FieldLogger
}

// NewRunner creates a Runner writing to w.
func NewRunner(w io.Writer, opts RunnerOptions) *Runner {
	r := &Runner{
		out:     bufio.NewWriter(w),
		counter: opts.Counter,
		marker:  opts.Marker,
		gc:      opts.CollectGarbage,
		log:     opts.Logger,
	}

	if r.counter == nil {
		r.counter = HardwareCounter()
	}

	// Resolved once so that a calibrating counter never pauses between trials.
	r.freq = cpu.FrequencyOf(r.counter)

	if r.marker == "" {
		r.marker = DefaultMarker
	}

	if r.log == nil {
		r.log = logrus.StandardLogger()
	}

	r.log = r.log.WithField("component", "runner")

	return r
}

// Printf writes a formatted line outside any trial and flushes it.
func (r *Runner) Printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		return fmt.Errorf("sortcycles: write: %w", err)
	}

	return r.flush()
}

// Measure runs t repeat times and reports the minimum elapsed cycles divided
// by elements.
func (r *Runner) Measure(t Trial, repeat, elements int) (Result, error) {
	if err := validate(repeat, elements); err != nil {
		return Result{}, err
	}

	if err := r.begin(t.Name, t.Pre); err != nil {
		return Result{}, err
	}

	setup := orNoop(t.Setup)
	run := t.Run
	minDiff := uint64(math.MaxUint64)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for range repeat {
		setup()
		cpu.Fence()

		start := r.counter.Start()
		run()
		stop := r.counter.Stop()

		if diff := stop - start; diff < minDiff {
			minDiff = diff
		}
	}

	return r.end(Result{
		Name:      t.Name,
		Pre:       t.Pre,
		MinCycles: minDiff,
		Elements:  elements,
		Repeats:   repeat,
	})
}

// MeasureWithCheck is Measure for an operation with a result. After each
// timed repetition the result is compared with t.Want; a mismatch writes
// the runner's marker and is counted, but the repetition is still timed
// and still competes for the minimum.
func MeasureWithCheck[R comparable](r *Runner, t CheckedTrial[R], repeat, elements int) (Result, error) {
	if err := validate(repeat, elements); err != nil {
		return Result{}, err
	}

	if err := r.begin(t.Name, t.Pre); err != nil {
		return Result{}, err
	}

	setup := orNoop(t.Setup)
	run := t.Run
	minDiff := uint64(math.MaxUint64)
	mismatches := 0

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for range repeat {
		setup()
		cpu.Fence()

		start := r.counter.Start()
		got := run()
		stop := r.counter.Stop()

		if got != t.Want {
			mismatches++
			// Buffered; reaches the output with the result line.
			_, _ = r.out.WriteString(r.marker)
		}

		if diff := stop - start; diff < minDiff {
			minDiff = diff
		}
	}

	return r.end(Result{
		Name:       t.Name,
		Pre:        t.Pre,
		MinCycles:  minDiff,
		Elements:   elements,
		Repeats:    repeat,
		Mismatches: mismatches,
	})
}

// begin prints the trial labels and flushes them so that no buffered output
// is written while the trial is timed.
func (r *Runner) begin(name, pre string) error {
	if _, err := fmt.Fprintf(r.out, "%40s [%40s]: ", name, pre); err != nil {
		return fmt.Errorf("sortcycles: write: %w", err)
	}

	if err := r.flush(); err != nil {
		return err
	}

	if r.gc {
		runtime.GC()
	}

	return nil
}

func (r *Runner) end(res Result) (Result, error) {
	cpe := res.CyclesPerElement()

	if _, err := fmt.Fprintf(r.out, " %.2f cycles per element\n", cpe); err != nil {
		return res, fmt.Errorf("sortcycles: write: %w", err)
	}

	if err := r.flush(); err != nil {
		return res, err
	}

	fields := logrus.Fields{
		"trial":              res.Name,
		"pre":                res.Pre,
		"min_cycles":         res.MinCycles,
		"cycles_per_element": cpe,
		"mismatches":         res.Mismatches,
	}

	if r.freq > 0 {
		fields["ns_per_element"] = cpe * 1e9 / float64(r.freq)
	}

	r.log.WithFields(fields).Debug("Trial finished")

	return res, nil
}

func (r *Runner) flush() error {
	if err := r.out.Flush(); err != nil {
		return fmt.Errorf("sortcycles: flush: %w", err)
	}

	return nil
}

func validate(repeat, elements int) error {
	if repeat < 1 {
		return ErrInvalidRepeat
	}

	if elements < 1 {
		return ErrInvalidElements
	}

	return nil
}

func orNoop(f func()) func() {
	if f == nil {
		return func() {}
	}

	return f
}
