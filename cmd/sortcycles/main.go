// Command sortcycles measures the per-element cycle cost of sorting
// different data layouts and input orders.
package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/cwbudde/sortcycles"
	"github.com/cwbudde/sortcycles/internal/cpu"
	"github.com/cwbudde/sortcycles/internal/matrix"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errMismatch is returned in strict mode when any check failed.
var errMismatch = errors.New("result mismatches reported")

type options struct {
	sizes      []int
	repeat     int
	seed       uint64
	layouts    []string
	algorithms []string
	pinCPU     int
	clock      bool
	gc         bool
	strict     bool
	logLevel   string
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := newCommand(log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(log *logrus.Logger) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "sortcycles",
		Short: "Measure the cycles per element of sorting across layouts and input orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}

			log.SetLevel(lvl)

			return run(cmd, log, opts)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.IntSliceVar(&opts.sizes, "sizes", matrix.DefaultSizes, "problem sizes")
	f.IntVar(&opts.repeat, "repeat", matrix.DefaultRepeat, "repetitions per trial")
	f.Uint64Var(&opts.seed, "seed", 1, "shuffle seed")
	f.StringSliceVar(&opts.layouts, "layouts", nil, "layouts to measure (default all: values,pointers,strings,padded)")
	f.StringSliceVar(&opts.algorithms, "algorithms", nil, "algorithms to measure (default all: introsort,stable,timsort)")
	f.IntVar(&opts.pinCPU, "cpu", -1, "pin the measuring thread to this CPU (Linux)")
	f.BoolVar(&opts.clock, "clock", false, "use the monotonic clock instead of the cycle counter")
	f.BoolVar(&opts.gc, "gc", false, "collect garbage before every trial")
	f.BoolVar(&opts.strict, "strict", false, "exit with status 1 if any check reported a mismatch")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, log *logrus.Logger, opts options) error {
	if opts.repeat < 1 {
		return sortcycles.ErrInvalidRepeat
	}

	features := cpu.DetectFeatures()

	switch {
	case opts.clock:
		cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true})
		defer cpu.ResetDetection()
		log.Warn("Using the monotonic clock: results are nanoseconds, not cycles")
	case !features.HasCycleCounter:
		log.WithField("arch", features.Architecture).Error("No usable cycle counter on this processor")

		return errors.New("cycle counter unavailable, rerun with --clock")
	}

	if opts.pinCPU >= 0 {
		if err := pin(log, opts.pinCPU); err != nil {
			return err
		}
	}

	counter := cpu.NewCounter()

	log.WithFields(logrus.Fields{
		"arch":          features.Architecture,
		"rdtscp":        features.HasRDTSCP,
		"invariant_tsc": features.HasInvariantTSC,
		"sse2":          features.HasSSE2,
		"avx2":          features.HasAVX2,
		"avx512":        features.HasAVX512,
		"neon":          features.HasNEON,
		"counter":       fmt.Sprintf("%T", counter),
		"frequency_mhz": float64(cpu.FrequencyOf(counter)) / 1e6,
		"overhead":      cpu.Overhead(counter, 1000),
	}).Info("Cycle counter ready")

	out := cmd.OutOrStdout()

	marker := sortcycles.DefaultMarker
	if isTerminal(out) {
		marker = "\x1b[31m" + marker + "\x1b[0m"
	}

	runner := sortcycles.NewRunner(out, sortcycles.RunnerOptions{
		Counter:        counter,
		Marker:         marker,
		Logger:         log,
		CollectGarbage: opts.gc,
	})

	summary, err := matrix.Run(runner, matrix.Config{
		Sizes:  opts.sizes,
		Repeat: opts.repeat,
		Seed:   opts.seed,
		Selection: matrix.Selection{
			Layouts:    opts.layouts,
			Algorithms: opts.algorithms,
		},
	}, log)
	if err != nil {
		log.WithError(err).Error("Benchmark failed")

		return err
	}

	if summary.Mismatches > 0 {
		entry := log.WithField("mismatches", summary.Mismatches)
		if opts.strict {
			entry.Error("Checks failed")

			return errMismatch
		}

		entry.Warn("Checks failed")
	}

	return nil
}

func pin(log *logrus.Logger, id int) error {
	allowed, err := cpu.AllowedCPUs()
	if err != nil {
		return err
	}

	if !slices.Contains(allowed, id) {
		return fmt.Errorf("cpu %d not in allowed set %v", id, allowed)
	}

	if err := cpu.PinToCPU(id); err != nil {
		return err
	}

	log.WithField("cpu", id).Info("Pinned measuring thread")

	return nil
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
