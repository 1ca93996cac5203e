// Package matrix drives the trial runner over every combination of data
// layout, input order and sorting algorithm.
package matrix

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/sortcycles"
	"github.com/sirupsen/logrus"
)

// DefaultSizes are the problem sizes measured when none are configured.
var DefaultSizes = []int{1024, 1 << 16, 1_000_000}

// DefaultRepeat is the number of repetitions per trial.
const DefaultRepeat = 500

// Config controls a matrix run.
type Config struct {
	Sizes     []int
	Repeat    int
	Seed      uint64
	Selection Selection
}

// Summary collects the results of a run.
type Summary struct {
	Results    []sortcycles.Result
	Mismatches int
}

// Run measures the table for every configured size, printing a header
// before and a blank line after each size.
func Run(r *sortcycles.Runner, cfg Config, log logrus.FieldLogger) (Summary, error) {
	log = log.WithField("component", "matrix")

	sizes := cfg.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}

	repeat := cfg.Repeat
	if repeat == 0 {
		repeat = DefaultRepeat
	}

	rnd := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	var summary Summary

	for _, size := range sizes {
		ds, err := NewDataset(size)
		if err != nil {
			return summary, fmt.Errorf("size %d: %w", size, err)
		}

		table, err := Table(ds, cfg.Selection, rnd)
		if err != nil {
			return summary, err
		}

		log.WithFields(logrus.Fields{
			"size":   size,
			"trials": len(table),
			"repeat": repeat,
		}).Info("Measuring size")

		if err := r.Printf("size = %d values \n", size); err != nil {
			return summary, err
		}

		for _, d := range table {
			res, err := measure(r, d, repeat, size)
			if err != nil {
				return summary, fmt.Errorf("%s [%s]: %w", d.Name, d.Pre, err)
			}

			summary.Results = append(summary.Results, res)
			summary.Mismatches += res.Mismatches
		}

		if err := r.Printf("\n"); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func measure(r *sortcycles.Runner, d Descriptor, repeat, size int) (sortcycles.Result, error) {
	if d.Checked() {
		return sortcycles.MeasureWithCheck(r, sortcycles.CheckedTrial[bool]{
			Name:  d.Name,
			Pre:   d.Pre,
			Setup: d.Setup,
			Run:   d.Check,
			Want:  d.Want,
		}, repeat, size)
	}

	return r.Measure(sortcycles.Trial{
		Name:  d.Name,
		Pre:   d.Pre,
		Setup: d.Setup,
		Run:   d.Run,
	}, repeat, size)
}
