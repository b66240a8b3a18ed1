package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dot5enko/pointindex/io"
	"github.com/dot5enko/pointindex/manager/query"
	"github.com/dot5enko/pointindex/schema"
)

type genOptions struct {
	out     string
	dims    int
	points  int
	queries int

	maxValue int
	seed     uint64
	codec    string

	// share of positions written to outliers.bin
	outlierRate float64
}

var genOpts genOptions

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Write a random dataset and a matching workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(genOpts)
	},
}

func init() {
	fs := genCmd.Flags()

	fs.StringVar(&genOpts.out, "out", "", "output directory")
	fs.IntVar(&genOpts.dims, "dims", 2, "point dimensions")
	fs.IntVar(&genOpts.points, "points", 100000, "number of points")
	fs.IntVar(&genOpts.queries, "queries", 100, "number of queries")
	fs.IntVar(&genOpts.maxValue, "max-value", 50000, "coordinates are drawn from [0, max-value)")
	fs.Uint64Var(&genOpts.seed, "seed", 42, "random seed")
	fs.StringVar(&genOpts.codec, "codec", "", "dataset suffix: empty, lz4 or zst")
	fs.Float64Var(&genOpts.outlierRate, "outlier-rate", 0, "share of positions listed in outliers.bin, 0 skips the file")

	genCmd.MarkFlagRequired("out")
}

func generate(opts genOptions) error {

	if opts.dims <= 0 || opts.points <= 0 || opts.queries < 0 || opts.maxValue <= 0 {
		return fmt.Errorf("dims, points and max-value must be positive")
	}

	if opts.outlierRate < 0 || opts.outlierRate > 1 {
		return fmt.Errorf("outlier-rate must be within [0, 1], got %v", opts.outlierRate)
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("unable to create %s: %s", opts.out, err.Error())
	}

	rnd := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	data := make([]schema.Scalar, opts.dims*opts.points)
	for i := range data {
		data[i] = schema.Scalar(rnd.IntN(opts.maxValue))
	}

	datasetPath := filepath.Join(opts.out, "points.bin")
	if opts.codec != "" {
		datasetPath += "." + opts.codec
	}

	if err := io.DumpPoints(datasetPath, schema.NewPoints(opts.dims, data)); err != nil {
		return err
	}

	if opts.outlierRate > 0 {

		var outliers schema.IndexList
		for p := range opts.points {
			if rnd.Float64() < opts.outlierRate {
				outliers = append(outliers, schema.PhysicalIndex(p))
			}
		}

		outliersPath := filepath.Join(opts.out, "outliers.bin")
		if err := io.DumpOutlierList(outliersPath, outliers); err != nil {
			return err
		}

		slog.Debug("generated outliers", "count", len(outliers))
	}

	queries := make([]query.Query, opts.queries)
	for i := range queries {
		queries[i] = randomQuery(rnd, opts.dims, opts.maxValue)
	}

	workloadPath := filepath.Join(opts.out, "workload.txt")

	f, err := os.Create(workloadPath)
	if err != nil {
		return fmt.Errorf("unable to create %s: %s", workloadPath, err.Error())
	}
	defer f.Close()

	if err = io.WriteWorkload(f, queries); err != nil {
		return fmt.Errorf("unable to write workload: %s", err.Error())
	}

	slog.Debug("generated", "points", opts.points, "dims", opts.dims, "queries", opts.queries)
	color.Green("wrote %s and %s", datasetPath, workloadPath)

	return nil
}

// randomQuery leaves about a third of the dimensions unconstrained and mixes ranges,
// some of them open ended, with value lists.
func randomQuery(rnd *rand.Rand, dims, maxValue int) query.Query {

	q := query.New(dims)

	for dim := range dims {
		switch rnd.IntN(3) {
		case 0:
			continue
		case 1:
			lo := schema.Scalar(rnd.IntN(maxValue))
			hi := min(lo+schema.Scalar(rnd.IntN(max(maxValue/10, 1))), schema.Scalar(maxValue-1))
			switch rnd.IntN(8) {
			case 0:
				hi = schema.ScalarPInf
			case 1:
				lo, hi = schema.ScalarNInf, lo
			}
			q = q.With(dim, query.RangeFilter(lo, hi))
		default:
			vals := make([]schema.Scalar, 1+rnd.IntN(8))
			for i := range vals {
				vals[i] = schema.Scalar(rnd.IntN(maxValue))
			}
			q = q.With(dim, query.ValuesFilter(vals...))
		}
	}

	return q
}
