// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/curioloop/asmsolve/scene"
	"github.com/curioloop/asmsolve/solver"
)

type options struct {
	verbose     bool
	splitFrames bool
	out         string
	maxIter     int
	gradTol     float64
}

// solveSystem runs the optimizer; tests replace it to inject optimizer failures.
var solveSystem = (*solver.System).Solve

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "asmsolve",
		Short:         "Solve rigid body placement constraints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every solver iteration")
	root.PersistentFlags().BoolVar(&opts.splitFrames, "split-frames", false, "refresh position and orientation caches independently")

	solve := &cobra.Command{
		Use:   "solve <scene.yaml>",
		Short: "Solve a scene and print the placements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], &opts)
		},
	}
	solve.Flags().StringVarP(&opts.out, "out", "o", "", "write the result to a file instead of stdout")
	solve.Flags().IntVar(&opts.maxIter, "max-iterations", 0, "major iteration limit (0 selects the default)")
	solve.Flags().Float64Var(&opts.gradTol, "gradient-threshold", 0, "gradient norm at which to stop (0 selects the default)")

	check := &cobra.Command{
		Use:   "check <scene.yaml>",
		Short: "Compare analytic derivatives with finite differences at the initial point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], &opts)
		},
	}

	root.AddCommand(solve, check)
	return root
}

// newLogger builds a development logger at debug level when verbose and a
// production logger at warn level otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		conf := zap.NewDevelopmentConfig()
		conf.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		conf.DisableStacktrace = true
		return conf.Build()
	}
	conf := zap.NewProductionConfig()
	conf.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return conf.Build()
}

func load(path string, opts *options) (*scene.Scene, *solver.System, error) {
	sc, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	sys, err := sc.Build(&solver.Options{SplitFrames: opts.splitFrames})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, sys, nil
}

func runSolve(cmd *cobra.Command, path string, opts *options) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sc, sys, err := load(path, opts)
	if err != nil {
		return err
	}
	res, err := solveSystem(sys, &solver.Settings{
		GradientThreshold: opts.gradTol,
		MajorIterations:   opts.maxIter,
		Logger:            logger.With(zap.String("scene", path)),
	})
	if res == nil {
		return err
	}
	// a failed run still reports the last iterate
	if werr := writeReport(cmd, sc, sys, res, opts.out); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !res.OK {
		return fmt.Errorf("%s: solver did not converge: %v", path, res.Status)
	}
	return nil
}

func writeReport(cmd *cobra.Command, sc *scene.Scene, sys *solver.System, res *solver.Result, out string) error {
	report, err := scene.NewReport(sc, sys, res)
	if err != nil {
		return err
	}
	data, err := report.Marshal()
	if err != nil {
		return err
	}
	if out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runCheck(cmd *cobra.Command, path string, opts *options) error {
	_, sys, err := load(path, opts)
	if err != nil {
		return err
	}
	sys.AddIndices()
	r, err := sys.CheckDerivatives(sys.InitialPoint())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"dim %d  f %.6g  diff %.6g\ngradient  abs %.3e  rel %.3e\nhessian   abs %.3e  rel %.3e\n",
		r.Dim, r.F, r.Diff, r.GradAbs, r.GradRel, r.HessAbs, r.HessRel)
	return err
}
