// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// Settings controls Solve. Zero values select the defaults.
type Settings struct {
	// The iteration stops when the gradient infinity norm falls below this
	// threshold. Defaults to 1e-10.
	GradientThreshold float64
	// The iteration stops when the number of major iterations exceeds the
	// limit. Defaults to 100.
	MajorIterations int
	// The iteration stops when the number of objective evaluations exceeds
	// the limit. Zero means no limit.
	FuncEvaluations int
	// Logger receives the solve summary at info level and every major
	// iteration at debug level. Nil disables logging.
	Logger *zap.Logger
}

// Result summarizes a solve.
type Result struct {
	OK      bool            // the optimizer converged
	F       float64         // objective at X
	X       []float64       // solution vector, already scattered back
	Status  optimize.Status // gonum termination status
	NumIter int             // major iterations
	NumEval int             // objective evaluations
}

func (s *Settings) check() (err error) {
	switch {
	case s.GradientThreshold < 0:
		err = errors.New("gradient threshold must not be negative")
	case s.MajorIterations < 0:
		err = errors.New("major iterations must not be negative")
	case s.FuncEvaluations < 0:
		err = errors.New("function evaluations must not be negative")
	}
	return
}

// Solve minimizes the objective with Newton's method starting at the initial
// point and writes the solution back into the objects. It assigns indices
// first when the setup changed since the last AddIndices.
//
// A system without active variables is not optimized: the result reports
// the objective at the fixed configuration.
func (s *System) Solve(settings *Settings) (*Result, error) {
	var conf Settings
	if settings != nil {
		conf = *settings
	}
	if err := conf.check(); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	if conf.GradientThreshold == 0 {
		conf.GradientThreshold = 1e-10
	}
	if conf.MajorIterations == 0 {
		conf.MajorIterations = 100
	}
	logger := conf.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !s.indexed {
		s.AddIndices()
	}
	x0 := s.InitialPoint()
	logger.Debug("solving",
		zap.Int("objects", len(s.objects)),
		zap.Int("constraints", len(s.constraints)),
		zap.Int("dim", s.n))

	if s.n == 0 {
		f := s.Objective(x0)
		s.Scatter(x0)
		logger.Info("nothing to optimize", zap.Float64("f", f))
		return &Result{OK: true, F: f, X: x0, Status: optimize.Success, NumEval: 1}, nil
	}

	p, err := s.Problem()
	if err != nil {
		return nil, err
	}
	res, err := optimize.Minimize(p, x0, &optimize.Settings{
		GradientThreshold: conf.GradientThreshold,
		MajorIterations:   conf.MajorIterations,
		FuncEvaluations:   conf.FuncEvaluations,
		Recorder:          &recorder{logger: logger},
	}, &optimize.Newton{})
	if res == nil {
		return nil, fmt.Errorf("solver: minimize: %w", err)
	}

	s.Scatter(res.X)
	r := &Result{
		OK:      converged(res.Status),
		F:       res.F,
		X:       res.X,
		Status:  res.Status,
		NumIter: res.MajorIterations,
		NumEval: res.FuncEvaluations,
	}
	if err != nil {
		logger.Warn("optimizer failed", zap.Error(err), zap.Stringer("status", res.Status))
		r.OK = false
		return r, fmt.Errorf("solver: minimize: %w", err)
	}
	logger.Info("solved",
		zap.Bool("ok", r.OK),
		zap.Float64("f", r.F),
		zap.Stringer("status", r.Status),
		zap.Int("iterations", r.NumIter),
		zap.Int("evaluations", r.NumEval))
	return r, nil
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success,
		optimize.FunctionThreshold,
		optimize.FunctionConvergence,
		optimize.GradientThreshold,
		optimize.StepConvergence:
		return true
	}
	return false
}

// recorder forwards major iterations to a zap logger.
type recorder struct {
	logger *zap.Logger
}

func (r *recorder) Init() error { return nil }

func (r *recorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op&optimize.MajorIteration == 0 {
		return nil
	}
	r.logger.Debug("iteration",
		zap.Int("iter", stats.MajorIterations),
		zap.Float64("f", loc.F),
		zap.Int("evaluations", stats.FuncEvaluations))
	return nil
}
