// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"math"
	"slices"

	"github.com/curioloop/asmsolve/numdiff"
)

// DerivativeReport holds the largest deviations between the hyperdual
// derivatives and their central finite difference estimates. Relative
// deviations are scaled by max(1, |exact|). Diff is the summed first-order
// sensitivity of the constraints, see System.Diff.
type DerivativeReport struct {
	Dim     int
	F       float64
	Diff    float64
	GradAbs float64
	GradRel float64
	HessAbs float64
	HessRel float64
}

// CheckDerivatives compares Gradient and Hessian at x with finite
// differences of Objective and Gradient respectively.
func (s *System) CheckDerivatives(x []float64) (*DerivativeReport, error) {
	switch {
	case !s.indexed:
		return nil, ErrNotIndexed
	case len(x) != s.n:
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), s.n)
	}
	n := s.n
	x = slices.Clone(x)
	r := &DerivativeReport{Dim: n, F: s.Objective(x), Diff: s.Diff(x)}
	if n == 0 {
		return r, nil
	}

	grad := make([]float64, n)
	hess := make([]float64, n*n)
	s.Gradient(x, grad)
	s.Hessian(x, hess)

	approxGrad := make([]float64, n)
	if err := numdiff.Gradient(s.Objective, x, approxGrad, numdiff.Central); err != nil {
		return nil, fmt.Errorf("solver: gradient estimate: %w", err)
	}
	// Row j of the gradient Jacobian holds ∂gⱼ/∂xᵢ, the Hessian row j.
	approxHess := make([]float64, n*n)
	if err := numdiff.Hessian(s.Gradient, x, approxHess, numdiff.Central); err != nil {
		return nil, fmt.Errorf("solver: hessian estimate: %w", err)
	}

	r.GradAbs, r.GradRel = deviation(grad, approxGrad)
	r.HessAbs, r.HessRel = deviation(hess, approxHess)
	return r, nil
}

func deviation(exact, approx []float64) (abs, rel float64) {
	for i, e := range exact {
		d := math.Abs(e - approx[i])
		abs = math.Max(abs, d)
		rel = math.Max(rel, d/math.Max(1, math.Abs(e)))
	}
	return
}
