// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// update writes x into the active variables and resets the passive ones to
// their initial value.
func (s *System) update(x []float64) {
	for k := range s.objects {
		for a := range s.objects[k].Vars {
			v := &s.objects[k].Vars[a]
			if v.Active() {
				v.Value = x[v.Index]
			} else {
				v.Value = v.Initial
			}
		}
	}
}

func (s *System) refresh() {
	for k := range s.objects {
		s.objects[k].Refresh()
	}
}

// evaluate brings every constraint up to date with x. Repeated calls at the
// same point are free.
func (s *System) evaluate(x []float64) {
	switch {
	case !s.indexed:
		panic(ErrNotIndexed)
	case len(x) != s.n:
		panic(ErrDimension)
	}
	if s.fresh && slices.Equal(s.at, x) {
		return
	}
	s.update(x)
	s.refresh()
	for _, c := range s.constraints {
		c.Evaluate(s.objects)
	}
	s.at = append(s.at[:0], x...)
	s.fresh = true
}

// Objective returns the sum of the constraint errors at x.
// It panics if AddIndices has not run or len(x) != Dim().
func (s *System) Objective(x []float64) float64 {
	s.evaluate(x)
	var f float64
	for _, c := range s.constraints {
		f += c.Value()
	}
	return f
}

// Diff returns the summed first-order sensitivity of the constraints at x.
// For FixBase that is the partial of its error with respect to the reference
// psi, the ϵ₁ tag of its last pair evaluation.
func (s *System) Diff(x []float64) float64 {
	s.evaluate(x)
	var d float64
	for _, c := range s.constraints {
		d += c.Diff()
	}
	return d
}

// Gradient stores the gradient of the objective at x into grad.
func (s *System) Gradient(x, grad []float64) {
	if len(grad) != s.n {
		panic(ErrDimension)
	}
	s.evaluate(x)
	clear(grad)
	for _, c := range s.constraints {
		c.Gradient(s.objects, grad)
	}
}

// Hessian stores the Hessian of the objective at x into hess, row-major
// n×n with n = Dim().
func (s *System) Hessian(x, hess []float64) {
	if len(hess) != s.n*s.n {
		panic(ErrDimension)
	}
	s.evaluate(x)
	clear(hess)
	for _, c := range s.constraints {
		c.Hessian(s.objects, hess, s.n)
	}
}

// InitialPoint returns the solver vector holding the initial values of the
// active variables.
func (s *System) InitialPoint() []float64 {
	x := make([]float64, s.n)
	for k := range s.objects {
		for a := range s.objects[k].Vars {
			if v := &s.objects[k].Vars[a]; v.Active() {
				x[v.Index] = v.Initial
			}
		}
	}
	return x
}

// Scatter writes x back into the variable values, so that Placement reports
// the placements at x.
func (s *System) Scatter(x []float64) {
	switch {
	case !s.indexed:
		panic(ErrNotIndexed)
	case len(x) != s.n:
		panic(ErrDimension)
	}
	s.update(x)
	s.fresh = false
}

// Problem adapts the system to a gonum optimization problem.
func (s *System) Problem() (optimize.Problem, error) {
	if !s.indexed {
		return optimize.Problem{}, ErrNotIndexed
	}
	n := s.n
	buf := make([]float64, n*n)
	return optimize.Problem{
		Func: s.Objective,
		Grad: func(grad, x []float64) {
			s.Gradient(x, grad)
		},
		Hess: func(hess *mat.SymDense, x []float64) {
			s.Hessian(x, buf)
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					hess.SetSym(i, j, buf[i*n+j])
				}
			}
		},
	}, nil
}
