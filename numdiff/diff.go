// Package numdiff estimates derivatives by finite differences. It serves as
// an independent reference for the hyperdual derivatives of the solver.
package numdiff

import (
	"errors"
	"math"
)

var (
	sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
	cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)
)

type Method int

const (
	// Forward uses the first order accuracy forward difference.
	Forward Method = iota
	// Central uses the second order accuracy central difference.
	Central
)

// ApproxSpec estimates the m×n Jacobian of Object at a point.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
type ApproxSpec struct {
	N, M int
	// Function of which to estimate the derivatives.
	// The argument x is an n-vector and the result is stored in the m-vector y.
	Object func(x, y []float64)
	// Finite difference method to use.
	Method Method
	// Relative step size. When neither step is given the step is
	//   h = ε·sign(x0)·max(1, |x0|)
	// with ε the square (Forward) or cube (Central) root of machine epsilon.
	RelStep float64
	// Absolute step size, taking precedence over RelStep.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
	// Store the Jacobian column-major (df[i*m+j] = ∂yⱼ/∂xᵢ) instead of
	// row-major (df[i+j*n]).
	TransJac bool
	approxCtx
}

type approxCtx struct {
	f0, f1, f2 []float64
	step       []float64
}

// Check validates the parameters and allocates the workspace.
func (as *ApproxSpec) Check(x0, diff []float64) (err error) {

	switch {
	case as.N <= 0 || as.M <= 0:
		err = errors.New("dimensions must be positive")
	case as.Method != Forward && as.Method != Central:
		err = errors.New("unknown method")
	case as.Object == nil:
		err = errors.New("object function is required")
	case as.N != len(x0):
		err = errors.New("invalid x0 dimensions")
	case as.N*as.M != len(diff):
		err = errors.New("invalid diff dimensions")
	}
	if err != nil {
		return
	}

	if len(as.f0) != as.M {
		as.f0 = make([]float64, as.M)
		as.f1 = make([]float64, as.M)
		as.f2 = make([]float64, as.M)
	}
	if len(as.step) != as.N {
		as.step = make([]float64, as.N)
	}
	return
}

// Diff stores the finite difference Jacobian at x0 into diff.
// x0 is perturbed during the call and restored on return.
func (as *ApproxSpec) Diff(x0, diff []float64) error {
	if err := as.Check(x0, diff); err != nil {
		return err
	}
	as.absoluteStep(x0)
	if as.Method == Central {
		as.approxCentral(x0, diff)
	} else {
		as.approxForward(x0, diff)
	}
	return nil
}

func (as *ApproxSpec) absoluteStep(x0 []float64) {
	eps := sqrtEps
	if as.Method == Central {
		eps = cubeEps
	}

	h := as.step
	for i, v := range x0 {
		s := as.AbsStep
		if s == 0 && as.RelStep != 0 {
			s = math.Copysign(as.RelStep, v) * math.Abs(v)
		}
		// steps lost in rounding fall back to the default
		if s == 0 || (v+s)-v == 0 {
			s = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		if as.Method == Central {
			s = math.Abs(s)
		}
		h[i] = s
	}
}

func (as *ApproxSpec) store(df []float64, i int, col func(j int) float64) {
	n, m := as.N, as.M
	if as.TransJac {
		t := df[i*m : (i+1)*m]
		for j := range t {
			t[j] = col(j)
		}
		return
	}
	for j := 0; j < m; j++ {
		df[i+j*n] = col(j)
	}
}

func (as *ApproxSpec) approxForward(x0, df []float64) {
	f0, f1, fun := as.f0, as.f1, as.Object
	fun(x0, f0)
	for i, s := range as.step {
		t := x0[i]
		x0[i] = t + s
		fun(x0, f1)
		x0[i] = t
		d := 1.0 / s
		as.store(df, i, func(j int) float64 { return (f1[j] - f0[j]) * d })
	}
}

func (as *ApproxSpec) approxCentral(x0, df []float64) {
	f1, f2, fun := as.f1, as.f2, as.Object
	for i, s := range as.step {
		t := x0[i]
		x0[i] = t - s
		fun(x0, f1)
		x0[i] = t + s
		fun(x0, f2)
		x0[i] = t
		d := 1.0 / (2 * s)
		as.store(df, i, func(j int) float64 { return (f2[j] - f1[j]) * d })
	}
}

// Gradient stores the finite difference gradient of the scalar function f at
// x into grad.
func Gradient(f func(x []float64) float64, x, grad []float64, method Method) error {
	as := ApproxSpec{
		N: len(x), M: 1,
		Method: method,
		Object: func(x, y []float64) { y[0] = f(x) },
	}
	return as.Diff(x, grad)
}

// Hessian stores the finite difference Jacobian of the gradient function g
// at x into hess, row-major n×n. For a gradient of a twice differentiable
// function the result approximates the symmetric Hessian.
func Hessian(g func(x, grad []float64), x, hess []float64, method Method) error {
	as := ApproxSpec{
		N: len(x), M: len(x),
		Method: method,
		Object: g,
	}
	return as.Diff(x, hess)
}
