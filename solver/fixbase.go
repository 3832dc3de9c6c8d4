// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"gonum.org/v1/gonum/num/hyperdual"

	"github.com/curioloop/asmsolve/geometry"
)

// fixDim is the number of local variables of FixBase: object x, y, z
// followed by reference x, y, z, phi, theta, psi.
const fixDim = 9

// FixBase fixes the position (not the rotation) of an object in the frame of
// a reference object.
//
// The error is the sum of rₖ² over the constrained axes k of
//
//	r = R⁻¹·(p − pᵣ) − t
//
// where p is the object position, pᵣ and R the reference position and
// orientation and t the target offset. It depends on 9 variables only, so its
// derivatives are a dense 9-vector and 9×9 block scattered into the system
// (partially separable function, see "Numerical Optimization" 2nd ed. §7.4).
type FixBase struct {
	obj, ref int
	target   [3]float64
	axes     [3]bool

	value float64
	diff  float64
	grad  [fixDim]float64
	hess  [fixDim][fixDim]float64
}

func newFixBase(obj, ref int, params Params) *FixBase {
	c := &FixBase{obj: obj, ref: ref}
	for a, v := range params {
		c.target[a] = v
		c.axes[a] = true
	}
	return c
}

// Evaluate runs one hyperdual evaluation per unordered pair (i,j) of local
// variables, 45 in total. The ϵ₁ part of an evaluation only depends on i, so
// the gradient is taken from the last evaluation of each row.
func (c *FixBase) Evaluate(objects []Object) {
	obj, ref := &objects[c.obj], &objects[c.ref]
	var d hyperdual.Number
	for i := 0; i < fixDim; i++ {
		for j := i; j < fixDim; j++ {
			d = c.eval(obj, ref, i, j)
			c.hess[i][j] = d.E1E2mag
			c.hess[j][i] = d.E1E2mag
		}
		c.grad[i] = d.E1mag
	}
	c.value = d.Real
	c.diff = d.E1mag
}

func (c *FixBase) eval(obj, ref *Object, i, j int) hyperdual.Number {
	oi, oj, ri, rj := NoAxis, NoAxis, NoAxis, NoAxis
	if i < 3 {
		oi = Axis(i)
	} else {
		ri = Axis(i - 3)
	}
	if j < 3 {
		oj = Axis(j)
	} else {
		rj = Axis(j - 3)
	}

	p := obj.Vector(oi, oj)
	rp := ref.Vector(ri, rj)
	rq := ref.Quaternion(ri, rj)
	r := rq.Inv().Rotate(geometry.Sub(p, rp))

	var e hyperdual.Number
	for k, on := range c.axes {
		if !on {
			continue
		}
		rk := r.At(k)
		rk.Real -= c.target[k]
		e = hyperdual.Add(e, hyperdual.Mul(rk, rk))
	}
	return e
}

// Value returns the error of the last evaluation.
func (c *FixBase) Value() float64 { return c.value }

// Diff returns the ϵ₁ part of the last evaluation.
func (c *FixBase) Diff() float64 { return c.diff }

func (c *FixBase) variable(objects []Object, i int) *Variable {
	if i < 3 {
		return &objects[c.obj].Vars[i]
	}
	return &objects[c.ref].Vars[i-3]
}

// Gradient adds the local gradient of the active variables into grad.
func (c *FixBase) Gradient(objects []Object, grad []float64) {
	for i := 0; i < fixDim; i++ {
		if v := c.variable(objects, i); v.Active() {
			grad[v.Index] += c.grad[i]
		}
	}
}

// Hessian adds the local Hessian of the active variables into hess.
// Variables sharing an index through an alias accumulate into one cell.
func (c *FixBase) Hessian(objects []Object, hess []float64, n int) {
	for i := 0; i < fixDim; i++ {
		vi := c.variable(objects, i)
		if !vi.Active() {
			continue
		}
		row := hess[vi.Index*n : (vi.Index+1)*n]
		for j := 0; j < fixDim; j++ {
			if vj := c.variable(objects, j); vj.Active() {
				row[vj.Index] += c.hess[i][j]
			}
		}
	}
}
