// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geometry provides hyperdual 3-vectors and quaternions.
//
// Every component is a gonum hyperdual number a+bϵ₁+cϵ₂+dϵ₁ϵ₂, so evaluating a
// function of these types with two tagged inputs yields the value, both first
// partials and the mixed second partial in a single pass.
//
// # Reference:
//
//   - https://adl.stanford.edu/hyperdual/
//   - gonum.org/v1/gonum/num/hyperdual
package geometry

import "gonum.org/v1/gonum/num/hyperdual"

// Vector is a 3-vector of hyperdual numbers.
type Vector struct {
	X, Y, Z hyperdual.Number
}

// Const returns a vector without any sensitivity.
func Const(x, y, z float64) Vector {
	return Vector{
		X: hyperdual.Number{Real: x},
		Y: hyperdual.Number{Real: y},
		Z: hyperdual.Number{Real: z},
	}
}

// At returns the k-th component (0=x, 1=y, 2=z).
func (v Vector) At(k int) hyperdual.Number {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("vector index out of range")
}

// Real returns the real parts of v.
func (v Vector) Real() [3]float64 {
	return [3]float64{v.X.Real, v.Y.Real, v.Z.Real}
}

// Sub returns a-b.
func Sub(a, b Vector) Vector {
	return Vector{
		X: hyperdual.Sub(a.X, b.X),
		Y: hyperdual.Sub(a.Y, b.Y),
		Z: hyperdual.Sub(a.Z, b.Z),
	}
}

// DropE1 removes the ϵ₁ channel (and with it ϵ₁ϵ₂) from every component.
func (v Vector) DropE1() Vector {
	return Vector{X: dropE1(v.X), Y: dropE1(v.Y), Z: dropE1(v.Z)}
}

// DropE2 removes the ϵ₂ channel (and with it ϵ₁ϵ₂) from every component.
func (v Vector) DropE2() Vector {
	return Vector{X: dropE2(v.X), Y: dropE2(v.Y), Z: dropE2(v.Z)}
}

// Swap exchanges the ϵ₁ and ϵ₂ channels of every component.
func (v Vector) Swap() Vector {
	return Vector{X: swap(v.X), Y: swap(v.Y), Z: swap(v.Z)}
}

func dropE1(d hyperdual.Number) hyperdual.Number {
	d.E1mag, d.E1E2mag = 0, 0
	return d
}

func dropE2(d hyperdual.Number) hyperdual.Number {
	d.E2mag, d.E1E2mag = 0, 0
	return d
}

func swap(d hyperdual.Number) hyperdual.Number {
	d.E1mag, d.E2mag = d.E2mag, d.E1mag
	return d
}
