// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"gonum.org/v1/gonum/num/hyperdual"
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is a quaternion of hyperdual numbers, Real+Imag·i+Jmag·j+Kmag·k.
type Quaternion struct {
	Real, Imag, Jmag, Kmag hyperdual.Number
}

// FromAngles builds the orientation obtained by rolling phi about x, then
// pitching theta about y, then yawing psi about z (q = qz·qy·qx).
func FromAngles(phi, theta, psi hyperdual.Number) Quaternion {
	qx := axisAngle(phi, 0)
	qy := axisAngle(theta, 1)
	qz := axisAngle(psi, 2)
	return Mul(Mul(qz, qy), qx)
}

func axisAngle(angle hyperdual.Number, axis int) Quaternion {
	half := hyperdual.Scale(0.5, angle)
	q := Quaternion{Real: hyperdual.Cos(half)}
	s := hyperdual.Sin(half)
	switch axis {
	case 0:
		q.Imag = s
	case 1:
		q.Jmag = s
	case 2:
		q.Kmag = s
	}
	return q
}

// Mul returns the Hamilton product p·q.
func Mul(p, q Quaternion) Quaternion {
	return Quaternion{
		Real: sum4(
			hyperdual.Mul(p.Real, q.Real), neg(hyperdual.Mul(p.Imag, q.Imag)),
			neg(hyperdual.Mul(p.Jmag, q.Jmag)), neg(hyperdual.Mul(p.Kmag, q.Kmag))),
		Imag: sum4(
			hyperdual.Mul(p.Real, q.Imag), hyperdual.Mul(p.Imag, q.Real),
			hyperdual.Mul(p.Jmag, q.Kmag), neg(hyperdual.Mul(p.Kmag, q.Jmag))),
		Jmag: sum4(
			hyperdual.Mul(p.Real, q.Jmag), neg(hyperdual.Mul(p.Imag, q.Kmag)),
			hyperdual.Mul(p.Jmag, q.Real), hyperdual.Mul(p.Kmag, q.Imag)),
		Kmag: sum4(
			hyperdual.Mul(p.Real, q.Kmag), hyperdual.Mul(p.Imag, q.Jmag),
			neg(hyperdual.Mul(p.Jmag, q.Imag)), hyperdual.Mul(p.Kmag, q.Real)),
	}
}

// Conj returns the conjugate of q.
func (q Quaternion) Conj() Quaternion {
	return Quaternion{Real: q.Real, Imag: neg(q.Imag), Jmag: neg(q.Jmag), Kmag: neg(q.Kmag)}
}

// Inv returns the multiplicative inverse of q, conj(q)/|q|².
func (q Quaternion) Inv() Quaternion {
	n2 := sum4(
		hyperdual.Mul(q.Real, q.Real), hyperdual.Mul(q.Imag, q.Imag),
		hyperdual.Mul(q.Jmag, q.Jmag), hyperdual.Mul(q.Kmag, q.Kmag))
	r := hyperdual.Inv(n2)
	c := q.Conj()
	return Quaternion{
		Real: hyperdual.Mul(c.Real, r),
		Imag: hyperdual.Mul(c.Imag, r),
		Jmag: hyperdual.Mul(c.Jmag, r),
		Kmag: hyperdual.Mul(c.Kmag, r),
	}
}

// Rotate returns q·v·q⁻¹, the vector v rotated by q.
func (q Quaternion) Rotate(v Vector) Vector {
	p := Quaternion{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := Mul(Mul(q, p), q.Inv())
	return Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Quat returns the real part of q as a gonum quaternion.
func (q Quaternion) Quat() quat.Number {
	return quat.Number{Real: q.Real.Real, Imag: q.Imag.Real, Jmag: q.Jmag.Real, Kmag: q.Kmag.Real}
}

// DropE1 removes the ϵ₁ channel (and with it ϵ₁ϵ₂) from every component.
func (q Quaternion) DropE1() Quaternion {
	return Quaternion{Real: dropE1(q.Real), Imag: dropE1(q.Imag), Jmag: dropE1(q.Jmag), Kmag: dropE1(q.Kmag)}
}

// DropE2 removes the ϵ₂ channel (and with it ϵ₁ϵ₂) from every component.
func (q Quaternion) DropE2() Quaternion {
	return Quaternion{Real: dropE2(q.Real), Imag: dropE2(q.Imag), Jmag: dropE2(q.Jmag), Kmag: dropE2(q.Kmag)}
}

// Swap exchanges the ϵ₁ and ϵ₂ channels of every component.
func (q Quaternion) Swap() Quaternion {
	return Quaternion{Real: swap(q.Real), Imag: swap(q.Imag), Jmag: swap(q.Jmag), Kmag: swap(q.Kmag)}
}

func neg(d hyperdual.Number) hyperdual.Number {
	return hyperdual.Scale(-1, d)
}

func sum4(a, b, c, d hyperdual.Number) hyperdual.Number {
	return hyperdual.Add(hyperdual.Add(a, b), hyperdual.Add(c, d))
}
