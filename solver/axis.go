// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"slices"
)

// Axis names one of the six placement variables of an object.
type Axis int

const (
	X Axis = iota
	Y
	Z
	Phi
	Theta
	Psi
)

// NoAxis stands for "treat as constant" in derivative lookups.
const NoAxis Axis = -1

// NumAxes is the number of placement variables per object.
const NumAxes = 6

var axisNames = [NumAxes]string{"x", "y", "z", "phi", "theta", "psi"}

func (a Axis) String() string {
	if a < 0 || a >= NumAxes {
		return "none"
	}
	return axisNames[a]
}

// IsPosition reports whether a is one of x, y, z.
func (a Axis) IsPosition() bool { return a >= X && a <= Z }

// IsRotation reports whether a is one of phi, theta, psi.
func (a Axis) IsRotation() bool { return a >= Phi && a <= Psi }

// ParseAxis returns the axis with the given name.
func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return NoAxis, fmt.Errorf("%w %q", ErrUnknownAxis, name)
}

// Params maps constrained axes to their parameter value. Presence of an axis
// means the axis is constrained.
type Params map[Axis]float64

// ParseParams converts name-keyed parameters into Params.
func ParseParams(m map[string]float64) (Params, error) {
	p := make(Params, len(m))
	for name, v := range m {
		a, err := ParseAxis(name)
		if err != nil {
			return nil, err
		}
		p[a] = v
	}
	return p, nil
}

// Axes returns the constrained axes in x..psi order.
func (p Params) Axes() []Axis {
	axes := make([]Axis, 0, len(p))
	for a := range p {
		axes = append(axes, a)
	}
	slices.Sort(axes)
	return axes
}
