// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/curioloop/asmsolve/geometry"

// Placement holds the six axis values of an object, indexed by Axis.
type Placement [NumAxes]float64

// Map returns p keyed by axis name.
func (p Placement) Map() map[string]float64 {
	m := make(map[string]float64, NumAxes)
	for a, v := range p {
		m[Axis(a).String()] = v
	}
	return m
}

// Object is a rigid body: six variables plus derivative caches of its
// position vector and orientation quaternion.
type Object struct {
	Name string
	Vars [NumAxes]Variable

	vec  pairCache[geometry.Vector]
	quat pairCache[geometry.Quaternion]

	// Caches are only refreshed when some constraint reads them.
	needVec, needQuat bool
}

func newObject(name string, p Placement) Object {
	o := Object{Name: name}
	for a, v := range p {
		o.Vars[a] = newVariable(v)
	}
	return o
}

// Var returns the variable of axis a.
func (o *Object) Var(a Axis) *Variable {
	return &o.Vars[a]
}

// Placement returns the current axis values.
func (o *Object) Placement() (p Placement) {
	for a := range o.Vars {
		p[a] = o.Vars[a].Value
	}
	return
}

// Refresh rebuilds the needed caches from the current variable values.
// It must run after the variables change and before any constraint reads
// Vector or Quaternion.
func (o *Object) Refresh() {
	if o.needVec {
		o.vec.refresh([3]*Variable{&o.Vars[X], &o.Vars[Y], &o.Vars[Z]}, buildVector)
	}
	if o.needQuat {
		o.quat.refresh([3]*Variable{&o.Vars[Phi], &o.Vars[Theta], &o.Vars[Psi]}, geometry.FromAngles)
	}
}

// Vector returns the position with axis a on ϵ₁ and axis b on ϵ₂.
// Rotation axes and NoAxis are treated as constants.
func (o *Object) Vector(a, b Axis) geometry.Vector {
	return o.vec.get(positionSlot(a), positionSlot(b))
}

// Quaternion returns the orientation with axis a on ϵ₁ and axis b on ϵ₂.
// Position axes and NoAxis are treated as constants.
func (o *Object) Quaternion(a, b Axis) geometry.Quaternion {
	return o.quat.get(rotationSlot(a), rotationSlot(b))
}

// track marks the caches depending on axis a as needed. With coupled set,
// touching any axis marks both caches.
func (o *Object) track(a Axis, coupled bool) {
	switch {
	case coupled:
		o.needVec, o.needQuat = true, true
	case a.IsPosition():
		o.needVec = true
	case a.IsRotation():
		o.needQuat = true
	}
}

func positionSlot(a Axis) int {
	if a.IsPosition() {
		return int(a - X)
	}
	return -1
}

func rotationSlot(a Axis) int {
	if a.IsRotation() {
		return int(a - Phi)
	}
	return -1
}
