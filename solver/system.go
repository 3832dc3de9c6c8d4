// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver builds the reduced least-squares objective of a placement
// constraint system and evaluates its value, gradient and Hessian.
//
// A System owns the objects (six variables each) and the constraints between
// them. Constraint setup enables, locks and aliases variables; AddIndices then
// packs the free variables into a dense solver vector. Each evaluation runs
// three phases in order:
//
//  1. update: scatter the candidate vector into the variables
//  2. refresh: rebuild the hyperdual caches of every object in use
//  3. evaluate: let every constraint compute its local derivatives
//
// after which the local gradients and Hessians are gathered into the global
// buffers at the solver indices.
package solver

import (
	"fmt"
)

// Options configures a System.
type Options struct {
	// SplitFrames disables frame coupling. By default enabling any axis of an
	// object marks both its position and orientation caches as needed, which
	// over-approximates the work but keeps every cache valid whichever axis a
	// later constraint reads. With SplitFrames set, position axes only mark
	// the position cache and rotation axes only the orientation cache.
	SplitFrames bool
}

// System holds the objects and constraints of one constraint problem.
// It is not safe for concurrent use.
type System struct {
	opts        Options
	objects     []Object
	names       map[string]int
	constraints []Constraint
	locks       int // number of Lock registrations

	n       int  // solver dimension
	indexed bool // indices reflect the current setup

	at    []float64 // point of the last evaluation
	fresh bool
}

// New creates an empty System.
func New(opts *Options) *System {
	s := &System{names: make(map[string]int)}
	if opts != nil {
		s.opts = *opts
	}
	return s
}

// AddObject registers an object from its six name-keyed axis values.
// Registering a name twice is a no-op.
func (s *System) AddObject(name string, values map[string]float64) error {
	if _, ok := s.names[name]; ok {
		return nil
	}
	var p Placement
	for a, key := range axisNames {
		v, ok := values[key]
		if !ok {
			return fmt.Errorf("object %q: %w %q", name, ErrMissingAxis, key)
		}
		p[a] = v
	}
	for key := range values {
		if _, err := ParseAxis(key); err != nil {
			return fmt.Errorf("object %q: %w", name, err)
		}
	}
	s.Add(name, p)
	return nil
}

// Add registers an object at the given placement. Registering a name twice
// is a no-op.
func (s *System) Add(name string, p Placement) {
	if _, ok := s.names[name]; ok {
		return
	}
	s.names[name] = len(s.objects)
	s.objects = append(s.objects, newObject(name, p))
	s.indexed = false
}

// AddConstraint registers a constraint from its kind tag, its role→object
// names and its axis→value parameters.
func (s *System) AddConstraint(kind string, objects map[string]string, params map[string]float64) error {
	p, err := ParseParams(params)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	switch kind {
	case KindFixBase:
		names, err := roles(kind, objects, RoleObject, RoleReference)
		if err != nil {
			return err
		}
		return s.FixBase(names[0], names[1], p)
	case KindLock:
		names, err := roles(kind, objects, RoleObject)
		if err != nil {
			return err
		}
		return s.Lock(names[0], p)
	case KindEqual:
		names, err := roles(kind, objects, RoleObject1, RoleObject2)
		if err != nil {
			return err
		}
		return s.Equal(names[0], names[1], p)
	}
	return fmt.Errorf("%w %q", ErrUnknownConstraint, kind)
}

func roles(kind string, objects map[string]string, want ...string) ([]string, error) {
	names := make([]string, len(want))
	for i, role := range want {
		name, ok := objects[role]
		if !ok || name == "" {
			return nil, fmt.Errorf("%s: %w %q", kind, ErrMissingRole, role)
		}
		names[i] = name
	}
	return names, nil
}

func (s *System) lookup(name string) (int, error) {
	k, ok := s.names[name]
	if !ok {
		return -1, fmt.Errorf("%w %q", ErrUnknownObject, name)
	}
	return k, nil
}

// FixBase fixes the constrained position axes of object at the given offsets
// in the frame of reference.
func (s *System) FixBase(object, reference string, params Params) error {
	oi, err := s.lookup(object)
	if err != nil {
		return fmt.Errorf("%s: %w", KindFixBase, err)
	}
	ri, err := s.lookup(reference)
	if err != nil {
		return fmt.Errorf("%s: %w", KindFixBase, err)
	}

	switch {
	case oi == ri:
		return fmt.Errorf("%s: %w %q", KindFixBase, ErrSelfReference, object)
	case len(params) == 0:
		return fmt.Errorf("%s: %w", KindFixBase, ErrNoAxes)
	}
	for a := range params {
		if !a.IsPosition() {
			return fmt.Errorf("%s: %w %q", KindFixBase, ErrUnsupportedAxis, a)
		}
	}

	obj, ref := &s.objects[oi], &s.objects[ri]
	for _, a := range params.Axes() {
		obj.Vars[a].Enabled = true
		ref.Vars[a].Enabled = true
	}
	// the residual is expressed in the reference frame
	for _, a := range [3]Axis{Phi, Theta, Psi} {
		ref.Vars[a].Enabled = true
	}
	obj.needVec = true
	ref.needVec, ref.needQuat = true, true

	s.constraints = append(s.constraints, newFixBase(oi, ri, params))
	s.indexed = false
	return nil
}

// Enable marks the given axes of an object as optimization variables.
func (s *System) Enable(object string, axes ...Axis) error {
	k, err := s.lookup(object)
	if err != nil {
		return err
	}
	for _, a := range axes {
		if a < 0 || a >= NumAxes {
			return fmt.Errorf("%w %d", ErrUnknownAxis, a)
		}
		s.enable(VarRef{k, a})
	}
	s.indexed = false
	return nil
}

func (s *System) enable(r VarRef) {
	s.variable(r).Enabled = true
	s.objects[r.Object].track(r.Axis, !s.opts.SplitFrames)
}

func (s *System) variable(r VarRef) *Variable {
	return &s.objects[r.Object].Vars[r.Axis]
}

// Objects returns the object names in registration order.
func (s *System) Objects() []string {
	names := make([]string, len(s.objects))
	for k := range s.objects {
		names[k] = s.objects[k].Name
	}
	return names
}

// Object returns the named object. The pointer is invalidated by Add.
func (s *System) Object(name string) (*Object, bool) {
	k, ok := s.names[name]
	if !ok {
		return nil, false
	}
	return &s.objects[k], true
}

// Placement returns the current axis values of the named object.
func (s *System) Placement(name string) (Placement, error) {
	k, err := s.lookup(name)
	if err != nil {
		return Placement{}, err
	}
	return s.objects[k].Placement(), nil
}

// NumConstraints returns the number of registered constraints.
func (s *System) NumConstraints() int {
	return len(s.constraints)
}

// Dim returns the solver dimension assigned by AddIndices.
func (s *System) Dim() int {
	return s.n
}

// AddIndices assigns solver indices. Variables are visited in object
// registration order and x..psi within an object; every enabled, unlocked,
// non-aliased variable takes the next index. Aliased variables then take
// the index, initial value and lock state of their root.
//
// It must run after the last constraint is registered and before the first
// evaluation. Registering objects or constraints afterwards requires
// running it again.
func (s *System) AddIndices() {
	// A lock on any member of an equality group locks the whole group at
	// the value of the most recently registered lock.
	for k := range s.objects {
		for a := range s.objects[k].Vars {
			ref := VarRef{k, Axis(a)}
			v := s.variable(ref)
			if !v.aliased || !v.Locked {
				continue
			}
			if r := s.variable(s.root(ref)); v.lockSeq > r.lockSeq {
				r.Enabled, r.Locked, r.lockSeq = true, true, v.lockSeq
				r.Initial, r.Value = v.Initial, v.Initial
			}
		}
	}

	n := 0
	for k := range s.objects {
		for a := range s.objects[k].Vars {
			v := &s.objects[k].Vars[a]
			v.Index = -1
			if !v.aliased && v.Active() {
				v.Index = n
				n++
			}
		}
	}

	for k := range s.objects {
		for a := range s.objects[k].Vars {
			ref := VarRef{k, Axis(a)}
			v := s.variable(ref)
			if !v.aliased {
				continue
			}
			r := s.variable(s.root(ref))
			v.Index, v.Initial, v.Value = r.Index, r.Initial, r.Value
			v.Enabled, v.Locked = r.Enabled, r.Locked
		}
	}

	s.n = n
	s.indexed = true
	s.fresh = false
	for k := range s.objects {
		s.objects[k].Refresh()
	}
}
