// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "fmt"

// Lock fixes the given axes of object at the parameter values. Locked
// variables are passive during the solve.
func (s *System) Lock(object string, params Params) error {
	k, err := s.lookup(object)
	if err != nil {
		return fmt.Errorf("%s: %w", KindLock, err)
	}
	if len(params) == 0 {
		return fmt.Errorf("%s: %w", KindLock, ErrNoAxes)
	}
	for _, a := range params.Axes() {
		r := VarRef{k, a}
		s.enable(r)
		v := s.variable(r)
		s.locks++
		v.Locked, v.lockSeq = true, s.locks
		v.Value, v.Initial = params[a], params[a]
	}
	s.indexed = false
	return nil
}

// Equal makes the given axes of object2 equal to those of object1. Only the
// presence of an axis in params matters; its value is ignored.
//
// Equalities compose: chained or crossing equalities merge into one group
// sharing a single solver index, and a lock on any member locks the group.
func (s *System) Equal(object1, object2 string, params Params) error {
	k1, err := s.lookup(object1)
	if err != nil {
		return fmt.Errorf("%s: %w", KindEqual, err)
	}
	k2, err := s.lookup(object2)
	if err != nil {
		return fmt.Errorf("%s: %w", KindEqual, err)
	}
	if len(params) == 0 {
		return fmt.Errorf("%s: %w", KindEqual, ErrNoAxes)
	}
	for _, a := range params.Axes() {
		s.alias(VarRef{k1, a}, VarRef{k2, a})
	}
	s.indexed = false
	return nil
}

// alias merges the groups of a and b. The root of b's group is redirected to
// the root of a's group, so aliases always form a forest and a variable is
// never redirected to itself.
func (s *System) alias(a, b VarRef) {
	ra, rb := s.root(a), s.root(b)
	for _, r := range [...]VarRef{a, b, ra, rb} {
		s.enable(r)
	}
	if ra == rb {
		return
	}
	v := s.variable(rb)
	v.alias, v.aliased = ra, true
}

// root follows alias links up to the variable owning the group index.
func (s *System) root(r VarRef) VarRef {
	for {
		v := s.variable(r)
		if !v.aliased {
			return r
		}
		r = v.alias
	}
}
