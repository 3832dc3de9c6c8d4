// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func origin() map[string]float64 {
	return map[string]float64{"x": 0, "y": 0, "z": 0, "phi": 0, "theta": 0, "psi": 0}
}

func TestAddObject(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddObject("A", map[string]float64{
		"x": 1, "y": 2, "z": 3, "phi": 0.1, "theta": 0.2, "psi": 0.3,
	}))

	p, err := s.Placement("A")
	require.NoError(t, err)
	assert.Equal(t, Placement{1, 2, 3, 0.1, 0.2, 0.3}, p)
	assert.Equal(t, map[string]float64{
		"x": 1, "y": 2, "z": 3, "phi": 0.1, "theta": 0.2, "psi": 0.3,
	}, p.Map())

	// a second registration under the same name is ignored
	require.NoError(t, s.AddObject("A", origin()))
	p, _ = s.Placement("A")
	assert.Equal(t, 1.0, p[X])
	assert.Equal(t, []string{"A"}, s.Objects())

	o, ok := s.Object("A")
	require.True(t, ok)
	for a := range o.Vars {
		assert.False(t, o.Vars[a].Enabled)
		assert.Equal(t, -1, o.Vars[a].Index)
	}
}

func TestConfigurationErrors(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddObject("A", origin()))
	require.NoError(t, s.AddObject("B", origin()))

	missing := origin()
	delete(missing, "theta")
	extra := origin()
	extra["w"] = 1

	for _, c := range []struct {
		name string
		err  error
		run  func() error
	}{
		{"missing axis", ErrMissingAxis, func() error { return s.AddObject("C", missing) }},
		{"unknown axis", ErrUnknownAxis, func() error { return s.AddObject("D", extra) }},
		{"unknown kind", ErrUnknownConstraint, func() error {
			return s.AddConstraint("Coincident", map[string]string{"Object": "A"}, nil)
		}},
		{"missing role", ErrMissingRole, func() error {
			return s.AddConstraint(KindFixBase, map[string]string{"Object": "A"}, map[string]float64{"x": 1})
		}},
		{"unknown object", ErrUnknownObject, func() error {
			return s.AddConstraint(KindFixBase, map[string]string{"Object": "A", "Reference": "Q"}, map[string]float64{"x": 1})
		}},
		{"unknown parameter", ErrUnknownAxis, func() error {
			return s.AddConstraint(KindLock, map[string]string{"Object": "A"}, map[string]float64{"roll": 1})
		}},
		{"rotation fix", ErrUnsupportedAxis, func() error { return s.FixBase("A", "B", Params{Phi: 1}) }},
		{"self reference", ErrSelfReference, func() error { return s.FixBase("A", "A", Params{X: 1}) }},
		{"no axes", ErrNoAxes, func() error { return s.FixBase("A", "B", Params{}) }},
		{"empty lock", ErrNoAxes, func() error { return s.Lock("A", nil) }},
		{"empty equal", ErrNoAxes, func() error { return s.Equal("A", "B", nil) }},
		{"lock unknown", ErrUnknownObject, func() error { return s.Lock("Q", Params{X: 1}) }},
		{"equal unknown", ErrUnknownObject, func() error { return s.Equal("A", "Q", Params{X: 0}) }},
		{"enable unknown axis", ErrUnknownAxis, func() error { return s.Enable("A", Axis(9)) }},
	} {
		err := c.run()
		assert.ErrorIs(t, err, c.err, c.name)
	}

	assert.Equal(t, []string{"A", "B"}, s.Objects())
	assert.Zero(t, s.NumConstraints())

	_, err := s.Placement("Q")
	assert.ErrorIs(t, err, ErrUnknownObject)
	_, err = s.Problem()
	assert.ErrorIs(t, err, ErrNotIndexed)
	assert.PanicsWithValue(t, ErrNotIndexed, func() { s.Objective(nil) })
}

func TestAddConstraintByKind(t *testing.T) {
	s := New(nil)
	for _, name := range []string{"A", "B", "R"} {
		require.NoError(t, s.AddObject(name, origin()))
	}
	require.NoError(t, s.AddConstraint(KindFixBase,
		map[string]string{RoleObject: "A", RoleReference: "R"},
		map[string]float64{"x": 1, "y": 2}))
	require.NoError(t, s.AddConstraint(KindLock,
		map[string]string{RoleObject: "R"},
		map[string]float64{"phi": 0.5}))
	require.NoError(t, s.AddConstraint(KindEqual,
		map[string]string{RoleObject1: "A", RoleObject2: "B"},
		map[string]float64{"z": 0}))
	assert.Equal(t, 1, s.NumConstraints())

	s.AddIndices()

	a, _ := s.Object("A")
	b, _ := s.Object("B")
	r, _ := s.Object("R")
	assert.True(t, r.Var(Phi).Locked)
	assert.Equal(t, 0.5, r.Var(Phi).Initial)
	assert.Equal(t, 0.5, r.Var(Phi).Value)
	assert.Equal(t, a.Var(Z).Index, b.Var(Z).Index)

	// A.x A.y A.z R.x R.y R.theta R.psi
	assert.Equal(t, 7, s.Dim())
}

func TestIndexDensity(t *testing.T) {
	s := New(nil)
	s.Add("A", Placement{1, 2, 3, 4, 5, 6})
	s.Add("B", Placement{})
	s.Add("C", Placement{})
	require.NoError(t, s.Enable("A", X, Y, Z, Phi, Theta, Psi))
	require.NoError(t, s.Lock("B", Params{X: 1, Y: 1, Z: 1, Phi: 0, Theta: 0, Psi: 0}))
	require.NoError(t, s.Enable("C", Psi, X))
	s.AddIndices()

	a, _ := s.Object("A")
	b, _ := s.Object("B")
	c, _ := s.Object("C")
	for k := range a.Vars {
		assert.Equal(t, k, a.Vars[k].Index)
		assert.Equal(t, -1, b.Vars[k].Index)
	}
	assert.Equal(t, 6, c.Var(X).Index)
	assert.Equal(t, 7, c.Var(Psi).Index)
	assert.Equal(t, -1, c.Var(Y).Index)
	assert.Equal(t, 8, s.Dim())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 0, 0}, s.InitialPoint())

	// locked values survive any candidate vector
	x := make([]float64, 8)
	s.Scatter(x)
	p, _ := s.Placement("B")
	assert.Equal(t, Placement{1, 1, 1, 0, 0, 0}, p)
}

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestAliasOrdering(t *testing.T) {
	pairs := [][2]string{{"A", "B"}, {"B", "C"}, {"D", "C"}}
	initial := map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4}

	for _, order := range permutations(len(pairs)) {
		for flip := 0; flip < 1<<len(pairs); flip++ {
			s := New(nil)
			for _, name := range []string{"A", "B", "C", "D"} {
				s.Add(name, Placement{initial[name]})
			}
			for _, k := range order {
				o1, o2 := pairs[k][0], pairs[k][1]
				if flip&(1<<k) != 0 {
					o1, o2 = o2, o1
				}
				require.NoError(t, s.Equal(o1, o2, Params{X: 0}))
			}
			s.AddIndices()

			require.Equal(t, 1, s.Dim(), "order %v flip %b", order, flip)
			a, _ := s.Object("A")
			want := a.Var(X)
			require.Equal(t, 0, want.Index)
			for _, name := range []string{"B", "C", "D"} {
				o, _ := s.Object(name)
				v := o.Var(X)
				assert.Equal(t, want.Index, v.Index, "order %v flip %b", order, flip)
				assert.Equal(t, want.Initial, v.Initial, "order %v flip %b", order, flip)
			}

			// exactly one root per group
			roots := 0
			for _, name := range []string{"A", "B", "C", "D"} {
				o, _ := s.Object(name)
				if _, aliased := o.Var(X).Alias(); !aliased {
					roots++
				}
			}
			assert.Equal(t, 1, roots)
		}
	}
}

func TestAliasSelfAndCycle(t *testing.T) {
	s := New(nil)
	s.Add("A", Placement{})
	s.Add("B", Placement{})
	require.NoError(t, s.Equal("A", "A", Params{X: 0}))
	require.NoError(t, s.Equal("A", "B", Params{Y: 0}))
	require.NoError(t, s.Equal("B", "A", Params{Y: 0}))
	s.AddIndices()

	a, _ := s.Object("A")
	b, _ := s.Object("B")
	_, aliased := a.Var(X).Alias()
	assert.False(t, aliased)
	assert.Equal(t, 0, a.Var(X).Index)
	assert.Equal(t, a.Var(Y).Index, b.Var(Y).Index)
	assert.Equal(t, 2, s.Dim())
}

func TestAliasLockPropagation(t *testing.T) {
	for _, lockFirst := range []bool{true, false} {
		s := New(nil)
		s.Add("A", Placement{1})
		s.Add("B", Placement{2})
		s.Add("C", Placement{3})
		if lockFirst {
			require.NoError(t, s.Lock("C", Params{X: 5}))
		}
		require.NoError(t, s.Equal("A", "B", Params{X: 0}))
		require.NoError(t, s.Equal("B", "C", Params{X: 0}))
		if !lockFirst {
			require.NoError(t, s.Lock("C", Params{X: 5}))
		}
		s.AddIndices()

		assert.Zero(t, s.Dim())
		for _, name := range []string{"A", "B", "C"} {
			o, _ := s.Object(name)
			v := o.Var(X)
			assert.True(t, v.Locked, name)
			assert.Equal(t, 5.0, v.Initial, name)
			assert.Equal(t, -1, v.Index, name)
		}
	}
}

func TestAliasLockPrecedence(t *testing.T) {
	for _, c := range []struct {
		first, second string
		want          float64
	}{
		{"B", "A", 5}, // root locked last
		{"A", "B", 7}, // alias locked last
	} {
		s := New(nil)
		s.Add("A", Placement{1})
		s.Add("B", Placement{2})
		require.NoError(t, s.Equal("A", "B", Params{X: 0}))
		values := map[string]float64{"A": 5, "B": 7}
		require.NoError(t, s.Lock(c.first, Params{X: values[c.first]}))
		require.NoError(t, s.Lock(c.second, Params{X: values[c.second]}))
		s.AddIndices()

		assert.Zero(t, s.Dim())
		for _, name := range []string{"A", "B"} {
			o, _ := s.Object(name)
			v := o.Var(X)
			assert.True(t, v.Locked, name)
			assert.Equal(t, c.want, v.Initial, name)
			assert.Equal(t, c.want, v.Value, name)
		}
	}
}

func TestFrameTracking(t *testing.T) {
	coupled := New(nil)
	coupled.Add("A", Placement{})
	require.NoError(t, coupled.Enable("A", X))
	a, _ := coupled.Object("A")
	assert.True(t, a.needVec)
	assert.True(t, a.needQuat)

	split := New(&Options{SplitFrames: true})
	split.Add("A", Placement{})
	require.NoError(t, split.Enable("A", Phi))
	a, _ = split.Object("A")
	assert.False(t, a.needVec)
	assert.True(t, a.needQuat)
}
