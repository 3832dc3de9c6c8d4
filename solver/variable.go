// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

// VarRef locates a variable by object position and axis.
type VarRef struct {
	Object int
	Axis   Axis
}

// Variable is one placement degree of freedom of an object.
type Variable struct {
	// Value during the iteration process.
	Value float64
	// Value at the start of the iteration process. Locked and disabled
	// variables keep this value for the whole solve.
	Initial float64
	// Position in the solver vector. Only meaningful when Active.
	Index int
	// Enabled variables are known to the constraints; disabled ones are
	// passive constants.
	Enabled bool
	// Locked variables are enabled but excluded from the solver vector.
	Locked bool

	alias   VarRef
	aliased bool
	lockSeq int // registration order of the lock, 0 when never locked
}

func newVariable(value float64) Variable {
	return Variable{Value: value, Initial: value, Index: -1}
}

// Active reports whether v owns (or shares, through an alias) a solver index.
func (v *Variable) Active() bool {
	return v.Enabled && !v.Locked
}

// Alias returns the variable v is defined to equal, if any.
func (v *Variable) Alias() (VarRef, bool) {
	return v.alias, v.aliased
}
