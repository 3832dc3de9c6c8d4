// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

// Constraint is a squared-error term of the objective.
//
// Constraints refer to objects by position in the System object list, which
// is passed on every call. Gradient and Hessian add into buffers that the
// caller has zeroed; they never overwrite.
type Constraint interface {
	// Evaluate computes value, gradient and Hessian of the local error from
	// the object caches. The caches must be fresh.
	Evaluate(objects []Object)
	// Value returns the error computed by the last Evaluate.
	Value() float64
	// Gradient adds the local gradient into grad at the solver indices.
	Gradient(objects []Object, grad []float64)
	// Hessian adds the local Hessian into the row-major n×n buffer hess.
	Hessian(objects []Object, hess []float64, n int)
	// Diff returns the first-order sensitivity of the last evaluation.
	Diff() float64
}

// Kind tags accepted by System.AddConstraint.
const (
	KindFixBase = "FixBase"
	KindLock    = "Lock"
	KindEqual   = "Equal"
)

// Role names of the objects taking part in a constraint.
const (
	RoleObject    = "Object"
	RoleReference = "Reference"
	RoleObject1   = "Object1"
	RoleObject2   = "Object2"
)
