// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "errors"

// Build-time errors. They are wrapped with the offending name or axis, so
// callers match them with errors.Is.
var (
	ErrUnknownObject     = errors.New("solver: unknown object")
	ErrUnknownAxis       = errors.New("solver: unknown axis")
	ErrMissingAxis       = errors.New("solver: missing axis value")
	ErrUnsupportedAxis   = errors.New("solver: axis not supported by constraint")
	ErrUnknownConstraint = errors.New("solver: unknown constraint type")
	ErrMissingRole       = errors.New("solver: missing constraint object")
	ErrSelfReference     = errors.New("solver: object constrained against itself")
	ErrNoAxes            = errors.New("solver: constraint has no axis")
	ErrNotIndexed        = errors.New("solver: indices not assigned")
	ErrDimension         = errors.New("solver: dimension mismatch")
)
