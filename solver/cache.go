// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"gonum.org/v1/gonum/num/hyperdual"

	"github.com/curioloop/asmsolve/geometry"
)

// channels is implemented by the quantities kept in a pairCache.
type channels[T any] interface {
	DropE1() T
	DropE2() T
	Swap() T
}

// pairCache memoizes a quantity built from three variables for every
// unordered pair of them: entry (a,b) is built with variable a tagged on ϵ₁
// and variable b tagged on ϵ₂. Variables that are not free carry no tag.
//
// Only the 6 upper-triangle entries are stored. The remaining query shapes
// (reversed pair, one or both sides constant) are derived from them by
// dropping or swapping sensitivity channels.
type pairCache[T channels[T]] struct {
	vals [6]T
}

// slots[a][b] is the storage position of the unordered pair {a,b}.
var slots = [3][3]int{
	{0, 1, 2},
	{1, 3, 4},
	{2, 4, 5},
}

func (c *pairCache[T]) refresh(vars [3]*Variable, build func(a, b, c hyperdual.Number) T) {
	for a := 0; a < 3; a++ {
		for b := a; b < 3; b++ {
			var d [3]hyperdual.Number
			for k, v := range vars {
				d[k].Real = v.Value
			}
			if vars[a].Active() {
				d[a].E1mag = 1
			}
			if vars[b].Active() {
				d[b].E2mag = 1
			}
			c.vals[slots[a][b]] = build(d[0], d[1], d[2])
		}
	}
}

// get returns entry (a,b). A negative index means "no variable".
func (c *pairCache[T]) get(a, b int) T {
	switch {
	case a < 0 && b < 0:
		return c.vals[0].DropE1().DropE2()
	case a < 0:
		return c.vals[slots[b][b]].DropE1()
	case b < 0:
		return c.vals[slots[a][a]].DropE2()
	case a > b:
		return c.vals[slots[b][a]].Swap()
	}
	return c.vals[slots[a][b]]
}

func buildVector(x, y, z hyperdual.Number) geometry.Vector {
	return geometry.Vector{X: x, Y: y, Z: z}
}
