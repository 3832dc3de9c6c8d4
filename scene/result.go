// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/curioloop/asmsolve/solver"
)

// Report is the YAML document written after a solve.
type Report struct {
	OK          bool    `yaml:"ok"`
	F           float64 `yaml:"f"`
	Status      string  `yaml:"status"`
	Iterations  int     `yaml:"iterations"`
	Evaluations int     `yaml:"evaluations"`
	Objects     Objects `yaml:"objects"`
}

// NewReport summarizes res together with the solved placements of the
// scene objects, in file order.
func NewReport(sc *Scene, sys *solver.System, res *solver.Result) (*Report, error) {
	if err := sc.Update(sys); err != nil {
		return nil, err
	}
	return &Report{
		OK:          res.OK,
		F:           res.F,
		Status:      res.Status.String(),
		Iterations:  res.NumIter,
		Evaluations: res.NumEval,
		Objects:     sc.Objects,
	}, nil
}

// Marshal encodes the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return data, nil
}
