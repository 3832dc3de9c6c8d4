// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene reads constraint problems from YAML files and writes the
// solved placements back.
//
// A scene lists the objects in order, each with its six axis values, followed
// by the constraints between them:
//
//	objects:
//	  Base: {x: 0, y: 0, z: 0, phi: 0, theta: 0, psi: 0}
//	  Arm:  {x: 0.2, y: 0.1, z: 0, phi: 0, theta: 0, psi: 0.3}
//	constraints:
//	  - type: FixBase
//	    objects: {Object: Arm, Reference: Base}
//	    parameters: {x: 1, y: 0, z: 0}
//	  - type: Lock
//	    objects: {Object: Base}
//	    parameters: {x: 0, y: 0, z: 0, phi: 0, theta: 0, psi: 0}
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/curioloop/asmsolve/solver"
)

// Object is a named rigid body with its axis values keyed by axis name.
type Object struct {
	Name   string
	Values map[string]float64
}

// Objects keeps the objects in file order. It is encoded as a YAML mapping
// from object name to axis values.
type Objects []Object

// Constraint is one constraint entry of a scene.
type Constraint struct {
	Type       string             `yaml:"type"`
	Objects    map[string]string  `yaml:"objects"`
	Parameters map[string]float64 `yaml:"parameters,omitempty"`
}

// Scene is a complete constraint problem.
type Scene struct {
	Objects     Objects      `yaml:"objects"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
}

func (o *Objects) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: objects must be a mapping", node.Line)
	}
	seen := make(map[string]bool, len(node.Content)/2)
	objects := make(Objects, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var name string
		if err := key.Decode(&name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("line %d: duplicate object %q", key.Line, name)
		}
		seen[name] = true
		obj := Object{Name: name}
		if err := val.Decode(&obj.Values); err != nil {
			return fmt.Errorf("object %q: %w", name, err)
		}
		objects = append(objects, obj)
	}
	*o = objects
	return nil
}

func (o Objects) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, obj := range o {
		values := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for a := solver.X; a <= solver.Psi; a++ {
			v, ok := obj.Values[a.String()]
			if !ok {
				continue
			}
			var val yaml.Node
			if err := val.Encode(v); err != nil {
				return nil, err
			}
			values.Content = append(values.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: a.String()}, &val)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: obj.Name}, values)
	}
	return node, nil
}

// Parse decodes a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scene
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if len(sc.Objects) == 0 {
		return nil, errors.New("scene: no objects")
	}
	return &sc, nil
}

// Load reads and decodes the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return Parse(data)
}

// Build registers the objects and then the constraints of the scene with a
// new System, both in file order.
func (sc *Scene) Build(opts *solver.Options) (*solver.System, error) {
	sys := solver.New(opts)
	for _, obj := range sc.Objects {
		if err := sys.AddObject(obj.Name, obj.Values); err != nil {
			return nil, err
		}
	}
	for i, c := range sc.Constraints {
		if err := sys.AddConstraint(c.Type, c.Objects, c.Parameters); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
	}
	return sys, nil
}

// Update replaces the object values with the current placements of sys.
func (sc *Scene) Update(sys *solver.System) error {
	for i := range sc.Objects {
		p, err := sys.Placement(sc.Objects[i].Name)
		if err != nil {
			return err
		}
		sc.Objects[i].Values = p.Map()
	}
	return nil
}
