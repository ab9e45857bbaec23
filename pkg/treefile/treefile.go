// Package treefile reads element trees described in YAML.
//
// A tree file holds one element or a list of elements. An element is either
// a scalar, which becomes a text node, or a mapping:
//
//	tag: ul
//	props: {id: items}
//	children:
//	  - tag: li
//	    key: a
//	    text: first
//	  - plain text
//
// A mapping names exactly one of tag, component or fragment. "text" is
// shorthand for a single text child. Components are looked up in a
// Registry when the tree is built.
package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/reflow/pkg/core"
)

// Spec describes one element.
type Spec struct {
	Tag       string
	Component string
	Fragment  bool
	Key       string
	Text      string
	IsText    bool
	Props     map[string]any
	Children  []*Spec
	Line      int
}

type rawSpec struct {
	Tag       string         `yaml:"tag"`
	Component string         `yaml:"component"`
	Fragment  bool           `yaml:"fragment"`
	Key       string         `yaml:"key"`
	Text      *string        `yaml:"text"`
	Props     map[string]any `yaml:"props"`
	Children  []*Spec        `yaml:"children"`
}

// UnmarshalYAML decodes a scalar as text and a mapping as an element.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	s.Line = value.Line
	switch value.Kind {
	case yaml.ScalarNode:
		s.IsText = true
		s.Text = value.Value
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: element must be a scalar or a mapping", value.Line)
	}

	var raw rawSpec
	if err := value.Decode(&raw); err != nil {
		return err
	}
	kinds := 0
	for _, set := range []bool{raw.Tag != "", raw.Component != "", raw.Fragment} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return fmt.Errorf("line %d: element needs exactly one of tag, component or fragment", value.Line)
	}
	s.Tag = raw.Tag
	s.Component = raw.Component
	s.Fragment = raw.Fragment
	s.Key = raw.Key
	s.Props = raw.Props
	s.Children = raw.Children
	if raw.Text != nil {
		s.Children = slices.Insert(s.Children, 0, &Spec{IsText: true, Text: *raw.Text, Line: value.Line})
	}
	return nil
}

// Parse decodes a tree file. A document holding a list yields one Spec per
// item.
func Parse(data []byte) ([]*Spec, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("treefile: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	var specs []*Spec
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&specs); err != nil {
			return nil, fmt.Errorf("treefile: %w", err)
		}
		return specs, nil
	}
	var s Spec
	if err := root.Decode(&s); err != nil {
		return nil, fmt.Errorf("treefile: %w", err)
	}
	return []*Spec{&s}, nil
}

// Load reads and parses the tree file at path.
func Load(path string) ([]*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Registry maps component names used in tree files to components.
type Registry map[string]core.Component

// Build converts specs to an element tree. Several specs become a
// fragment.
func Build(specs []*Spec, reg Registry) (core.Node, error) {
	nodes := make([]any, 0, len(specs))
	for _, s := range specs {
		n, err := s.Node(reg)
		if err != nil {
			return core.Node{}, err
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 1 {
		return nodes[0].(core.Node), nil
	}
	return core.Group(nodes...), nil
}

// Node converts s to an element.
func (s *Spec) Node(reg Registry) (core.Node, error) {
	if s.IsText {
		return core.Text(s.Text), nil
	}
	children := make([]any, 0, len(s.Children))
	for _, c := range s.Children {
		n, err := c.Node(reg)
		if err != nil {
			return core.Node{}, err
		}
		children = append(children, n)
	}
	props := make(core.Props, len(s.Props)+1)
	for k, v := range s.Props {
		props[k] = v
	}
	if s.Key != "" {
		props[core.KeyProp] = s.Key
	}

	var typ any
	switch {
	case s.Fragment:
		typ = core.Fragment
	case s.Component != "":
		c, ok := reg[s.Component]
		if !ok {
			return core.Node{}, fmt.Errorf("line %d: unknown component %q", s.Line, s.Component)
		}
		typ = c
	default:
		typ = s.Tag
	}
	return core.CreateElement(typ, props, children...), nil
}
