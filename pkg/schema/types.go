// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

// ParamType is the closed set of type tags a schema parameter may declare.
type ParamType string

const (
	TypeFloat  ParamType = "float"
	TypeInt    ParamType = "int"
	TypeStr    ParamType = "str"
	TypeBool   ParamType = "bool"
	TypeTuple  ParamType = "tuple"
	TypeTensor ParamType = "tensor"
)

// Valid reports whether t is one of the declared type tags.
func (t ParamType) Valid() bool {
	switch t {
	case TypeFloat, TypeInt, TypeStr, TypeBool, TypeTuple, TypeTensor:
		return true
	}
	return false
}

// Param is a single configurable parameter as declared in a schema
// document. Display is the operator-facing label; Name is the canonical
// keyword the engine expects. Default is string-encoded exactly as it
// appears in the document; an empty Default on a non-optional parameter
// means the operator must supply a value.
type Param struct {
	Display     string
	Name        string
	Type        ParamType
	Default     string
	Allowed     []string
	Optional    bool
	Description string
}

// HasDefault reports whether the parameter declares a default value.
func (p *Param) HasDefault() bool { return p.Default != "" }

// Enumerated reports whether the parameter restricts values to a closed set.
func (p *Param) Enumerated() bool { return len(p.Allowed) > 0 }

// Strategy is a named, user-selectable algorithm variant with its
// ordered parameter list. Order follows the schema document, since
// forms render parameters in declaration order.
type Strategy struct {
	Name   string
	Params []Param
}

// Param returns the parameter with the given display name.
func (s *Strategy) Param(display string) (*Param, bool) {
	for i := range s.Params {
		if s.Params[i].Display == display {
			return &s.Params[i], true
		}
	}
	return nil, false
}

// Category groups strategies under a user-facing name. Scalars holds
// the parameters that appear directly under the category key without a
// strategy level (the training globals such as Epochs).
type Category struct {
	Name       string
	Strategies []Strategy
	Scalars    []Param
}

// Strategy returns the named strategy within the category.
func (c *Category) Strategy(name string) (*Strategy, bool) {
	for i := range c.Strategies {
		if c.Strategies[i].Name == name {
			return &c.Strategies[i], true
		}
	}
	return nil, false
}

// StrategyNames returns the strategy names in declaration order.
func (c *Category) StrategyNames() []string {
	names := make([]string, len(c.Strategies))
	for i := range c.Strategies {
		names[i] = c.Strategies[i].Name
	}
	return names
}
