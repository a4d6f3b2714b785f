// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ResolvedParam is one canonical-name/typed-value pair produced by
// resolution.
type ResolvedParam struct {
	Name  string
	Value Value
}

// Resolved is the ordered outcome of resolving a parameter list. Order
// matches the schema declaration; optional parameters the operator left
// unset are absent.
type Resolved struct {
	params []ResolvedParam
	index  map[string]int
}

// Get returns the value for a canonical parameter name.
func (r *Resolved) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.params[i].Value, true
}

// Params returns the resolved pairs in schema order.
func (r *Resolved) Params() []ResolvedParam {
	return r.params
}

// Map returns the resolution as a plain map, losing order.
func (r *Resolved) Map() map[string]Value {
	m := make(map[string]Value, len(r.params))
	for _, p := range r.params {
		m[p.Name] = p.Value
	}
	return m
}

// MarshalJSON encodes the resolution as a JSON object in schema order.
// This is the payload shape the engine receives.
func (r *Resolved) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, p := range r.params {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := p.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Resolve validates operator overrides for a strategy and produces the
// canonical-name -> typed-value mapping the engine expects. Overrides
// are keyed by display name and carry raw string values; declared
// defaults fill in everything left unset. Resolution is pure: it never
// mutates the library and holds no state between calls.
func (l *Library) Resolve(category, strategy string, overrides map[string]string) (*Resolved, error) {
	s, err := l.Strategy(category, strategy)
	if err != nil {
		return nil, err
	}
	return resolveParams(s.Params, overrides)
}

// ResolveScalars resolves a category's scalar parameters (the ones not
// grouped under any strategy, such as the training globals).
func (l *Library) ResolveScalars(category string, overrides map[string]string) (*Resolved, error) {
	cat, err := l.Category(category)
	if err != nil {
		return nil, err
	}
	return resolveParams(cat.Scalars, overrides)
}

func resolveParams(params []Param, overrides map[string]string) (*Resolved, error) {
	if err := checkOverrideKeys(params, overrides); err != nil {
		return nil, err
	}

	res := &Resolved{index: make(map[string]int, len(params))}
	for i := range params {
		p := &params[i]

		raw, supplied := overrides[p.Display]
		if !supplied || raw == "" {
			raw = p.Default
		}
		if raw == "" {
			if p.Optional {
				continue
			}
			return nil, &MissingError{Display: p.Display, Type: p.Type}
		}

		if p.Enumerated() && !contains(p.Allowed, raw) {
			return nil, &EnumError{Display: p.Display, Raw: raw, Allowed: p.Allowed}
		}

		v, err := ParseValue(p.Type, raw)
		if err != nil {
			return nil, &TypeError{Display: p.Display, Type: p.Type, Raw: raw}
		}

		res.index[p.Name] = len(res.params)
		res.params = append(res.params, ResolvedParam{Name: p.Name, Value: v})
	}
	return res, nil
}

// checkOverrideKeys rejects overrides that name no declared parameter.
// Keys are checked in sorted order so the reported error is stable.
func checkOverrideKeys(params []Param, overrides map[string]string) error {
	if len(overrides) == 0 {
		return nil
	}
	declared := make(map[string]struct{}, len(params))
	for i := range params {
		declared[params[i].Display] = struct{}{}
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := declared[k]; !ok {
			return &UnknownParamError{Display: k}
		}
	}
	return nil
}
