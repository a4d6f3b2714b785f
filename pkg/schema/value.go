// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a typed parameter value. The set of implementations is
// closed and mirrors ParamType one to one: Float, Int, Str, Bool,
// Tuple and Tensor. A Value round-trips through its String form, so
// coercion is idempotent.
type Value interface {
	Type() ParamType
	String() string
	json.Marshaler

	isValue()
}

type (
	// Float is a float-typed parameter value.
	Float float64
	// Int is an int-typed parameter value.
	Int int
	// Str is a string-typed parameter value.
	Str string
	// Bool is a bool-typed parameter value.
	Bool bool
	// Tuple is an ordered numeric tuple, e.g. the Adam betas pair.
	Tuple []float64
	// Tensor is a flat numeric tensor literal, e.g. class weights.
	Tensor []float64
)

func (Float) isValue()  {}
func (Int) isValue()    {}
func (Str) isValue()    {}
func (Bool) isValue()   {}
func (Tuple) isValue()  {}
func (Tensor) isValue() {}

func (Float) Type() ParamType  { return TypeFloat }
func (Int) Type() ParamType    { return TypeInt }
func (Str) Type() ParamType    { return TypeStr }
func (Bool) Type() ParamType   { return TypeBool }
func (Tuple) Type() ParamType  { return TypeTuple }
func (Tensor) Type() ParamType { return TypeTensor }

func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Int) String() string   { return strconv.Itoa(int(v)) }
func (v Str) String() string   { return string(v) }

// String renders booleans the way the schema documents encode them.
func (v Bool) String() string {
	if v {
		return "True"
	}
	return "False"
}

func (v Tuple) String() string  { return "(" + joinFloats([]float64(v)) + ")" }
func (v Tensor) String() string { return "(" + joinFloats([]float64(v)) + ")" }

func (v Float) MarshalJSON() ([]byte, error) { return json.Marshal(float64(v)) }
func (v Int) MarshalJSON() ([]byte, error)   { return json.Marshal(int(v)) }
func (v Str) MarshalJSON() ([]byte, error)   { return json.Marshal(string(v)) }
func (v Bool) MarshalJSON() ([]byte, error)  { return json.Marshal(bool(v)) }
func (v Tuple) MarshalJSON() ([]byte, error) { return json.Marshal([]float64(v)) }
func (v Tensor) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64(v))
}

func joinFloats(vals []float64) string {
	var b strings.Builder
	for i, f := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}

// ParseValue parses a raw string as the given type. Raw values come
// either from the schema document defaults or from operator input;
// both use the same encoding. Tuple and tensor literals accept the
// forms "(a, b, c)" and "a, b, c".
func ParseValue(t ParamType, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch t {
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a float: %q", raw)
		}
		return Float(f), nil
	case TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("not an int: %q", raw)
		}
		return Int(n), nil
	case TypeStr:
		return Str(raw), nil
	case TypeBool:
		switch raw {
		case "True", "true":
			return Bool(true), nil
		case "False", "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("not a bool: %q", raw)
	case TypeTuple:
		vals, err := parseNumberList(raw)
		if err != nil {
			return nil, err
		}
		return Tuple(vals), nil
	case TypeTensor:
		vals, err := parseNumberList(raw)
		if err != nil {
			return nil, err
		}
		return Tensor(vals), nil
	}
	return nil, fmt.Errorf("unknown parameter type %q", t)
}

func parseNumberList(raw string) ([]float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	var vals []float64
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number sequence: %q", raw)
		}
		vals = append(vals, f)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("empty number sequence: %q", raw)
	}
	return vals, nil
}
