// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		typ  ParamType
		raw  string
		want Value
	}{
		{"float", TypeFloat, "0.001", Float(0.001)},
		{"float scientific", TypeFloat, "1e-08", Float(1e-8)},
		{"int", TypeInt, "300", Int(300)},
		{"int negative", TypeInt, "-100", Int(-100)},
		{"str", TypeStr, "Sequential", Str("Sequential")},
		{"bool true", TypeBool, "True", Bool(true)},
		{"bool false", TypeBool, "False", Bool(false)},
		{"bool lowercase", TypeBool, "true", Bool(true)},
		{"tuple", TypeTuple, "(0.9, 0.999)", Tuple{0.9, 0.999}},
		{"tuple bare", TypeTuple, "0.9, 0.999", Tuple{0.9, 0.999}},
		{"tuple single", TypeTuple, "(5)", Tuple{5}},
		{"tensor", TypeTensor, "(1.0, 2.5, 3.0)", Tensor{1.0, 2.5, 3.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.typ, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.typ, got.Type())
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  ParamType
		raw  string
	}{
		{"float garbage", TypeFloat, "fast"},
		{"int float", TypeInt, "0.5"},
		{"bool garbage", TypeBool, "yes"},
		{"tuple garbage", TypeTuple, "(a, b)"},
		{"tuple empty", TypeTuple, "()"},
		{"tensor empty", TypeTensor, ""},
		{"unknown type", ParamType("matrix"), "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue(tt.typ, tt.raw)
			assert.Error(t, err)
		})
	}
}

// Coercion must be idempotent: re-parsing a value's string form yields
// the same value.
func TestParseValueIdempotent(t *testing.T) {
	values := []Value{
		Float(1e-8),
		Float(0.001),
		Int(-100),
		Str("Star LP"),
		Bool(true),
		Bool(false),
		Tuple{0.9, 0.999},
		Tensor{1, 2, 3},
	}
	for _, v := range values {
		got, err := ParseValue(v.Type(), v.String())
		require.NoError(t, err, "re-parsing %s", v.String())
		assert.Equal(t, v, got)
	}
}

func TestValueStrings(t *testing.T) {
	assert.Equal(t, "True", Bool(true).String())
	assert.Equal(t, "False", Bool(false).String())
	assert.Equal(t, "(0.9, 0.999)", Tuple{0.9, 0.999}.String())
	assert.Equal(t, "1e-08", Float(1e-8).String())
	assert.Equal(t, "42", Int(42).String())
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{Float(0.01), "0.01"},
		{Int(60), "60"},
		{Str("Adaptive"), `"Adaptive"`},
		{Bool(false), "false"},
		{Tuple{0.9, 0.999}, "[0.9,0.999]"},
		{Tensor{1, 2}, "[1,2]"},
	}
	for _, tt := range tests {
		data, err := tt.val.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))
	}
}
