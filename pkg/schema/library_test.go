// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	for _, name := range []string{
		"Parameters",
		"Optimization algorithm",
		"Scheduler",
		"Loss Function",
		"Precision Metric",
		"Verification strategy",
	} {
		_, err := lib.Category(name)
		assert.NoError(t, err, "category %q", name)
	}

	verif, err := lib.Category("Verification strategy")
	require.NoError(t, err)
	assert.Equal(t, []string{"SSLP", "SSBP"}, verif.StrategyNames())

	adam, err := lib.Strategy("Optimization algorithm", "Adam")
	require.NoError(t, err)
	require.Len(t, adam.Params, 5)
	assert.Equal(t, "lr", adam.Params[0].Name)

	lr, ok := adam.Param("Learning Rate")
	require.True(t, ok)
	assert.Equal(t, "0.001", lr.Default)
}

func TestLookupUnknown(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	_, err = lib.Category("Pruning")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = lib.Strategy("Optimization algorithm", "AdaGrad")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = lib.Strategy("Pruning", "Adam")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = lib.Resolve("Verification strategy", "CROWN", nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestLoadDirInvariants(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"duplicate canonical name in strategy",
			`{"C": {"S": {"params": {
				"A": {"name": "x", "type": "int", "value": "1"},
				"B": {"name": "x", "type": "int", "value": "2"}
			}}}}`,
		},
		{
			"duplicate scalar canonical name",
			`{"C": {
				"A": {"name": "x", "type": "int", "value": "1"},
				"B": {"name": "x", "type": "int", "value": "2"}
			}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"bad.json": &fstest.MapFile{Data: []byte(tt.doc)}}
			_, err := loadFS(fsys)
			assert.Error(t, err)
		})
	}
}

func TestLoadDuplicateCategoryAcrossFiles(t *testing.T) {
	doc := `{"C": {"S": {"params": {"A": {"name": "a", "type": "int", "value": "1"}}}}}`
	fsys := fstest.MapFS{
		"a.json": &fstest.MapFile{Data: []byte(doc)},
		"b.json": &fstest.MapFile{Data: []byte(doc)},
	}
	_, err := loadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate category")
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := loadFS(fstest.MapFS{})
	assert.Error(t, err)
}
