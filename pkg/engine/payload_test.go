// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevertools/never2/pkg/schema"
)

func ssbpParams(t *testing.T) *schema.Resolved {
	t.Helper()
	lib, err := schema.Load()
	require.NoError(t, err)
	res, err := lib.Resolve("Verification strategy", "SSBP",
		map[string]string{"Timeout": "60"})
	require.NoError(t, err)
	return res
}

func TestEncodeVerifyJob(t *testing.T) {
	job := VerifyJob{
		ID:        "job-1",
		Property:  "prop.vnnlib",
		Network:   "net.onnx",
		Algorithm: "SSBP",
		Params:    ssbpParams(t),
	}
	data, err := encodeVerifyJob(job)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"job_id": "job-1",
		"kind": "verify",
		"property": "prop.vnnlib",
		"network": "net.onnx",
		"algorithm": "SSBP",
		"params": {
			"heuristic": "Sequential",
			"bounds": "Symbolic",
			"bounds_direction": "Forwards",
			"intersection": "Adaptive",
			"timeout": 60
		}
	}`, string(data))
}

func TestParseResultLine(t *testing.T) {
	res, err := parseResultLine(`RESULT {"verified": false, "counterexample": "x_0 = 0.42"}`)
	require.NoError(t, err)
	require.NotNil(t, res.Verified)
	assert.False(t, *res.Verified)
	assert.Equal(t, "x_0 = 0.42", res.Counterexample)

	res, err = parseResultLine(`RESULT {"epochs": 20, "loss": 0.031, "accuracy": 0.97}`)
	require.NoError(t, err)
	assert.Nil(t, res.Verified)
	assert.Equal(t, 20, res.Epochs)
	assert.InDelta(t, 0.031, res.Loss, 1e-9)

	_, err = parseResultLine(`RESULT not-json`)
	assert.Error(t, err)
}

func TestParseProgressLine(t *testing.T) {
	ev, ok := parseProgressLine("EPOCH 3/20 loss=0.125")
	require.True(t, ok)
	assert.Equal(t, ProgressEvent{Epoch: 3, Total: 20, Loss: 0.125}, ev)

	ev, ok = parseProgressLine("EPOCH 7/10")
	require.True(t, ok)
	assert.Equal(t, ProgressEvent{Epoch: 7, Total: 10}, ev)

	for _, line := range []string{"EPOCH ", "EPOCH x/y loss=1", "EPOCH 3 loss=1"} {
		_, ok := parseProgressLine(line)
		assert.False(t, ok, "line %q", line)
	}
}
