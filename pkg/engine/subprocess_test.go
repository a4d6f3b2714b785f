// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevertools/never2/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Quiet: true})
}

// fakeEngine returns a Subprocess backed by a shell one-liner standing
// in for the real engine.
func fakeEngine(t *testing.T, script string) *Subprocess {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine requires a POSIX shell")
	}
	s, err := NewSubprocess([]string{"sh", "-c", script}, quietLogger())
	require.NoError(t, err)
	return s
}

func tempInputs(t *testing.T) (property, network string) {
	t.Helper()
	dir := t.TempDir()
	property = filepath.Join(dir, "prop.vnnlib")
	network = filepath.Join(dir, "net.onnx")
	require.NoError(t, os.WriteFile(property, []byte("(assert true)"), 0644))
	require.NoError(t, os.WriteFile(network, []byte("onnx"), 0644))
	return property, network
}

func TestNewSubprocessNotConfigured(t *testing.T) {
	_, err := NewSubprocess(nil, quietLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewSubprocess([]string{""}, quietLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifyReportsResult(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null
echo "bounds propagation started"
echo 'RESULT {"verified": true}'`)

	job := NewVerifyJob(property, network, "SSBP", ssbpParams(t))
	res, err := s.Verify(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Empty(t, res.Counterexample)
}

func TestVerifyCounterexample(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null
echo 'RESULT {"verified": false, "counterexample": "x_0 = 0.42"}'`)

	job := NewVerifyJob(property, network, "SSLP", ssbpParams(t))
	res, err := s.Verify(context.Background(), job)
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "x_0 = 0.42", res.Counterexample)
}

func TestVerifyNoResult(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null; echo "nothing conclusive"`)

	job := NewVerifyJob(property, network, "SSBP", ssbpParams(t))
	_, err := s.Verify(context.Background(), job)
	assert.Error(t, err)
}

func TestVerifyEngineFailure(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null; echo "no such algorithm" >&2; exit 3`)

	job := NewVerifyJob(property, network, "SSBP", ssbpParams(t))
	_, err := s.Verify(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such algorithm")
}

func TestVerifyTimeout(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null; sleep 10`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	job := NewVerifyJob(property, network, "SSBP", ssbpParams(t))
	_, err := s.Verify(ctx, job)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifyInvalidPaths(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null; echo 'RESULT {"verified": true}'`)

	job := NewVerifyJob(property, filepath.Join(t.TempDir(), "missing.onnx"), "SSBP", ssbpParams(t))
	_, err := s.Verify(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network model")

	job = NewVerifyJob(filepath.Join(t.TempDir(), "missing.vnnlib"), network, "SSBP", ssbpParams(t))
	_, err = s.Verify(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property")
}

// A stdout line past the scanner's buffer cap must not leave the
// engine blocked on a full pipe; the run fails but returns.
func TestVerifyOverlongLine(t *testing.T) {
	property, network := tempInputs(t)
	s := fakeEngine(t, `cat >/dev/null
head -c 4194304 /dev/zero | tr '\0' 'x'
echo
echo 'RESULT {"verified": true}'`)

	job := NewVerifyJob(property, network, "SSLP", ssbpParams(t))

	done := make(chan error, 1)
	go func() {
		_, err := s.Verify(context.Background(), job)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading engine output")
	case <-time.After(10 * time.Second):
		t.Fatal("Verify did not return after an overlong engine line")
	}
}

func TestTrainProgress(t *testing.T) {
	_, network := tempInputs(t)

	s := fakeEngine(t, `cat >/dev/null
echo "EPOCH 1/2 loss=0.5"
echo "EPOCH 2/2 loss=0.25"
echo 'RESULT {"epochs": 2, "loss": 0.25, "accuracy": 0.9}'`)

	dataset := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(dataset, []byte("0,1\n"), 0644))

	job := NewTrainJob()
	job.Network = network
	job.Dataset = dataset
	job.Optimizer = "Adam"

	var events []ProgressEvent
	res, err := s.Train(context.Background(), job, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Epochs)
	assert.InDelta(t, 0.25, res.Loss, 1e-9)
	require.Len(t, events, 2)
	assert.Equal(t, ProgressEvent{Epoch: 1, Total: 2, Loss: 0.5}, events[0])
}
