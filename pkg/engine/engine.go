// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine invokes the external verification and learning engine.
//
// never2 never implements the verification math itself: resolved
// parameter sets are handed to an engine process (pyNeVer-compatible)
// as a JSON job payload on stdin, and the engine reports progress and
// the final result on stdout. This package owns that boundary.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nevertools/never2/pkg/schema"
)

// ErrNotConfigured is returned when no engine command is set in the
// never2 configuration.
var ErrNotConfigured = errors.New("engine command not configured")

// Runner executes engine jobs. The subprocess implementation is the
// only one shipped; tests substitute their own.
type Runner interface {
	Verify(ctx context.Context, job VerifyJob) (*VerifyResult, error)
	Train(ctx context.Context, job TrainJob, progress func(ProgressEvent)) (*TrainResult, error)
}

// VerifyJob describes one verification run: a VNN-LIB property checked
// against an ONNX network with a resolved algorithm parameter set.
type VerifyJob struct {
	ID        string
	Property  string
	Network   string
	Algorithm string
	Params    *schema.Resolved
}

// NewVerifyJob assigns a fresh job ID.
func NewVerifyJob(property, network, algorithm string, params *schema.Resolved) VerifyJob {
	return VerifyJob{
		ID:        uuid.NewString(),
		Property:  property,
		Network:   network,
		Algorithm: algorithm,
		Params:    params,
	}
}

// Validate checks the input paths before the engine is launched, so
// the operator gets a direct error instead of an engine stack trace.
func (j *VerifyJob) Validate() error {
	if _, err := os.Stat(j.Network); err != nil {
		return fmt.Errorf("invalid path for the network model: %s", j.Network)
	}
	if _, err := os.Stat(j.Property); err != nil {
		return fmt.Errorf("invalid path for the property: %s", j.Property)
	}
	return nil
}

// VerifyResult is the engine's answer for a verification job.
type VerifyResult struct {
	Verified       bool
	Counterexample string
	Duration       time.Duration
}

// TrainJob describes one training run. Each strategy selection carries
// its own resolved parameter set; Globals holds the scalar training
// parameters (epochs, batch sizes, ...).
type TrainJob struct {
	ID      string
	Network string
	Dataset string
	TestSet string

	Optimizer string
	Scheduler string
	Loss      string
	Metric    string

	OptimizerParams *schema.Resolved
	SchedulerParams *schema.Resolved
	LossParams      *schema.Resolved
	MetricParams    *schema.Resolved
	Globals         *schema.Resolved
}

// NewTrainJob assigns a fresh job ID.
func NewTrainJob() TrainJob {
	return TrainJob{ID: uuid.NewString()}
}

// Validate checks the input paths before the engine is launched.
func (j *TrainJob) Validate() error {
	if _, err := os.Stat(j.Network); err != nil {
		return fmt.Errorf("invalid path for the network model: %s", j.Network)
	}
	if _, err := os.Stat(j.Dataset); err != nil {
		return fmt.Errorf("invalid path for the dataset: %s", j.Dataset)
	}
	if j.TestSet != "" {
		if _, err := os.Stat(j.TestSet); err != nil {
			return fmt.Errorf("invalid path for the test set: %s", j.TestSet)
		}
	}
	return nil
}

// ProgressEvent is one epoch tick reported by the engine during
// training.
type ProgressEvent struct {
	Epoch int
	Total int
	Loss  float64
}

// TrainResult is the engine's summary for a completed training run.
type TrainResult struct {
	Epochs   int     `json:"epochs"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}
