// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nevertools/never2/pkg/schema"
)

// The engine line protocol: one JSON job object on stdin, free-form
// log lines on stdout, plus two recognized prefixes:
//
//	EPOCH <n>/<total> loss=<float>
//	RESULT <json>
//
// Everything else on stdout is forwarded to the logger verbatim.
const (
	resultPrefix   = "RESULT "
	progressPrefix = "EPOCH "
)

type verifyPayload struct {
	JobID     string           `json:"job_id"`
	Kind      string           `json:"kind"`
	Property  string           `json:"property"`
	Network   string           `json:"network"`
	Algorithm string           `json:"algorithm"`
	Params    *schema.Resolved `json:"params"`
}

type trainPayload struct {
	JobID   string `json:"job_id"`
	Kind    string `json:"kind"`
	Network string `json:"network"`
	Dataset string `json:"dataset"`
	TestSet string `json:"test_set,omitempty"`

	Optimizer       string           `json:"optimizer"`
	OptimizerParams *schema.Resolved `json:"optimizer_params"`
	Scheduler       string           `json:"scheduler"`
	SchedulerParams *schema.Resolved `json:"scheduler_params"`
	Loss            string           `json:"loss"`
	LossParams      *schema.Resolved `json:"loss_params"`
	Metric          string           `json:"metric"`
	MetricParams    *schema.Resolved `json:"metric_params"`
	Globals         *schema.Resolved `json:"params"`
}

func encodeVerifyJob(job VerifyJob) ([]byte, error) {
	return json.Marshal(verifyPayload{
		JobID:     job.ID,
		Kind:      "verify",
		Property:  job.Property,
		Network:   job.Network,
		Algorithm: job.Algorithm,
		Params:    job.Params,
	})
}

func encodeTrainJob(job TrainJob) ([]byte, error) {
	return json.Marshal(trainPayload{
		JobID:           job.ID,
		Kind:            "train",
		Network:         job.Network,
		Dataset:         job.Dataset,
		TestSet:         job.TestSet,
		Optimizer:       job.Optimizer,
		OptimizerParams: job.OptimizerParams,
		Scheduler:       job.Scheduler,
		SchedulerParams: job.SchedulerParams,
		Loss:            job.Loss,
		LossParams:      job.LossParams,
		Metric:          job.Metric,
		MetricParams:    job.MetricParams,
		Globals:         job.Globals,
	})
}

type resultLine struct {
	Verified       *bool   `json:"verified,omitempty"`
	Counterexample string  `json:"counterexample,omitempty"`
	Epochs         int     `json:"epochs,omitempty"`
	Loss           float64 `json:"loss,omitempty"`
	Accuracy       float64 `json:"accuracy,omitempty"`
}

// parseResultLine decodes a "RESULT {...}" stdout line.
func parseResultLine(line string) (*resultLine, error) {
	raw := strings.TrimPrefix(line, resultPrefix)
	var res resultLine
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("malformed engine result %q: %w", raw, err)
	}
	return &res, nil
}

// parseProgressLine decodes an "EPOCH n/m loss=f" stdout line.
func parseProgressLine(line string) (ProgressEvent, bool) {
	rest := strings.TrimPrefix(line, progressPrefix)
	fields := strings.Fields(rest)
	if len(fields) < 1 {
		return ProgressEvent{}, false
	}

	counts := strings.SplitN(fields[0], "/", 2)
	if len(counts) != 2 {
		return ProgressEvent{}, false
	}
	epoch, err1 := strconv.Atoi(counts[0])
	total, err2 := strconv.Atoi(counts[1])
	if err1 != nil || err2 != nil {
		return ProgressEvent{}, false
	}

	ev := ProgressEvent{Epoch: epoch, Total: total}
	for _, f := range fields[1:] {
		if val, ok := strings.CutPrefix(f, "loss="); ok {
			if loss, err := strconv.ParseFloat(val, 64); err == nil {
				ev.Loss = loss
			}
		}
	}
	return ev, true
}
