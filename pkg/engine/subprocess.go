// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/nevertools/never2/pkg/logging"
)

// Subprocess runs engine jobs by launching the configured engine
// command. The command is taken verbatim from the never2 config, e.g.
// ["pynever"] or ["python", "-m", "pynever"].
type Subprocess struct {
	command []string
	log     *logging.Logger
}

// NewSubprocess builds a Runner around the given engine command line.
func NewSubprocess(command []string, log *logging.Logger) (*Subprocess, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = logging.Default()
	}
	return &Subprocess{command: command, log: log}, nil
}

// Verify launches the engine on a verification job and blocks until it
// reports a result, the context expires, or the process fails.
func (s *Subprocess) Verify(ctx context.Context, job VerifyJob) (*VerifyResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	payload, err := encodeVerifyJob(job)
	if err != nil {
		return nil, err
	}

	log := s.log.With("job_id", job.ID, "algorithm", job.Algorithm)
	log.Info("verification started", "network", job.Network, "property", job.Property)

	start := time.Now()
	res, err := s.run(ctx, payload, log, nil)
	if err != nil {
		return nil, err
	}
	if res.Verified == nil {
		return nil, fmt.Errorf("engine reported no verification outcome")
	}

	result := &VerifyResult{
		Verified:       *res.Verified,
		Counterexample: res.Counterexample,
		Duration:       time.Since(start),
	}
	log.Info("verification finished", "verified", result.Verified, "duration", result.Duration)
	return result, nil
}

// Train launches the engine on a training job. Progress events are
// delivered on the calling goroutine as they arrive.
func (s *Subprocess) Train(ctx context.Context, job TrainJob, progress func(ProgressEvent)) (*TrainResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	payload, err := encodeTrainJob(job)
	if err != nil {
		return nil, err
	}

	log := s.log.With("job_id", job.ID, "optimizer", job.Optimizer)
	log.Info("training started", "network", job.Network, "dataset", job.Dataset)

	res, err := s.run(ctx, payload, log, progress)
	if err != nil {
		return nil, err
	}

	result := &TrainResult{Epochs: res.Epochs, Loss: res.Loss, Accuracy: res.Accuracy}
	log.Info("training finished", "epochs", result.Epochs, "loss", result.Loss)
	return result, nil
}

// run executes the engine process with the payload on stdin and scans
// stdout for progress and result lines. All other output is forwarded
// to the logger.
func (s *Subprocess) run(ctx context.Context, payload []byte, log *logging.Logger, progress func(ProgressEvent)) (*resultLine, error) {
	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch engine %q: %w", s.command[0], err)
	}

	var result *resultLine
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, resultPrefix):
			res, perr := parseResultLine(line)
			if perr != nil {
				log.Warn("ignoring malformed result line", "error", perr)
				continue
			}
			result = res
		case strings.HasPrefix(line, progressPrefix):
			if ev, ok := parseProgressLine(line); ok && progress != nil {
				progress(ev)
			}
		default:
			if line != "" {
				log.Info(line)
			}
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// The scanner stops mid-stream on errors such as an overlong
		// line; drain the pipe so the engine is not left blocked on a
		// full buffer and Wait can return.
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("engine run aborted: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("engine failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("engine failed: %w", err)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("reading engine output: %w", scanErr)
	}
	if result == nil {
		return nil, errors.New("engine exited without reporting a result")
	}
	return result, nil
}
