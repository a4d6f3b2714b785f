// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nevertools/never2/pkg/engine"
	"github.com/nevertools/never2/pkg/schema"
	"github.com/nevertools/never2/pkg/ux"
)

// Training schema categories.
const (
	trainGlobalsCategory = "Parameters"
	optimizerCategory    = "Optimization algorithm"
	schedulerCategory    = "Scheduler"
	lossCategory         = "Loss Function"
	metricCategory       = "Precision Metric"
)

func runTrain(cmd *cobra.Command, args []string) error {
	network, dataset := args[0], args[1]

	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	job := engine.NewTrainJob()
	job.Network = network
	job.Dataset = dataset
	job.TestSet = testSetPath
	job.Optimizer = optimizerName
	job.Scheduler = schedulerName
	job.Loss = lossName
	job.Metric = metricName

	if job.Globals, err = resolveScalarFlags(lib, trainGlobalsCategory, paramFlags); err != nil {
		return err
	}
	if job.OptimizerParams, err = resolveStrategyFlags(lib, optimizerCategory, optimizerName, optParams); err != nil {
		return err
	}
	if job.SchedulerParams, err = resolveStrategyFlags(lib, schedulerCategory, schedulerName, schedParams); err != nil {
		return err
	}
	if job.LossParams, err = resolveStrategyFlags(lib, lossCategory, lossName, lossParams); err != nil {
		return err
	}
	if job.MetricParams, err = resolveStrategyFlags(lib, metricCategory, metricName, metricParams); err != nil {
		return err
	}

	log := newLogger()
	defer log.Close()
	runner, err := newRunner(log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var bar *progressbar.ProgressBar
	progress := func(ev engine.ProgressEvent) {
		if ux.Plain() {
			fmt.Printf("epoch %d/%d loss=%g\n", ev.Epoch, ev.Total, ev.Loss)
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(ev.Total,
				progressbar.OptionSetDescription("Training"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer: "=", SaucerHead: ">", SaucerPadding: " ",
					BarStart: "[", BarEnd: "]",
				}))
		}
		bar.Describe(fmt.Sprintf("Training (loss %.4f)", ev.Loss))
		_ = bar.Set(ev.Epoch)
	}

	result, err := runner.Train(ctx, job, progress)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	if ux.Plain() {
		fmt.Printf("epochs=%d loss=%g accuracy=%g\n", result.Epochs, result.Loss, result.Accuracy)
		return nil
	}
	ux.Successf("Training finished after %d epochs (loss %.4f, accuracy %.2f%%)",
		result.Epochs, result.Loss, result.Accuracy*100)
	return nil
}

func resolveStrategyFlags(lib *schema.Library, category, strategy string, flags []string) (*schema.Resolved, error) {
	overrides, err := parseParamFlags(flags)
	if err != nil {
		return nil, err
	}
	return lib.Resolve(category, strategy, overrides)
}

func resolveScalarFlags(lib *schema.Library, category string, flags []string) (*schema.Resolved, error) {
	overrides, err := parseParamFlags(flags)
	if err != nil {
		return nil, err
	}
	return lib.ResolveScalars(category, overrides)
}
