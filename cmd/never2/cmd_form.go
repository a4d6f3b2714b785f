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

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nevertools/never2/pkg/engine"
	"github.com/nevertools/never2/pkg/schema"
	"github.com/nevertools/never2/pkg/ux"
)

// paramBinding ties a schema parameter to the string the form collects
// for it. Empty answers fall back to the schema default at resolution.
type paramBinding struct {
	display string
	value   string
}

// paramFields builds one form field per parameter: a select for
// enumerated parameters, a validated text input otherwise.
func paramFields(params []schema.Param, bindings []paramBinding) []huh.Field {
	fields := make([]huh.Field, 0, len(params))
	for i := range params {
		p := params[i]
		b := &bindings[i]

		title := p.Display
		if p.Optional {
			title += " (optional)"
		}

		if p.Enumerated() {
			opts := make([]huh.Option[string], 0, len(p.Allowed)+1)
			for _, a := range p.Allowed {
				label := a
				if a == p.Default {
					label += " (default)"
				}
				opts = append(opts, huh.NewOption(label, a))
			}
			b.value = p.Default
			fields = append(fields, huh.NewSelect[string]().
				Title(title).
				Description(p.Description).
				Options(opts...).
				Value(&b.value))
			continue
		}

		b.value = p.Default
		fields = append(fields, huh.NewInput().
			Title(title).
			Description(p.Description).
			Placeholder(p.Default).
			Validate(paramValidator(p)).
			Value(&b.value))
	}
	return fields
}

// paramValidator checks a form answer against the parameter type. An
// empty answer is fine when a default exists or the parameter is
// optional.
func paramValidator(p schema.Param) func(string) error {
	return func(s string) error {
		if s == "" {
			if p.HasDefault() || p.Optional {
				return nil
			}
			return fmt.Errorf("%s is required", p.Display)
		}
		if _, err := schema.ParseValue(p.Type, s); err != nil {
			return fmt.Errorf("expected %s", p.Type)
		}
		return nil
	}
}

func bindingsToOverrides(bindings []paramBinding) map[string]string {
	overrides := make(map[string]string, len(bindings))
	for _, b := range bindings {
		if b.value != "" {
			overrides[b.display] = b.value
		}
	}
	return overrides
}

func newBindings(params []schema.Param) []paramBinding {
	bindings := make([]paramBinding, len(params))
	for i := range params {
		bindings[i].display = params[i].Display
	}
	return bindings
}

// pathValidator rejects paths that do not exist on disk.
func pathValidator(label string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", label)
		}
		if _, err := os.Stat(s); err != nil {
			return fmt.Errorf("no such file: %s", s)
		}
		return nil
	}
}

func runFormVerify(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	cat, err := lib.Category(verificationCategory)
	if err != nil {
		return err
	}

	var property, network, algo string
	pick := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Property (VNN-LIB)").Validate(pathValidator("property")).Value(&property),
		huh.NewInput().Title("Network (ONNX)").Validate(pathValidator("network")).Value(&network),
		huh.NewSelect[string]().Title("Algorithm").
			Options(huh.NewOptions(cat.StrategyNames()...)...).
			Value(&algo),
	))
	if err := pick.Run(); err != nil {
		return err
	}

	s, err := lib.Strategy(verificationCategory, algo)
	if err != nil {
		return err
	}
	bindings := newBindings(s.Params)
	if len(s.Params) > 0 {
		tune := huh.NewForm(huh.NewGroup(paramFields(s.Params, bindings)...).
			Title(algo + " parameters"))
		if err := tune.Run(); err != nil {
			return err
		}
	}

	resolved, err := lib.Resolve(verificationCategory, algo, bindingsToOverrides(bindings))
	if err != nil {
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

	job := engine.NewVerifyJob(property, network, algo, resolved)
	spinner := ux.NewSpinner(fmt.Sprintf("Verifying %s with %s...", property, algo))
	spinner.Start()
	result, err := runner.Verify(ctx, job)
	spinner.Stop()
	if err != nil {
		return err
	}
	printVerifyResult(property, network, algo, result)
	return nil
}

func runFormTrain(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	selections := []struct {
		category string
		choice   *string
	}{
		{optimizerCategory, new(string)},
		{schedulerCategory, new(string)},
		{lossCategory, new(string)},
		{metricCategory, new(string)},
	}

	var network, dataset string
	pickFields := []huh.Field{
		huh.NewInput().Title("Network (ONNX)").Validate(pathValidator("network")).Value(&network),
		huh.NewInput().Title("Dataset").Validate(pathValidator("dataset")).Value(&dataset),
	}
	for _, sel := range selections {
		cat, err := lib.Category(sel.category)
		if err != nil {
			return err
		}
		pickFields = append(pickFields, huh.NewSelect[string]().
			Title(sel.category).
			Options(huh.NewOptions(cat.StrategyNames()...)...).
			Value(sel.choice))
	}
	if err := huh.NewForm(huh.NewGroup(pickFields...)).Run(); err != nil {
		return err
	}

	job := engine.NewTrainJob()
	job.Network = network
	job.Dataset = dataset
	job.Optimizer = *selections[0].choice
	job.Scheduler = *selections[1].choice
	job.Loss = *selections[2].choice
	job.Metric = *selections[3].choice

	// Global training parameters first, then one group per strategy.
	globals, err := lib.Category(trainGlobalsCategory)
	if err != nil {
		return err
	}
	globalBindings := newBindings(globals.Scalars)
	if err := huh.NewForm(huh.NewGroup(paramFields(globals.Scalars, globalBindings)...).
		Title("Training parameters")).Run(); err != nil {
		return err
	}
	if job.Globals, err = lib.ResolveScalars(trainGlobalsCategory, bindingsToOverrides(globalBindings)); err != nil {
		return err
	}

	resolvedFor := func(category, strategy string) (*schema.Resolved, error) {
		s, err := lib.Strategy(category, strategy)
		if err != nil {
			return nil, err
		}
		bindings := newBindings(s.Params)
		if len(s.Params) > 0 {
			form := huh.NewForm(huh.NewGroup(paramFields(s.Params, bindings)...).
				Title(strategy + " parameters"))
			if err := form.Run(); err != nil {
				return nil, err
			}
		}
		return lib.Resolve(category, strategy, bindingsToOverrides(bindings))
	}

	if job.OptimizerParams, err = resolvedFor(optimizerCategory, job.Optimizer); err != nil {
		return err
	}
	if job.SchedulerParams, err = resolvedFor(schedulerCategory, job.Scheduler); err != nil {
		return err
	}
	if job.LossParams, err = resolvedFor(lossCategory, job.Loss); err != nil {
		return err
	}
	if job.MetricParams, err = resolvedFor(metricCategory, job.Metric); err != nil {
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

	spinner := ux.NewSpinner("Training " + network + "...")
	spinner.Start()
	result, err := runner.Train(ctx, job, nil)
	spinner.Stop()
	if err != nil {
		return err
	}
	ux.Successf("Training finished after %d epochs (loss %.4f, accuracy %.2f%%)",
		result.Epochs, result.Loss, result.Accuracy*100)
	return nil
}
