// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nevertools/never2/cmd/never2/config"
	"github.com/nevertools/never2/pkg/ux"
)

// --- Global Command Variables ---
var (
	machineMode bool   // disable styling and animation
	strategy    string // verification preset token (complete/approximate/mixed1/mixed2)
	algorithm   string // full-schema algorithm selection (SSLP/SSBP)
	paramFlags  []string
	jsonOutput  bool

	optimizerName string
	schedulerName string
	lossName      string
	metricName    string
	optParams     []string
	schedParams   []string
	lossParams    []string
	metricParams  []string
	testSetPath   string

	watchMode bool

	rootCmd = &cobra.Command{
		Use:   "never2",
		Short: "A tool for learning and verification of neural networks",
		Long: `never2 is the command-line shell of the NeVer2 tool. It resolves
the parameter schemas for training and verification strategies and
drives the external engine that performs the actual work.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if machineMode || config.Global.Output.Plain {
				ux.SetPlain(true)
			}
			return nil
		},
	}

	// --- Verification ---
	verifyCmd = &cobra.Command{
		Use:   "verify [property] [network]",
		Short: "Verify a VNN-LIB property on an ONNX network",
		Long: `Verifies the VNN-LIB property in the first argument on the ONNX
model in the second argument. Either pick a preset with --strategy
(complete, approximate, mixed1, mixed2) or select an algorithm with
--algorithm (SSLP, SSBP) and tune it with repeated --param flags.`,
		Args: cobra.ExactArgs(2),
		RunE: runVerify, // Defined in cmd_verify.go
	}

	// --- Training ---
	trainCmd = &cobra.Command{
		Use:   "train [network] [dataset]",
		Short: "Train an ONNX network on a dataset",
		Args:  cobra.ExactArgs(2),
		RunE:  runTrain, // Defined in cmd_train.go
	}

	// --- Strategies ---
	strategiesCmd = &cobra.Command{
		Use:   "strategies",
		Short: "Inspect the available strategies and their parameters",
	}
	strategiesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List every category and strategy",
		Args:  cobra.NoArgs,
		RunE:  runStrategiesList, // Defined in cmd_strategies.go
	}
	strategiesShowCmd = &cobra.Command{
		Use:   "show [category] [strategy]",
		Short: "Show the parameter schema of a strategy",
		Args:  cobra.ExactArgs(2),
		RunE:  runStrategiesShow, // Defined in cmd_strategies.go
	}

	// --- Resolve ---
	resolveCmd = &cobra.Command{
		Use:   "resolve [category] [strategy]",
		Short: "Resolve a strategy's parameters and print the engine mapping",
		Long: `Resolves a strategy's parameters and prints the canonical mapping the
engine receives. Categories whose parameters sit directly under the
category key (such as the "Parameters" training globals) take no
strategy argument.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runResolve, // Defined in cmd_strategies.go
	}

	// --- Interactive forms ---
	formCmd = &cobra.Command{
		Use:   "form",
		Short: "Fill in the parameters interactively",
	}
	formVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Interactive verification setup",
		Args:  cobra.NoArgs,
		RunE:  runFormVerify, // Defined in cmd_form.go
	}
	formTrainCmd = &cobra.Command{
		Use:   "train",
		Short: "Interactive training setup",
		Args:  cobra.NoArgs,
		RunE:  runFormTrain, // Defined in cmd_form.go
	}

	// --- Schema tooling ---
	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Work with parameter schema documents",
	}
	schemaLintCmd = &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Validate schema documents, optionally re-checking on change",
		RunE:  runSchemaLint, // Defined in cmd_schema.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the never2 version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("never2 " + Version)
		},
	}
)

// init() runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVar(&machineMode, "machine", false,
		"Plain output without styling or animation")

	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&strategy, "strategy", "s", "complete",
		"Verification preset (complete, approximate, mixed1, mixed2)")
	verifyCmd.Flags().StringVar(&algorithm, "algorithm", "",
		"Verification algorithm (SSLP, SSBP); overrides --strategy")
	verifyCmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil,
		`Parameter override as "Display Name=value", repeatable`)

	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringVar(&optimizerName, "optimizer", "Adam", "Optimization algorithm")
	trainCmd.Flags().StringVar(&schedulerName, "scheduler", "ReduceLROnPlateau", "Learning rate scheduler")
	trainCmd.Flags().StringVar(&lossName, "loss", "Cross Entropy", "Loss function")
	trainCmd.Flags().StringVar(&metricName, "metric", "Inaccuracy", "Precision metric")
	trainCmd.Flags().StringVar(&testSetPath, "test-set", "", "Optional test set path")
	trainCmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil,
		`Training parameter override as "Display Name=value", repeatable`)
	trainCmd.Flags().StringArrayVar(&optParams, "opt-param", nil,
		"Optimizer parameter override, repeatable")
	trainCmd.Flags().StringArrayVar(&schedParams, "sched-param", nil,
		"Scheduler parameter override, repeatable")
	trainCmd.Flags().StringArrayVar(&lossParams, "loss-param", nil,
		"Loss function parameter override, repeatable")
	trainCmd.Flags().StringArrayVar(&metricParams, "metric-param", nil,
		"Precision metric parameter override, repeatable")

	rootCmd.AddCommand(strategiesCmd)
	strategiesCmd.AddCommand(strategiesListCmd)
	strategiesCmd.AddCommand(strategiesShowCmd)

	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil,
		`Parameter override as "Display Name=value", repeatable`)
	resolveCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the mapping as JSON")

	rootCmd.AddCommand(formCmd)
	formCmd.AddCommand(formVerifyCmd)
	formCmd.AddCommand(formTrainCmd)

	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaLintCmd)
	schemaLintCmd.Flags().BoolVarP(&watchMode, "watch", "w", false,
		"Keep running and re-lint when a document changes")

	rootCmd.AddCommand(versionCmd)
}
