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
	"time"

	"github.com/spf13/cobra"

	"github.com/nevertools/never2/pkg/engine"
	"github.com/nevertools/never2/pkg/schema"
	"github.com/nevertools/never2/pkg/ux"
)

// verificationCategory is the schema category every verification
// algorithm lives under.
const verificationCategory = "Verification strategy"

// presetOverrides maps the verification preset tokens to an algorithm
// and its parameter overrides. All presets are SSLP variants; SSBP is
// reached through --algorithm.
func presetOverrides(token string) (string, map[string]string, error) {
	switch token {
	case "complete":
		return "SSLP", map[string]string{"Heuristic": "Complete"}, nil
	case "approximate":
		return "SSLP", map[string]string{"Heuristic": "Approximate"}, nil
	case "mixed1":
		return "SSLP", map[string]string{"Heuristic": "Mixed", "Neurons to refine": "1"}, nil
	case "mixed2":
		return "SSLP", map[string]string{"Heuristic": "Mixed", "Neurons to refine": "2"}, nil
	}
	return "", nil, fmt.Errorf("unknown strategy %q, expected complete, approximate, mixed1 or mixed2", token)
}

func runVerify(cmd *cobra.Command, args []string) error {
	property, network := args[0], args[1]

	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	// The preset decides the algorithm and a base override set unless
	// the operator asked for a specific algorithm.
	var algo string
	var overrides map[string]string
	if algorithm != "" {
		algo = algorithm
		overrides = map[string]string{}
	} else {
		algo, overrides, err = presetOverrides(strategy)
		if err != nil {
			return err
		}
	}

	// --param flags win over the preset values.
	extra, err := parseParamFlags(paramFlags)
	if err != nil {
		return err
	}
	for k, v := range extra {
		overrides[k] = v
	}

	resolved, err := lib.Resolve(verificationCategory, algo, overrides)
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

	// A resolved timeout parameter bounds the whole run (SSBP declares
	// one; SSLP runs unbounded).
	if v, ok := resolved.Get("timeout"); ok {
		if secs, isInt := v.(schema.Int); isInt && secs > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
			defer tcancel()
		}
	}

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

func printVerifyResult(property, network, algo string, result *engine.VerifyResult) {
	if ux.Plain() {
		fmt.Printf("verified=%t algorithm=%s duration=%s\n", result.Verified, algo, result.Duration.Round(time.Millisecond))
		if result.Counterexample != "" {
			fmt.Printf("counterexample=%s\n", result.Counterexample)
		}
		return
	}

	verdict := ux.Styles.Success.Render("VERIFIED")
	if !result.Verified {
		verdict = ux.Styles.Error.Render("FALSIFIED")
	}
	body := fmt.Sprintf("%s\n%s %s\n%s %s\n%s %s",
		verdict,
		ux.Styles.Muted.Render("Property: "), property,
		ux.Styles.Muted.Render("Network:  "), network,
		ux.Styles.Muted.Render("Duration: "), result.Duration.Round(time.Millisecond))
	if result.Counterexample != "" {
		body += fmt.Sprintf("\n%s %s", ux.Styles.Muted.Render("Counterexample:"), result.Counterexample)
	}

	box := ux.Styles.ResultBox
	if !result.Verified {
		box = ux.Styles.ErrorBox
	}
	fmt.Println(box.Render(body))
}
