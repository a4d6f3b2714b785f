// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nevertools/never2/pkg/schema"
	"github.com/nevertools/never2/pkg/ux"
)

func runStrategiesList(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	for _, cat := range lib.Categories() {
		ux.Titlef("%s", cat.Name)
		for _, name := range cat.StrategyNames() {
			if ux.Plain() {
				fmt.Printf("  %s\n", name)
			} else {
				fmt.Printf("  %s %s\n", ux.IconBullet.Render(), name)
			}
		}
		if len(cat.Scalars) > 0 {
			if ux.Plain() {
				fmt.Printf("  (%d direct parameters)\n", len(cat.Scalars))
			} else {
				fmt.Printf("  %s\n", ux.Styles.Muted.Render(
					fmt.Sprintf("(%d direct parameters)", len(cat.Scalars))))
			}
		}
	}
	return nil
}

func runStrategiesShow(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	s, err := lib.Strategy(args[0], args[1])
	if err != nil {
		return err
	}

	ux.Titlef("%s / %s", args[0], s.Name)
	printParamTable(s.Params)
	return nil
}

// printParamTable renders a parameter schema as an aligned table.
func printParamTable(params []schema.Param) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tNAME\tTYPE\tDEFAULT\tALLOWED\tDESCRIPTION")
	for i := range params {
		p := &params[i]
		def := p.Default
		if def == "" {
			if p.Optional {
				def = "(optional)"
			} else {
				def = "(required)"
			}
		}
		allowed := strings.Join(p.Allowed, ", ")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Display, p.Name, p.Type, def, allowed, p.Description)
	}
	w.Flush()
}

// resolveTarget resolves a strategy, or a category's scalar parameters
// when no strategy is named.
func resolveTarget(lib *schema.Library, args []string, overrides map[string]string) (*schema.Resolved, error) {
	if len(args) == 1 {
		return lib.ResolveScalars(args[0], overrides)
	}
	return lib.Resolve(args[0], args[1], overrides)
}

func runResolve(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	overrides, err := parseParamFlags(paramFlags)
	if err != nil {
		return err
	}
	resolved, err := resolveTarget(lib, args, overrides)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.Marshal(resolved)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, p := range resolved.Params() {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Value.String())
	}
	return w.Flush()
}
