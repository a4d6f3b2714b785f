// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"

	"github.com/nevertools/never2/cmd/never2/config"
	"github.com/nevertools/never2/pkg/engine"
	"github.com/nevertools/never2/pkg/logging"
	"github.com/nevertools/never2/pkg/schema"
)

// parseParamFlags turns repeated --param flags ("Display Name=value")
// into the override map the resolver expects. The display name may
// contain spaces; only the first '=' splits.
func parseParamFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(flags))
	for _, f := range flags {
		key, value, found := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected \"Display Name=value\"", f)
		}
		overrides[key] = strings.TrimSpace(value)
	}
	return overrides, nil
}

// loadLibrary loads the parameter schemas, honoring the schemas.dir
// config override and falling back to the embedded documents.
func loadLibrary() (*schema.Library, error) {
	if dir := config.Global.Schemas.Dir; dir != "" {
		lib, err := schema.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("loading schemas from %s: %w", dir, err)
		}
		return lib, nil
	}
	return schema.Load()
}

// newLogger builds the CLI logger from the loaded configuration.
func newLogger() *logging.Logger {
	return logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		LogDir:  config.Global.Logging.Dir,
		Service: "cli",
	})
}

// newRunner builds the engine runner from the loaded configuration.
func newRunner(log *logging.Logger) (engine.Runner, error) {
	return engine.NewSubprocess(config.Global.Engine.Command, log)
}
