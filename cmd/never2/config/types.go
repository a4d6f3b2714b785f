// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Never2Config struct {
	// Engine: how to launch the external verification/learning engine
	Engine EngineConfig `yaml:"engine" validate:"required"`

	// Schemas: optional override directory for the parameter schemas
	Schemas SchemaConfig `yaml:"schemas"`

	// Logging: level and optional log file directory
	Logging LoggingConfig `yaml:"logging"`

	// Output: terminal output behavior
	Output OutputConfig `yaml:"output"`
}

type EngineConfig struct {
	// Command is the engine command line, e.g. ["pynever"] or
	// ["python", "-m", "pynever"]
	Command []string `yaml:"command" validate:"required,min=1,dive,required"`
}

type SchemaConfig struct {
	// Dir overrides the schemas embedded in the binary when set
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `yaml:"dir"`
}

type OutputConfig struct {
	// Plain disables styling and animation (same as --machine)
	Plain bool `yaml:"plain"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Never2Config {
	return Never2Config{
		Engine:  EngineConfig{Command: []string{"pynever"}},
		Logging: LoggingConfig{Level: "info", Dir: "~/.never2/logs"},
	}
}

var validate = validator.New()

// Validate checks the loaded configuration against the struct tags and
// rewrites the first failure into an operator-readable message.
func (c *Never2Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config field %s is invalid (%s rule)", fe.Namespace(), fe.Tag())
	}
	return err
}
