// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Lookup sentinels. Callers match them with errors.Is; the wrapped
// message carries the offending name.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// TypeError reports an operator value that does not parse as the
// parameter's declared type.
type TypeError struct {
	Display string
	Type    ParamType
	Raw     string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("parameter %q: value %q is not a valid %s", e.Display, e.Raw, e.Type)
}

// EnumError reports a value outside a parameter's allowed set.
type EnumError struct {
	Display string
	Raw     string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("parameter %q: value %q is not one of [%s]",
		e.Display, e.Raw, strings.Join(e.Allowed, ", "))
}

// MissingError reports a required parameter that has no declared
// default and was not supplied by the operator.
type MissingError struct {
	Display string
	Type    ParamType
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("parameter %q (%s) is required and has no default", e.Display, e.Type)
}

// UnknownParamError reports an override whose display name matches no
// declared parameter.
type UnknownParamError struct {
	Display string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("no such parameter %q", e.Display)
}
