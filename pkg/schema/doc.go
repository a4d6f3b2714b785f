// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package schema defines the parameter schemas that drive the never2
// forms and CLI flags, and resolves operator-supplied values against
// them before anything is handed to the verification engine.
//
// Schemas are declarative JSON documents structured as nested mappings:
//
//	Category -> Strategy -> {"params": {Display -> {name, type, value, ...}}}
//
// A category groups user-selectable strategies ("Optimization
// algorithm" holds Adam and SGD, "Verification strategy" holds SSLP and
// SSBP). Scalar parameters that belong to no strategy (Epochs, Cuda)
// appear directly under a category key with the same per-parameter
// shape. Documents are loaded once at startup, either from the embedded
// defaults or from an override directory, and are never mutated.
//
// Every parameter declares a closed type tag (float, int, str, bool,
// tuple, tensor) and values are represented by the tagged Value variant
// rather than raw strings, so the boundary with the engine is typed.
//
// Resolution is a pure function: given a strategy and a set of display
// name -> raw string overrides, Resolve validates each value and
// produces the ordered mapping from canonical parameter name to typed
// value, substituting declared defaults for anything the operator left
// unset. A failed resolution blocks the engine launch; nothing is
// silently recovered.
package schema
