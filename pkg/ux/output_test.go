// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
)

func TestSetPlain(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)

	SetPlain(true)
	if !Plain() {
		t.Error("Plain() = false after SetPlain(true)")
	}
	SetPlain(false)
	if Plain() {
		t.Error("Plain() = true after SetPlain(false)")
	}
}

func TestIconRenderPlain(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)

	// Plain mode must emit the bare rune with no escape sequences.
	SetPlain(true)
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconPending, IconArrow} {
		got := icon.Render()
		if got != string(icon) {
			t.Errorf("Icon(%q).Render() = %q in plain mode", string(icon), got)
		}
		if strings.Contains(got, "\x1b") {
			t.Errorf("Icon(%q).Render() contains escape codes in plain mode", string(icon))
		}
	}
}

func TestSpinnerStartStop(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)
	SetPlain(true)

	// In plain mode Start/Stop are synchronous no-ops after the
	// initial message; double Stop must not panic.
	s := NewSpinner("verifying")
	s.Start()
	s.UpdateMessage("still verifying")
	s.Stop()
	s.Stop()
}
