// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the never2 CLI.
package ux

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// never2 palette - the deep blues, greys and orange of the desktop theme
var (
	ColorBlueBright  = lipgloss.Color("#4A90D9") // Bright blue - highlights
	ColorBluePrimary = lipgloss.Color("#005588") // Primary blue - brand color
	ColorBlueDark    = lipgloss.Color("#003F5C") // Dark blue - borders, selected blocks
	ColorGrey        = lipgloss.Color("#5B5B5B") // Grey - idle borders
	ColorGreyLight   = lipgloss.Color("#9B9B9B") // Light grey - muted text
	ColorOrange      = lipgloss.Color("#DD8800") // Dark orange - attention, edited params

	// Semantic colors
	ColorSuccess = lipgloss.Color("#3FB950") // Green for verified / success
	ColorWarning = lipgloss.Color("#DD8800") // Orange for warnings
	ColorError   = lipgloss.Color("#E74C3C") // Red for errors / falsified
	ColorMuted   = lipgloss.Color("#5B5B5B") // Grey for muted text
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box       lipgloss.Style
	ResultBox lipgloss.Style
	ErrorBox  lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorBlueBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorBluePrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorGreyLight),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorBlueBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlueDark).
		Padding(0, 1),
	ResultBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSuccess).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	if Plain() {
		return string(i)
	}
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// plain == 1 disables styling and animation; set explicitly via the
// --machine flag or implied by a non-tty stdout.
var plain atomic.Int32

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		plain.Store(1)
	}
}

// SetPlain forces plain (machine-readable) output on or off.
func SetPlain(v bool) {
	if v {
		plain.Store(1)
	} else {
		plain.Store(0)
	}
}

// Plain reports whether styling is disabled.
func Plain() bool { return plain.Load() == 1 }

// Successf prints a success line with the themed checkmark.
func Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if Plain() {
		fmt.Println("OK: " + msg)
		return
	}
	fmt.Println(IconSuccess.Render() + " " + msg)
}

// Errorf prints an error line to stderr.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if Plain() {
		fmt.Fprintln(os.Stderr, "ERROR: "+msg)
		return
	}
	fmt.Fprintln(os.Stderr, IconError.Render()+" "+Styles.Error.Render(msg))
}

// Warningf prints a warning line.
func Warningf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if Plain() {
		fmt.Println("WARNING: " + msg)
		return
	}
	fmt.Println(IconWarning.Render() + " " + Styles.Warning.Render(msg))
}

// Infof prints an informational line.
func Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if Plain() {
		fmt.Println(msg)
		return
	}
	fmt.Println(Styles.Subtitle.Render(msg))
}

// Titlef prints a section title.
func Titlef(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if Plain() {
		fmt.Println(msg)
		return
	}
	fmt.Println(Styles.Title.Render(msg))
}
