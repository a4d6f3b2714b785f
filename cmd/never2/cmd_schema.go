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
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nevertools/never2/cmd/never2/config"
	"github.com/nevertools/never2/pkg/schema"
	"github.com/nevertools/never2/pkg/ux"
)

func runSchemaLint(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		if dir := config.Global.Schemas.Dir; dir != "" {
			paths = []string{dir}
		} else {
			// No override configured: check the embedded documents.
			if _, err := schema.Load(); err != nil {
				return err
			}
			ux.Successf("embedded schemas are valid")
			return nil
		}
	}

	if !watchMode {
		if lintPaths(paths) {
			return nil
		}
		return fmt.Errorf("schema lint failed")
	}
	return watchPaths(paths)
}

// lintPaths checks every path and reports per-path outcomes. It returns
// false if any path failed.
func lintPaths(paths []string) bool {
	ok := true
	for _, path := range paths {
		if err := lintPath(path); err != nil {
			ux.Errorf("%s: %v", path, err)
			ok = false
			continue
		}
		ux.Successf("%s", path)
	}
	return ok
}

// lintPath validates one schema document or a directory of them.
// Directories get the full library invariant checks; single files are
// parsed standalone.
func lintPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		_, err := schema.LoadDir(path)
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = schema.ParseDocument(f)
	return err
}

// watchPaths re-lints whenever one of the watched documents changes.
// Directories are watched directly; for files the parent directory is
// watched so editor rename-and-replace saves are still seen.
func watchPaths(paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start the file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		dir := path
		if !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if _, dup := watched[dir]; dup {
			continue
		}
		watched[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lintPaths(paths)
	ux.Infof("watching for changes (ctrl-c to stop)")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			ux.Infof("change detected: %s", event.Name)
			lintPaths(paths)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ux.Warningf("watcher error: %v", err)
		}
	}
}
