// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

//go:embed resources/json/*.json
var builtin embed.FS

// Library holds every loaded schema document, indexed for lookup.
// It is immutable after Load and safe for concurrent readers.
type Library struct {
	categories []Category
	index      map[string]int
}

// Load builds the library from the schema documents embedded in the
// binary (training.json and verification.json).
func Load() (*Library, error) {
	sub, err := fs.Sub(builtin, "resources/json")
	if err != nil {
		return nil, err
	}
	return loadFS(sub)
}

// LoadDir builds the library from an override directory containing
// *.json schema documents.
func LoadDir(dir string) (*Library, error) {
	return loadFS(os.DirFS(dir))
}

func loadFS(fsys fs.FS) (*Library, error) {
	paths, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema documents found")
	}
	sort.Strings(paths)

	lib := &Library{index: make(map[string]int)}
	for _, path := range paths {
		f, err := fsys.Open(path)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", path, err)
		}
		doc, err := ParseDocument(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", path, err)
		}
		for i := range doc.Categories {
			if err := lib.add(doc.Categories[i]); err != nil {
				return nil, fmt.Errorf("schema %s: %w", path, err)
			}
		}
	}
	return lib, nil
}

func (l *Library) add(cat Category) error {
	if _, dup := l.index[cat.Name]; dup {
		return fmt.Errorf("duplicate category %q", cat.Name)
	}
	if err := checkCategory(&cat); err != nil {
		return err
	}
	l.index[cat.Name] = len(l.categories)
	l.categories = append(l.categories, cat)
	return nil
}

// checkCategory enforces the static invariants: strategy names are
// unique within a category and canonical parameter names are unique
// within a strategy (and within the category scalars).
func checkCategory(cat *Category) error {
	strategies := make(map[string]struct{}, len(cat.Strategies))
	for i := range cat.Strategies {
		s := &cat.Strategies[i]
		if _, dup := strategies[s.Name]; dup {
			return fmt.Errorf("category %q: duplicate strategy %q", cat.Name, s.Name)
		}
		strategies[s.Name] = struct{}{}
		if err := checkParams(cat.Name+"/"+s.Name, s.Params); err != nil {
			return err
		}
	}
	return checkParams(cat.Name, cat.Scalars)
}

func checkParams(scope string, params []Param) error {
	names := make(map[string]struct{}, len(params))
	for i := range params {
		name := params[i].Name
		if _, dup := names[name]; dup {
			return fmt.Errorf("%s: duplicate canonical name %q", scope, name)
		}
		names[name] = struct{}{}
	}
	return nil
}

// Categories returns all categories in load order.
func (l *Library) Categories() []Category {
	return l.categories
}

// Category returns the named category or ErrUnknownCategory.
func (l *Library) Category(name string) (*Category, error) {
	i, ok := l.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return &l.categories[i], nil
}

// Strategy returns the named strategy within a category, or
// ErrUnknownCategory/ErrUnknownStrategy.
func (l *Library) Strategy(category, strategy string) (*Strategy, error) {
	cat, err := l.Category(category)
	if err != nil {
		return nil, err
	}
	s, ok := cat.Strategy(strategy)
	if !ok {
		return nil, fmt.Errorf("%w: %q in category %q", ErrUnknownStrategy, strategy, category)
	}
	return s, nil
}
