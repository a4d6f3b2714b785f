// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Document is one parsed schema file. Categories appear in document
// order; encoding/json maps would lose that, so decoding walks the
// token stream instead.
type Document struct {
	Categories []Category
}

// paramJSON is the wire shape of a single parameter declaration.
type paramJSON struct {
	Name        string          `json:"name"`
	Type        ParamType       `json:"type"`
	Value       json.RawMessage `json:"value"`
	Allowed     []string        `json:"allowed"`
	Description string          `json:"description"`
	Optional    flexBool        `json:"optional"`
}

// flexBool accepts both true and "true"; older schema documents quote
// every scalar.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`, `"True"`:
		*b = true
	case "false", `"false"`, `"False"`, "null":
		*b = false
	default:
		return fmt.Errorf("invalid optional flag %s", data)
	}
	return nil
}

// ParseDocument decodes a schema document, preserving the declaration
// order of categories, strategies and parameters.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	doc := &Document{}

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("schema document: %w", err)
	}
	for dec.More() {
		name, raw, err := nextMember(dec)
		if err != nil {
			return nil, fmt.Errorf("schema document: %w", err)
		}
		cat, err := parseCategory(name, raw)
		if err != nil {
			return nil, err
		}
		doc.Categories = append(doc.Categories, *cat)
	}
	return doc, nil
}

// parseCategory decodes one category object. Members holding a
// "params" object are strategies; members that are themselves
// parameter-shaped are the category's scalar parameters.
func parseCategory(name string, raw json.RawMessage) (*Category, error) {
	cat := &Category{Name: name}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("category %q: %w", name, err)
	}
	for dec.More() {
		member, body, err := nextMember(dec)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}

		var probe map[string]json.RawMessage
		if err := json.Unmarshal(body, &probe); err != nil {
			return nil, fmt.Errorf("category %q: member %q is not an object", name, member)
		}

		if paramsRaw, ok := probe["params"]; ok {
			strat, err := parseStrategy(member, paramsRaw)
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", name, err)
			}
			cat.Strategies = append(cat.Strategies, *strat)
			continue
		}

		p, err := parseParam(member, body)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		cat.Scalars = append(cat.Scalars, *p)
	}
	return cat, nil
}

func parseStrategy(name string, paramsRaw json.RawMessage) (*Strategy, error) {
	strat := &Strategy{Name: name}

	dec := json.NewDecoder(bytes.NewReader(paramsRaw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("strategy %q: %w", name, err)
	}
	for dec.More() {
		display, body, err := nextMember(dec)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", name, err)
		}
		p, err := parseParam(display, body)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", name, err)
		}
		strat.Params = append(strat.Params, *p)
	}
	return strat, nil
}

func parseParam(display string, body json.RawMessage) (*Param, error) {
	var pj paramJSON
	if err := json.Unmarshal(body, &pj); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", display, err)
	}
	if pj.Name == "" {
		return nil, fmt.Errorf("parameter %q: missing canonical name", display)
	}
	if !pj.Type.Valid() {
		return nil, fmt.Errorf("parameter %q: unknown type %q", display, pj.Type)
	}

	def, err := rawScalarString(pj.Value)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", display, err)
	}

	p := &Param{
		Display:     display,
		Name:        pj.Name,
		Type:        pj.Type,
		Default:     def,
		Allowed:     pj.Allowed,
		Optional:    bool(pj.Optional),
		Description: pj.Description,
	}

	// Defaults are validated at load time so a broken document fails
	// startup rather than the first resolution that touches it.
	if p.HasDefault() {
		if p.Enumerated() && !contains(p.Allowed, p.Default) {
			return nil, fmt.Errorf("parameter %q: default %q not in allowed set", display, p.Default)
		}
		if _, err := ParseValue(p.Type, p.Default); err != nil {
			return nil, fmt.Errorf("parameter %q: bad default: %w", display, err)
		}
	}
	return p, nil
}

// rawScalarString normalizes the "value" member to its string
// encoding. Documents usually quote defaults, but bare numbers and
// booleans are accepted too.
func rawScalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	switch string(raw) {
	case "true":
		return "True", nil
	case "false":
		return "False", nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("default value must be a scalar, got %s", raw)
	}
	return n.String(), nil
}

// nextMember reads the next object key and its raw value.
func nextMember(dec *json.Decoder) (string, json.RawMessage, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, fmt.Errorf("expected object key, got %v", tok)
	}
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return "", nil, fmt.Errorf("member %q: %w", key, err)
	}
	return key, raw, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", strconv.QuoteRune(rune(want)), tok)
	}
	return nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
