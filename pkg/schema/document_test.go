// Copyright (C) 2025 the NeVer2 authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "Optimization algorithm": {
    "Adam": {
      "params": {
        "Learning Rate": {"name": "lr", "type": "float", "value": "0.001", "description": "Learning rate."},
        "AMSGrad": {"name": "amsgrad", "type": "bool", "value": "False", "description": "AMSGrad variant."}
      }
    }
  },
  "Parameters": {
    "Epochs": {"name": "n_epochs", "type": "int", "value": "", "description": "Training epochs."},
    "Cuda": {"name": "cuda", "type": "bool", "value": "False", "description": "Use CUDA."}
  }
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.Categories, 2)

	// Declaration order is preserved at every level.
	opt := doc.Categories[0]
	assert.Equal(t, "Optimization algorithm", opt.Name)
	require.Len(t, opt.Strategies, 1)
	adam := opt.Strategies[0]
	require.Len(t, adam.Params, 2)
	assert.Equal(t, "Learning Rate", adam.Params[0].Display)
	assert.Equal(t, "lr", adam.Params[0].Name)
	assert.Equal(t, TypeFloat, adam.Params[0].Type)
	assert.Equal(t, "AMSGrad", adam.Params[1].Display)

	params := doc.Categories[1]
	assert.Equal(t, "Parameters", params.Name)
	assert.Empty(t, params.Strategies)
	require.Len(t, params.Scalars, 2)
	assert.Equal(t, "Epochs", params.Scalars[0].Display)
	assert.False(t, params.Scalars[0].HasDefault())
	assert.Equal(t, "Cuda", params.Scalars[1].Display)
	assert.Equal(t, "False", params.Scalars[1].Default)
}

func TestParseDocumentOptionalFlag(t *testing.T) {
	doc := `{
	  "C": {
	    "S": {
	      "params": {
	        "A": {"name": "a", "type": "int", "value": "", "optional": "true", "description": ""},
	        "B": {"name": "b", "type": "int", "value": "", "optional": true, "description": ""}
	      }
	    }
	  }
	}`
	parsed, err := ParseDocument(strings.NewReader(doc))
	require.NoError(t, err)
	params := parsed.Categories[0].Strategies[0].Params
	assert.True(t, params[0].Optional)
	assert.True(t, params[1].Optional)
}

func TestParseDocumentBareScalars(t *testing.T) {
	// Defaults may appear as bare JSON numbers and booleans.
	doc := `{
	  "C": {
	    "S": {
	      "params": {
	        "N": {"name": "n", "type": "int", "value": 10, "description": ""},
	        "F": {"name": "f", "type": "bool", "value": false, "description": ""}
	      }
	    }
	  }
	}`
	parsed, err := ParseDocument(strings.NewReader(doc))
	require.NoError(t, err)
	params := parsed.Categories[0].Strategies[0].Params
	assert.Equal(t, "10", params[0].Default)
	assert.Equal(t, "False", params[1].Default)
}

func TestParseDocumentRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"unknown type tag",
			`{"C": {"S": {"params": {"A": {"name": "a", "type": "matrix", "value": "1"}}}}}`,
		},
		{
			"missing canonical name",
			`{"C": {"S": {"params": {"A": {"type": "int", "value": "1"}}}}}`,
		},
		{
			"default outside allowed set",
			`{"C": {"S": {"params": {"A": {"name": "a", "type": "str", "value": "x", "allowed": ["y", "z"]}}}}}`,
		},
		{
			"unparseable default",
			`{"C": {"S": {"params": {"A": {"name": "a", "type": "int", "value": "ten"}}}}}`,
		},
		{
			"not json",
			`{"C": `,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
