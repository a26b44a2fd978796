// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_Deterministic(t *testing.T) {
	a := Text("attention is all you need")
	b := Text("attention is all you need")
	require.Len(t, a, Dim)
	assert.Equal(t, a, b)
}

func TestText_Range(t *testing.T) {
	for _, v := range Text("bounded components") {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestText_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, Text("alpha"), Text("beta"))
}

func TestText_Empty(t *testing.T) {
	v := Text("")
	require.Len(t, v, Dim)
	for _, x := range v {
		assert.Zero(t, x)
	}
}
