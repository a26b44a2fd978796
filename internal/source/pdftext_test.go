// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserChain_GarbageInput(t *testing.T) {
	chain := DefaultParserChain()
	assert.Equal(t, "", chain.Extract([]byte("this is not a pdf at all")))
	assert.Equal(t, "", chain.Extract(nil))
}

func TestParserChain_UnknownParsers(t *testing.T) {
	chain := ParserChain{Primary: "nope", Fallback: "also-nope"}
	assert.Equal(t, "", chain.Extract([]byte("%PDF-1.4 truncated")))
}
