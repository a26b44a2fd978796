// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed derives fixed-dimension placeholder vectors from text.
//
// The vectors carry no semantic meaning: they exist to populate the
// embedding columns so a real embedding model can be substituted later
// without touching callers. Keep the Text signature stable.
package embed

import (
	"crypto/sha256"
	"encoding/binary"
)

// Dim is the fixed embedding dimension.
const Dim = 1024

// Text maps text to a deterministic Dim-length vector with components in
// [-1, 1]. Empty input yields the zero vector.
func Text(text string) []float64 {
	values := make([]float64, 0, Dim)
	if text == "" {
		return make([]float64, Dim)
	}

	seed := []byte(text)
	var counter uint32
	for len(values) < Dim {
		h := sha256.New()
		h.Write(seed)
		var ctr [4]byte
		binary.LittleEndian.PutUint32(ctr[:], counter)
		h.Write(ctr[:])
		for _, b := range h.Sum(nil) {
			values = append(values, float64(b)/127.5-1.0)
			if len(values) >= Dim {
				break
			}
		}
		counter++
	}
	return values
}
