// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inference provides the failover-capable text-generation client:
// a local-first primary provider with an optional cloud fallback.
package inference

import (
	"context"
	"errors"
)

// Request is one synchronous generation call.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
}

// Result is the provider's response.
type Result struct {
	Text     string
	Provider string
	Model    string
}

// Client abstracts a text-generation provider so tests can supply a mock.
type Client interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// ErrBudgetExhausted reports that the configured weekly call ceiling has
// been reached. It is a policy stop, not a provider failure: the failover
// client does not route it to the fallback.
var ErrBudgetExhausted = errors.New("inference call budget exhausted")
