// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// FailoverClient routes generation to a local-first primary and, on any
// primary failure, to an optional cloud fallback. Without a fallback the
// primary's error propagates unchanged.
//
// MaxCalls, when positive, caps the total Generate calls accepted over the
// client's lifetime (one weekly run constructs one client). The configured
// USD budget is advisory and not enforced here.
type FailoverClient struct {
	Primary  Client
	Fallback Client
	MaxCalls int

	calls atomic.Int64
}

// Generate tries the primary and fails over once. The fallback path is a
// second blocking call, not a cancellation race.
func (c *FailoverClient) Generate(ctx context.Context, req Request) (Result, error) {
	if c.MaxCalls > 0 && c.calls.Add(1) > int64(c.MaxCalls) {
		return Result{}, fmt.Errorf("%w: limit %d", ErrBudgetExhausted, c.MaxCalls)
	}

	res, primaryErr := c.Primary.Generate(ctx, req)
	if primaryErr == nil {
		return res, nil
	}
	if c.Fallback == nil {
		return Result{}, primaryErr
	}

	res, fallbackErr := c.Fallback.Generate(ctx, req)
	if fallbackErr != nil {
		return Result{}, errors.Join(primaryErr, fallbackErr)
	}
	return res, nil
}

// Calls reports how many Generate calls have been accepted so far.
func (c *FailoverClient) Calls() int64 { return c.calls.Load() }
