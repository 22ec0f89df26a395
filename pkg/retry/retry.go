/* Copyright 2025 Catatan Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package retry runs an operation under a bounded attempt policy
package retry

import (
	"context"
	"time"

	"github.com/catatan/catatan/pkg/clock"
	"github.com/pkg/errors"
)

// ErrExhausted is returned when every attempt allowed by a policy failed
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy describes how many times an operation is attempted and how long
// to wait between two attempts.
type Policy struct {
	MaxAttempts int
	// Delay returns the wait after the given failed attempt. Attempts are 1-based.
	Delay func(attempt int) time.Duration
}

// Fixed returns a policy that waits the same duration between attempts
func Fixed(maxAttempts int, d time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Delay: func(int) time.Duration {
			return d
		},
	}
}

// Func is an operation run by Do. attempt is 1-based.
type Func func(ctx context.Context, attempt int) error

// Result describes how a run went
type Result struct {
	Attempts int
	// Err is the error of the last attempt, nil on success
	Err error
}

// Do runs fn sequentially until it succeeds or the policy is exhausted. It sleeps on
// the given clock between attempts but not after the final one. A context
// cancellation stops the loop and is returned as is.
func (p Policy) Do(ctx context.Context, c clock.Clock, fn Func) (Result, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var res Result
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res.Attempts = attempt
		res.Err = fn(ctx, attempt)
		if res.Err == nil {
			return res, nil
		}

		if attempt == maxAttempts {
			break
		}

		var d time.Duration
		if p.Delay != nil {
			d = p.Delay(attempt)
		}
		if d > 0 {
			if err := c.Sleep(ctx, d); err != nil {
				return res, err
			}
		} else if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	return res, errors.Wrapf(ErrExhausted, "after %d attempts: %v", res.Attempts, res.Err)
}

// Poll calls ready, waiting interval between calls, until it reports true or
// it has waited maxWaits times. It reports whether ready ever returned true.
func Poll(ctx context.Context, c clock.Clock, interval time.Duration, maxWaits int, ready func() bool) (bool, error) {
	for i := 0; ; i++ {
		if ready() {
			return true, nil
		}
		if i >= maxWaits {
			return false, nil
		}
		if err := c.Sleep(ctx, interval); err != nil {
			return false, err
		}
	}
}
