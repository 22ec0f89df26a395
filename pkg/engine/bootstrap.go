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

package engine

import (
	"context"

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/retry"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

var errStoreNotReady = errors.New("store is not ready")

// Bootstrap waits for the store to become available and synchronizes the
// mirror. It runs once per engine; later calls return the first outcome.
// ErrDegraded means the engine is usable but the mirror may be empty.
func (e *Engine) Bootstrap(ctx context.Context) error {
	e.bootOnce.Do(func() {
		e.bootErr = e.bootstrap(ctx)
	})

	return e.bootErr
}

func (e *Engine) bootstrap(ctx context.Context) error {
	e.setState(StateConnecting)

	ok, err := retry.Poll(ctx, e.clock, e.pollInterval, e.pollMaxWaits, e.store.Available)
	if err != nil {
		e.finish(StateDegradedEmpty, true, 0)
		return errors.Wrap(err, "waiting for the store")
	}
	if !ok {
		log.WithFields(log.Fields{
			"waits": e.pollMaxWaits,
		}).Warn("store unavailable, running without data")

		e.finish(StateDegradedEmpty, true, 0)
		return errors.Wrap(ErrDegraded, "store unavailable")
	}

	return e.sync(ctx)
}

// Refresh runs the synchronization loop again. ErrDegraded means every
// attempt failed and the previous mirror was kept.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.sync(ctx)
}

func (e *Engine) sync(ctx context.Context) error {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	res, err := e.policy.Do(ctx, e.clock, func(ctx context.Context, attempt int) error {
		if attempt > 1 {
			e.setState(StateRetrying)
		}
		// every attempt probes the store again
		if r, ok := e.store.(store.Resetter); ok {
			r.Reset()
		}

		log.WithFields(log.Fields{
			"attempt": attempt,
		}).Debug("synchronizing")

		err := e.attempt(ctx)
		if err != nil {
			log.WithFields(log.Fields{
				"attempt": attempt,
				"error":   err.Error(),
			}).Warn("synchronization attempt failed")
		}

		return err
	})

	if err == nil {
		e.finish(StateReady, false, res.Attempts)
		return nil
	}

	e.finish(StateReady, true, res.Attempts)
	if errors.Cause(err) == retry.ErrExhausted {
		log.WithFields(log.Fields{
			"attempts": res.Attempts,
		}).Warn("synchronization degraded")

		return errors.Wrap(ErrDegraded, err.Error())
	}

	return errors.Wrap(err, "synchronizing")
}

func (e *Engine) attempt(ctx context.Context) error {
	if !e.store.CheckConnection(ctx) {
		return errStoreNotReady
	}

	return e.load(ctx)
}

func (e *Engine) finish(s State, degraded bool, attempts int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.State = s
	e.status.Degraded = degraded
	e.status.Initialized = true
	e.status.Attempts = attempts
	if !degraded {
		e.status.LastSync = e.clock.Now()
	}
}
